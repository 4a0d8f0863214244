package main

import (
	"sync"
	"time"
)

const maxSessions = 100

// SessionIdleTimeout is how long an empty session lingers before it is
// torn down. Variable so tests can shorten it.
var SessionIdleTimeout = 30 * time.Second

// Session represents a game session that players can join
type Session struct {
	ID   string
	Name string
	Game *Game
}

// SessionManager handles creation and lookup of sessions
type SessionManager struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	analytics *Analytics // optional, attached to each created game
}

// NewSessionManager creates a new SessionManager
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
	}
}

// SetAnalytics attaches the analytics sink used for sessions created from
// here on
func (sm *SessionManager) SetAnalytics(a *Analytics) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.analytics = a
}

// CreateSession creates a new game session. Returns nil if limit reached.
func (sm *SessionManager) CreateSession(name string) *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.sessions) >= maxSessions {
		return nil
	}

	id := GenerateUUID()
	game := NewGame()
	if sm.analytics != nil {
		game.SetTelemetry(sm.analytics, id)
		sm.analytics.Track(EvtSessionStart, 0, id, "")
		sm.analytics.SetActiveSessions(len(sm.sessions) + 1)
	}
	sess := &Session{
		ID:   id,
		Name: name,
		Game: game,
	}
	sm.sessions[id] = sess
	go game.Run()
	return sess
}

// GetSession returns a session by ID
func (sm *SessionManager) GetSession(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// RemovePlayer removes a player from a session and schedules teardown of
// sessions left empty
func (sm *SessionManager) RemovePlayer(sessionID, playerID string) {
	sm.mu.RLock()
	sess, ok := sm.sessions[sessionID]
	sm.mu.RUnlock()
	if !ok {
		return
	}
	sess.Game.RemovePlayer(playerID)

	if sess.Game.PlayerCount() == 0 {
		time.AfterFunc(SessionIdleTimeout, func() {
			sm.reapIfEmpty(sessionID)
		})
	}
}

// reapIfEmpty tears down a session that is still empty
func (sm *SessionManager) reapIfEmpty(sessionID string) {
	sm.mu.Lock()
	sess, ok := sm.sessions[sessionID]
	if !ok || sess.Game.PlayerCount() > 0 {
		sm.mu.Unlock()
		return
	}
	delete(sm.sessions, sessionID)
	remaining := len(sm.sessions)
	sm.mu.Unlock()

	sess.Game.Stop()
	if sm.analytics != nil {
		sm.analytics.Track(EvtSessionEnd, 0, sessionID, "")
		sm.analytics.SetActiveSessions(remaining)
	}
}

// ListSessions returns info about all active sessions
func (sm *SessionManager) ListSessions() []SessionInfo {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	list := make([]SessionInfo, 0, len(sm.sessions))
	for _, sess := range sm.sessions {
		list = append(list, SessionInfo{
			ID:      sess.ID,
			Name:    sess.Name,
			Players: sess.Game.PlayerCount(),
		})
	}
	return list
}
