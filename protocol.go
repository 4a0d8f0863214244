package main

import "encoding/json"

// Client -> Server message types
const (
	MsgJoin     = "join"
	MsgLeave    = "leave"
	MsgInput    = "input"
	MsgCreate   = "create"   // create session
	MsgList     = "list"     // list sessions
	MsgCheck    = "check"    // check if session exists
	MsgLogin    = "login"    // account login
	MsgRegister = "register" // account registration
	MsgGuest    = "guest"    // guest login
)

// Server -> Client message types
const (
	MsgState    = "state"
	MsgWelcome  = "welcome"
	MsgDeath    = "death"
	MsgKill     = "kill"
	MsgSessions = "sessions"
	MsgJoined   = "joined"
	MsgCreated  = "created" // session created, client should navigate
	MsgError    = "error"
	MsgChecked  = "checked" // session check response
	MsgAuthOK   = "auth_ok" // login/register/guest succeeded
)

// Envelope wraps all outgoing JSON messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages — json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// ClientInput is sent by the client at 20Hz
type ClientInput struct {
	MX     float64 `json:"mx"`     // pointer X (world coords)
	MY     float64 `json:"my"`     // pointer Y (world coords)
	Fire   bool    `json:"fire"`   // fire key held
	Boost  bool    `json:"boost"`  // boost key held
	Thresh float64 `json:"thresh"` // distance threshold for speed modulation
}

// JoinMsg is sent when a player wants to join a session
type JoinMsg struct {
	Name      string `json:"name"`
	SessionID string `json:"sid"`
	Token     string `json:"tok,omitempty"` // optional auth token
}

// CreateMsg is sent when a player wants to create a session
type CreateMsg struct {
	Name        string `json:"name"`
	SessionName string `json:"sname"`
}

// LoginMsg carries account credentials
type LoginMsg struct {
	Username string `json:"u"`
	Password string `json:"p"`
}

// AuthOKMsg is the response to login/register/guest
type AuthOKMsg struct {
	PlayerID int64  `json:"pid"`
	Username string `json:"usr"`
	Token    string `json:"tok,omitempty"` // empty for guests
}

// PlayerState is broadcast per player each tick
type PlayerState struct {
	ID    string  `json:"id" msgpack:"id"`
	Name  string  `json:"n" msgpack:"n"`
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
	R     float64 `json:"r" msgpack:"r"` // rotation radians
	VX    float64 `json:"vx" msgpack:"vx"`
	VY    float64 `json:"vy" msgpack:"vy"`
	HP    int     `json:"hp" msgpack:"hp"`
	MaxHP int     `json:"mhp" msgpack:"mhp"`
	Ship  int     `json:"s" msgpack:"s"` // ship class 0-3
	Score int     `json:"sc" msgpack:"sc"`
	Alive bool    `json:"a" msgpack:"a"`
	Boost bool    `json:"b,omitempty" msgpack:"b"`
	Radar int     `json:"rd,omitempty" msgpack:"rd"` // nearby broad-phase contacts
}

// ProjectileState is broadcast per projectile
type ProjectileState struct {
	ID    string  `json:"id" msgpack:"id"`
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
	R     float64 `json:"r" msgpack:"r"`
	Owner string  `json:"o" msgpack:"o"`
}

// RockState is one circle of a debris cluster
type RockState struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// DebrisState is broadcast per debris cluster
type DebrisState struct {
	ID      string      `json:"id" msgpack:"id"`
	R       float64     `json:"r" msgpack:"r"` // shared circle radius
	Circles []RockState `json:"c" msgpack:"c"`
}

// PickupState is broadcast per pickup
type PickupState struct {
	ID string  `json:"id" msgpack:"id"`
	X  float64 `json:"x" msgpack:"x"`
	Y  float64 `json:"y" msgpack:"y"`
}

// GameState is the full state broadcast, msgpack-encoded as a binary frame
type GameState struct {
	Players     []PlayerState     `json:"p" msgpack:"p"`
	Projectiles []ProjectileState `json:"pr" msgpack:"pr"`
	Debris      []DebrisState     `json:"d" msgpack:"d"`
	Pickups     []PickupState     `json:"pk" msgpack:"pk"`
	Tick        uint64            `json:"tick" msgpack:"tick"`
}

// WelcomeMsg is sent to a player when they join
type WelcomeMsg struct {
	ID   string `json:"id"`
	Ship int    `json:"s"`
}

// DeathMsg notifies a player they died
type DeathMsg struct {
	KillerID   string `json:"kid"`
	KillerName string `json:"kn"`
	Cause      string `json:"c"` // "laser", "ram" or "debris"
}

// KillMsg is broadcast to all players in session
type KillMsg struct {
	KillerID   string `json:"kid"`
	KillerName string `json:"kn"`
	VictimID   string `json:"vid"`
	VictimName string `json:"vn"`
	Cause      string `json:"c"`
}

// SessionInfo is used in the session list
type SessionInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Players int    `json:"players"`
}

// ErrorMsg sends an error to the client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// CheckMsg is sent by the client to check if a session exists
type CheckMsg struct {
	SID string `json:"sid"`
}

// CheckedMsg is the response to a session check
type CheckedMsg struct {
	SID     string `json:"sid"`
	Exists  bool   `json:"exists"`
	Name    string `json:"name,omitempty"`
	Players int    `json:"players,omitempty"`
}
