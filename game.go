package main

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"arena-server/physics"
)

// Broadcaster is the client-facing send interface
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// entityKind distinguishes what a physics entity id refers to
type entityKind int

const (
	entPlayer entityKind = iota
	entProjectile
	entDebris
	entPickup
)

// entityRef maps a physics entity id back to the owning game object
type entityRef struct {
	kind entityKind
	id   string // key into the corresponding collection
}

// Game holds the state for one game session. All collidable objects are
// registered in the broad-phase grid under a session-local integer entity
// id; the grid is cleared and repopulated every tick, statics included,
// since Reset discards static shapes along with dynamic state.
type Game struct {
	mu          sync.RWMutex
	players     map[string]*Player
	projectiles map[string]*Projectile
	pickups     map[string]*Pickup
	debris      map[string]*DebrisCluster
	clients     map[string]Broadcaster // playerID -> client

	grid     *physics.SpatialGrid
	entities map[int]entityRef
	nextEID  int

	analytics *Analytics // optional
	sessionID string

	tick     uint64
	running  bool
	stop     chan struct{}
	nextShip int
	pickupT  float64
}

// NewGame creates a new Game with a generated debris field
func NewGame() *Game {
	grid, err := physics.NewSpatialGrid(WorldSize, CellSize)
	if err != nil {
		// WorldSize/CellSize are compile-time constants; reaching this is a
		// build misconfiguration, not a runtime condition
		panic("game: " + err.Error())
	}

	g := &Game{
		players:     make(map[string]*Player),
		projectiles: make(map[string]*Projectile),
		pickups:     make(map[string]*Pickup),
		debris:      make(map[string]*DebrisCluster),
		clients:     make(map[string]Broadcaster),
		grid:        grid,
		entities:    make(map[int]entityRef),
		stop:        make(chan struct{}),
	}

	for i := 0; i < DebrisFieldCount; i++ {
		d := NewDebrisCluster(0)
		d.EID = g.allocEntity(entDebris, d.ID)
		g.debris[d.ID] = d
	}
	return g
}

// SetTelemetry attaches the analytics sink for this session
func (g *Game) SetTelemetry(a *Analytics, sessionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.analytics = a
	g.sessionID = sessionID
}

// allocEntity registers a game object under a fresh physics entity id.
// Caller must hold g.mu.
func (g *Game) allocEntity(kind entityKind, id string) int {
	g.nextEID++
	g.entities[g.nextEID] = entityRef{kind: kind, id: id}
	return g.nextEID
}

// freeEntity releases a physics entity id. Caller must hold g.mu.
func (g *Game) freeEntity(eid int) {
	delete(g.entities, eid)
}

// Run starts the game loop
func (g *Game) Run() {
	g.mu.Lock()
	g.running = true
	g.mu.Unlock()

	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.update()
		case <-g.stop:
			return
		}
	}
}

// Stop terminates the game loop
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		g.running = false
		close(g.stop)
	}
}

// AddPlayer adds a new player to the game
func (g *Game) AddPlayer(name string) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.players) >= maxPlayersPerSession {
		return nil
	}

	id := GenerateID(4)
	class := ShipClass(g.nextShip % len(ShipClasses))
	g.nextShip++
	eid := g.allocEntity(entPlayer, id)
	player := NewPlayer(id, name, class, eid)
	g.players[id] = player
	return player
}

// RemovePlayer removes a player from the game
func (g *Game) RemovePlayer(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.players[id]; ok {
		g.freeEntity(p.EID)
	}
	delete(g.players, id)
	delete(g.clients, id)
}

// SetClient associates a broadcaster with a player
func (g *Game) SetClient(playerID string, client Broadcaster) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clients[playerID] = client
}

// HandleInput processes input from a player
func (g *Game) HandleInput(playerID string, input ClientInput) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[playerID]
	if !ok {
		return
	}
	// Only update target rotation when target is far enough from ship
	// to produce a stable angle (avoids flickering when idle on mobile)
	dx := input.MX - p.X
	dy := input.MY - p.Y
	if dx*dx+dy*dy > 25 { // > 5px distance
		p.TargetR = math.Atan2(dy, dx)
	}
	p.Firing = input.Fire
	p.Boosting = input.Boost
	p.TargetX = input.MX
	p.TargetY = input.MY
	p.SlowThresh = Clamp(input.Thresh, 50, 400)
}

// GetPlayer returns a player by id, or nil
func (g *Game) GetPlayer(id string) *Player {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.players[id]
}

// PlayerCount returns the number of players
func (g *Game) PlayerCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.players)
}

// update runs one game tick
func (g *Game) update() {
	g.mu.Lock()
	defer g.mu.Unlock()

	dt := 1.0 / float64(TickRate)
	g.tick++

	// Update players
	for _, p := range g.players {
		p.Update(dt)

		// Handle firing
		if p.CanFire() && len(g.projectiles) < maxProjectilesPerSession {
			proj := NewProjectile(p, 0)
			proj.EID = g.allocEntity(entProjectile, proj.ID)
			g.projectiles[proj.ID] = proj
			p.FireCD = GetClassDef(p.Class).FireCD
		}
	}

	// Update projectiles
	for id, proj := range g.projectiles {
		proj.Update(dt)
		if !proj.Alive {
			g.freeEntity(proj.EID)
			delete(g.projectiles, id)
		}
	}

	// Expire pickups
	for id, pk := range g.pickups {
		pk.Update(dt)
		if !pk.Alive {
			g.freeEntity(pk.EID)
			delete(g.pickups, id)
		}
	}

	// Broad phase: clear and repopulate the grid, then collect overlaps
	g.rebuildGrid()
	g.resolveOverlaps(g.grid.QueryOverlaps())

	// Spawn pickups into clear space, checked against this tick's grid
	g.pickupT += dt
	if g.pickupT >= PickupInterval {
		g.pickupT = 0
		g.spawnPickup()
	}

	// Broadcast state
	if g.tick%BroadcastEvery == 0 {
		g.updateRadar()
		g.broadcastState()
	}
}

// rebuildGrid repopulates the grid from scratch. Statics (debris, pickups)
// are re-inserted every tick because Reset discards them together with the
// dynamic registry.
func (g *Game) rebuildGrid() {
	g.grid.Reset()

	for _, d := range g.debris {
		g.grid.AddStaticBatch(d.EID, d.Circles, DebrisCircleRadius)
	}
	for _, pk := range g.pickups {
		if pk.Alive {
			g.grid.AddStatic(pk.EID, physics.Point{X: pk.X, Y: pk.Y}, PickupRadius)
		}
	}
	for _, p := range g.players {
		if p.Alive {
			g.grid.AddDynamicBatch(p.EID, p.Hull(), GetClassDef(p.Class).HullRadius)
		}
	}
	for _, proj := range g.projectiles {
		if proj.Alive {
			g.grid.AddDynamic(proj.EID, physics.Point{X: proj.X, Y: proj.Y}, ProjectileRadius)
		}
	}
}

// resolveOverlaps applies gameplay effects for every broad-phase overlap.
// Overlaps are directional: a dynamic-dynamic contact appears once from
// each side, so projectile hits are resolved only from the projectile's
// perspective while ram damage uses the ship's own side of the pair.
func (g *Game) resolveOverlaps(overlaps map[physics.Overlap]struct{}) {
	for o := range overlaps {
		self, ok := g.entities[o.SelfEntity]
		if !ok {
			continue
		}
		other, ok := g.entities[o.OtherEntity]
		if !ok {
			continue
		}

		switch self.kind {
		case entProjectile:
			g.resolveProjectileHit(self.id, other)
		case entPlayer:
			g.resolvePlayerContact(self.id, other, o.OtherShape)
		}
	}
}

func (g *Game) resolveProjectileHit(projID string, other entityRef) {
	proj, ok := g.projectiles[projID]
	if !ok || !proj.Alive {
		return
	}

	switch other.kind {
	case entPlayer:
		target, ok := g.players[other.id]
		if !ok || !target.Alive || target.ID == proj.OwnerID {
			return
		}
		died := target.TakeDamage(proj.Damage)
		proj.Alive = false
		if died {
			g.creditKill(proj.OwnerID, target, "laser")
		}
	case entDebris:
		proj.Alive = false
	}
}

func (g *Game) resolvePlayerContact(playerID string, other entityRef, otherShape int) {
	p, ok := g.players[playerID]
	if !ok || !p.Alive {
		return
	}

	switch other.kind {
	case entPlayer:
		// Ram: both directions of the pair are present, each side damages
		// itself, so the total is symmetric
		o, ok := g.players[other.id]
		if !ok || !o.Alive {
			return
		}
		p.Rams++
		if p.TakeDamage(RamDamagePerTick) {
			g.creditKill(o.ID, p, "ram")
			g.track(EvtPlayerRam, p.AuthID)
		}

	case entDebris:
		d, ok := g.debris[other.id]
		if !ok || otherShape >= len(d.Circles) {
			return
		}
		// Push away from the specific rock circle the hull hit
		rock := d.Circles[otherShape]
		dx := p.X - rock.X
		dy := p.Y - rock.Y
		if dist := math.Sqrt(dx*dx + dy*dy); dist > 0 {
			p.VX += dx / dist * DebrisPushback
			p.VY += dy / dist * DebrisPushback
		}
		if p.TakeDamage(DebrisDamagePerTick) {
			g.announceDeath(p, nil, "debris")
			g.track(EvtDebrisDeath, p.AuthID)
		}

	case entPickup:
		pk, ok := g.pickups[other.id]
		if !ok || !pk.Alive {
			return
		}
		pk.Alive = false
		p.Heal(PickupHeal)
		p.Pickups++
		g.track(EvtPickup, p.AuthID)
	}
}

// creditKill awards a kill to the shooter and notifies the session
func (g *Game) creditKill(killerID string, victim *Player, cause string) {
	killer, ok := g.players[killerID]
	if !ok {
		g.announceDeath(victim, nil, cause)
		return
	}
	killer.Score++
	killer.Kills++
	g.track(EvtPlayerKill, killer.AuthID)
	g.announceDeath(victim, killer, cause)
}

// announceDeath broadcasts the kill and notifies the victim. killer may be
// nil for environmental deaths.
func (g *Game) announceDeath(victim *Player, killer *Player, cause string) {
	msg := KillMsg{VictimID: victim.ID, VictimName: victim.Name, Cause: cause}
	death := DeathMsg{Cause: cause}
	if killer != nil {
		msg.KillerID = killer.ID
		msg.KillerName = killer.Name
		death.KillerID = killer.ID
		death.KillerName = killer.Name
	}
	g.broadcastMsg(Envelope{T: MsgKill, Data: msg})
	if client, ok := g.clients[victim.ID]; ok {
		client.SendJSON(Envelope{T: MsgDeath, Data: death})
	}
	g.track(EvtPlayerDeath, victim.AuthID)
}

// spawnPickup places a pickup in clear space. QueryArea is conservative
// (cell membership, not exact containment), which errs toward rejecting
// spawn points — exactly what a clear-area check wants.
func (g *Game) spawnPickup() {
	if len(g.pickups) >= MaxPickups {
		return
	}
	for attempt := 0; attempt < 5; attempt++ {
		x := 100 + rand.Float64()*(WorldSize-200)
		y := 100 + rand.Float64()*(WorldSize-200)
		if len(g.grid.QueryArea(physics.Point{X: x, Y: y}, PickupRadius*4)) > 0 {
			continue
		}
		pk := NewPickup(x, y, 0)
		pk.EID = g.allocEntity(entPickup, pk.ID)
		g.pickups[pk.ID] = pk
		return
	}
}

// updateRadar refreshes each ship's broad-phase contact count
func (g *Game) updateRadar() {
	for _, p := range g.players {
		if !p.Alive {
			p.Radar = 0
			continue
		}
		near := g.grid.QueryArea(physics.Point{X: p.X, Y: p.Y}, RadarRadius)
		delete(near, p.EID)
		p.Radar = len(near)
	}
}

// track forwards an event to analytics when a sink is attached
func (g *Game) track(evtType string, playerID int64) {
	if g.analytics != nil {
		g.analytics.Track(evtType, playerID, g.sessionID, "")
	}
}

// broadcastState sends the current game state to all clients as a
// msgpack-encoded binary frame
func (g *Game) broadcastState() {
	state := GameState{
		Players:     make([]PlayerState, 0, len(g.players)),
		Projectiles: make([]ProjectileState, 0, len(g.projectiles)),
		Debris:      make([]DebrisState, 0, len(g.debris)),
		Pickups:     make([]PickupState, 0, len(g.pickups)),
		Tick:        g.tick,
	}

	for _, p := range g.players {
		state.Players = append(state.Players, p.ToState())
	}
	for _, proj := range g.projectiles {
		state.Projectiles = append(state.Projectiles, proj.ToState())
	}
	for _, d := range g.debris {
		state.Debris = append(state.Debris, d.ToState())
	}
	for _, pk := range g.pickups {
		state.Pickups = append(state.Pickups, pk.ToState())
	}

	data, err := msgpack.Marshal(state)
	if err != nil {
		return
	}

	for _, client := range g.clients {
		client.SendBinary(data)
	}
}

// broadcastMsg sends a JSON message to all clients in the session
func (g *Game) broadcastMsg(msg Envelope) {
	for _, client := range g.clients {
		client.SendJSON(msg)
	}
}
