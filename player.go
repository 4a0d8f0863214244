package main

import (
	"math"
	"math/rand"
	"time"

	"arena-server/physics"
)

const (
	PlayerFriction = 0.97 // velocity multiplier per tick
	RespawnTime    = 3.0  // seconds before respawn
)

// Player represents a player's ship in a session
type Player struct {
	ID         string
	EID        int // physics entity id within the session
	Name       string
	X, Y       float64
	VX, VY     float64
	Rotation   float64
	HP         int
	MaxHP      int
	Class      ShipClass
	Score      int
	Kills      int
	Deaths     int
	Rams       int
	Pickups    int
	Alive      bool
	FireCD     float64 // fire cooldown remaining
	RespawnT   float64 // respawn timer remaining
	TargetR    float64 // target rotation (toward pointer)
	Firing     bool
	Boosting   bool
	TargetX    float64
	TargetY    float64
	SlowThresh float64 // distance threshold for speed modulation
	Radar      int     // broad-phase contacts near the ship, last broadcast

	AuthID   int64 // database player id, 0 for guests
	JoinedAt time.Time
}

// NewPlayer creates a new player at a random position
func NewPlayer(id, name string, class ShipClass, eid int) *Player {
	def := GetClassDef(class)
	return &Player{
		ID:       id,
		EID:      eid,
		Name:     name,
		X:        WorldSize/4 + rand.Float64()*WorldSize/2,
		Y:        WorldSize/4 + rand.Float64()*WorldSize/2,
		HP:       def.MaxHP,
		MaxHP:    def.MaxHP,
		Class:    class,
		Alive:    true,
		JoinedAt: time.Now(),
	}
}

// Hull returns the ship's current world-space hull circle centers.
// The slice order matches the shape indices the grid reports.
func (p *Player) Hull() []physics.Point {
	return HullAt(p.Class, p.X, p.Y, p.Rotation)
}

// Update moves the player one tick (dt in seconds)
func (p *Player) Update(dt float64) {
	def := GetClassDef(p.Class)

	if !p.Alive {
		p.RespawnT -= dt
		if p.RespawnT <= 0 {
			p.Respawn()
		}
		return
	}

	// Rotate toward target
	diff := NormalizeAngle(p.TargetR - p.Rotation)
	maxTurn := def.TurnSpeed * dt
	if diff > maxTurn {
		diff = maxTurn
	} else if diff < -maxTurn {
		diff = -maxTurn
	}
	p.Rotation += diff

	// Accelerate in facing direction
	accel := def.Accel * dt
	if p.Boosting {
		accel *= def.BoostMul
	}

	// Distance-based speed modulation: slow down as pointer approaches ship
	dist := math.Sqrt((p.TargetX-p.X)*(p.TargetX-p.X) + (p.TargetY-p.Y)*(p.TargetY-p.Y))
	thresh := p.SlowThresh
	if thresh < 20 {
		thresh = 20
	}
	const deadZone = 50.0
	var speedFactor float64 = 1.0
	if dist <= deadZone {
		accel = 0
		speedFactor = 0
	} else if dist < thresh {
		speedFactor = (dist - deadZone) / (thresh - deadZone)
		accel *= speedFactor
	}

	p.VX += math.Cos(p.Rotation) * accel
	p.VY += math.Sin(p.Rotation) * accel

	// Apply friction — use heavy braking when pointer is near the ship
	// so the ship actually stops instead of coasting forever
	friction := PlayerFriction
	if speedFactor < 1.0 {
		friction = 0.95 + speedFactor*(PlayerFriction-0.95)
	}
	p.VX *= friction
	p.VY *= friction

	// Clamp speed
	maxSpd := def.MaxSpeed
	if p.Boosting {
		maxSpd *= def.BoostMul
	}
	speed := math.Sqrt(p.VX*p.VX + p.VY*p.VY)
	if speed > maxSpd {
		scale := maxSpd / speed
		p.VX *= scale
		p.VY *= scale
	}

	// Move
	p.X += p.VX * dt
	p.Y += p.VY * dt

	// Wrap around world edges
	if p.X < 0 {
		p.X += WorldSize
	} else if p.X > WorldSize {
		p.X -= WorldSize
	}
	if p.Y < 0 {
		p.Y += WorldSize
	} else if p.Y > WorldSize {
		p.Y -= WorldSize
	}

	// Cooldown
	if p.FireCD > 0 {
		p.FireCD -= dt
	}
}

// Respawn resets the player after death
func (p *Player) Respawn() {
	p.X = WorldSize/4 + rand.Float64()*WorldSize/2
	p.Y = WorldSize/4 + rand.Float64()*WorldSize/2
	p.VX = 0
	p.VY = 0
	p.HP = p.MaxHP
	p.Alive = true
	p.FireCD = 0
	p.RespawnT = 0
}

// TakeDamage reduces HP and returns true if the player died
func (p *Player) TakeDamage(dmg int) bool {
	if !p.Alive {
		return false
	}
	p.HP -= dmg
	if p.HP <= 0 {
		p.HP = 0
		p.Alive = false
		p.Deaths++
		p.RespawnT = RespawnTime
		return true
	}
	return false
}

// CanFire returns true if the player can fire a projectile
func (p *Player) CanFire() bool {
	return p.Alive && p.Firing && p.FireCD <= 0
}

// Heal restores HP up to the class maximum
func (p *Player) Heal(amount int) {
	if !p.Alive {
		return
	}
	p.HP += amount
	if p.HP > p.MaxHP {
		p.HP = p.MaxHP
	}
}

// ToState converts to protocol state
func (p *Player) ToState() PlayerState {
	return PlayerState{
		ID:    p.ID,
		Name:  p.Name,
		X:     round1(p.X),
		Y:     round1(p.Y),
		R:     round1(p.Rotation),
		VX:    round1(p.VX),
		VY:    round1(p.VY),
		HP:    p.HP,
		MaxHP: p.MaxHP,
		Ship:  int(p.Class),
		Score: p.Score,
		Alive: p.Alive,
		Boost: p.Boosting,
		Radar: p.Radar,
	}
}
