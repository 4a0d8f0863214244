package main

import "math"

const (
	ProjectileLifetime = 2.0 // seconds
	ProjectileRadius   = 4.0
	ProjectileOffset   = 30.0 // spawn distance from ship center
)

// Projectile represents a laser projectile
type Projectile struct {
	ID       string
	EID      int // physics entity id within the session
	OwnerID  string
	X, Y     float64
	VX, VY   float64
	Rotation float64
	Life     float64
	Damage   int
	Alive    bool
}

// NewProjectile creates a projectile from a player's position and facing direction
func NewProjectile(owner *Player, eid int) *Projectile {
	def := GetClassDef(owner.Class)
	vx := math.Cos(owner.Rotation) * def.ProjSpeed
	vy := math.Sin(owner.Rotation) * def.ProjSpeed
	return &Projectile{
		ID:       GenerateID(3),
		EID:      eid,
		OwnerID:  owner.ID,
		X:        owner.X + math.Cos(owner.Rotation)*ProjectileOffset,
		Y:        owner.Y + math.Sin(owner.Rotation)*ProjectileOffset,
		VX:       vx + owner.VX*0.3, // inherit some of ship velocity
		VY:       vy + owner.VY*0.3,
		Rotation: owner.Rotation,
		Life:     ProjectileLifetime,
		Damage:   def.ProjDamage,
		Alive:    true,
	}
}

// Update moves the projectile one tick
func (p *Projectile) Update(dt float64) {
	if !p.Alive {
		return
	}
	p.X += p.VX * dt
	p.Y += p.VY * dt
	p.Life -= dt

	// Wrap around world
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

	if p.Life <= 0 {
		p.Alive = false
	}
}

// ToState converts to protocol state
func (p *Projectile) ToState() ProjectileState {
	return ProjectileState{
		ID:    p.ID,
		X:     round1(p.X),
		Y:     round1(p.Y),
		R:     round1(p.Rotation),
		Owner: p.OwnerID,
	}
}
