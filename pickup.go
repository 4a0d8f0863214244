package main

const (
	PickupRadius   = 15.0
	PickupHeal     = 20
	PickupTimeout  = 30.0
	PickupInterval = 5.0  // seconds between spawn attempts
	MaxPickups     = 12
)

// Pickup is a health orb that heals on contact. Pickups are inserted into
// the grid as static circles: they never initiate contact, ships discover
// them through their own overlap pass.
type Pickup struct {
	ID    string
	EID   int
	X, Y  float64
	Life  float64
	Alive bool
}

// NewPickup creates a pickup at the given position
func NewPickup(x, y float64, eid int) *Pickup {
	return &Pickup{
		ID:    GenerateID(4),
		EID:   eid,
		X:     x,
		Y:     y,
		Life:  PickupTimeout,
		Alive: true,
	}
}

// Update ticks down the pickup lifetime
func (p *Pickup) Update(dt float64) {
	if !p.Alive {
		return
	}
	p.Life -= dt
	if p.Life <= 0 {
		p.Alive = false
	}
}

// ToState converts to protocol state
func (p *Pickup) ToState() PickupState {
	return PickupState{
		ID: p.ID,
		X:  round1(p.X),
		Y:  round1(p.Y),
	}
}
