package main

import (
	"math"
	"math/rand"

	"arena-server/physics"
)

const (
	DebrisFieldCount   = 8   // clusters per session
	DebrisCircleRadius = 40.0
	DebrisMinCircles   = 3
	DebrisMaxCircles   = 7
	debrisEdgeMargin   = 200.0
)

// DebrisCluster is an immovable field of rock circles sharing one entity
// id. The circle's position in Circles is its shape index, so an overlap
// result pinpoints which rock a ship ground against.
type DebrisCluster struct {
	ID      string
	EID     int
	Circles []physics.Point
}

// NewDebrisCluster generates a cluster of overlapping circles around a
// random center, kept away from the world edges.
func NewDebrisCluster(eid int) *DebrisCluster {
	cx := debrisEdgeMargin + rand.Float64()*(WorldSize-2*debrisEdgeMargin)
	cy := debrisEdgeMargin + rand.Float64()*(WorldSize-2*debrisEdgeMargin)

	n := DebrisMinCircles + rand.Intn(DebrisMaxCircles-DebrisMinCircles+1)

	circles := make([]physics.Point, n)
	circles[0] = physics.Point{X: cx, Y: cy}
	for i := 1; i < n; i++ {
		// Chain each rock off the previous one so the cluster stays connected
		angle := rand.Float64() * 2 * math.Pi
		dist := DebrisCircleRadius * (0.8 + rand.Float64()*0.8)
		circles[i] = physics.Point{
			X: circles[i-1].X + math.Cos(angle)*dist,
			Y: circles[i-1].Y + math.Sin(angle)*dist,
		}
	}

	return &DebrisCluster{
		ID:      GenerateID(4),
		EID:     eid,
		Circles: circles,
	}
}

// ToState converts to protocol state
func (d *DebrisCluster) ToState() DebrisState {
	rocks := make([]RockState, len(d.Circles))
	for i, c := range d.Circles {
		rocks[i] = RockState{X: round1(c.X), Y: round1(c.Y)}
	}
	return DebrisState{
		ID:      d.ID,
		R:       DebrisCircleRadius,
		Circles: rocks,
	}
}
