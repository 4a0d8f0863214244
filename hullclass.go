package main

import (
	"math"

	"arena-server/physics"
)

// ShipClass identifies the class of ship
type ShipClass int

const (
	ClassFighter ShipClass = 0
	ClassTank    ShipClass = 1
	ClassScout   ShipClass = 2
	ClassSupport ShipClass = 3
)

// ShipClassDef holds the stats for a ship class. Hull is the ship's
// collision footprint as circle offsets from the ship center at rotation 0
// (+X = forward); all hull circles share HullRadius. The offset's position
// in the slice is the shape index reported back in overlap results.
type ShipClassDef struct {
	MaxHP      int
	Accel      float64
	MaxSpeed   float64
	BoostMul   float64
	FireCD     float64
	ProjDamage int
	ProjSpeed  float64
	TurnSpeed  float64
	HullRadius float64
	Hull       []physics.Point
}

var ShipClasses = [4]ShipClassDef{
	// Fighter: balanced, nose + tail circles
	{
		MaxHP: 100, Accel: 600, MaxSpeed: 350, BoostMul: 1.6,
		FireCD: 0.15, ProjDamage: 20, ProjSpeed: 800, TurnSpeed: 8.0,
		HullRadius: 14,
		Hull:       []physics.Point{{X: 10, Y: 0}, {X: -10, Y: 0}},
	},
	// Tank: slow, wide three-circle hull
	{
		MaxHP: 200, Accel: 350, MaxSpeed: 220, BoostMul: 1.4,
		FireCD: 0.4, ProjDamage: 15, ProjSpeed: 700, TurnSpeed: 6.0,
		HullRadius: 16,
		Hull:       []physics.Point{{X: 14, Y: 0}, {X: -10, Y: -12}, {X: -10, Y: 12}},
	},
	// Scout: fast, fragile, single small circle
	{
		MaxHP: 60, Accel: 800, MaxSpeed: 480, BoostMul: 1.8,
		FireCD: 0.1, ProjDamage: 12, ProjSpeed: 900, TurnSpeed: 10.0,
		HullRadius: 12,
		Hull:       []physics.Point{{X: 0, Y: 0}},
	},
	// Support: medium, nose + tail circles
	{
		MaxHP: 120, Accel: 500, MaxSpeed: 300, BoostMul: 1.5,
		FireCD: 0.2, ProjDamage: 15, ProjSpeed: 800, TurnSpeed: 8.0,
		HullRadius: 15,
		Hull:       []physics.Point{{X: 8, Y: 0}, {X: -8, Y: 0}},
	},
}

// GetClassDef returns the definition for a ship class
func GetClassDef(class ShipClass) ShipClassDef {
	if class < 0 || int(class) >= len(ShipClasses) {
		return ShipClasses[ClassFighter]
	}
	return ShipClasses[class]
}

// HullAt returns the world-space hull circle centers for a ship of the
// given class at position (x, y) and rotation rot.
func HullAt(class ShipClass, x, y, rot float64) []physics.Point {
	def := GetClassDef(class)
	cosR := math.Cos(rot)
	sinR := math.Sin(rot)
	out := make([]physics.Point, len(def.Hull))
	for i, off := range def.Hull {
		out[i] = physics.Point{
			X: x + off.X*cosR - off.Y*sinR,
			Y: y + off.X*sinR + off.Y*cosR,
		}
	}
	return out
}
