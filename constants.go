package main

import "time"

// World geometry. CellSize must evenly divide WorldSize or the physics
// grid constructor rejects it at startup.
const (
	WorldSize = 4000 // square world, pixels
	CellSize  = 80   // ~2x the largest hull circle radius
)

const (
	TickRate       = 60 // physics ticks per second
	BroadcastRate  = 30 // state broadcasts per second
	TickDuration   = time.Second / TickRate
	BroadcastEvery = TickRate / BroadcastRate
)

const (
	maxProjectilesPerSession = 500
	maxPlayersPerSession     = 20
)

// Contact resolution tuning
const (
	RamDamagePerTick    = 2    // HP per tick while two hulls overlap
	DebrisDamagePerTick = 1    // HP per tick while grinding against debris
	DebrisPushback      = 40.0 // push-out speed away from a debris circle, px/s
	RadarRadius         = 600.0
)
