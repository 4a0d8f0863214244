package main

import (
	"sync"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"arena-server/physics"
)

// mockBroadcaster captures sent messages for testing
type mockBroadcaster struct {
	mu     sync.Mutex
	json   []interface{}
	binary [][]byte
}

func (m *mockBroadcaster) SendJSON(msg interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.json = append(m.json, msg)
}

func (m *mockBroadcaster) SendBinary(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	m.binary = append(m.binary, cp)
}

func TestGameAddRemovePlayer(t *testing.T) {
	g := NewGame()
	p := g.AddPlayer("TestPilot")
	if p.Name != "TestPilot" {
		t.Errorf("expected name TestPilot, got %s", p.Name)
	}
	if p.EID == 0 {
		t.Error("player should get a physics entity id")
	}
	if g.PlayerCount() != 1 {
		t.Errorf("expected 1 player, got %d", g.PlayerCount())
	}

	g.RemovePlayer(p.ID)
	if g.PlayerCount() != 0 {
		t.Errorf("expected 0 players, got %d", g.PlayerCount())
	}
	if _, ok := g.entities[p.EID]; ok {
		t.Error("entity id should be freed on removal")
	}
}

func TestGameClassRotation(t *testing.T) {
	g := NewGame()
	p1 := g.AddPlayer("A")
	p2 := g.AddPlayer("B")
	p3 := g.AddPlayer("C")
	p4 := g.AddPlayer("D")
	p5 := g.AddPlayer("E")

	if p1.Class != ClassFighter || p2.Class != ClassTank || p3.Class != ClassScout || p4.Class != ClassSupport {
		t.Error("classes should cycle through all four")
	}
	if p5.Class != ClassFighter {
		t.Error("class should wrap back to fighter")
	}
}

func TestGameHandleInput(t *testing.T) {
	g := NewGame()
	p := g.AddPlayer("Test")

	input := ClientInput{
		MX:   p.X + 100,
		MY:   p.Y,
		Fire: true,
	}
	g.HandleInput(p.ID, input)

	g.mu.RLock()
	player := g.players[p.ID]
	g.mu.RUnlock()

	if !player.Firing {
		t.Error("player should be firing")
	}
}

func TestGameUpdate(t *testing.T) {
	g := NewGame()
	p1 := g.AddPlayer("Player1")
	p2 := g.AddPlayer("Player2")

	mock1 := &mockBroadcaster{}
	mock2 := &mockBroadcaster{}
	g.SetClient(p1.ID, mock1)
	g.SetClient(p2.ID, mock2)

	// Run a few ticks
	for i := 0; i < 10; i++ {
		g.update()
	}

	if g.tick != 10 {
		t.Errorf("expected tick 10, got %d", g.tick)
	}
}

func TestGameProjectileCreation(t *testing.T) {
	g := NewGame()
	p := g.AddPlayer("Shooter")
	p.Firing = true
	p.FireCD = 0

	g.update()

	g.mu.RLock()
	projCount := len(g.projectiles)
	g.mu.RUnlock()

	if projCount != 1 {
		t.Errorf("expected 1 projectile, got %d", projCount)
	}
	g.mu.RLock()
	for _, proj := range g.projectiles {
		if proj.EID == 0 {
			t.Error("projectile should get a physics entity id")
		}
	}
	g.mu.RUnlock()
}

func TestGameProjectileHit(t *testing.T) {
	g := NewGame()
	shooter := g.AddPlayer("Shooter")
	target := g.AddPlayer("Target")

	// Place a projectile owned by the shooter directly on the target
	proj := NewProjectile(shooter, 0)
	proj.EID = g.allocEntity(entProjectile, proj.ID)
	proj.X = target.X
	proj.Y = target.Y
	g.projectiles[proj.ID] = proj
	// Keep the shooter far away so the projectile only touches the target
	shooter.X = target.X + 1000
	shooter.Y = target.Y + 1000

	hpBefore := target.HP
	g.rebuildGrid()
	g.resolveOverlaps(g.grid.QueryOverlaps())

	if target.HP >= hpBefore {
		t.Errorf("target should take damage, HP %d -> %d", hpBefore, target.HP)
	}
	if proj.Alive {
		t.Error("projectile should be consumed on hit")
	}
}

func TestGameProjectileIgnoresOwner(t *testing.T) {
	g := NewGame()
	g.debris = make(map[string]*DebrisCluster) // keep the field clear
	shooter := g.AddPlayer("Shooter")

	proj := NewProjectile(shooter, 0)
	proj.EID = g.allocEntity(entProjectile, proj.ID)
	proj.X = shooter.X
	proj.Y = shooter.Y
	g.projectiles[proj.ID] = proj

	hpBefore := shooter.HP
	g.rebuildGrid()
	g.resolveOverlaps(g.grid.QueryOverlaps())

	if shooter.HP != hpBefore {
		t.Error("projectile should not damage its owner")
	}
	if !proj.Alive {
		t.Error("projectile should pass through its owner")
	}
}

func TestGameRamDamage(t *testing.T) {
	g := NewGame()
	p1 := g.AddPlayer("Rammer")
	p2 := g.AddPlayer("Rammed")

	p1.X, p1.Y = 500, 500
	p2.X, p2.Y = 500, 500
	hp1, hp2 := p1.HP, p2.HP

	g.rebuildGrid()
	g.resolveOverlaps(g.grid.QueryOverlaps())

	// Overlap is reported from both sides, so both ships take contact damage
	if p1.HP >= hp1 {
		t.Error("first ship should take ram damage")
	}
	if p2.HP >= hp2 {
		t.Error("second ship should take ram damage")
	}
}

func TestGameDebrisPushback(t *testing.T) {
	g := NewGame()
	p := g.AddPlayer("Drifter")

	// Move the player onto the first debris rock
	var d *DebrisCluster
	for _, dc := range g.debris {
		d = dc
		break
	}
	rock := d.Circles[0]
	p.X, p.Y = rock.X+5, rock.Y
	p.VX, p.VY = 0, 0
	hpBefore := p.HP

	g.rebuildGrid()
	g.resolveOverlaps(g.grid.QueryOverlaps())

	if p.HP >= hpBefore {
		t.Error("debris contact should damage the ship")
	}
	if p.VX == 0 && p.VY == 0 {
		t.Error("ship should be pushed away from the rock")
	}
}

func TestGamePickupCollect(t *testing.T) {
	g := NewGame()
	g.debris = make(map[string]*DebrisCluster)
	p := g.AddPlayer("Collector")
	p.HP = 10

	pk := NewPickup(p.X, p.Y, 0)
	pk.EID = g.allocEntity(entPickup, pk.ID)
	g.pickups[pk.ID] = pk

	g.rebuildGrid()
	g.resolveOverlaps(g.grid.QueryOverlaps())

	if pk.Alive {
		t.Error("pickup should be consumed")
	}
	if p.HP != 10+PickupHeal {
		t.Errorf("expected HP %d, got %d", 10+PickupHeal, p.HP)
	}
	if p.Pickups != 1 {
		t.Errorf("expected 1 pickup collected, got %d", p.Pickups)
	}
}

func TestGameRadarCountsNearbyContacts(t *testing.T) {
	g := NewGame()
	p1 := g.AddPlayer("Watcher")
	p2 := g.AddPlayer("Blip")

	p1.X, p1.Y = 2000, 2000
	p2.X, p2.Y = 2100, 2000 // within radar radius

	g.rebuildGrid()
	g.updateRadar()

	if p1.Radar < 1 {
		t.Errorf("radar should see at least one contact, got %d", p1.Radar)
	}
}

func TestGameBroadcastDecodes(t *testing.T) {
	g := NewGame()
	p := g.AddPlayer("Viewer")
	mock := &mockBroadcaster{}
	g.SetClient(p.ID, mock)

	g.mu.Lock()
	g.broadcastState()
	g.mu.Unlock()

	mock.mu.Lock()
	defer mock.mu.Unlock()
	if len(mock.binary) != 1 {
		t.Fatalf("expected 1 binary frame, got %d", len(mock.binary))
	}
	var state GameState
	if err := msgpack.Unmarshal(mock.binary[0], &state); err != nil {
		t.Fatalf("frame should decode as msgpack: %v", err)
	}
	if len(state.Players) != 1 {
		t.Errorf("expected 1 player in state, got %d", len(state.Players))
	}
	if len(state.Debris) != DebrisFieldCount {
		t.Errorf("expected %d debris clusters, got %d", DebrisFieldCount, len(state.Debris))
	}
}

func TestGameDebrisRegisteredStatic(t *testing.T) {
	g := NewGame()
	g.rebuildGrid()

	// Debris never initiates overlaps: an empty world with only debris
	// reports none even where clusters self-overlap
	if n := len(g.grid.QueryOverlaps()); n != 0 {
		t.Errorf("static-only world should report no overlaps, got %d", n)
	}

	// But debris is visible to area queries
	var d *DebrisCluster
	for _, dc := range g.debris {
		d = dc
		break
	}
	near := g.grid.QueryArea(d.Circles[0], DebrisCircleRadius*2)
	if _, ok := near[d.EID]; !ok {
		t.Error("debris should be visible to area queries")
	}
}

func TestGameSpawnPickupAvoidsOccupiedSpace(t *testing.T) {
	g := NewGame()
	g.rebuildGrid()

	before := len(g.pickups)
	for i := 0; i < 20; i++ {
		g.spawnPickup()
	}
	if len(g.pickups) == before {
		t.Skip("no clear space found in this debris layout")
	}
	if len(g.pickups) > MaxPickups {
		t.Errorf("pickup count should be capped at %d, got %d", MaxPickups, len(g.pickups))
	}
	// Every spawned pickup must be in clear space per the conservative check
	for _, pk := range g.pickups {
		near := g.grid.QueryArea(physics.Point{X: pk.X, Y: pk.Y}, PickupRadius*4)
		if len(near) > 0 {
			t.Error("pickup spawned inside occupied space")
		}
	}
}
