package physics

import (
	"reflect"
	"testing"
)

func mustGrid(t *testing.T, worldSize, cellSize int) *SpatialGrid {
	t.Helper()
	g, err := NewSpatialGrid(worldSize, cellSize)
	if err != nil {
		t.Fatalf("NewSpatialGrid(%d, %d): %v", worldSize, cellSize, err)
	}
	return g
}

func TestNewSpatialGridValidation(t *testing.T) {
	if _, err := NewSpatialGrid(100, 0); err == nil {
		t.Error("cell size 0 should be rejected")
	}
	if _, err := NewSpatialGrid(0, 10); err == nil {
		t.Error("world size 0 should be rejected")
	}
	if _, err := NewSpatialGrid(-100, 10); err == nil {
		t.Error("negative world size should be rejected")
	}
	if _, err := NewSpatialGrid(100, 30); err == nil {
		t.Error("cell size not dividing world size should be rejected")
	}
	g := mustGrid(t, 100, 10)
	if g.GridSize() != 10 {
		t.Errorf("grid size = %d, want 10", g.GridSize())
	}
}

// The two-entity scenario: only the circles at y=6.5 and y=8.5 are within
// distance 2 (sum of radii, exact tangency), so exactly one physical
// contact exists and it is reported once per direction.
func TestQueryOverlapsTwoEntities(t *testing.T) {
	g := mustGrid(t, 100, 10)

	g.AddDynamicBatch(0, []Point{{5, 5}, {5, 5.5}, {5, 6}, {5, 6.5}}, 1)
	g.AddDynamicBatch(1, []Point{{5, 8.5}, {5, 9}, {5, 9.5}, {5, 10}}, 1)

	overlaps := g.QueryOverlaps()
	if len(overlaps) != 2 {
		t.Fatalf("expected 2 overlaps, got %d: %v", len(overlaps), overlaps)
	}
	if _, ok := overlaps[Overlap{SelfEntity: 1, OtherEntity: 0, SelfShape: 0, OtherShape: 3}]; !ok {
		t.Error("missing overlap (1, 0, 0, 3)")
	}
	if _, ok := overlaps[Overlap{SelfEntity: 0, OtherEntity: 1, SelfShape: 3, OtherShape: 0}]; !ok {
		t.Error("missing overlap (0, 1, 3, 0)")
	}
}

func TestQueryOverlapsDirectional(t *testing.T) {
	g := mustGrid(t, 100, 10)
	g.AddDynamic(0, Point{50, 50}, 5)
	g.AddDynamic(1, Point{55, 50}, 5)

	overlaps := g.QueryOverlaps()
	if len(overlaps) != 2 {
		t.Fatalf("expected both directions, got %d overlaps", len(overlaps))
	}
	for o := range overlaps {
		if o.SelfEntity == o.OtherEntity {
			t.Errorf("overlap %v has self == other entity", o)
		}
	}
}

// A shape replicated across several cells must report one contact per
// direction, not one per shared cell.
func TestQueryOverlapsDeduplicated(t *testing.T) {
	g := mustGrid(t, 100, 10)
	// Both circles span a 4-cell neighborhood around (20, 20)
	g.AddDynamic(0, Point{20, 20}, 8)
	g.AddDynamic(1, Point{22, 20}, 8)

	overlaps := g.QueryOverlaps()
	if len(overlaps) != 2 {
		t.Fatalf("expected 2 deduplicated overlaps, got %d", len(overlaps))
	}
}

func TestQueryOverlapsStaticIsPassive(t *testing.T) {
	g := mustGrid(t, 100, 10)
	g.AddStatic(0, Point{50, 50}, 5)
	g.AddStatic(1, Point{52, 50}, 5)
	if got := g.QueryOverlaps(); len(got) != 0 {
		t.Errorf("static-static should produce no overlaps, got %v", got)
	}

	g.Reset()
	g.AddStatic(0, Point{50, 50}, 5)
	g.AddDynamic(1, Point{52, 50}, 5)
	overlaps := g.QueryOverlaps()
	if len(overlaps) != 1 {
		t.Fatalf("expected 1 overlap against static, got %d", len(overlaps))
	}
	if _, ok := overlaps[Overlap{SelfEntity: 1, OtherEntity: 0}]; !ok {
		t.Error("overlap should be discovered from the dynamic shape only")
	}
}

func TestQueryOverlapsSameEntityHull(t *testing.T) {
	g := mustGrid(t, 100, 10)
	// Overlapping sub-shapes of one entity are not contacts
	g.AddDynamicBatch(3, []Point{{40, 40}, {41, 40}, {42, 40}}, 2)
	if got := g.QueryOverlaps(); len(got) != 0 {
		t.Errorf("multi-shape entity should not self-collide, got %v", got)
	}
}

// Shapes wholly outside the world land in no cell: they are invisible to
// every query, with no diagnostic.
func TestOutOfBoundsShapesInvisible(t *testing.T) {
	g := mustGrid(t, 100, 10)
	g.AddDynamic(0, Point{-50, -50}, 5)
	g.AddDynamic(1, Point{-52, -50}, 5)
	if got := g.QueryOverlaps(); len(got) != 0 {
		t.Errorf("out-of-world shapes should be invisible, got %v", got)
	}
	if got := g.QueryArea(Point{-50, -50}, 20); len(got) != 0 {
		t.Errorf("QueryArea outside the world should find nothing, got %v", got)
	}
}

// A bounds edge exactly on a cell boundary is fattened into the next cell,
// so boundary-touching shapes are reachable from both sides.
func TestCellRangeBoundaryFattening(t *testing.T) {
	g := mustGrid(t, 100, 10)
	loX, hiX, loY, hiY := g.cellRange(10, 20, 10, 20)
	if loX != 1 || hiX != 2 || loY != 1 || hiY != 2 {
		t.Errorf("cellRange(10,20,10,20) = (%d,%d,%d,%d), want (1,2,1,2)", loX, hiX, loY, hiY)
	}

	// Circle whose upper edge ends exactly at x=20 must be visible from cell 2
	g.AddStatic(0, Point{15, 15}, 5)
	found := g.QueryArea(Point{25, 15}, 4)
	if _, ok := found[0]; !ok {
		t.Error("shape touching cell boundary should be found from the adjacent cell")
	}
}

func TestResetIdempotence(t *testing.T) {
	g := mustGrid(t, 100, 10)

	populate := func() {
		g.AddStaticBatch(0, []Point{{10, 10}, {20, 10}}, 4)
		g.AddDynamic(1, Point{12, 10}, 3)
		g.AddDynamicBatch(2, []Point{{14, 10}, {60, 60}}, 3)
	}

	populate()
	first := g.QueryOverlaps()

	g.Reset()
	if got := g.QueryOverlaps(); len(got) != 0 {
		t.Fatalf("grid should be empty after Reset, got %v", got)
	}

	populate()
	second := g.QueryOverlaps()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("reset + identical repopulation changed results: %v vs %v", first, second)
	}
}

func TestQueryAreaCollectsEntities(t *testing.T) {
	g := mustGrid(t, 100, 10)
	g.AddStatic(0, Point{15, 15}, 4)
	g.AddDynamic(1, Point{18, 15}, 3)
	g.AddDynamic(2, Point{85, 85}, 3)

	found := g.QueryArea(Point{15, 15}, 5)
	if _, ok := found[0]; !ok {
		t.Error("static entity in range should be reported")
	}
	if _, ok := found[1]; !ok {
		t.Error("dynamic entity in range should be reported")
	}
	if _, ok := found[2]; ok {
		t.Error("entity far outside the query range should not be reported")
	}
}

// QueryArea works on cell-bucket membership, not true containment: an
// entity whose covering cells intersect the query range is reported even
// when its circle lies outside the query circle.
func TestQueryAreaIsConservative(t *testing.T) {
	g := mustGrid(t, 100, 10)
	g.AddStatic(0, Point{5, 5}, 1)

	// True distance from (25, 25) is ~28, far beyond 12+1, but the query
	// range reaches cell (1,1) which the shape's fattened bounds also touch.
	found := g.QueryArea(Point{25, 25}, 12)
	if _, ok := found[0]; !ok {
		t.Error("conservative query should over-report cell neighbors")
	}
}
