// Package physics implements a broad-phase 2D collision detector over a
// uniform spatial grid. Circular shapes are bucketed by the grid cells their
// bounding box covers; overlap queries seed from a registry of dynamic
// shapes and test circle-circle contact against bucket occupants.
//
// The grid is a coarse filter: it reports candidate pairs whose circles
// truly overlap, once per direction, but performs no narrow-phase contact
// geometry. All operations are synchronous and single-threaded; callers
// that tick and query from multiple goroutines must hold their own lock
// around the whole populate/query phase.
package physics

import (
	"fmt"
	"math"
)

// SpatialGrid subdivides a fixed square world into uniform cells. Each cell
// holds copies of every shape whose bounding box touches it; a shape spanning
// several cells is replicated into each. The dynamic registry, not the
// cells, is the source of truth for what QueryOverlaps tests.
type SpatialGrid struct {
	cells     [][]shape
	dynamic   map[int][]shape
	worldSize int
	cellSize  int
	gridSize  int
}

// NewSpatialGrid creates a grid covering a worldSize × worldSize world with
// cells of cellSize. Both must be positive and cellSize must evenly divide
// worldSize; anything else would leave part of the world uncovered, so it
// is rejected up front rather than silently truncated.
func NewSpatialGrid(worldSize, cellSize int) (*SpatialGrid, error) {
	if worldSize <= 0 || cellSize <= 0 {
		return nil, fmt.Errorf("physics: world size %d and cell size %d must be positive", worldSize, cellSize)
	}
	if worldSize%cellSize != 0 {
		return nil, fmt.Errorf("physics: cell size %d does not evenly divide world size %d", cellSize, worldSize)
	}
	gridSize := worldSize / cellSize
	return &SpatialGrid{
		cells:     make([][]shape, gridSize*gridSize),
		dynamic:   make(map[int][]shape),
		worldSize: worldSize,
		cellSize:  cellSize,
		gridSize:  gridSize,
	}, nil
}

// GridSize returns the number of cells along one axis.
func (g *SpatialGrid) GridSize() int {
	return g.gridSize
}

// Reset clears every cell bucket (keeping allocated capacity) and the
// dynamic registry. Static shapes are discarded along with everything else:
// the owning host re-inserts them each tick.
func (g *SpatialGrid) Reset() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	for k := range g.dynamic {
		delete(g.dynamic, k)
	}
}

// cellRange maps a continuous-space AABB to an inclusive cell coordinate
// range. Lower edges floor, upper edges ceil: a shape touching a cell
// boundary lands in both adjacent cells, so near-boundary contacts are
// never missed. Results may lie outside [0, gridSize); callers skip those.
func (g *SpatialGrid) cellRange(minX, maxX, minY, maxY float64) (int, int, int, int) {
	cs := float64(g.cellSize)
	return int(math.Floor(minX / cs)),
		int(math.Ceil(maxX / cs)),
		int(math.Floor(minY / cs)),
		int(math.Ceil(maxY / cs))
}

// Insert adds one circle for an entity. The shape is copied into every
// in-bounds cell its bounding box covers; cells outside the grid are
// silently skipped, so a shape outside [0, worldSize) is simply invisible
// there. Non-static shapes are also recorded in the dynamic registry as
// query seeds. index disambiguates multiple circles on the same entity.
func (g *SpatialGrid) Insert(entity int, pos Point, radius float64, index int, static bool) {
	s := shape{entity: entity, index: index, pos: pos, radius: radius, static: static}

	loX, hiX, loY, hiY := g.cellRange(s.bounds())
	for x := loX; x <= hiX; x++ {
		if x < 0 || x >= g.gridSize {
			continue
		}
		for y := loY; y <= hiY; y++ {
			if y < 0 || y >= g.gridSize {
				continue
			}
			idx := x*g.gridSize + y
			g.cells[idx] = append(g.cells[idx], s)
		}
	}

	if !static {
		g.dynamic[entity] = append(g.dynamic[entity], s)
	}
}

// AddStatic inserts a single static circle with shape index 0.
func (g *SpatialGrid) AddStatic(entity int, pos Point, radius float64) {
	g.Insert(entity, pos, radius, 0, true)
}

// AddStaticBatch inserts one static circle per position, all sharing one
// radius. Shape index is the position within the batch.
func (g *SpatialGrid) AddStaticBatch(entity int, positions []Point, radius float64) {
	for i, pos := range positions {
		g.Insert(entity, pos, radius, i, true)
	}
}

// AddDynamic inserts a single dynamic circle with shape index 0.
func (g *SpatialGrid) AddDynamic(entity int, pos Point, radius float64) {
	g.Insert(entity, pos, radius, 0, false)
}

// AddDynamicBatch inserts one dynamic circle per position, all sharing one
// radius. Shape index is the position within the batch.
func (g *SpatialGrid) AddDynamicBatch(entity int, positions []Point, radius float64) {
	for i, pos := range positions {
		g.Insert(entity, pos, radius, i, false)
	}
}

// QueryOverlaps tests every registered dynamic shape against the occupants
// of every cell its bounding box covers and returns the set of overlaps.
// A shape replicated into several cells rediscovers the same contact once
// per shared cell; the map key collapses those to one value. Both
// directions of a dynamic-dynamic contact remain, since each is found from
// its own shape's pass.
func (g *SpatialGrid) QueryOverlaps() map[Overlap]struct{} {
	overlaps := make(map[Overlap]struct{})

	for entity, shapes := range g.dynamic {
		for _, s := range shapes {
			loX, hiX, loY, hiY := g.cellRange(s.bounds())
			for x := loX; x <= hiX; x++ {
				if x < 0 || x >= g.gridSize {
					continue
				}
				for y := loY; y <= hiY; y++ {
					if y < 0 || y >= g.gridSize {
						continue
					}
					for _, other := range g.cells[x*g.gridSize+y] {
						if s.collided(other) {
							overlaps[Overlap{
								SelfEntity:  entity,
								OtherEntity: other.entity,
								SelfShape:   s.index,
								OtherShape:  other.index,
							}] = struct{}{}
						}
					}
				}
			}
		}
	}
	return overlaps
}

// QueryArea returns the set of entity ids, static or dynamic, with any
// shape bucketed in a cell covered by the query circle's bounding box.
// This is a coarse broad query over cell membership, not a containment
// test: it may include entities whose shape lies outside the circle but
// whose covering cells intersect its range. Callers needing exact results
// must re-test distance themselves.
func (g *SpatialGrid) QueryArea(center Point, radius float64) map[int]struct{} {
	loX, hiX, loY, hiY := g.cellRange(center.X-radius, center.X+radius, center.Y-radius, center.Y+radius)

	entities := make(map[int]struct{})
	for x := loX; x <= hiX; x++ {
		if x < 0 || x >= g.gridSize {
			continue
		}
		for y := loY; y <= hiY; y++ {
			if y < 0 || y >= g.gridSize {
				continue
			}
			for _, other := range g.cells[x*g.gridSize+y] {
				entities[other.entity] = struct{}{}
			}
		}
	}
	return entities
}
