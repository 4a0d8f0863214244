package main

import (
	"math"
	"sync"
	"testing"
)

func TestNewDebrisCluster(t *testing.T) {
	d := NewDebrisCluster(3)
	if d.EID != 3 {
		t.Errorf("expected entity id 3, got %d", d.EID)
	}
	if len(d.Circles) < DebrisMinCircles || len(d.Circles) > DebrisMaxCircles {
		t.Errorf("circle count %d outside [%d, %d]", len(d.Circles), DebrisMinCircles, DebrisMaxCircles)
	}
}

func TestDebrisClusterConnected(t *testing.T) {
	d := NewDebrisCluster(0)
	// Chained circles: each is within touching distance of the previous
	for i := 1; i < len(d.Circles); i++ {
		dx := d.Circles[i].X - d.Circles[i-1].X
		dy := d.Circles[i].Y - d.Circles[i-1].Y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist > 2*DebrisCircleRadius {
			t.Errorf("circle %d is %f away from its neighbor, cluster disconnected", i, dist)
		}
	}
}

func TestDebrisClusterSeedInBounds(t *testing.T) {
	for i := 0; i < 20; i++ {
		d := NewDebrisCluster(0)
		c := d.Circles[0]
		if c.X < debrisEdgeMargin || c.X > WorldSize-debrisEdgeMargin ||
			c.Y < debrisEdgeMargin || c.Y > WorldSize-debrisEdgeMargin {
			t.Errorf("seed circle (%f, %f) outside margin", c.X, c.Y)
		}
	}
}

func TestDebrisClusterConcurrentCreation(t *testing.T) {
	// Clusters are generated from websocket handler goroutines as sessions
	// are created, so placement must be safe without external locking
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				NewDebrisCluster(0)
			}
		}()
	}
	wg.Wait()
}

func TestDebrisClusterPositionsVary(t *testing.T) {
	seen := make(map[float64]struct{})
	for i := 0; i < 200; i++ {
		d := NewDebrisCluster(0)
		seen[d.Circles[0].X] = struct{}{}
	}
	// Continuous placement: repeats would mean quantized coordinates
	if len(seen) < 190 {
		t.Errorf("expected ~200 distinct seed positions, got %d", len(seen))
	}
}

func TestDebrisToState(t *testing.T) {
	d := NewDebrisCluster(0)
	s := d.ToState()
	if s.ID != d.ID {
		t.Errorf("expected ID %s, got %s", d.ID, s.ID)
	}
	if s.R != DebrisCircleRadius {
		t.Errorf("expected radius %f, got %f", float64(DebrisCircleRadius), s.R)
	}
	if len(s.Circles) != len(d.Circles) {
		t.Errorf("expected %d rocks, got %d", len(d.Circles), len(s.Circles))
	}
}
