package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/serpent/components"
)

func TestGrowthTargetRadius(t *testing.T) {
	a := newArena(t, nil)
	tests := []struct {
		length int
		want   float32
	}{
		{0, 20},
		{5, 20},
		{6, 26},
		{9, 32},
		{30, 50},
		{100000, 100},
	}
	for _, tt := range tests {
		got := a.growth.TargetRadius(tt.length)
		if math.Abs(float64(got-tt.want)) > 1e-3 {
			t.Errorf("TargetRadius(%d) = %v, want %v", tt.length, got, tt.want)
		}
	}
}

func TestGrowthTurnRate(t *testing.T) {
	a := newArena(t, nil)
	tests := []struct {
		radius float32
		want   float64
	}{
		{20, 8},
		{10, 8},
		{70, 8 * (0.4 + 0.6*math.Exp(-1))},
	}
	for _, tt := range tests {
		got := a.growth.TurnRate(tt.radius)
		if math.Abs(float64(got)-tt.want) > 1e-4 {
			t.Errorf("TurnRate(%v) = %v, want %v", tt.radius, got, tt.want)
		}
	}

	// Never below the floor, however large.
	if got := a.growth.TurnRate(1e6); got < 8*0.4-1e-4 {
		t.Errorf("TurnRate(huge) = %v, below floor", got)
	}
}

// TestGrowthFeedAtThreshold checks that reaching the threshold exactly queues
// one segment and subtracts the threshold rather than zeroing the accumulator.
func TestGrowthFeedAtThreshold(t *testing.T) {
	a := newArena(t, nil)
	h := &components.SnakeHead{Segments: make([]ecs.Entity, 5)}
	threshold := a.growth.Threshold(5)
	if threshold != 12.5 {
		t.Fatalf("Threshold(5) = %v, want 12.5", threshold)
	}

	if !a.growth.Feed(h, threshold) {
		t.Fatal("Feed at threshold should queue a segment")
	}
	if h.PendingGrowth != 1 || h.Energy != 0 {
		t.Errorf("pending=%d energy=%v, want 1 and 0", h.PendingGrowth, h.Energy)
	}

	h.Energy = 2
	if !a.growth.Feed(h, threshold) {
		t.Fatal("Feed past threshold should queue a segment")
	}
	if h.PendingGrowth != 2 || math.Abs(float64(h.Energy-2)) > 1e-5 {
		t.Errorf("pending=%d energy=%v, want 2 and 2 (remainder kept)", h.PendingGrowth, h.Energy)
	}

	if a.growth.Feed(h, 1) {
		t.Error("small Feed should not queue a segment")
	}
	if math.Abs(float64(h.TotalEnergy-26)) > 1e-4 {
		t.Errorf("total energy = %v, want 26", h.TotalEnergy)
	}
}

func TestGrowthDrainsPending(t *testing.T) {
	a := newArena(t, nil)
	e := a.spawn(4000, 4000, 0, 5, false)
	a.store.Head.Get(e).PendingGrowth = 3

	created := a.growth.Update(a.store, 1.0/60)
	if created != 3 {
		t.Fatalf("Update created %d segments, want 3", created)
	}

	head := a.store.Head.Get(e)
	if head.Length() != 8 || head.PendingGrowth != 0 {
		t.Fatalf("length=%d pending=%d, want 8 and 0", head.Length(), head.PendingGrowth)
	}

	prev := -1
	for i, seg := range head.Segments {
		body := a.store.Body.Get(seg)
		if body.Owner != e {
			t.Errorf("segment %d owner = %v, want %v", i, body.Owner, e)
		}
		if body.Index <= prev {
			t.Errorf("segment %d index %d not above %d", i, body.Index, prev)
		}
		prev = body.Index
	}
	for _, seg := range head.Segments[5:] {
		if *a.store.Pos.Get(seg) != Parked {
			t.Errorf("new segment at %+v, want parked", *a.store.Pos.Get(seg))
		}
	}

	// Parked segments stay out of the grid until placed.
	if _, bodies := a.grid.Counts(); bodies != 5 {
		t.Errorf("grid holds %d bodies, want 5", bodies)
	}
	a.loco.FollowBodies(a.store, a.grid)
	a.checkGrid(t)
}

func TestGrowthEasesAndCapsRadius(t *testing.T) {
	a := newArena(t, nil)
	e := a.spawn(4000, 4000, 0, 9, false)

	dt := float32(0.1)
	a.growth.Update(a.store, dt)

	head := a.store.Head.Get(e)
	// 20 + (32-20) * 2 * 0.1
	if math.Abs(float64(head.Radius-22.4)) > 1e-3 {
		t.Errorf("radius = %v after one step, want 22.4", head.Radius)
	}
	if col := a.store.Collider.Get(e); col.Radius != head.Radius {
		t.Errorf("head collider = %v, want %v", col.Radius, head.Radius)
	}
	want := a.growth.BodyRadius(head.Radius)
	for _, seg := range head.Segments {
		if got := a.store.Collider.Get(seg).Radius; got != want {
			t.Errorf("segment collider = %v, want %v", got, want)
		}
	}
	if head.TurnRate != a.growth.TurnRate(head.Radius) {
		t.Errorf("turn rate not derived from radius")
	}

	head.Radius = 150
	a.growth.Update(a.store, dt)
	if got := a.store.Head.Get(e).Radius; got > 100 {
		t.Errorf("radius = %v, exceeds max", got)
	}
}
