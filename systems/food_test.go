package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/serpent/components"
	"github.com/pthm-cable/serpent/config"
)

var testSkin = components.Skin{Set: components.NoSprite, R: 255}

// TestFoodConsumedOnOverlap: an item at (100,100) and a head of radius 20 at
// (105,100) overlap, so the item is eaten this tick and its slot recycled.
func TestFoodConsumedOnOverlap(t *testing.T) {
	a := newArena(t, nil)
	slot := a.food.Spawn(100, 100, FoodNormal, 1, testSkin, 6)
	e := a.bareHead(105, 100, 0, false, 1)

	events, stats := a.food.Tick(a.store, 1.0/60, nil)

	if a.food.Get(slot).Active {
		t.Error("item should be consumed")
	}
	if a.food.LiveCount() != 0 || a.food.FreeCount() != 1 {
		t.Errorf("live=%d free=%d, want 0 and 1", a.food.LiveCount(), a.food.FreeCount())
	}
	if got := a.store.Head.Get(e).Energy; got != 1 {
		t.Errorf("energy = %v, want 1", got)
	}
	if stats.Normal != 1 || stats.MassDrops != 0 {
		t.Errorf("stats = %+v, want one normal item", stats)
	}
	if len(events) != 0 {
		t.Errorf("got %d events for a quiet item", len(events))
	}
	a.checkGrid(t)
}

func TestFoodEatEvents(t *testing.T) {
	a := newArena(t, func(c *config.Config) { c.Food.MassDropJitter = 0 })
	a.food.Spawn(100, 100, FoodMassDrop, 2, testSkin, 16)
	p := a.bareHead(105, 100, 0, true, 0)

	events, stats := a.food.Tick(a.store, 1.0/60, nil)
	if stats.MassDrops != 1 {
		t.Fatalf("stats = %+v, want one mass drop", stats)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.Agent != p || !ev.Player || ev.Kind != FoodMassDrop || ev.Energy != 2 {
		t.Errorf("event = %+v", ev)
	}
}

func TestFoodSlotRecycling(t *testing.T) {
	a := newArena(t, nil)

	first := a.food.Spawn(100, 100, FoodNormal, 1, testSkin, 6)
	a.food.Release(first)
	a.food.Release(first)
	if a.food.FreeCount() != 1 {
		t.Fatalf("double release left %d free slots, want 1", a.food.FreeCount())
	}

	second := a.food.Spawn(900, 900, FoodNormal, 1, testSkin, 6)
	if second != first {
		t.Errorf("spawn used slot %d, want recycled %d", second, first)
	}
	if len(a.food.Foods()) != 1 {
		t.Errorf("store grew to %d slots", len(a.food.Foods()))
	}
	if len(a.grid.FoodAt(0, 0)) != 0 {
		t.Error("old cell still references the recycled slot")
	}
	if cell := a.grid.FoodAt(3, 3); len(cell) != 1 || cell[0] != second {
		t.Errorf("new cell = %v, want [%d]", cell, second)
	}
	a.checkGrid(t)
}

func TestFoodMagnetPullReindexes(t *testing.T) {
	a := newArena(t, nil)
	// Head magnet range is 50; the item is 40 away across a cell boundary.
	slot := a.food.Spawn(230, 100, FoodNormal, 1, testSkin, 6)
	a.bareHead(270, 100, 0, false, 1)

	a.food.Tick(a.store, 0.05, nil)

	f := a.food.Get(slot)
	if !f.Active {
		t.Fatal("item should be pulled, not eaten")
	}
	if math.Abs(float64(f.X-262.5)) > 1e-3 || f.Y != 100 {
		t.Errorf("item at (%v, %v), want (262.5, 100)", f.X, f.Y)
	}
	if len(a.grid.FoodAt(0, 0)) != 0 {
		t.Error("item still indexed in its old cell")
	}
	a.checkGrid(t)

	// Next tick it is within reach.
	a.food.Tick(a.store, 0.05, nil)
	if a.food.Get(slot).Active {
		t.Error("item should be eaten once pulled in")
	}
	a.checkGrid(t)
}

func TestFoodMagnetStaysInWorld(t *testing.T) {
	a := newArena(t, nil)
	slot := a.food.Spawn(10, 100, FoodNormal, 1, testSkin, 6)
	head := a.bareHead(-20, 100, 0, false, 1)
	a.store.Head.Get(head).SpawnProtection = 5

	a.food.Tick(a.store, 0.1, nil)
	if f := a.food.Get(slot); f.Active && (f.X < 0 || f.Y != 100) {
		t.Errorf("item pulled to (%v, %v), want it clamped inside the world", f.X, f.Y)
	}
	a.checkGrid(t)

	for range 4 {
		a.food.Tick(a.store, 0.1, nil)
		a.checkGrid(t)
	}
	if a.food.Get(slot).Active {
		t.Error("clamped item should be eaten by the head at the edge")
	}
}

func TestFoodMagnetIgnoresDistant(t *testing.T) {
	a := newArena(t, nil)
	slot := a.food.Spawn(300, 100, FoodNormal, 1, testSkin, 6)
	a.bareHead(100, 100, 0, false, 1)

	a.food.Tick(a.store, 0.05, nil)
	if f := a.food.Get(slot); f.X != 300 || f.Y != 100 {
		t.Errorf("distant item moved to (%v, %v)", f.X, f.Y)
	}
}

func TestFoodRegenerate(t *testing.T) {
	t.Run("fills sparse cells", func(t *testing.T) {
		a := newArena(t, nil)
		spawned := a.food.Regenerate()

		cols, rows := a.grid.Dims()
		if spawned < cols*rows {
			t.Errorf("spawned %d items, want at least one per cell (%d)", spawned, cols*rows)
		}
		for row := 0; row < rows; row++ {
			for col := 0; col < cols; col++ {
				if len(a.grid.FoodAt(col, row)) == 0 {
					t.Fatalf("cell (%d,%d) left empty", col, row)
				}
			}
		}
		for _, f := range a.food.Foods() {
			if f.X < 0 || f.Y < 0 || f.X > a.cfg.Derived.WorldW32 || f.Y > a.cfg.Derived.WorldH32 {
				t.Fatalf("item outside the world at (%v, %v)", f.X, f.Y)
			}
		}
		a.checkGrid(t)
	})

	t.Run("respects the global cap", func(t *testing.T) {
		a := newArena(t, func(c *config.Config) { c.Food.MaxTotal = 10 })
		if got := a.food.Regenerate(); got != 10 {
			t.Errorf("spawned %d, want 10", got)
		}
		if got := a.food.Regenerate(); got != 0 {
			t.Errorf("spawned %d at the cap, want 0", got)
		}
		if a.food.LiveCount() != 10 {
			t.Errorf("live = %d, want 10", a.food.LiveCount())
		}
	})
}

func TestFoodTickRegenInterval(t *testing.T) {
	a := newArena(t, nil)

	a.food.Tick(a.store, 0.3, nil)
	if a.food.LiveCount() != 0 {
		t.Fatal("regenerated before the interval elapsed")
	}
	a.food.Tick(a.store, 0.3, nil)
	if a.food.LiveCount() == 0 {
		t.Error("no regeneration after the interval elapsed")
	}
}

func TestFoodIsAreaSafe(t *testing.T) {
	a := newArena(t, nil)
	a.spawn(1000, 1000, 0, 5, false)

	if a.food.IsAreaSafe(1000, 1000) {
		t.Error("area around a body should be unsafe")
	}
	if !a.food.IsAreaSafe(5000, 5000) {
		t.Error("empty area should be safe")
	}
	if !a.food.IsAreaSafe(-500, -500) {
		t.Error("off-world area should be safe")
	}
}

func TestFoodNearestMassDrop(t *testing.T) {
	a := newArena(t, func(c *config.Config) { c.Food.MassDropJitter = 0 })
	a.food.Spawn(1300, 1000, FoodMassDrop, 2, testSkin, 16)
	a.food.Spawn(1100, 1000, FoodMassDrop, 2, testSkin, 16)
	a.food.Spawn(1010, 1000, FoodNormal, 1, testSkin, 6)

	x, y, ok := a.food.NearestMassDrop(1000, 1000, 500)
	if !ok || x != 1100 || y != 1000 {
		t.Errorf("NearestMassDrop = (%v, %v, %v), want (1100, 1000, true)", x, y, ok)
	}

	if _, _, ok := a.food.NearestMassDrop(1000, 1000, 50); ok {
		t.Error("no mass drop within 50, want none")
	}
}
