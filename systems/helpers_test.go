package systems

import (
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/serpent/components"
	"github.com/pthm-cable/serpent/config"
)

// arena wires the stages the way the game does, without the pipeline.
type arena struct {
	cfg       *config.Config
	store     *Store
	grid      *SpatialGrid
	growth    *Growth
	food      *FoodEconomy
	builder   *Builder
	loco      *Locomotion
	collision *Collision
	reaper    *Reaper
}

func newArena(t *testing.T, tweak func(*config.Config)) *arena {
	t.Helper()
	cfg := config.Default()
	if tweak != nil {
		tweak(cfg)
	}
	rng := rand.New(rand.NewSource(1))
	grid := NewSpatialGrid(cfg.Derived.WorldW32, cfg.Derived.WorldH32, cfg.Derived.Cell32)
	growth := NewGrowth(cfg)
	return &arena{
		cfg:       cfg,
		store:     NewStore(),
		grid:      grid,
		growth:    growth,
		food:      NewFoodEconomy(cfg, grid, growth, rng),
		builder:   NewBuilder(cfg, growth),
		loco:      NewLocomotion(cfg),
		collision: NewCollision(cfg),
		reaper:    NewReaper(cfg),
	}
}

func (a *arena) spawn(x, y, heading float32, length int, player bool) ecs.Entity {
	return a.builder.Spawn(a.store, a.grid, SpawnRequest{
		X: x, Y: y, Heading: heading, Length: length, Player: player, Level: 1,
	})
}

// bareHead creates a head with no body and no spawn protection.
func (a *arena) bareHead(x, y, heading float32, player bool, level int) ecs.Entity {
	r := float32(a.cfg.Snake.Radius)
	e := a.store.NewHead(
		components.Position{X: x, Y: y},
		components.Heading{Angle: heading, Target: heading},
		components.Motion{Speed: float32(a.cfg.Snake.Speed)},
		components.SnakeHead{
			Radius:        r,
			TurnRate:      a.growth.TurnRate(r),
			SpacingFactor: float32(a.cfg.Snake.SpacingFactor),
			Magnet:        r * float32(a.cfg.Snake.MagnetFactor),
			History:       components.NewPathHistory(a.cfg.Snake.HistoryCap),
			Segments:      []ecs.Entity{},
		},
	)
	if player {
		a.store.Player.Add(e, &components.Player{})
	} else {
		ai := components.NewAI(level, float32(a.cfg.Snake.Speed))
		a.store.AI.Add(e, &ai)
	}
	return e
}

// unprotect clears spawn protection on a head.
func (a *arena) unprotect(e ecs.Entity) {
	a.store.Head.Get(e).SpawnProtection = 0
}

// moveSegment relocates a segment and keeps the grid in step.
func (a *arena) moveSegment(seg ecs.Entity, x, y float32) {
	place(a.store, a.grid, seg, components.Position{X: x, Y: y})
}

// checkGrid fails if any live segment or active food item is not indexed
// exactly once in the cell of its position, or if anything else is indexed.
func (a *arena) checkGrid(t *testing.T) {
	t.Helper()

	wantBodies := 0
	query := a.store.Heads.Query()
	var segs []ecs.Entity
	for query.Next() {
		_, _, _, _, head := query.Get()
		segs = append(segs, head.Segments...)
	}
	for _, seg := range segs {
		if !a.store.Alive(seg) {
			continue
		}
		p := a.store.Pos.Get(seg)
		col, row := a.grid.CellOf(p.X, p.Y)
		if !a.grid.InBounds(col, row) {
			continue
		}
		wantBodies++
		n := 0
		for _, b := range a.grid.BodiesAt(col, row) {
			if b == seg {
				n++
			}
		}
		if n != 1 {
			t.Errorf("segment %v at (%.1f, %.1f) indexed %d times in its cell", seg, p.X, p.Y, n)
		}
	}

	wantFood := 0
	for i, f := range a.food.Foods() {
		if !f.Active {
			continue
		}
		wantFood++
		col, row := a.grid.CellOf(f.X, f.Y)
		n := 0
		for _, s := range a.grid.FoodAt(col, row) {
			if s == int32(i) {
				n++
			}
		}
		if n != 1 {
			t.Errorf("food slot %d at (%.1f, %.1f) indexed %d times in its cell", i, f.X, f.Y, n)
		}
	}

	gotFood, gotBodies := a.grid.Counts()
	if gotBodies != wantBodies {
		t.Errorf("grid holds %d bodies, want %d", gotBodies, wantBodies)
	}
	if gotFood != wantFood {
		t.Errorf("grid holds %d food entries, want %d", gotFood, wantFood)
	}
}
