package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/serpent/components"
	"github.com/pthm-cable/serpent/config"
)

// FoodKind distinguishes ambient food from remains of dead agents.
type FoodKind uint8

const (
	FoodNormal FoodKind = iota
	FoodMassDrop
)

func (k FoodKind) String() string {
	if k == FoodMassDrop {
		return "mass_drop"
	}
	return "normal"
}

// Food is one slot of the dense food store.
type Food struct {
	X, Y   float32
	Kind   FoodKind
	Energy float32
	Radius float32
	Skin   components.Skin
	Active bool
}

// EatEvent signals that an agent consumed an item worth hearing.
type EatEvent struct {
	Agent  ecs.Entity
	Player bool
	Kind   FoodKind
	Energy float32
}

// FeedStats counts consumption during one tick.
type FeedStats struct {
	Normal    int
	MassDrops int
	Grown     int // Segments queued by the energy eaten
}

// foodPalette colours ambient food.
var foodPalette = []components.Skin{
	{Set: components.NoSprite, R: 255, G: 100, B: 100},
	{Set: components.NoSprite, R: 100, G: 255, B: 100},
	{Set: components.NoSprite, R: 100, G: 100, B: 255},
	{Set: components.NoSprite, R: 255, G: 255, B: 100},
	{Set: components.NoSprite, R: 255, G: 100, B: 255},
	{Set: components.NoSprite, R: 100, G: 255, B: 255},
}

type movedFood struct {
	slot       int32
	oldX, oldY float32
}

// FoodEconomy owns the food store and its free-list. The grid holds slot
// indices into foods, so a slot keeps its index for the store's lifetime.
type FoodEconomy struct {
	grid   *SpatialGrid
	growth *Growth
	rng    *rand.Rand

	width, height  float32
	maxTotal       int
	minPerCell     int
	spawnChance    float32
	regenInterval  float32
	magnetSpeed    float32
	normalRadius   float32
	normalEnergy   float32
	jitter         float32
	soundThreshold float32

	foods    []Food
	free     []int32
	live     int
	regenAcc float32

	scratch []int32
	moved   []movedFood
}

// NewFoodEconomy creates an empty food store indexed into grid.
func NewFoodEconomy(cfg *config.Config, grid *SpatialGrid, growth *Growth, rng *rand.Rand) *FoodEconomy {
	return &FoodEconomy{
		grid:           grid,
		growth:         growth,
		rng:            rng,
		width:          cfg.Derived.WorldW32,
		height:         cfg.Derived.WorldH32,
		maxTotal:       cfg.Food.MaxTotal,
		minPerCell:     cfg.Food.MinPerCell,
		spawnChance:    float32(cfg.Food.SpawnChance),
		regenInterval:  float32(cfg.Food.RegenInterval),
		magnetSpeed:    float32(cfg.Food.MagnetSpeed),
		normalRadius:   float32(cfg.Food.NormalRadius),
		normalEnergy:   float32(cfg.Food.NormalEnergy),
		jitter:         float32(cfg.Food.MassDropJitter),
		soundThreshold: float32(cfg.Food.SoundThreshold),
	}
}

// Foods returns the dense store, including inactive slots. Callers must not
// modify it.
func (f *FoodEconomy) Foods() []Food {
	return f.foods
}

// Get returns the item in a slot.
func (f *FoodEconomy) Get(slot int32) Food {
	return f.foods[slot]
}

// LiveCount returns the number of active items.
func (f *FoodEconomy) LiveCount() int {
	return f.live
}

// FreeCount returns the number of recycled slots awaiting reuse.
func (f *FoodEconomy) FreeCount() int {
	return len(f.free)
}

// Reset drops all food. The grid's food index must be cleared separately.
func (f *FoodEconomy) Reset() {
	f.foods = f.foods[:0]
	f.free = f.free[:0]
	f.live = 0
	f.regenAcc = 0
}

// Spawn adds an item and returns its slot. MassDrop positions are scattered
// by up to the configured jitter and clamped to the world. A recycled slot
// is preferred over growing the store.
func (f *FoodEconomy) Spawn(x, y float32, kind FoodKind, energy float32, skin components.Skin, radius float32) int32 {
	if kind == FoodMassDrop {
		angle := f.rng.Float64() * 2 * math.Pi
		dist := f.rng.Float32() * f.jitter
		x += float32(math.Cos(angle)) * dist
		y += float32(math.Sin(angle)) * dist
		x = clampFloat(x, 0, f.width)
		y = clampFloat(y, 0, f.height)
	}

	item := Food{X: x, Y: y, Kind: kind, Energy: energy, Radius: radius, Skin: skin, Active: true}

	var slot int32
	if n := len(f.free); n > 0 {
		slot = f.free[n-1]
		f.free = f.free[:n-1]
		old := f.foods[slot]
		f.grid.RemoveFood(slot, old.X, old.Y)
		f.foods[slot] = item
	} else {
		slot = int32(len(f.foods))
		f.foods = append(f.foods, item)
	}
	f.grid.InsertFood(slot, x, y)
	f.live++
	return slot
}

// Release deactivates a slot, drops it from the grid and returns it to the
// free-list. Releasing an inactive slot does nothing.
func (f *FoodEconomy) Release(slot int32) {
	item := &f.foods[slot]
	if !item.Active {
		return
	}
	item.Active = false
	f.grid.RemoveFood(slot, item.X, item.Y)
	f.free = append(f.free, slot)
	f.live--
}

// Tick lets every live head eat or attract food in its 3x3 neighborhood and
// periodically regenerates ambient food. Consumption of items above the
// sound threshold is appended to events.
func (f *FoodEconomy) Tick(s *Store, dt float32, events []EatEvent) ([]EatEvent, FeedStats) {
	var stats FeedStats

	query := s.Heads.Query()
	for query.Next() {
		pos, _, _, col, head := query.Get()
		if head.Dead {
			continue
		}
		e := query.Entity()
		events = f.feed(s, e, pos, col.Radius, head, dt, events, &stats)
	}

	f.regenAcc += dt
	if f.regenAcc > f.regenInterval {
		f.Regenerate()
		f.regenAcc = 0
	}
	return events, stats
}

func (f *FoodEconomy) feed(s *Store, e ecs.Entity, pos *components.Position, radius float32, head *components.SnakeHead, dt float32, events []EatEvent, stats *FeedStats) []EatEvent {
	magnetSq := head.Magnet * head.Magnet
	f.moved = f.moved[:0]

	r := f.grid.Neighborhood(pos.X, pos.Y, 1)
	for row := r.MinRow; row <= r.MaxRow; row++ {
		for col := r.MinCol; col <= r.MaxCol; col++ {
			// Copy: consumption and lazy cleanup mutate the cell.
			f.scratch = append(f.scratch[:0], f.grid.FoodAt(col, row)...)
			for _, slot := range f.scratch {
				item := &f.foods[slot]
				if !item.Active {
					f.grid.RemoveFood(slot, item.X, item.Y)
					continue
				}

				dx := pos.X - item.X
				dy := pos.Y - item.Y
				distSq := dx*dx + dy*dy
				reach := radius + item.Radius

				if distSq < reach*reach {
					if f.growth.Feed(head, item.Energy) {
						stats.Grown++
					}
					if item.Kind == FoodMassDrop {
						stats.MassDrops++
					} else {
						stats.Normal++
					}
					if item.Energy > f.soundThreshold {
						events = append(events, EatEvent{Agent: e, Player: s.Player.Has(e), Kind: item.Kind, Energy: item.Energy})
					}
					f.Release(slot)
					continue
				}

				if distSq < magnetSq && distSq > 0 {
					dist := sqrtf(distSq)
					step := min(f.magnetSpeed*dt, dist)
					f.moved = append(f.moved, movedFood{slot: slot, oldX: item.X, oldY: item.Y})
					// Heads may sit outside the world while protected; items stay in it.
					item.X = clampFloat(item.X+dx/dist*step, 0, f.width)
					item.Y = clampFloat(item.Y+dy/dist*step, 0, f.height)
				}
			}
		}
	}

	// Re-index pulled items once the scan is done so none is visited twice.
	for _, m := range f.moved {
		item := &f.foods[m.slot]
		if item.Active {
			f.grid.MoveFood(m.slot, m.oldX, m.oldY, item.X, item.Y)
		}
	}
	return events
}

// Regenerate tops up ambient food. A cell receives one item if it holds fewer
// than the minimum, or by a random chance that shrinks as the store fills.
// Nothing spawns once the global cap is reached.
func (f *FoodEconomy) Regenerate() int {
	if f.live >= f.maxTotal {
		return 0
	}
	fill := 1 - float32(f.live)/float32(f.maxTotal)
	cols, rows := f.grid.Dims()
	cell := f.grid.CellSize()

	spawned := 0
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if f.live >= f.maxTotal {
				return spawned
			}
			if len(f.grid.FoodAt(col, row)) >= f.minPerCell && f.rng.Float32() >= f.spawnChance*fill {
				continue
			}
			x := clampFloat((float32(col)+f.rng.Float32())*cell, 0, f.width)
			y := clampFloat((float32(row)+f.rng.Float32())*cell, 0, f.height)
			skin := foodPalette[f.rng.Intn(len(foodPalette))]
			f.Spawn(x, y, FoodNormal, f.normalEnergy, skin, f.normalRadius)
			spawned++
		}
	}
	return spawned
}

// IsAreaSafe reports whether no body segment occupies the 3x3 neighborhood
// of pos. Segments of every owner count, including the caller's own.
func (f *FoodEconomy) IsAreaSafe(x, y float32) bool {
	return !f.grid.AnyBody(f.grid.Neighborhood(x, y, 1))
}

// NearestMassDrop returns the closest active MassDrop strictly within rng of
// (x, y).
func (f *FoodEconomy) NearestMassDrop(x, y, rng float32) (float32, float32, bool) {
	ring := int(rng/f.grid.CellSize()) + 1
	bestSq := rng * rng
	var bx, by float32
	found := false

	r := f.grid.Neighborhood(x, y, ring)
	for row := r.MinRow; row <= r.MaxRow; row++ {
		for col := r.MinCol; col <= r.MaxCol; col++ {
			for _, slot := range f.grid.FoodAt(col, row) {
				item := &f.foods[slot]
				if !item.Active || item.Kind != FoodMassDrop {
					continue
				}
				d := distanceSq(item.X, item.Y, x, y)
				if d < bestSq {
					bestSq = d
					bx, by = item.X, item.Y
					found = true
				}
			}
		}
	}
	return bx, by, found
}
