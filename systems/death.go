package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/serpent/components"
	"github.com/pthm-cable/serpent/config"
)

// DeathReport describes an agent reaped this tick.
type DeathReport struct {
	Entity      ecs.Entity
	Player      bool
	X, Y        float32 // Head position at death
	Skin        components.Skin
	Length      int
	Radius      float32
	TotalEnergy float32
	Cause       components.DeathCause
	Killer      ecs.Entity
}

// Reaper turns dead agents into food. Segments are destroyed together with
// their head; the player head is kept so the game can show its end state.
type Reaper struct {
	energyFactor float32
	radiusFactor float32

	dead []ecs.Entity
}

// NewReaper creates the lifecycle stage.
func NewReaper(cfg *config.Config) *Reaper {
	return &Reaper{
		energyFactor: float32(cfg.Food.MassDropEnergyFactor),
		radiusFactor: float32(cfg.Food.MassDropRadiusFactor),
	}
}

// Update reaps every head marked dead and appends a report for each to out.
func (r *Reaper) Update(s *Store, grid *SpatialGrid, food *FoodEconomy, out []DeathReport) []DeathReport {
	r.dead = r.dead[:0]
	query := s.Heads.Query()
	for query.Next() {
		_, _, _, _, head := query.Get()
		if head.Dead && !r.reaped(s, query.Entity(), head) {
			r.dead = append(r.dead, query.Entity())
		}
	}

	// Entity removal is structural, so it runs after iteration.
	for _, e := range r.dead {
		out = append(out, r.reap(s, grid, food, e))
	}
	return out
}

// reaped reports whether a dead player head was already processed.
func (r *Reaper) reaped(s *Store, e ecs.Entity, head *components.SnakeHead) bool {
	return head.Segments == nil && s.Player.Has(e)
}

func (r *Reaper) reap(s *Store, grid *SpatialGrid, food *FoodEconomy, e ecs.Entity) DeathReport {
	head := s.Head.Get(e)
	pos := s.Pos.Get(e)
	report := DeathReport{
		Entity:      e,
		Player:      s.Player.Has(e),
		X:           pos.X,
		Y:           pos.Y,
		Skin:        head.Skin,
		Length:      head.Length(),
		Radius:      head.Radius,
		TotalEnergy: head.TotalEnergy,
		Cause:       head.Cause,
		Killer:      head.Killer,
	}

	energy := head.Radius * r.energyFactor
	radius := head.Radius * r.radiusFactor
	skin := head.Skin
	segments := head.Segments

	for _, seg := range segments {
		if !s.Alive(seg) {
			continue
		}
		p := *s.Pos.Get(seg)
		grid.RemoveBody(seg, p.X, p.Y)
		food.Spawn(p.X, p.Y, FoodMassDrop, energy, skin, radius)
		s.Remove(seg)
	}

	if report.Player {
		head = s.Head.Get(e)
		head.Segments = nil
		return report
	}
	s.Remove(e)
	return report
}
