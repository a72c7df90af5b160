package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/serpent/components"
	"github.com/pthm-cable/serpent/config"
)

// Collision marks heads dead when they leave the world or overlap another
// agent's body. Spawn-protected heads neither die nor kill.
type Collision struct {
	width, height float32
}

// NewCollision creates the collision stage.
func NewCollision(cfg *config.Config) *Collision {
	return &Collision{width: cfg.Derived.WorldW32, height: cfg.Derived.WorldH32}
}

// Update checks every live, unprotected head and returns how many died.
func (c *Collision) Update(s *Store, grid *SpatialGrid) int {
	deaths := 0
	query := s.Heads.Query()
	for query.Next() {
		pos, _, _, col, head := query.Get()
		if head.Dead || head.Protected() {
			continue
		}

		if pos.X < 0 || pos.X > c.width || pos.Y < 0 || pos.Y > c.height {
			head.Dead = true
			head.Cause = components.CauseBoundary
			deaths++
			continue
		}

		if killer, hit := c.hitBody(s, grid, query.Entity(), pos, col.Radius); hit {
			head.Dead = true
			head.Cause = components.CauseBody
			head.Killer = killer
			deaths++
		}
	}
	return deaths
}

// hitBody scans the 3x3 neighborhood for a foreign segment overlapping the
// head circle. The first hit wins.
func (c *Collision) hitBody(s *Store, grid *SpatialGrid, self ecs.Entity, pos *components.Position, radius float32) (ecs.Entity, bool) {
	r := grid.Neighborhood(pos.X, pos.Y, 1)
	for row := r.MinRow; row <= r.MaxRow; row++ {
		for col := r.MinCol; col <= r.MaxCol; col++ {
			for _, seg := range grid.BodiesAt(col, row) {
				if !s.Alive(seg) {
					continue
				}
				body := s.Body.Get(seg)
				owner := body.Owner
				if owner == self || !s.IsHead(owner) {
					continue
				}
				if s.Head.Get(owner).Protected() {
					continue
				}

				bp := s.Pos.Get(seg)
				reach := radius + s.Collider.Get(seg).Radius
				if distanceSq(pos.X, pos.Y, bp.X, bp.Y) < reach*reach {
					return owner, true
				}
			}
		}
	}
	return ecs.Entity{}, false
}
