package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/serpent/components"
	"github.com/pthm-cable/serpent/config"
)

// SpawnRequest describes a new agent.
type SpawnRequest struct {
	X, Y    float32
	Heading float32 // degrees
	Length  int     // 0 uses the configured default
	Player  bool
	Level   int // AI skill level, ignored for the player
	Skin    components.Skin
}

// Builder creates agents: a head, its pre-recorded path and a straight body
// trailing opposite the heading, already indexed in the grid.
type Builder struct {
	cfg    config.SnakeConfig
	growth *Growth
}

// NewBuilder creates an agent builder.
func NewBuilder(cfg *config.Config, growth *Growth) *Builder {
	return &Builder{cfg: cfg.Snake, growth: growth}
}

// Spawn creates the agent described by req and returns its head.
func (b *Builder) Spawn(s *Store, grid *SpatialGrid, req SpawnRequest) ecs.Entity {
	length := req.Length
	if length <= 0 {
		length = b.cfg.Length
	}
	radius := float32(b.cfg.Radius)
	speed := float32(b.cfg.Speed)

	head := components.SnakeHead{
		Radius:          radius,
		TurnRate:        b.growth.TurnRate(radius),
		SpacingFactor:   float32(b.cfg.SpacingFactor),
		Magnet:          radius * float32(b.cfg.MagnetFactor),
		History:         components.NewPathHistory(b.cfg.HistoryCap),
		Segments:        make([]ecs.Entity, 0, length),
		SpawnProtection: float32(b.cfg.SpawnProtection),
		Skin:            req.Skin,
	}

	heading := NormalizeDegrees(req.Heading)
	dx, dy := unitVector(heading)
	back := components.Position{X: -dx, Y: -dy}
	spacing := head.Spacing()

	// Oldest point first, so the newest sits one spacing behind the head.
	points := length + b.cfg.HistoryPadding
	for i := points; i >= 1; i-- {
		d := spacing * float32(i)
		head.History.Push(components.Position{X: req.X + back.X*d, Y: req.Y + back.Y*d})
	}

	e := s.NewHead(
		components.Position{X: req.X, Y: req.Y},
		components.Heading{Angle: heading, Target: heading},
		components.Motion{Speed: speed},
		head,
	)
	if req.Player {
		s.Player.Add(e, &components.Player{})
	} else {
		ai := components.NewAI(req.Level, speed)
		s.AI.Add(e, &ai)
	}

	bodyR := b.growth.BodyRadius(radius)
	for i := 0; i < length; i++ {
		d := spacing * float32(i+1)
		p := components.Position{X: req.X + back.X*d, Y: req.Y + back.Y*d}
		idx := s.Head.Get(e).NextSegmentIndex()
		seg := s.NewSegment(p, bodyR, e, idx)
		grid.InsertBody(seg, p.X, p.Y)

		// Re-fetch: creating entities may move component storage.
		h := s.Head.Get(e)
		h.Segments = append(h.Segments, seg)
	}
	return e
}
