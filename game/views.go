package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/serpent/components"
	"github.com/pthm-cable/serpent/systems"
)

// SnakeView is a read-only snapshot of one agent for drawing.
type SnakeView struct {
	Entity    ecs.Entity
	X, Y      float32
	Heading   float32 // degrees
	Radius    float32
	BodyR     float32
	Skin      components.Skin
	Player    bool
	Level     int
	Protected bool
	Dead      bool
	Magnet    float32

	// Frontal danger from the last heavy steering tick, AI only
	FrontDanger, LeftDanger, RightDanger float32

	// Segments holds body positions from head to tail. It is reused between
	// calls to the visitor.
	Segments []components.Position
}

// Snakes calls fn for every agent, players last so they draw on top.
func (g *Game) Snakes(fn func(v *SnakeView)) {
	var view SnakeView
	var players []ecs.Entity

	query := g.store.Heads.Query()
	for query.Next() {
		e := query.Entity()
		if g.store.Player.Has(e) {
			players = append(players, e)
			continue
		}
		pos, heading, _, _, head := query.Get()
		g.fillView(&view, e, pos, heading, head)
		fn(&view)
	}

	for _, e := range players {
		g.fillView(&view, e, g.store.Pos.Get(e), g.store.Heading.Get(e), g.store.Head.Get(e))
		fn(&view)
	}
}

func (g *Game) fillView(v *SnakeView, e ecs.Entity, pos *components.Position, heading *components.Heading, head *components.SnakeHead) {
	v.Entity = e
	v.X, v.Y = pos.X, pos.Y
	v.Heading = heading.Angle
	v.Radius = head.Radius
	v.BodyR = g.growth.BodyRadius(head.Radius)
	v.Skin = head.Skin
	v.Player = g.store.Player.Has(e)
	v.Level = 0
	v.FrontDanger, v.LeftDanger, v.RightDanger = 0, 0, 0
	if g.store.AI.Has(e) {
		ai := g.store.AI.Get(e)
		v.Level = ai.Level
		v.FrontDanger, v.LeftDanger, v.RightDanger = ai.FrontDanger, ai.LeftDanger, ai.RightDanger
	}
	v.Protected = head.Protected()
	v.Dead = head.Dead
	v.Magnet = head.Magnet

	v.Segments = v.Segments[:0]
	for _, seg := range head.Segments {
		if g.store.Alive(seg) {
			v.Segments = append(v.Segments, *g.store.Pos.Get(seg))
		}
	}
}

// Foods returns the food store, including inactive slots.
func (g *Game) Foods() []systems.Food {
	return g.food.Foods()
}

// Player returns the player's position and head state. ok is false when
// there is no player.
func (g *Game) Player() (pos components.Position, head *components.SnakeHead, ok bool) {
	if g.player.IsZero() || !g.store.Alive(g.player) {
		return components.Position{}, nil, false
	}
	return *g.store.Pos.Get(g.player), g.store.Head.Get(g.player), true
}

// PlayerMode returns the player's steering mode.
func (g *Game) PlayerMode() components.ControlMode {
	if p := g.playerControl(); p != nil {
		return p.Mode
	}
	return components.ControlDirect
}
