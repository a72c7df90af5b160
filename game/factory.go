package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/serpent/components"
	"github.com/pthm-cable/serpent/systems"
)

// skinPool holds the sprite sets skilled agents draw from. The colour tints
// the food they drop on death.
var skinPool = []components.Skin{
	{Set: 0, R: 120, G: 200, B: 80},
	{Set: 1, R: 90, G: 140, B: 230},
	{Set: 2, R: 240, G: 170, B: 60},
	{Set: 3, R: 200, G: 90, B: 200},
}

// aiPalette colours agents without a sprite set.
var aiPalette = []components.Skin{
	{Set: components.NoSprite, R: 253, G: 249, B: 0},
	{Set: components.NoSprite, R: 0, G: 255, B: 255},
	{Set: components.NoSprite, R: 255, G: 0, B: 255},
	{Set: components.NoSprite, R: 255, G: 128, B: 0},
	{Set: components.NoSprite, R: 0, G: 255, B: 128},
}

var playerSkin = components.Skin{Set: 2, R: 230, G: 41, B: 55}

const (
	playerLength  = 5
	playerMargin  = 200
	spawnAttempts = 10
)

// spawnSnake builds an agent and registers it with telemetry.
func (g *Game) spawnSnake(req systems.SpawnRequest) ecs.Entity {
	e := g.builder.Spawn(g.store, g.grid, req)

	length := g.store.Head.Get(e).Length()
	g.lifetime.Register(e.ID(), g.frame, req.Level, req.Player, length)
	g.collector.RecordSpawn(req.Player)

	slog.Debug("agent_spawned",
		"entity", e.ID(),
		"player", req.Player,
		"level", req.Level,
		"length", length,
		"x", req.X,
		"y", req.Y,
	)
	return e
}

// spawnPlayer places the player at a random position away from the edge.
func (g *Game) spawnPlayer() {
	w, h := g.cfg.Derived.WorldW32, g.cfg.Derived.WorldH32
	g.player = g.spawnSnake(systems.SpawnRequest{
		X:       playerMargin + g.rng.Float32()*(w-2*playerMargin),
		Y:       playerMargin + g.rng.Float32()*(h-2*playerMargin),
		Heading: g.rng.Float32() * 360,
		Length:  playerLength,
		Player:  true,
		Skin:    playerSkin,
	})
}

// SpawnRandomAI adds one AI agent with a rolled skill level at a position
// whose neighborhood holds no bodies. It returns false if no such position
// was found.
func (g *Game) SpawnRandomAI() (ecs.Entity, bool) {
	margin := float32(g.cfg.AI.SpawnMargin)
	w, h := g.cfg.Derived.WorldW32, g.cfg.Derived.WorldH32

	for range spawnAttempts {
		x := margin + g.rng.Float32()*(w-2*margin)
		y := margin + g.rng.Float32()*(h-2*margin)
		if !g.food.IsAreaSafe(x, y) {
			continue
		}

		level, length, skinned := g.rollLevel()
		skin := aiPalette[g.rng.Intn(len(aiPalette))]
		if skinned {
			skin = skinPool[g.rng.Intn(len(skinPool))]
		}

		e := g.spawnSnake(systems.SpawnRequest{
			X:       x,
			Y:       y,
			Heading: g.rng.Float32()*360 - 180,
			Length:  length,
			Level:   level,
			Skin:    skin,
		})
		return e, true
	}
	return ecs.Entity{}, false
}

// rollLevel picks a skill tier by cumulative chance and a length within it.
// With no tiers configured it falls back to level 1 at the default length.
func (g *Game) rollLevel() (level, length int, skinned bool) {
	levels := g.cfg.AI.Levels
	if len(levels) == 0 {
		return 1, g.cfg.Snake.Length, false
	}

	roll := g.rng.Float64()
	tier := levels[len(levels)-1]
	acc := 0.0
	for _, l := range levels {
		acc += l.Chance
		if roll < acc {
			tier = l
			break
		}
	}

	length = tier.MinLength
	if span := tier.MaxLength - tier.MinLength; span > 0 {
		length += g.rng.Intn(span + 1)
	}
	return tier.Level, length, tier.Skinned
}
