// Package game runs the arena: it owns the simulation state and steps the
// stage pipeline once per frame.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/serpent/config"
	"github.com/pthm-cable/serpent/systems"
	"github.com/pthm-cable/serpent/telemetry"
)

// Options holds runtime options beyond the simulation config.
type Options struct {
	Seed           int64   // 0 = time-based
	LogStats       bool    // Log stats windows via slog
	StatsWindowSec float64 // 0 = use config
	OutputDir      string  // Empty disables CSV output
	SnapshotDir    string  // Bookmark snapshots; empty disables them
	NoPlayer       bool    // AI-only arena
}

// State is the externally visible game state.
type State struct {
	Frame    uint64
	SimTime  float64
	Paused   bool
	GameOver bool // The player died; cleared by Restart
	AI       int
	LiveFood int
}

// Game holds the complete simulation state.
type Game struct {
	cfg  *config.Config
	opts Options
	seed int64
	rng  *rand.Rand

	store     *systems.Store
	grid      *systems.SpatialGrid
	growth    *systems.Growth
	food      *systems.FoodEconomy
	builder   *systems.Builder
	loco      *systems.Locomotion
	collision *systems.Collision
	reaper    *systems.Reaper
	steering  *systems.Steering
	registry  *systems.SystemRegistry
	effects   *systems.ParticleSystem

	player ecs.Entity

	// State
	frame    uint64
	paused   bool
	gameOver bool

	playerDeath telemetry.DeathRecord
	playerRank  int

	// Per-frame buffers
	events []systems.EatEvent
	deaths []systems.DeathReport

	// Telemetry
	collector     *telemetry.Collector
	lifetime      *telemetry.LifetimeTracker
	perf          *telemetry.PerfCollector
	output        *telemetry.OutputManager
	bookmarks     *telemetry.BookmarkDetector
	hall          *telemetry.HallOfFame
	statsCallback func(telemetry.WindowStats)
}

// New creates a game and populates the arena. The only errors come from
// preparing the output directory.
func New(cfg *config.Config, opts Options) (*Game, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	grid := systems.NewSpatialGrid(cfg.Derived.WorldW32, cfg.Derived.WorldH32, cfg.Derived.Cell32)
	growth := systems.NewGrowth(cfg)

	g := &Game{
		cfg:       cfg,
		opts:      opts,
		seed:      seed,
		rng:       rng,
		store:     systems.NewStore(),
		grid:      grid,
		growth:    growth,
		food:      systems.NewFoodEconomy(cfg, grid, growth, rng),
		builder:   systems.NewBuilder(cfg, growth),
		loco:      systems.NewLocomotion(cfg),
		collision: systems.NewCollision(cfg),
		reaper:    systems.NewReaper(cfg),
		steering:  systems.NewSteering(cfg, rng),
		registry:  systems.NewSystemRegistry(),
		effects:   systems.NewParticleSystem(maxParticles, rand.New(rand.NewSource(seed+1))),
		collector: telemetry.NewCollector(statsWindow),
		lifetime:  telemetry.NewLifetimeTracker(),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		output:    output,
		bookmarks: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistory),
		hall:      telemetry.NewHallOfFame(cfg.Telemetry.HallOfFameSize),
	}

	g.playerRank = -1
	g.populate()

	slog.Info("game created",
		"seed", seed,
		"world", fmt.Sprintf("%.0fx%.0f", cfg.World.Width, cfg.World.Height),
		"cell_size", cfg.World.CellSize,
		"max_ai", cfg.AI.MaxCount,
		"player", !opts.NoPlayer,
	)
	return g, nil
}

// populate seeds ambient food and the player.
func (g *Game) populate() {
	g.food.Regenerate()
	if !g.opts.NoPlayer {
		g.spawnPlayer()
	}
}

// Step advances the simulation by dt seconds. Nothing happens while paused.
func (g *Game) Step(dt float32) {
	if g.paused {
		return
	}

	g.perf.StartTick()

	g.perf.StartPhase(telemetry.PhaseFood)
	g.updateFood(dt)

	g.perf.StartPhase(telemetry.PhasePopulation)
	g.topUpAI()

	g.perf.StartPhase(telemetry.PhasePlayer)
	g.updatePlayer(dt)

	g.perf.StartPhase(telemetry.PhaseSteering)
	g.steering.Update(g.store, g.food, g.frame, dt)

	g.perf.StartPhase(telemetry.PhaseHeads)
	g.loco.MoveHeads(g.store, dt)

	g.perf.StartPhase(telemetry.PhaseGrowth)
	grown := g.growth.Update(g.store, dt)
	g.collector.RecordFeeding(0, 0, grown)

	g.perf.StartPhase(telemetry.PhaseBodies)
	g.loco.FollowBodies(g.store, g.grid)

	g.perf.StartPhase(telemetry.PhaseCollision)
	g.collision.Update(g.store, g.grid)

	g.perf.StartPhase(telemetry.PhaseLifecycle)
	g.reapDead()
	g.effects.Update(dt)

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.collector.Advance(dt)
	load := g.trackLifetimes(dt)
	g.flushTelemetry()

	g.perf.EndTick(load)
	g.frame++
}

// maxPendingEvents bounds the eat events kept for DrainEvents when nothing
// drains them, as in headless runs.
const maxPendingEvents = 64

const maxParticles = 2000

// updateFood runs consumption and regrowth and records what was eaten.
func (g *Game) updateFood(dt float32) {
	start := len(g.events)
	var stats systems.FeedStats
	g.events, stats = g.food.Tick(g.store, dt, g.events)
	g.collector.RecordFeeding(stats.Normal, stats.MassDrops, 0)

	for _, ev := range g.events[start:] {
		g.lifetime.RecordEat(ev.Agent.ID(), ev.Kind == systems.FoodMassDrop, ev.Energy)
		pos := g.store.Pos.Get(ev.Agent)
		g.effects.EmitEat(pos.X, pos.Y, ev.Energy, g.store.Head.Get(ev.Agent).Skin)
	}
	if n := len(g.events); n > maxPendingEvents {
		g.events = append(g.events[:0], g.events[n-maxPendingEvents:]...)
	}
}

// DrainEvents returns the eat events buffered since the last call and
// empties the buffer. The slice is reused; callers must not keep it.
func (g *Game) DrainEvents() []systems.EatEvent {
	events := g.events
	g.events = g.events[:0]
	return events
}

// TogglePause flips the pause flag. It has no effect once the game is over.
func (g *Game) TogglePause() {
	if g.gameOver {
		return
	}
	g.paused = !g.paused
}

// Restart clears the arena and starts over with a fresh player.
func (g *Game) Restart() {
	g.store.Reset()
	g.grid.Clear()
	g.food.Reset()
	g.lifetime.Reset()
	g.effects.Reset()
	g.events = g.events[:0]
	g.deaths = g.deaths[:0]
	g.bookmarks.Reset()
	g.player = ecs.Entity{}
	g.paused = false
	g.gameOver = false
	g.playerRank = -1

	g.populate()
	slog.Info("game restarted", "frame", g.frame)
}

// State returns a snapshot of the game state.
func (g *Game) State() State {
	ai, _ := g.store.CountHeads()
	return State{
		Frame:    g.frame,
		SimTime:  g.collector.SimTime(),
		Paused:   g.paused,
		GameOver: g.gameOver,
		AI:       ai,
		LiveFood: g.food.LiveCount(),
	}
}

// PlayerDeath returns the record of the player's death. It is only
// meaningful while the game is over.
func (g *Game) PlayerDeath() telemetry.DeathRecord {
	return g.playerDeath
}

// PlayerRank returns the player's last hall of fame rank, or -1 if the
// player did not place.
func (g *Game) PlayerRank() int {
	return g.playerRank
}

// HallOfFame returns the best lives of this session. It survives restarts.
func (g *Game) HallOfFame() *telemetry.HallOfFame {
	return g.hall
}

// Particles returns the live visual effect particles.
func (g *Game) Particles() []systems.EffectParticle {
	return g.effects.Particles
}

// Config returns the simulation config.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Registry returns the stage registry for display.
func (g *Game) Registry() *systems.SystemRegistry {
	return g.registry
}

// Perf returns the frame timing collector.
func (g *Game) Perf() *telemetry.PerfCollector {
	return g.perf
}

// SetStatsCallback installs a function called with every flushed stats window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// Frame returns the number of simulated frames.
func (g *Game) Frame() uint64 {
	return g.frame
}

// Unload writes the hall of fame and releases resources.
func (g *Game) Unload() {
	if err := g.output.WriteHallOfFame(g.hall); err != nil {
		slog.Error("failed to write hall of fame", "error", err)
	}
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
