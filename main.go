package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/serpent/config"
	"github.com/pthm-cable/serpent/game"
)

const tickDT = float32(1.0 / 60)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for bookmark snapshots (empty = disabled)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per frame in graphical mode")
	noPlayer := flag.Bool("no-player", false, "Run an AI-only arena")
	debug := flag.Bool("debug", false, "Log per-agent spawn and death events")

	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Use config stats window if not overridden by CLI
	statsWindowSec := cfg.Telemetry.StatsWindow
	if *statsWindow > 0 {
		statsWindowSec = *statsWindow
	}

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: statsWindowSec,
		OutputDir:      *outputDir,
		SnapshotDir:    *snapshotDir,
		NoPlayer:       *noPlayer || *headless,
	}

	if *headless {
		runHeadless(cfg, opts, *maxTicks)
		return
	}
	runWindow(cfg, opts, *maxTicks, max(1, *stepsPerUpdate))
}

// runHeadless steps an AI-only arena at a fixed tick without raylib.
func runHeadless(cfg *config.Config, opts game.Options, maxTicks int) {
	g, err := game.New(cfg, opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"stats_window", opts.StatsWindowSec,
		"max_ticks", maxTicks,
	)

	for {
		g.Step(tickDT)

		if maxTicks > 0 && int(g.Frame()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Frame())
			return
		}
	}
}
