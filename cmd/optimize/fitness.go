package main

import (
	"math"
	"slices"
	"sync"

	"github.com/pthm-cable/serpent/config"
	"github.com/pthm-cable/serpent/game"
	"github.com/pthm-cable/serpent/telemetry"
)

const tickDT = float32(1.0 / 60)

// FitnessEvaluator runs headless AI-only arenas and scores the steering.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu          sync.Mutex
	lastSummary runSummary // averaged over seeds in the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 10.0,
	}
}

// runSummary aggregates the windows of one run.
type runSummary struct {
	DeathsPerMin  float64 // Deaths per agent per simulated minute
	BoundaryShare float64 // Fraction of deaths caused by the arena edge
	MedianLength  float64 // Mean of the per-window median length
	EatRatePerAI  float64 // Items eaten per agent per second
	ScoredWindows int
}

// LastSummary returns the seed-averaged summary of the most recent evaluation.
func (fe *FitnessEvaluator) LastSummary() runSummary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSummary
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	summaries := make([]runSummary, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			summaries[idx] = summarize(fe.runSimulation(x, s))
		}(i, seed)
	}
	wg.Wait()

	var total float64
	var avg runSummary
	for _, s := range summaries {
		total += computeFitness(s)
		avg.DeathsPerMin += s.DeathsPerMin
		avg.BoundaryShare += s.BoundaryShare
		avg.MedianLength += s.MedianLength
		avg.EatRatePerAI += s.EatRatePerAI
		avg.ScoredWindows += s.ScoredWindows
	}
	n := float64(len(fe.seeds))
	avg.DeathsPerMin /= n
	avg.BoundaryShare /= n
	avg.MedianLength /= n
	avg.EatRatePerAI /= n

	fe.mu.Lock()
	fe.lastSummary = avg
	fe.mu.Unlock()

	return total / n
}

// runSimulation executes a single headless run and returns its stats windows.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) []telemetry.WindowStats {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	g, err := game.New(cfg, game.Options{
		Seed:           seed,
		StatsWindowSec: fe.statsWindow,
		NoPlayer:       true,
	})
	if err != nil {
		return nil
	}
	defer g.Unload()

	var windows []telemetry.WindowStats
	g.SetStatsCallback(func(ws telemetry.WindowStats) {
		windows = append(windows, ws)
	})

	for int(g.Frame()) < fe.maxTicks {
		g.Step(tickDT)
	}
	return windows
}

// copyConfig returns a copy of the base config that parameters can be
// applied to without affecting other runs.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.AI.Levels = slices.Clone(fe.baseConfig.AI.Levels)
	return &cfg
}

// warmupWindows are skipped while the arena fills up.
const warmupWindows = 1

// summarize reduces the stats windows of one run.
func summarize(windows []telemetry.WindowStats) runSummary {
	var s runSummary
	if len(windows) <= warmupWindows {
		return s
	}

	var deaths, boundary, eaten int
	var agentSec float64
	prevTime := windows[warmupWindows-1].SimTimeSec
	for _, w := range windows[warmupWindows:] {
		span := w.SimTimeSec - prevTime
		prevTime = w.SimTimeSec
		if w.AICount == 0 || span <= 0 {
			continue
		}
		d := w.BoundaryDeaths + w.BodyDeaths
		deaths += d
		boundary += w.BoundaryDeaths
		eaten += w.NormalEaten + w.MassDropsEaten
		agentSec += float64(w.AICount) * span
		s.MedianLength += w.LengthP50
		s.ScoredWindows++
	}
	if s.ScoredWindows == 0 || agentSec == 0 {
		return s
	}

	s.DeathsPerMin = float64(deaths) / agentSec * 60
	if deaths > 0 {
		s.BoundaryShare = float64(boundary) / float64(deaths)
	}
	s.MedianLength /= float64(s.ScoredWindows)
	s.EatRatePerAI = float64(eaten) / agentSec
	return s
}

// computeFitness scores a run (lower = better). Long, well-fed agents score
// well; every death per agent-minute discounts the score, and edge deaths
// count double.
func computeFitness(s runSummary) float64 {
	if s.ScoredWindows == 0 {
		return 0
	}
	growth := s.MedianLength * (1 + math.Log1p(s.EatRatePerAI))
	mortality := s.DeathsPerMin * (1 + s.BoundaryShare)
	return -growth * math.Exp(-mortality)
}
