// Package main tunes the AI steering weights with CMA-ES. Each candidate is
// scored on headless AI-only arenas by how long agents grow, how well they
// feed and how rarely they die; the best candidate is replayed once with full
// telemetry and a hall of fame.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/serpent/config"
)

type options struct {
	configPath  string
	maxTicks    int
	seeds       int
	seedBase    int64
	maxEvals    int
	population  int
	stepSize    float64
	statsWindow float64
	replayTicks int
	outputDir   string
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.IntVar(&o.maxTicks, "max-ticks", 36000, "Arena duration per run in ticks (60 per second)")
	flag.IntVar(&o.seeds, "seeds", 3, "Arenas per evaluation")
	flag.Int64Var(&o.seedBase, "seed-base", 42, "First arena seed; later seeds step by 1000")
	flag.IntVar(&o.maxEvals, "max-evals", 200, "Maximum number of evaluations")
	flag.IntVar(&o.population, "population", 0, "CMA-ES population size (0 = 4 + 3 ln n)")
	flag.Float64Var(&o.stepSize, "step", 0.3, "Initial CMA-ES step size in normalized units")
	flag.Float64Var(&o.statsWindow, "stats-window", 10, "Stats window in simulated seconds")
	flag.IntVar(&o.replayTicks, "replay-ticks", 0, "Ticks for the replay of the best weights (0 = max-ticks)")
	flag.StringVar(&o.outputDir, "output", "", "Output directory for results")
	flag.Parse()

	if o.replayTicks <= 0 {
		o.replayTicks = o.maxTicks
	}
	return o
}

// formatDuration formats a duration as 1h02m03s or 2m03s.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	opts := parseFlags()
	if opts.outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	baseCfg, err := config.Load(opts.configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	params := NewParamVector()
	evalSeeds := make([]int64, opts.seeds)
	for i := range evalSeeds {
		evalSeeds[i] = opts.seedBase + int64(i)*1000
	}
	evaluator := NewFitnessEvaluator(params, opts.maxTicks, evalSeeds, baseCfg)
	evaluator.statsWindow = opts.statsWindow

	evals, err := newEvalLog(filepath.Join(opts.outputDir, "optimize_log.csv"), params)
	if err != nil {
		log.Fatal(err)
	}
	defer evals.Close()

	dim := params.Dim()
	popSize := opts.population
	if popSize == 0 {
		popSize = 4 + int(3*math.Log(float64(dim)))
	}

	evalCount := 0
	bestFitness := math.Inf(1)
	var bestParams []float64
	var bestSummary runSummary
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			values := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(values)
			sum := evaluator.LastSummary()
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = append(bestParams[:0], values...)
				bestSummary = sum
			}
			if err := evals.Write(evalCount, fitness, sum, values); err != nil {
				log.Printf("failed to log evaluation %d: %v", evalCount, err)
			}

			elapsed := time.Since(startTime)
			remaining := time.Duration(opts.maxEvals-evalCount) * (elapsed / time.Duration(evalCount))
			fmt.Printf("Eval %d/%d: fitness=%.2f length=%.1f eat=%.3f/s deaths/min=%.3f edge=%.0f%% (best=%.2f) | elapsed %s, ETA %s\n",
				evalCount, opts.maxEvals, fitness, sum.MedianLength, sum.EatRatePerAI, sum.DeathsPerMin,
				sum.BoundaryShare*100, bestFitness, formatDuration(elapsed), formatDuration(remaining))
			return fitness
		},
	}

	fmt.Printf("Tuning %d steering weights: population=%d, max_evals=%d, %d arenas of %d ticks each\n",
		dim, popSize, opts.maxEvals, opts.seeds, opts.maxTicks)

	// Evaluations run one at a time; each already spreads its arenas over goroutines.
	result, err := optimize.Minimize(problem, params.Normalize(params.DefaultVector()),
		&optimize.Settings{FuncEvaluations: opts.maxEvals},
		&optimize.CmaEsChol{InitStepSize: opts.stepSize, Population: popSize})
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if bestParams == nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}

	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness %.2f: median length %.1f, %.3f deaths/agent-min (%.0f%% at the edge), %.3f meals/agent-s\n",
		bestFitness, bestSummary.MedianLength, bestSummary.DeathsPerMin, bestSummary.BoundaryShare*100, bestSummary.EatRatePerAI)
	fmt.Println("\nBest weights:")
	for i, p := range params.Specs {
		fmt.Printf("  %-18s %10.4f  (default %g)\n", p.Path, bestParams[i], p.Default)
	}

	bestCfg := evaluator.copyConfig()
	params.ApplyToConfig(bestCfg, bestParams)
	configOutPath := filepath.Join(opts.outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}

	replayDir := filepath.Join(opts.outputDir, "best_run")
	replaySeed := opts.seedBase + int64(opts.seeds)*1000
	res, err := replay(bestCfg, replaySeed, opts.replayTicks, opts.statsWindow, replayDir)
	if err != nil {
		log.Fatalf("replay failed: %v", err)
	}
	fmt.Printf("\nReplay on unseen seed %d: fitness %.2f, median length %.1f\n", replaySeed, res.Fitness, res.Summary.MedianLength)
	for i, e := range res.Best {
		if i == 5 {
			break
		}
		fmt.Printf("  #%d level %d: peak %d, %d kills, %.0fs, died by %s\n",
			i+1, e.Level, e.PeakLength, e.Kills, e.Survival, e.Cause)
	}
	fmt.Printf("Replay telemetry and hall of fame in: %s\n", replayDir)
}
