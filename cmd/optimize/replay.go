package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/pthm-cable/serpent/config"
	"github.com/pthm-cable/serpent/game"
	"github.com/pthm-cable/serpent/telemetry"
)

// evalLog writes one optimize_log.csv row per evaluation: the clamped
// parameters followed by the arena summary they produced.
type evalLog struct {
	f *os.File
	w *csv.Writer
}

func newEvalLog(path string, params *ParamVector) (*evalLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating eval log: %w", err)
	}
	header := []string{"eval", "fitness", "median_length", "deaths_per_min", "boundary_share", "eat_rate"}
	for _, p := range params.Specs {
		header = append(header, p.Name)
	}
	l := &evalLog{f: f, w: csv.NewWriter(f)}
	if err := l.w.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing eval log header: %w", err)
	}
	return l, nil
}

func (l *evalLog) Write(eval int, fitness float64, sum runSummary, values []float64) error {
	row := []string{
		strconv.Itoa(eval),
		strconv.FormatFloat(fitness, 'f', 4, 64),
		strconv.FormatFloat(sum.MedianLength, 'f', 2, 64),
		strconv.FormatFloat(sum.DeathsPerMin, 'f', 4, 64),
		strconv.FormatFloat(sum.BoundaryShare, 'f', 3, 64),
		strconv.FormatFloat(sum.EatRatePerAI, 'f', 4, 64),
	}
	for _, v := range values {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	if err := l.w.Write(row); err != nil {
		return err
	}
	l.w.Flush()
	return l.w.Error()
}

func (l *evalLog) Close() error {
	l.w.Flush()
	return l.f.Close()
}

// replayResult describes a single arena run of the tuned steering.
type replayResult struct {
	Summary runSummary
	Fitness float64
	Best    []telemetry.HallEntry
}

// replay runs cfg once in an AI-only arena with full output in dir:
// telemetry.csv, deaths.csv, perf.csv, config.yaml and hall_of_fame.json.
func replay(cfg *config.Config, seed int64, ticks int, statsWindow float64, dir string) (replayResult, error) {
	g, err := game.New(cfg, game.Options{
		Seed:           seed,
		StatsWindowSec: statsWindow,
		OutputDir:      dir,
		NoPlayer:       true,
	})
	if err != nil {
		return replayResult{}, fmt.Errorf("creating replay arena: %w", err)
	}

	var windows []telemetry.WindowStats
	g.SetStatsCallback(func(ws telemetry.WindowStats) {
		windows = append(windows, ws)
	})
	for int(g.Frame()) < ticks {
		g.Step(tickDT)
	}
	best := g.HallOfFame().Entries()
	g.Unload()

	sum := summarize(windows)
	return replayResult{Summary: sum, Fitness: computeFitness(sum), Best: best}, nil
}
