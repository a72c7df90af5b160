// Package telemetry provides arena statistics, per-agent lifetimes, perf
// timing and CSV output.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick uint64  `csv:"-"`
	WindowEndTick   uint64  `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	AICount     int `csv:"ai"`
	PlayerCount int `csv:"players"`
	LiveFood    int `csv:"live_food"`
	FreeSlots   int `csv:"free_slots"`

	// Lifecycle events during window
	AISpawns       int `csv:"ai_spawns"`
	PlayerSpawns   int `csv:"player_spawns"`
	BoundaryDeaths int `csv:"boundary_deaths"`
	BodyDeaths     int `csv:"body_deaths"`
	Kills          int `csv:"kills"`

	// Food economy during window
	NormalEaten    int     `csv:"normal_eaten"`
	MassDropsEaten int     `csv:"mass_drops_eaten"`
	SegmentsGrown  int     `csv:"segments_grown"`
	MassDropped    int     `csv:"mass_dropped"`
	EatRate        float64 `csv:"eat_rate"` // Items eaten per simulated second

	// Length distribution (sampled at window end)
	LengthMean float64 `csv:"length_mean"`
	LengthStd  float64 `csv:"length_std"`
	LengthP10  float64 `csv:"length_p10"`
	LengthP50  float64 `csv:"length_p50"`
	LengthP90  float64 `csv:"length_p90"`
	LengthMax  float64 `csv:"length_max"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeLengthStats calculates mean, sample standard deviation, percentiles
// and maximum of agent lengths. All values are 0 for an empty input; std is
// 0 for a single value.
func ComputeLengthStats(values []float64) (mean, std, p10, p50, p90, maxVal float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0, 0
	}

	if n > 1 {
		mean, std = stat.MeanStdDev(values, nil)
	} else {
		mean = values[0]
	}
	maxVal = floats.Max(values)

	// Sort a copy for percentiles
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90, maxVal
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStartTick),
		slog.Uint64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("ai", s.AICount),
		slog.Int("players", s.PlayerCount),
		slog.Int("live_food", s.LiveFood),
		slog.Int("free_slots", s.FreeSlots),
		slog.Int("ai_spawns", s.AISpawns),
		slog.Int("player_spawns", s.PlayerSpawns),
		slog.Int("boundary_deaths", s.BoundaryDeaths),
		slog.Int("body_deaths", s.BodyDeaths),
		slog.Int("kills", s.Kills),
		slog.Int("normal_eaten", s.NormalEaten),
		slog.Int("mass_drops_eaten", s.MassDropsEaten),
		slog.Int("segments_grown", s.SegmentsGrown),
		slog.Int("mass_dropped", s.MassDropped),
		slog.Float64("eat_rate", s.EatRate),
		slog.Float64("length_mean", s.LengthMean),
		slog.Float64("length_std", s.LengthStd),
		slog.Float64("length_p50", s.LengthP50),
		slog.Float64("length_max", s.LengthMax),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"ai", s.AICount,
		"live_food", s.LiveFood,
		"deaths", s.BoundaryDeaths+s.BodyDeaths,
		"kills", s.Kills,
		"eat_rate", s.EatRate,
		"length_mean", s.LengthMean,
		"length_p90", s.LengthP90,
		"length_max", s.LengthMax,
	)
}
