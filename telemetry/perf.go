package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the simulation step, one per pipeline stage.
const (
	PhaseFood       = "food"
	PhasePopulation = "population"
	PhasePlayer     = "player"
	PhaseSteering   = "steering"
	PhaseHeads      = "move_heads"
	PhaseGrowth     = "growth"
	PhaseBodies     = "follow_bodies"
	PhaseCollision  = "collision"
	PhaseLifecycle  = "lifecycle"
	PhaseTelemetry  = "telemetry"
)

// Phases lists every phase in pipeline order.
var Phases = []string{
	PhaseFood, PhasePopulation, PhasePlayer, PhaseSteering, PhaseHeads,
	PhaseGrowth, PhaseBodies, PhaseCollision, PhaseLifecycle, PhaseTelemetry,
}

// NumPhases is the number of pipeline stages.
const NumPhases = 10

var phaseIndex = func() map[string]int {
	m := make(map[string]int, len(Phases))
	for i, p := range Phases {
		m[p] = i
	}
	return m
}()

// Load is the arena population a tick was run with.
type Load struct {
	Heads    int
	Segments int
}

// tickSample is one tick of timing.
type tickSample struct {
	total  time.Duration
	phases [NumPhases]time.Duration
	load   Load
}

// PerfCollector keeps a ring of recent tick timings, split by pipeline stage.
type PerfCollector struct {
	ring  []tickSample
	next  int
	count int

	cur        tickSample
	tickStart  time.Time
	phaseStart time.Time
	phase      int // index into Phases, -1 outside a tick

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over window ticks.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{ring: make([]tickSample, window), phase: -1}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.cur = tickSample{}
	p.phase = -1
}

// StartPhase closes the running phase and starts timing the named one.
// Names outside the pipeline are timed into the tick total only.
func (p *PerfCollector) StartPhase(name string) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	if i, ok := phaseIndex[name]; ok {
		p.phase = i
	} else {
		p.phase = -1
	}
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase >= 0 {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick closes the tick and records it with the load it ran against.
func (p *PerfCollector) EndTick(load Load) {
	now := time.Now()
	p.closePhase(now)
	p.phase = -1
	p.cur.total = now.Sub(p.tickStart)
	p.cur.load = load

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}
}

// RecordFrame records the time since the previous rendered frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats summarizes the ticks in the window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	TicksPerSecond  float64

	// Indexed like Phases.
	PhaseAvg [NumPhases]time.Duration
	PhasePct [NumPhases]float64

	AvgHeads     float64
	AvgSegments  float64
	NsPerSegment float64 // Average tick cost per body segment
	Slowest      string  // Phase with the largest average share

	FrameDuration time.Duration
	FPS           float64
}

// Avg returns the average duration of a named phase.
func (s PerfStats) Avg(phase string) time.Duration {
	if i, ok := phaseIndex[phase]; ok {
		return s.PhaseAvg[i]
	}
	return 0
}

// Pct returns the share of tick time spent in a named phase.
func (s PerfStats) Pct(phase string) float64 {
	if i, ok := phaseIndex[phase]; ok {
		return s.PhasePct[i]
	}
	return 0
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() PerfStats {
	var s PerfStats
	s.FrameDuration = p.frame
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return s
	}

	var total time.Duration
	var phaseSum [NumPhases]time.Duration
	var heads, segs int
	for i, t := range p.ring[:p.count] {
		total += t.total
		if i == 0 || t.total < s.MinTickDuration {
			s.MinTickDuration = t.total
		}
		s.MaxTickDuration = max(s.MaxTickDuration, t.total)
		for j, d := range t.phases {
			phaseSum[j] += d
		}
		heads += t.load.Heads
		segs += t.load.Segments
	}

	n := float64(p.count)
	s.AvgTickDuration = total / time.Duration(p.count)
	s.AvgHeads = float64(heads) / n
	s.AvgSegments = float64(segs) / n
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	if segs > 0 {
		s.NsPerSegment = float64(total.Nanoseconds()) / float64(segs)
	}

	best := -1
	for j, sum := range phaseSum {
		s.PhaseAvg[j] = sum / time.Duration(p.count)
		if s.AvgTickDuration > 0 {
			s.PhasePct[j] = float64(s.PhaseAvg[j]) / float64(s.AvgTickDuration) * 100
		}
		if sum > 0 && (best < 0 || sum > phaseSum[best]) {
			best = j
		}
	}
	if best >= 0 {
		s.Slowest = Phases[best]
	}
	return s
}

// LogStats logs the window at Info.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer. Phases under 0.1% are left out.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
		slog.Int("segments", int(s.AvgSegments)),
		slog.Float64("ns_per_segment", float64(int(s.NsPerSegment*10))/10),
		slog.String("slowest", s.Slowest),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for i, phase := range Phases {
		if pct := s.PhasePct[i]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is the perf.csv row.
type PerfStatsCSV struct {
	WindowEnd     uint64  `csv:"window_end"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	FPS           float64 `csv:"fps"`
	Heads         float64 `csv:"heads"`
	Segments      float64 `csv:"segments"`
	NsPerSegment  float64 `csv:"ns_per_segment"`
	Slowest       string  `csv:"slowest_phase"`
	FoodPct       float64 `csv:"food_pct"`
	PopulationPct float64 `csv:"population_pct"`
	PlayerPct     float64 `csv:"player_pct"`
	SteeringPct   float64 `csv:"steering_pct"`
	HeadsPct      float64 `csv:"move_heads_pct"`
	GrowthPct     float64 `csv:"growth_pct"`
	BodiesPct     float64 `csv:"follow_bodies_pct"`
	CollisionPct  float64 `csv:"collision_pct"`
	LifecyclePct  float64 `csv:"lifecycle_pct"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd uint64) PerfStatsCSV {
	pct := s.PhasePct
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		AvgTickUS:     s.AvgTickDuration.Microseconds(),
		MaxTickUS:     s.MaxTickDuration.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		FPS:           s.FPS,
		Heads:         s.AvgHeads,
		Segments:      s.AvgSegments,
		NsPerSegment:  s.NsPerSegment,
		Slowest:       s.Slowest,
		FoodPct:       pct[0],
		PopulationPct: pct[1],
		PlayerPct:     pct[2],
		SteeringPct:   pct[3],
		HeadsPct:      pct[4],
		GrowthPct:     pct[5],
		BodiesPct:     pct[6],
		CollisionPct:  pct[7],
		LifecyclePct:  pct[8],
		TelemetryPct:  pct[9],
	}
}
