package telemetry

import (
	"math"
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseHeads)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseSteering)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick(Load{Heads: 4, Segments: 40})
	}

	stats := pc.Stats()

	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if stats.Avg(PhaseHeads) <= 0 {
		t.Error("expected move_heads phase to be tracked")
	}
	if stats.Avg(PhaseSteering) <= 0 {
		t.Error("expected steering phase to be tracked")
	}
	if stats.Avg(PhaseCollision) != 0 {
		t.Errorf("untimed phase avg = %v, want 0", stats.Avg(PhaseCollision))
	}
	if stats.Slowest != PhaseSteering {
		t.Errorf("slowest = %q, want %q", stats.Slowest, PhaseSteering)
	}
}

func TestPerfCollector_Load(t *testing.T) {
	pc := NewPerfCollector(4)

	loads := []Load{{2, 10}, {4, 30}, {6, 50}, {8, 70}, {10, 90}, {12, 110}}
	for _, l := range loads {
		pc.StartTick()
		pc.StartPhase(PhaseBodies)
		time.Sleep(50 * time.Microsecond)
		pc.EndTick(l)
	}

	// Only the last four ticks remain in the window.
	stats := pc.Stats()
	if math.Abs(stats.AvgHeads-9) > 1e-9 {
		t.Errorf("avg heads = %v, want 9", stats.AvgHeads)
	}
	if math.Abs(stats.AvgSegments-80) > 1e-9 {
		t.Errorf("avg segments = %v, want 80", stats.AvgSegments)
	}
	want := float64(stats.AvgTickDuration.Nanoseconds()) / 80
	if stats.NsPerSegment <= 0 || math.Abs(stats.NsPerSegment-want)/want > 0.01 {
		t.Errorf("ns per segment = %v, want about %v", stats.NsPerSegment, want)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseHeads)
		pc.EndTick(Load{})
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
	if stats.NsPerSegment != 0 {
		t.Errorf("ns per segment with no segments = %v, want 0", stats.NsPerSegment)
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseGrowth)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseCollision)
		time.Sleep(100 * time.Microsecond)
		pc.EndTick(Load{})
	}

	stats := pc.Stats()
	if stats.Pct(PhaseCollision) <= stats.Pct(PhaseGrowth) {
		t.Errorf("expected collision (%v%%) > growth (%v%%)", stats.Pct(PhaseCollision), stats.Pct(PhaseGrowth))
	}
	if sum := stats.Pct(PhaseCollision) + stats.Pct(PhaseGrowth); sum > 100.001 {
		t.Errorf("phase shares sum to %v%%", sum)
	}
}

func TestPerfCollector_UnknownPhase(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.StartTick()
	pc.StartPhase("render")
	time.Sleep(50 * time.Microsecond)
	pc.EndTick(Load{})

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("tick total should include unknown phases")
	}
	if stats.Avg("render") != 0 || stats.Slowest != "" {
		t.Errorf("unknown phase leaked into stats: avg=%v slowest=%q", stats.Avg("render"), stats.Slowest)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()
	if stats.AvgTickDuration != 0 || stats.Slowest != "" {
		t.Errorf("empty collector stats = %+v", stats)
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()

	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}
	// Sleep never undershoots, so 16ms frames cap FPS near 62
	if stats.FPS < 5 || stats.FPS > 70 {
		t.Errorf("expected FPS between 5-70 with 16ms frame time, got %v", stats.FPS)
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	var stats PerfStats
	stats.AvgTickDuration = 2 * time.Millisecond
	stats.PhasePct[phaseIndex[PhaseSteering]] = 40
	stats.PhasePct[phaseIndex[PhaseCollision]] = 10
	stats.AvgSegments = 120
	stats.Slowest = PhaseSteering

	row := stats.ToCSV(600)
	if row.WindowEnd != 600 {
		t.Errorf("window end = %d, want 600", row.WindowEnd)
	}
	if row.AvgTickUS != 2000 {
		t.Errorf("avg tick = %dus, want 2000", row.AvgTickUS)
	}
	if row.SteeringPct != 40 || row.CollisionPct != 10 {
		t.Errorf("phase pct not mapped: steering=%v collision=%v", row.SteeringPct, row.CollisionPct)
	}
	if row.FoodPct != 0 || row.TelemetryPct != 0 {
		t.Errorf("untracked phases should be 0, got food=%v telemetry=%v", row.FoodPct, row.TelemetryPct)
	}
	if row.Segments != 120 || row.Slowest != PhaseSteering {
		t.Errorf("load columns = %v / %q", row.Segments, row.Slowest)
	}
}

func TestPhasesPipelineOrder(t *testing.T) {
	if len(Phases) != NumPhases {
		t.Fatalf("expected %d phases, got %d", NumPhases, len(Phases))
	}
	if Phases[0] != PhaseFood || Phases[len(Phases)-1] != PhaseTelemetry {
		t.Errorf("unexpected phase order: %v", Phases)
	}
	for i, p := range Phases {
		if phaseIndex[p] != i {
			t.Errorf("phase %q indexed at %d, want %d", p, phaseIndex[p], i)
		}
	}
}
