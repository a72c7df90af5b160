package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeLengthStats(t *testing.T) {
	values := []float64{10, 2, 8, 4, 6}
	mean, std, p10, p50, p90, maxVal := ComputeLengthStats(values)

	if math.Abs(mean-6) > 0.001 {
		t.Errorf("mean = %v, want 6", mean)
	}
	// Sample std of 2,4,6,8,10 is sqrt(10)
	if math.Abs(std-math.Sqrt(10)) > 0.001 {
		t.Errorf("std = %v, want %v", std, math.Sqrt(10))
	}
	if math.Abs(p10-2.8) > 0.001 {
		t.Errorf("p10 = %v, want 2.8", p10)
	}
	if math.Abs(p50-6) > 0.001 {
		t.Errorf("p50 = %v, want 6", p50)
	}
	if math.Abs(p90-9.2) > 0.001 {
		t.Errorf("p90 = %v, want 9.2", p90)
	}
	if maxVal != 10 {
		t.Errorf("max = %v, want 10", maxVal)
	}

	// Input must not be reordered
	if values[0] != 10 || values[1] != 2 {
		t.Error("ComputeLengthStats modified its input")
	}
}

func TestComputeLengthStatsSmall(t *testing.T) {
	mean, std, p10, p50, p90, maxVal := ComputeLengthStats(nil)
	if mean != 0 || std != 0 || p10 != 0 || p50 != 0 || p90 != 0 || maxVal != 0 {
		t.Error("empty slice should return all zeros")
	}

	mean, std, _, p50, _, maxVal = ComputeLengthStats([]float64{7})
	if mean != 7 || std != 0 || p50 != 7 || maxVal != 7 {
		t.Errorf("single value: mean=%v std=%v p50=%v max=%v", mean, std, p50, maxVal)
	}
}

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(1.0)

	c.RecordSpawn(false)
	c.RecordSpawn(false)
	c.RecordSpawn(true)
	c.RecordDeath(true, false)
	c.RecordDeath(false, true)
	c.RecordFeeding(10, 2, 1)
	c.RecordMassDrop(7)

	for i := 0; i < 5; i++ {
		c.Advance(0.1)
	}
	if c.ShouldFlush() {
		t.Fatal("window should not be full after 0.5s")
	}
	for i := 0; i < 6; i++ {
		c.Advance(0.1)
	}
	if !c.ShouldFlush() {
		t.Fatal("window should be full after 1.1s")
	}

	ws := c.Flush(66, Population{AI: 4, Players: 1, Lengths: []float64{5, 5, 5, 5, 5}, LiveFood: 120})
	if ws.AISpawns != 2 || ws.PlayerSpawns != 1 {
		t.Errorf("spawns = %d/%d, want 2/1", ws.AISpawns, ws.PlayerSpawns)
	}
	if ws.BoundaryDeaths != 1 || ws.BodyDeaths != 1 || ws.Kills != 1 {
		t.Errorf("deaths = %d/%d kills=%d", ws.BoundaryDeaths, ws.BodyDeaths, ws.Kills)
	}
	if ws.NormalEaten != 10 || ws.MassDropsEaten != 2 || ws.SegmentsGrown != 1 || ws.MassDropped != 7 {
		t.Errorf("feeding counters wrong: %+v", ws)
	}
	if math.Abs(ws.EatRate-12/1.1) > 0.01 {
		t.Errorf("eat rate = %v, want ~%v", ws.EatRate, 12/1.1)
	}
	if ws.LengthMean != 5 || ws.LengthStd != 0 {
		t.Errorf("length stats = %v/%v", ws.LengthMean, ws.LengthStd)
	}
	if ws.WindowEndTick != 66 || ws.AICount != 4 || ws.LiveFood != 120 {
		t.Errorf("snapshot fields wrong: %+v", ws)
	}

	// Counters reset, clock keeps running
	if c.ShouldFlush() {
		t.Error("fresh window should not be full")
	}
	next := c.Flush(70, Population{})
	if next.AISpawns != 0 || next.Kills != 0 || next.NormalEaten != 0 {
		t.Error("counters were not reset after flush")
	}
	if next.WindowStartTick != 66 {
		t.Errorf("next window start = %d, want 66", next.WindowStartTick)
	}
}
