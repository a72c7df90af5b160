package game

import (
	"log/slog"

	"github.com/pthm-cable/serpent/telemetry"
)

// trackLifetimes refreshes survival time and peak length of every live agent
// and returns the tick's load.
func (g *Game) trackLifetimes(dt float32) telemetry.Load {
	var load telemetry.Load
	query := g.store.Heads.Query()
	for query.Next() {
		_, _, _, _, head := query.Get()
		if head.Dead {
			continue
		}
		id := query.Entity().ID()
		g.lifetime.UpdateSurvivalTime(id, g.frame+1, dt)
		g.lifetime.UpdateLength(id, head.Length())
		load.Heads++
		load.Segments += head.Length()
	}
	return load
}

// population samples the arena for a stats window.
func (g *Game) population() telemetry.Population {
	pop := telemetry.Population{
		LiveFood:  g.food.LiveCount(),
		FreeSlots: g.food.FreeCount(),
	}
	query := g.store.Heads.Query()
	for query.Next() {
		_, _, _, _, head := query.Get()
		if head.Dead {
			continue
		}
		if g.store.Player.Has(query.Entity()) {
			pop.Players++
		} else {
			pop.AI++
		}
		pop.Lengths = append(pop.Lengths, float64(head.Length()))
	}
	return pop
}

// flushTelemetry emits and writes the window once it is full.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush() {
		return
	}

	stats := g.collector.Flush(g.frame, g.population())
	perfStats := g.perf.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	for _, b := range g.bookmarks.Check(stats) {
		b.LogBookmark()
		if g.opts.SnapshotDir == "" {
			continue
		}
		if _, err := g.SaveSnapshot(g.opts.SnapshotDir, &b); err != nil {
			slog.Error("failed to save snapshot", "error", err)
		}
	}

	if g.output != nil {
		if err := g.output.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}
