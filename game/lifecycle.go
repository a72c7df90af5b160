package game

import (
	"log/slog"

	"github.com/pthm-cable/serpent/components"
	"github.com/pthm-cable/serpent/telemetry"
)

// topUpAI adds at most one AI agent per frame while below the population cap.
func (g *Game) topUpAI() {
	ai, _ := g.store.CountHeads()
	if ai >= g.cfg.AI.MaxCount {
		return
	}
	g.SpawnRandomAI()
}

// reapDead converts dead agents to food and records their deaths. The
// player's death ends the game.
func (g *Game) reapDead() {
	g.deaths = g.reaper.Update(g.store, g.grid, g.food, g.deaths[:0])

	for _, d := range g.deaths {
		killed := d.Cause == components.CauseBody && !d.Killer.IsZero()
		g.collector.RecordDeath(d.Cause == components.CauseBoundary, killed)
		g.collector.RecordMassDrop(d.Length)

		var killerID uint32
		if killed {
			killerID = d.Killer.ID()
			g.lifetime.RecordKill(killerID)
		}

		g.effects.EmitDeath(d.X, d.Y, d.Radius, d.Skin)

		id := d.Entity.ID()
		life := g.lifetime.Remove(id)
		record := telemetry.NewDeathRecord(g.frame, g.collector.SimTime(), id, d.Cause.String(), killerID, d.Length, d.Radius, d.TotalEnergy, life)
		if g.output != nil {
			if err := g.output.WriteDeath(record); err != nil {
				slog.Error("failed to write death", "error", err)
			}
		}

		rank := g.hall.Consider(record)

		slog.Debug("agent_died",
			"entity", id,
			"player", d.Player,
			"cause", record.Cause,
			"killer", killerID,
			"length", d.Length,
			"survival", record.Survival,
		)

		if d.Player {
			g.paused = true
			g.gameOver = true
			g.playerDeath = record
			g.playerRank = rank
			slog.Info("player_died",
				"frame", g.frame,
				"cause", record.Cause,
				"length", d.Length,
				"peak_length", record.PeakLength,
				"kills", record.Kills,
				"rank", rank,
			)
		}
	}
}
