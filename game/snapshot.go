package game

import (
	"log/slog"

	"github.com/pthm-cable/serpent/telemetry"
)

// Snapshot captures every live agent for offline inspection.
func (g *Game) Snapshot() *telemetry.Snapshot {
	snap := &telemetry.Snapshot{
		Version:     telemetry.SnapshotVersion,
		RNGSeed:     g.seed,
		WorldWidth:  g.cfg.Derived.WorldW32,
		WorldHeight: g.cfg.Derived.WorldH32,
		Tick:        g.frame,
		LiveFood:    g.food.LiveCount(),
	}

	query := g.store.Heads.Query()
	for query.Next() {
		pos, heading, motion, _, head := query.Get()
		if head.Dead {
			continue
		}
		e := query.Entity()
		agent := telemetry.AgentState{
			ID:       e.ID(),
			Player:   g.store.Player.Has(e),
			X:        pos.X,
			Y:        pos.Y,
			Heading:  heading.Angle,
			Speed:    motion.Speed,
			Radius:   head.Radius,
			Length:   head.Length(),
			Energy:   head.Energy,
			Lifetime: g.lifetime.Get(e.ID()).ToJSON(),
		}
		if g.store.AI.Has(e) {
			agent.Level = g.store.AI.Get(e).Level
		}
		agent.Body = make([]float32, 0, 2*len(head.Segments))
		for _, seg := range head.Segments {
			if g.store.Alive(seg) {
				p := g.store.Pos.Get(seg)
				agent.Body = append(agent.Body, p.X, p.Y)
			}
		}
		snap.Agents = append(snap.Agents, agent)
	}
	return snap
}

// SaveSnapshot writes a snapshot to dir, tagged with bookmark if non-nil,
// and returns the file path.
func (g *Game) SaveSnapshot(dir string, bookmark *telemetry.Bookmark) (string, error) {
	snap := g.Snapshot()
	snap.Bookmark = bookmark
	path, err := telemetry.SaveSnapshot(snap, dir)
	if err != nil {
		return "", err
	}
	slog.Info("snapshot saved", "path", path, "agents", len(snap.Agents))
	return path, nil
}
