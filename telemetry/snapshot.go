package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the arena state at one tick for offline inspection.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`

	WorldWidth  float32 `json:"world_width"`
	WorldHeight float32 `json:"world_height"`

	Tick     uint64 `json:"tick"`
	LiveFood int    `json:"live_food"`

	Agents []AgentState `json:"agents"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// AgentState holds one agent's state.
type AgentState struct {
	ID     uint32 `json:"id"`
	Player bool   `json:"player"`
	Level  int    `json:"level"`

	X       float32 `json:"x"`
	Y       float32 `json:"y"`
	Heading float32 `json:"heading"` // degrees
	Speed   float32 `json:"speed"`

	Radius float32 `json:"radius"`
	Length int     `json:"length"`
	Energy float32 `json:"energy"`

	// Body segment centres from head to tail, flattened as x0, y0, x1, y1, ...
	Body []float32 `json:"body,omitempty"`

	Lifetime *LifetimeStatsJSON `json:"lifetime,omitempty"`
}

// LifetimeStatsJSON is the JSON-serializable form of LifetimeStats.
type LifetimeStatsJSON struct {
	BirthTick       uint64  `json:"birth_tick"`
	SurvivalTimeSec float32 `json:"survival_time_sec"`
	NormalEaten     int     `json:"normal_eaten"`
	MassDropsEaten  int     `json:"mass_drops_eaten"`
	EnergyEaten     float32 `json:"energy_eaten"`
	Kills           int     `json:"kills"`
	PeakLength      int     `json:"peak_length"`
}

// ToJSON converts LifetimeStats to its JSON form.
func (ls *LifetimeStats) ToJSON() *LifetimeStatsJSON {
	if ls == nil {
		return nil
	}
	return &LifetimeStatsJSON{
		BirthTick:       ls.BirthTick,
		SurvivalTimeSec: ls.SurvivalTimeSec,
		NormalEaten:     ls.NormalEaten,
		MassDropsEaten:  ls.MassDropsEaten,
		EnergyEaten:     ls.EnergyEaten,
		Kills:           ls.Kills,
		PeakLength:      ls.PeakLength,
	}
}

// FromJSON converts the JSON form back to LifetimeStats. Level and Player
// live on AgentState and are not restored here.
func (lsj *LifetimeStatsJSON) FromJSON() *LifetimeStats {
	if lsj == nil {
		return nil
	}
	return &LifetimeStats{
		BirthTick:       lsj.BirthTick,
		SurvivalTimeSec: lsj.SurvivalTimeSec,
		NormalEaten:     lsj.NormalEaten,
		MassDropsEaten:  lsj.MassDropsEaten,
		EnergyEaten:     lsj.EnergyEaten,
		Kills:           lsj.Kills,
		PeakLength:      lsj.PeakLength,
	}
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}
