package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// HallEntry records one finished life worth remembering.
type HallEntry struct {
	EntityID   uint32  `json:"entity_id"`
	Player     bool    `json:"player"`
	Level      int     `json:"level"`
	Cause      string  `json:"cause"`
	PeakLength int     `json:"peak_length"`
	Kills      int     `json:"kills"`
	Eaten      int     `json:"eaten"`
	Survival   float32 `json:"survival_sec"`
	Tick       uint64  `json:"tick"`
	Score      float32 `json:"score"`
}

// Score weights. Length dominates; kills and survival break ties between
// snakes of similar size.
const (
	scoreLengthWeight   = 1.0
	scoreKillWeight     = 5.0
	scoreSurvivalWeight = 0.05
)

// HallOfFame keeps the best lives of a run, sorted by score.
type HallOfFame struct {
	entries []HallEntry
	maxSize int
}

// NewHallOfFame creates a hall with the given capacity.
func NewHallOfFame(maxSize int) *HallOfFame {
	maxSize = max(maxSize, 1)
	return &HallOfFame{
		entries: make([]HallEntry, 0, maxSize),
		maxSize: maxSize,
	}
}

// EntryFromDeath scores a death record.
func EntryFromDeath(r DeathRecord) HallEntry {
	return HallEntry{
		EntityID:   r.EntityID,
		Player:     r.Player,
		Level:      r.Level,
		Cause:      r.Cause,
		PeakLength: r.PeakLength,
		Kills:      r.Kills,
		Eaten:      r.Eaten,
		Survival:   r.Survival,
		Tick:       r.Tick,
		Score: float32(r.PeakLength)*scoreLengthWeight +
			float32(r.Kills)*scoreKillWeight +
			r.Survival*scoreSurvivalWeight,
	}
}

// Consider offers a death to the hall. It returns the entry's rank (0 is the
// best) or -1 if it did not make the cut.
func (hof *HallOfFame) Consider(r DeathRecord) int {
	return hof.insert(EntryFromDeath(r))
}

// insert adds an entry, maintaining sorted order by score. If the hall is
// full, the lowest-scoring entry is removed.
func (hof *HallOfFame) insert(entry HallEntry) int {
	// Find insertion point (sorted descending by score, earlier entries win ties)
	idx := sort.Search(len(hof.entries), func(i int) bool {
		return hof.entries[i].Score < entry.Score
	})

	// If hall is full and entry would be last (lowest), skip it
	if idx >= hof.maxSize {
		return -1
	}

	hof.entries = append(hof.entries, HallEntry{})
	copy(hof.entries[idx+1:], hof.entries[idx:])
	hof.entries[idx] = entry

	if len(hof.entries) > hof.maxSize {
		hof.entries = hof.entries[:hof.maxSize]
	}
	return idx
}

// Entries returns the hall from best to worst.
func (hof *HallOfFame) Entries() []HallEntry {
	return hof.entries
}

// Size returns the number of entries.
func (hof *HallOfFame) Size() int {
	return len(hof.entries)
}

// TopScore returns the best score, or 0 for an empty hall.
func (hof *HallOfFame) TopScore() float32 {
	if len(hof.entries) == 0 {
		return 0
	}
	return hof.entries[0].Score
}

// Reset empties the hall.
func (hof *HallOfFame) Reset() {
	hof.entries = hof.entries[:0]
}

// MarshalJSON serializes the hall as a ranked list.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(hof.entries, "", "  ")
}

// WriteFile saves the hall to path.
func (hof *HallOfFame) WriteFile(path string) error {
	data, err := hof.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshaling hall of fame: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing hall of fame: %w", err)
	}
	return nil
}

// LoadHallOfFameFromFile reads a hall of fame JSON file. Entries are
// re-ranked, so a hand-edited file still loads in order. maxSize of zero
// keeps every entry in the file.
func LoadHallOfFameFromFile(path string, maxSize int) (*HallOfFame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hall of fame: %w", err)
	}

	var entries []HallEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing hall of fame JSON: %w", err)
	}

	if maxSize <= 0 {
		maxSize = len(entries)
	}
	hof := NewHallOfFame(maxSize)
	for _, e := range entries {
		hof.insert(e)
	}
	return hof, nil
}
