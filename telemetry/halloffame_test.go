package telemetry

import (
	"path/filepath"
	"testing"
)

func TestHallOfFameRanking(t *testing.T) {
	hof := NewHallOfFame(3)

	tests := []struct {
		name     string
		record   DeathRecord
		wantRank int
	}{
		{"first", DeathRecord{EntityID: 1, PeakLength: 10}, 0},
		{"longer", DeathRecord{EntityID: 2, PeakLength: 20}, 0},
		{"middle", DeathRecord{EntityID: 3, PeakLength: 15}, 1},
		{"too short for full hall", DeathRecord{EntityID: 4, PeakLength: 5}, -1},
		{"kills break in", DeathRecord{EntityID: 5, PeakLength: 10, Kills: 1}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hof.Consider(tt.record); got != tt.wantRank {
				t.Errorf("rank = %d, want %d", got, tt.wantRank)
			}
		})
	}

	var ids []uint32
	for _, e := range hof.Entries() {
		ids = append(ids, e.EntityID)
	}
	want := []uint32{2, 3, 5}
	if len(ids) != len(want) {
		t.Fatalf("entries = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("entries = %v, want %v", ids, want)
		}
	}
	if hof.TopScore() != 20 {
		t.Errorf("top score = %v, want 20", hof.TopScore())
	}
}

func TestHallOfFameTiesKeepEarlier(t *testing.T) {
	hof := NewHallOfFame(2)
	hof.Consider(DeathRecord{EntityID: 1, PeakLength: 10})
	if rank := hof.Consider(DeathRecord{EntityID: 2, PeakLength: 10}); rank != 1 {
		t.Errorf("tie rank = %d, want 1", rank)
	}
	if rank := hof.Consider(DeathRecord{EntityID: 3, PeakLength: 10}); rank != -1 {
		t.Errorf("tie on full hall rank = %d, want -1", rank)
	}
}

func TestHallOfFameFileRoundtrip(t *testing.T) {
	hof := NewHallOfFame(5)
	hof.Consider(DeathRecord{EntityID: 7, Player: true, Cause: "body", PeakLength: 42, Kills: 3, Survival: 120})
	hof.Consider(DeathRecord{EntityID: 8, Level: 2, Cause: "boundary", PeakLength: 12})

	path := filepath.Join(t.TempDir(), "hall_of_fame.json")
	if err := hof.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	loaded, err := LoadHallOfFameFromFile(path, 0)
	if err != nil {
		t.Fatalf("LoadHallOfFameFromFile: %v", err)
	}
	if loaded.Size() != 2 {
		t.Fatalf("loaded %d entries, want 2", loaded.Size())
	}
	best := loaded.Entries()[0]
	if best.EntityID != 7 || !best.Player || best.Cause != "body" || best.Kills != 3 {
		t.Errorf("best entry = %+v", best)
	}
	if best.Score != hof.TopScore() {
		t.Errorf("score %v, want %v", best.Score, hof.TopScore())
	}
}

func TestLoadHallOfFameMissingFile(t *testing.T) {
	if _, err := LoadHallOfFameFromFile(filepath.Join(t.TempDir(), "nope.json"), 5); err == nil {
		t.Error("expected error for missing file")
	}
}
