package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.World.Width != 8000 || cfg.World.Height != 8000 {
		t.Errorf("world = %vx%v, want 8000x8000", cfg.World.Width, cfg.World.Height)
	}
	if cfg.Derived.Cols != 33 || cfg.Derived.Rows != 33 {
		t.Errorf("grid = %dx%d, want 33x33", cfg.Derived.Cols, cfg.Derived.Rows)
	}
	if cfg.Derived.SlotStep != 15 {
		t.Errorf("slot step = %v, want 15", cfg.Derived.SlotStep)
	}
	if cfg.AI.HeavyInterval != 10 {
		t.Errorf("heavy interval = %d, want 10", cfg.AI.HeavyInterval)
	}
	if len(cfg.AI.Levels) != 3 {
		t.Fatalf("expected 3 AI levels, got %d", len(cfg.AI.Levels))
	}

	var total float64
	for _, lv := range cfg.AI.Levels {
		total += lv.Chance
	}
	if total < 0.999 || total > 1.001 {
		t.Errorf("level chances sum to %v, want 1", total)
	}
}

func TestLoadOverridesSubset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	if err := os.WriteFile(path, []byte("world:\n  cell_size: 500\nai:\n  heavy_interval: 4\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.World.CellSize != 500 {
		t.Errorf("cell size = %v, want 500", cfg.World.CellSize)
	}
	if cfg.World.Width != 8000 {
		t.Errorf("width should keep default, got %v", cfg.World.Width)
	}
	if cfg.AI.HeavyInterval != 4 {
		t.Errorf("heavy interval = %d, want 4", cfg.AI.HeavyInterval)
	}
	if cfg.Derived.Cols != 17 {
		t.Errorf("cols = %d, want 17", cfg.Derived.Cols)
	}
}

func TestValidateRejectsDegenerate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero cell size", func(c *Config) { c.World.CellSize = 0 }},
		{"negative cell size", func(c *Config) { c.World.CellSize = -10 }},
		{"zero width", func(c *Config) { c.World.Width = 0 }},
		{"negative height", func(c *Config) { c.World.Height = -1 }},
		{"max radius below base", func(c *Config) { c.Growth.MaxRadius = 5 }},
		{"tiny history", func(c *Config) { c.Snake.HistoryCap = 1 }},
		{"zero heavy interval", func(c *Config) { c.AI.HeavyInterval = 0 }},
		{"too few slots", func(c *Config) { c.AI.Slots = 2 }},
		{"NaN cell size", func(c *Config) { c.World.CellSize = math.NaN() }},
		{"infinite width", func(c *Config) { c.World.Width = math.Inf(1) }},
		{"NaN height", func(c *Config) { c.World.Height = math.NaN() }},
		{"spawn margin fills world", func(c *Config) { c.AI.SpawnMargin = c.World.Width / 2 }},
		{"negative spawn margin", func(c *Config) { c.AI.SpawnMargin = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("error %v does not wrap ErrInvalid", err)
			}
		})
	}
}

func TestLoadRejectsBadCellSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("world:\n  cell_size: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("Load with zero cell size: got %v, want ErrInvalid", err)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	if back.Snake.TurnSpeed != cfg.Snake.TurnSpeed || back.Food.MaxTotal != cfg.Food.MaxTotal {
		t.Error("written config does not reload to the same values")
	}
}
