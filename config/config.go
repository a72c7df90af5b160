// Package config provides configuration loading for the arena simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation parameters. It is loaded once at startup and
// passed explicitly to the components that need it; nothing mutates it after
// Load returns.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Snake     SnakeConfig     `yaml:"snake"`
	Growth    GrowthConfig    `yaml:"growth"`
	Food      FoodConfig      `yaml:"food"`
	AI        AIConfig        `yaml:"ai"`
	Camera    CameraConfig    `yaml:"camera"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// WorldConfig holds the arena extent and spatial grid resolution.
type WorldConfig struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	CellSize float64 `yaml:"cell_size"`
}

// SnakeConfig holds per-agent locomotion defaults.
type SnakeConfig struct {
	Radius           float64 `yaml:"radius"`
	Speed            float64 `yaml:"speed"`
	BoostSpeed       float64 `yaml:"boost_speed"`
	SpeedEase        float64 `yaml:"speed_ease"`       // Player speed easing rate (1/s)
	Length           int     `yaml:"length"`           // Initial body segments
	SpacingFactor    float64 `yaml:"spacing_factor"`   // Fraction of diameter between segments
	TurnSpeed        float64 `yaml:"turn_speed"`       // Base turn rate (rad/s)
	SampleDistance   float64 `yaml:"sample_distance"`  // Arc length between history samples
	HistoryCap       int     `yaml:"history_cap"`      // Max retained history points
	HistoryPadding   int     `yaml:"history_padding"`  // Extra history points generated at spawn
	SpawnProtection  float64 `yaml:"spawn_protection"` // Seconds of immunity after spawn
	MagnetFactor     float64 `yaml:"magnet_factor"`    // Magnet range = radius * this
	BodyRadiusFactor float64 `yaml:"body_radius_factor"`
	SteerDeadzone    float64 `yaml:"steer_deadzone"` // Pointer distance below which heading is kept
}

// GrowthConfig holds the radius curve and energy thresholds.
type GrowthConfig struct {
	BaseRadius          float64 `yaml:"base_radius"`
	BaseLength          int     `yaml:"base_length"`  // Length at which radius equals base
	GrowthScale         float64 `yaml:"growth_scale"` // Radius gain per sqrt(extra segments), as a fraction of base
	MaxRadius           float64 `yaml:"max_radius"`
	EaseRate            float64 `yaml:"ease_rate"`
	EaseEpsilon         float64 `yaml:"ease_epsilon"`
	TurnFloor           float64 `yaml:"turn_floor"` // Fraction of turn speed kept at any size
	TurnDecay           float64 `yaml:"turn_decay"` // Exponential decay per unit of excess radius
	ThresholdBase       float64 `yaml:"threshold_base"`
	ThresholdPerSegment float64 `yaml:"threshold_per_segment"`
}

// FoodConfig holds food economy parameters.
type FoodConfig struct {
	MaxTotal             int     `yaml:"max_total"`
	MinPerCell           int     `yaml:"min_per_cell"`
	SpawnChance          float64 `yaml:"spawn_chance"`
	RegenInterval        float64 `yaml:"regen_interval"` // Seconds between regeneration passes
	MagnetSpeed          float64 `yaml:"magnet_speed"`
	NormalRadius         float64 `yaml:"normal_radius"`
	NormalEnergy         float64 `yaml:"normal_energy"`
	MassDropJitter       float64 `yaml:"mass_drop_jitter"`
	MassDropEnergyFactor float64 `yaml:"mass_drop_energy_factor"` // Energy = dead radius * this
	MassDropRadiusFactor float64 `yaml:"mass_drop_radius_factor"` // Radius = dead radius * this
	SoundThreshold       float64 `yaml:"sound_threshold"`         // Energy above which eating is audible
}

// AIConfig holds context steering parameters.
type AIConfig struct {
	MaxCount        int     `yaml:"max_count"`
	HeavyInterval   int     `yaml:"heavy_interval"` // Frames between full context evaluations
	Slots           int     `yaml:"slots"`
	ProbeLength     float64 `yaml:"probe_length"`
	EdgePenalty     float64 `yaml:"edge_penalty"`
	BodyPenalty     float64 `yaml:"body_penalty"`
	HeadPenalty     float64 `yaml:"head_penalty"`
	PredictTime     float64 `yaml:"predict_time"`
	PredictSpeed    float64 `yaml:"predict_speed"`
	FoodRange       float64 `yaml:"food_range"`
	FoodWeight      float64 `yaml:"food_weight"`
	FlankWeight     float64 `yaml:"flank_weight"`
	FlankLead       float64 `yaml:"flank_lead"`
	FlankOffset     float64 `yaml:"flank_offset"` // Lateral offset in player radii
	FlankLevel      int     `yaml:"flank_level"`  // Minimum level that flanks the player
	Jitter          float64 `yaml:"jitter"`
	ForwardMomentum float64 `yaml:"forward_momentum"`
	PrevMomentum    float64 `yaml:"prev_momentum"`
	MomentumDecay   float64 `yaml:"momentum_decay"`
	BaseSpeed       float64 `yaml:"base_speed"`
	CautionDanger   float64 `yaml:"caution_danger"` // Frontal danger below this slows the agent
	CautionFactor   float64 `yaml:"caution_factor"`
	PursuitSpeed    float64 `yaml:"pursuit_speed"`
	PursuitLevel    int     `yaml:"pursuit_level"`
	Accel           float64 `yaml:"accel"`
	WanderAmplitude float64 `yaml:"wander_amplitude"` // Degrees
	WanderFrequency float64 `yaml:"wander_frequency"` // Radians per frame
	SteerRate       float64 `yaml:"steer_rate"`       // Degrees per second
	MinSteerStep    float64 `yaml:"min_steer_step"`   // Degrees
	SpawnMargin     float64 `yaml:"spawn_margin"`

	Levels []LevelConfig `yaml:"levels"`
}

// LevelConfig describes one AI skill tier of the random spawner.
// Tiers are rolled in order; the first whose cumulative chance covers the
// roll wins.
type LevelConfig struct {
	Level     int     `yaml:"level"`
	Chance    float64 `yaml:"chance"`
	MinLength int     `yaml:"min_length"`
	MaxLength int     `yaml:"max_length"`
	Skinned   bool    `yaml:"skinned"` // Draw from the skin pool instead of the palette
}

// CameraConfig holds player-follow camera parameters.
type CameraConfig struct {
	FollowRate float64 `yaml:"follow_rate"`
	ZoomRate   float64 `yaml:"zoom_rate"`
	ZoomScale  float64 `yaml:"zoom_scale"`
	MaxZoomOut float64 `yaml:"max_zoom_out"`
}

// TelemetryConfig holds telemetry and logging parameters.
type TelemetryConfig struct {
	StatsWindow     float64 `yaml:"stats_window"`      // Seconds per stats window
	PerfWindow      int     `yaml:"perf_window"`       // Ticks per perf rolling window
	BookmarkHistory int     `yaml:"bookmark_history"`  // Stats windows kept for bookmark detection
	HallOfFameSize  int     `yaml:"hall_of_fame_size"` // Lives kept on the leaderboard
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	WorldW32  float32
	WorldH32  float32
	Cell32    float32
	Cols      int
	Rows      int
	SlotStep  float32 // Degrees between steering slots
	ScreenW32 float32
	ScreenH32 float32
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg, err := Parse(defaultsYAML)
	if err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()
	return cfg, nil
}

// Default returns the embedded defaults. It panics if they are malformed,
// which can only happen if defaults.yaml itself is broken.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Parse decodes raw YAML without applying defaults or validation.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the simulation cannot start with.
func (c *Config) Validate() error {
	switch {
	case !finitePositive(c.World.CellSize):
		return fmt.Errorf("%w: world.cell_size must be positive, got %v", ErrInvalid, c.World.CellSize)
	case !finitePositive(c.World.Width) || !finitePositive(c.World.Height):
		return fmt.Errorf("%w: world extent %vx%v is degenerate", ErrInvalid, c.World.Width, c.World.Height)
	case c.AI.SpawnMargin < 0 || 2*c.AI.SpawnMargin >= min(c.World.Width, c.World.Height):
		return fmt.Errorf("%w: ai.spawn_margin %v leaves no room in a %vx%v world", ErrInvalid, c.AI.SpawnMargin, c.World.Width, c.World.Height)
	case c.Growth.MaxRadius < c.Growth.BaseRadius:
		return fmt.Errorf("%w: growth.max_radius %v below base_radius %v", ErrInvalid, c.Growth.MaxRadius, c.Growth.BaseRadius)
	case c.Snake.HistoryCap < 2:
		return fmt.Errorf("%w: snake.history_cap must be at least 2", ErrInvalid)
	case c.Snake.SampleDistance <= 0:
		return fmt.Errorf("%w: snake.sample_distance must be positive", ErrInvalid)
	case c.AI.HeavyInterval < 1:
		return fmt.Errorf("%w: ai.heavy_interval must be at least 1", ErrInvalid)
	case c.AI.Slots < 3:
		return fmt.Errorf("%w: ai.slots must be at least 3", ErrInvalid)
	case c.Food.MaxTotal <= 0:
		return fmt.Errorf("%w: food.max_total must be positive", ErrInvalid)
	}
	return nil
}

// finitePositive reports whether v is a usable extent. NaN fails v > 0.
func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.WorldW32 = float32(c.World.Width)
	c.Derived.WorldH32 = float32(c.World.Height)
	c.Derived.Cell32 = float32(c.World.CellSize)
	c.Derived.Cols = int(c.World.Width/c.World.CellSize) + 1
	c.Derived.Rows = int(c.World.Height/c.World.CellSize) + 1
	c.Derived.SlotStep = 360 / float32(c.AI.Slots)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
