package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAlgorithm = "bubble"
	DefaultSpeed     = 10
	DefaultArraySize = 24
	DefaultArrayMax  = 100
	DefaultRows      = 15
	DefaultCols      = 30
	DefaultDensity   = 0.25
	DefaultPoints    = 60
	DefaultClusters  = 3
	DefaultSpread    = 40.0
)

type Config struct {
	Algorithm string         `yaml:"algorithm" toml:"algorithm"`
	Seed      int64          `yaml:"seed" toml:"seed"`
	Speed     int            `yaml:"speed" toml:"speed"`
	Playback  PlaybackConfig `yaml:"playback" toml:"playback"`
	Array     ArrayConfig    `yaml:"array" toml:"array"`
	Grid      GridConfig     `yaml:"grid" toml:"grid"`
	Points    PointsConfig   `yaml:"points" toml:"points"`
	Params    ParamsConfig   `yaml:"params" toml:"params"`
	Log       LogConfig      `yaml:"log" toml:"log"`
}

// PlaybackConfig holds scheduler timings in milliseconds.
type PlaybackConfig struct {
	BaseDelayMS    int `yaml:"base_delay_ms" toml:"base_delay_ms"`
	SpeedStepMS    int `yaml:"speed_step_ms" toml:"speed_step_ms"`
	PollIntervalMS int `yaml:"poll_interval_ms" toml:"poll_interval_ms"`
	PathDelayMS    int `yaml:"path_delay_ms" toml:"path_delay_ms"`
	MinSpeed       int `yaml:"min_speed" toml:"min_speed"`
	MaxSpeed       int `yaml:"max_speed" toml:"max_speed"`
}

func (p PlaybackConfig) BaseDelay() time.Duration    { return ms(p.BaseDelayMS) }
func (p PlaybackConfig) SpeedStep() time.Duration    { return ms(p.SpeedStepMS) }
func (p PlaybackConfig) PollInterval() time.Duration { return ms(p.PollIntervalMS) }
func (p PlaybackConfig) PathDelay() time.Duration    { return ms(p.PathDelayMS) }

type ArrayConfig struct {
	Size   int   `yaml:"size" toml:"size"`
	Max    int   `yaml:"max" toml:"max"`
	Values []int `yaml:"values,omitempty" toml:"values,omitempty"`
}

// GridConfig describes the search grid. A non-empty Layout ('#' for walls)
// replaces the random walls.
type GridConfig struct {
	Rows    int      `yaml:"rows" toml:"rows"`
	Cols    int      `yaml:"cols" toml:"cols"`
	Density float64  `yaml:"density" toml:"density"`
	Start   [2]int   `yaml:"start" toml:"start"`
	Goal    [2]int   `yaml:"goal" toml:"goal"`
	Layout  []string `yaml:"layout,omitempty" toml:"layout,omitempty"`
}

type PointsConfig struct {
	Count     int     `yaml:"count" toml:"count"`
	Clusters  int     `yaml:"clusters" toml:"clusters"`
	Spread    float64 `yaml:"spread" toml:"spread"`
	Slope     float64 `yaml:"slope" toml:"slope"`
	Intercept float64 `yaml:"intercept" toml:"intercept"`
	Noise     float64 `yaml:"noise" toml:"noise"`
}

// ParamsConfig carries per-algorithm tuning. Zero values select the
// driver defaults.
type ParamsConfig struct {
	K            int     `yaml:"k" toml:"k"`
	Tolerance    float64 `yaml:"tolerance" toml:"tolerance"`
	MaxIter      int     `yaml:"max_iter" toml:"max_iter"`
	CellSize     int     `yaml:"cell_size" toml:"cell_size"`
	LearningRate float64 `yaml:"learning_rate" toml:"learning_rate"`
	Iterations   int     `yaml:"iterations" toml:"iterations"`
	Frames       int     `yaml:"frames" toml:"frames"`
	Eps          float64 `yaml:"eps" toml:"eps"`
	MinPts       int     `yaml:"min_pts" toml:"min_pts"`
	MaxDepth     int     `yaml:"max_depth" toml:"max_depth"`
}

type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
	File   string `yaml:"file,omitempty" toml:"file,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Algorithm: DefaultAlgorithm,
		Seed:      1,
		Speed:     DefaultSpeed,
		Playback: PlaybackConfig{
			BaseDelayMS:    500,
			SpeedStepMS:    20,
			PollIntervalMS: 100,
			PathDelayMS:    50,
			MinSpeed:       1,
			MaxSpeed:       20,
		},
		Array: ArrayConfig{Size: DefaultArraySize, Max: DefaultArrayMax},
		Grid: GridConfig{
			Rows:    DefaultRows,
			Cols:    DefaultCols,
			Density: DefaultDensity,
			Start:   [2]int{DefaultRows / 2, 2},
			Goal:    [2]int{DefaultRows / 2, DefaultCols - 3},
		},
		Points: PointsConfig{
			Count:     DefaultPoints,
			Clusters:  DefaultClusters,
			Spread:    DefaultSpread,
			Slope:     0.4,
			Intercept: 80,
			Noise:     30,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads a YAML or TOML file (chosen by extension) over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }
