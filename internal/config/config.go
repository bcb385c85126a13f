package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt           = 1.0 / 120.0
	DefaultIntegrator   = "rk4"
	DefaultAircraftPath = "aircraft"
	DefaultLogLevel     = "info"
)

// ErrInvalid reports a configuration value outside its valid range.
var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	RootDir      string     `yaml:"root_dir"`
	AircraftPath string     `yaml:"aircraft_path"`
	OutputDir    string     `yaml:"output_dir"`
	Dt           float64    `yaml:"dt"`
	Integrator   string     `yaml:"integrator"`
	CacheSize    int        `yaml:"cache_size"`
	Workers      int        `yaml:"workers"`
	Log          LogConfig  `yaml:"log"`
	Trim         TrimConfig `yaml:"trim"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// TrimConfig seeds the trim/solver/ properties of every engine.
type TrimConfig struct {
	RelTol        float64 `yaml:"rtol"`
	AbsTol        float64 `yaml:"abstol"`
	MaxIterations int     `yaml:"iter_max"`
	MaxCycles     int     `yaml:"max_cycles"`
}

func DefaultConfig() *Config {
	return &Config{
		RootDir:      ".",
		AircraftPath: DefaultAircraftPath,
		OutputDir:    ".",
		Dt:           DefaultDt,
		Integrator:   DefaultIntegrator,
		CacheSize:    64,
		Workers:      4,
		Log: LogConfig{
			Level:      DefaultLogLevel,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Trim: TrimConfig{
			RelTol:        1e-4,
			AbsTol:        1e-3,
			MaxIterations: 2000,
			MaxCycles:     60,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks ranges the engine depends on.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %v", ErrInvalid, c.Dt)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalid)
	}
	if c.Trim.AbsTol < 0 || c.Trim.RelTol < 0 {
		return fmt.Errorf("%w: trim tolerances must not be negative", ErrInvalid)
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.Log.Level)
	}
	return nil
}
