package fnanalyze

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the tunable defaults of an Analyzer. Zero-valued fields in a
// YAML file keep their defaults.
type Config struct {
	// Variable is the function variable used when callers pass "".
	Variable string `yaml:"variable"`

	// Range sampling.
	SamplesPerInterval int     `yaml:"samples_per_interval"`
	InfinityThreshold  float64 `yaml:"infinity_threshold"`
	SymbolicRange      bool    `yaml:"symbolic_range"`

	// RootWindow bounds the numeric x-intercept search to [-RootWindow, RootWindow].
	RootWindow float64 `yaml:"root_window"`

	// Evaluation.
	Digits        int  `yaml:"digits"`
	UseLimit      bool `yaml:"use_limit"`
	SimplifyFirst bool `yaml:"simplify_first"`
	RealOnly      bool `yaml:"real_only"`
}

// DefaultConfig returns the configuration used by New.
func DefaultConfig() Config {
	return Config{
		Variable:           "x",
		SamplesPerInterval: 400,
		InfinityThreshold:  1e6,
		SymbolicRange:      true,
		RootWindow:         10,
		Digits:             8,
		UseLimit:           true,
		SimplifyFirst:      true,
		RealOnly:           true,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Variable == "":
		return fmt.Errorf("config: variable must not be empty")
	case c.SamplesPerInterval < 2:
		return fmt.Errorf("config: samples_per_interval must be at least 2, got %d", c.SamplesPerInterval)
	case !(c.InfinityThreshold > 0):
		return fmt.Errorf("config: infinity_threshold must be positive, got %g", c.InfinityThreshold)
	case !(c.RootWindow > 0):
		return fmt.Errorf("config: root_window must be positive, got %g", c.RootWindow)
	case c.Digits < 1 || c.Digits > 30:
		return fmt.Errorf("config: digits must be between 1 and 30, got %d", c.Digits)
	}
	return nil
}

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
