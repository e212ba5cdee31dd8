package tables

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/rulegrid/model"
)

// ErrInvalidConfig reports a configuration value outside its valid range
var ErrInvalidConfig = errors.New("tables: invalid configuration")

// Config holds reconstruction configuration
type Config struct {
	// Page rotation, 0 or 90. Controls the logical row/column mapping of
	// the produced cells and the axis the strike-through filter inspects.
	Rotation int `yaml:"rotation"`

	// Maximum nesting depth of sub-tables
	MaxHierarchy int `yaml:"max_hierarchy"`

	// Tolerance for coordinate comparisons (points)
	Variance float64 `yaml:"variance"`

	// Whether rectangles thinner than Variance are stored as rulings
	TreatSmallRectAsLine bool `yaml:"treat_small_rect_as_line"`

	// Whether to remove dense runs of strike-through rulings
	DetectStrikeThroughs bool `yaml:"detect_strike_throughs"`
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Rotation:             0,
		MaxHierarchy:         10,
		Variance:             2,
		TreatSmallRectAsLine: true,
		DetectStrikeThroughs: true,
	}
}

// Validate checks the configuration. A bad rotation yields an error
// wrapping model.ErrInvalidRotation; other bad values wrap ErrInvalidConfig.
func (c Config) Validate() error {
	if err := model.CheckRotation(c.Rotation); err != nil {
		return fmt.Errorf("rotation %d: %w", c.Rotation, err)
	}
	if c.MaxHierarchy < 1 {
		return fmt.Errorf("%w: max_hierarchy must be at least 1, got %d", ErrInvalidConfig, c.MaxHierarchy)
	}
	if c.Variance < 0 {
		return fmt.Errorf("%w: variance must not be negative, got %v", ErrInvalidConfig, c.Variance)
	}
	return nil
}

// LoadConfig reads a YAML configuration. Keys that are absent keep their
// default values.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML configuration file
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := LoadConfig(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
