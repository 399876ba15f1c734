package autofill

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jawadgarzaldeen1/filling-sub001/fill"
	"github.com/jawadgarzaldeen1/filling-sub001/pagewatch"
)

// Config is the engine configuration.
type Config struct {
	// SelectorsFile optionally overlays the built-in selector registry.
	SelectorsFile string `yaml:"selectors_file"`

	// DatabasePath locates the profile store.
	DatabasePath string `yaml:"database_path"`

	// Passphrase unlocks the sealed fill password. Empty skips password
	// fields entirely.
	Passphrase string `yaml:"passphrase"`

	HighlightColor    string        `yaml:"highlight_color"`
	HighlightDuration time.Duration `yaml:"highlight_duration"`
	InterFillDelay    time.Duration `yaml:"inter_fill_delay"`
	Debounce          time.Duration `yaml:"debounce"`

	// Validate, when set, is consulted before each write. Returning false
	// skips the control. Not configurable from YAML.
	Validate func(field string, value string) bool `yaml:"-"`

	// LogLevel, when set, follows the stored debug toggle: debug mode raises
	// it to slog.LevelDebug, turning it off restores the level it held at
	// startup. Not configurable from YAML.
	LogLevel *slog.LevelVar `yaml:"-"`
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("autofill: read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("autofill: parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DatabasePath == "" {
		c.DatabasePath = "formfill.db"
	}
	if c.HighlightColor == "" {
		c.HighlightColor = fill.DefaultHighlightColor
	}
	if c.HighlightDuration <= 0 {
		c.HighlightDuration = fill.DefaultHighlightDuration
	}
	if c.InterFillDelay <= 0 {
		c.InterFillDelay = fill.DefaultInterFillDelay
	}
	if c.Debounce <= 0 {
		c.Debounce = pagewatch.DefaultDebounce
	}
}
