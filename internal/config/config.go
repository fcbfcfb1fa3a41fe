package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// OtherFieldConfig bounds the auxiliary "specify other" free-text fields.
type OtherFieldConfig struct {
	// MinLength is the minimum accepted text length (0 = no minimum)
	MinLength int `yaml:"min_length"`

	// MaxLength is the maximum accepted text length
	MaxLength int `yaml:"max_length"`

	// DebounceMS is the quiet period in milliseconds before buffered
	// keystrokes are committed and validated
	DebounceMS int `yaml:"debounce_ms"`
}

// Config represents formgraph configuration options
type Config struct {
	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// CatalogPath is the path to the questionnaire catalog database
	CatalogPath string `yaml:"catalog_path"`

	// StrictValidation causes warnings to fail validation alongside errors
	StrictValidation bool `yaml:"strict_validation"`

	// OtherField contains other-field validation configuration
	OtherField OtherFieldConfig `yaml:"other_field"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		LogLevel:         "info",
		CatalogPath:      ".formgraph/catalog.db",
		StrictValidation: false,
		OtherField: OtherFieldConfig{
			MinLength:  0,
			MaxLength:  500,
			DebounceMS: 500,
		},
	}
}

// Debounce returns the configured debounce window as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.OtherField.DebounceMS) * time.Millisecond
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply non-zero values from file (merging with defaults)
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.CatalogPath != "" {
		cfg.CatalogPath = fileCfg.CatalogPath
	}
	if fileCfg.StrictValidation {
		cfg.StrictValidation = true
	}
	if fileCfg.OtherField.MinLength != 0 {
		cfg.OtherField.MinLength = fileCfg.OtherField.MinLength
	}
	if fileCfg.OtherField.MaxLength != 0 {
		cfg.OtherField.MaxLength = fileCfg.OtherField.MaxLength
	}
	if fileCfg.OtherField.DebounceMS != 0 {
		cfg.OtherField.DebounceMS = fileCfg.OtherField.DebounceMS
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for inconsistent values.
func (c *Config) Validate() error {
	if c.OtherField.MinLength < 0 {
		return fmt.Errorf("other_field.min_length cannot be negative")
	}
	if c.OtherField.MaxLength < 0 {
		return fmt.Errorf("other_field.max_length cannot be negative")
	}
	if c.OtherField.MaxLength > 0 && c.OtherField.MinLength > c.OtherField.MaxLength {
		return fmt.Errorf("other_field.min_length %d exceeds max_length %d",
			c.OtherField.MinLength, c.OtherField.MaxLength)
	}
	if c.OtherField.DebounceMS < 0 {
		return fmt.Errorf("other_field.debounce_ms cannot be negative")
	}
	return nil
}
