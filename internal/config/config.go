// Package config handles configuration loading using viper.
package config

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config is the top-level pfwatch configuration. Maps to the root of
// the YAML config file.
type Config struct {
	Input   InputConfig   `mapstructure:"input"`
	Output  OutputConfig  `mapstructure:"output"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Log     LogConfig     `mapstructure:"log"`
}

// InputConfig selects where filterlog lines come from.
type InputConfig struct {
	Path         string        `mapstructure:"path"`          // empty = stdin
	Follow       bool          `mapstructure:"follow"`        // keep reading appended lines
	PollInterval time.Duration `mapstructure:"poll_interval"` // file watcher poll interval
}

// OutputConfig controls how parsed records are emitted.
type OutputConfig struct {
	Format string `mapstructure:"format"` // json | yaml
	Strict bool   `mapstructure:"strict"` // stop on the first malformed line
}

// MetricsConfig controls the Prometheus metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
	Path    string `mapstructure:"path"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string           `mapstructure:"level"`
	Format string           `mapstructure:"format"` // text | json
	File   FileOutputConfig `mapstructure:"file"`
}

// FileOutputConfig enables rotated log file output in addition to
// stderr.
type FileOutputConfig struct {
	Path       string `mapstructure:"path"` // empty = disabled
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Input),
		validation.Field(&c.Output),
		validation.Field(&c.Metrics),
		validation.Field(&c.Log),
	)
}

func (c InputConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.PollInterval, validation.Min(time.Duration(0))),
	)
}

func (c OutputConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Format, validation.Required, validation.In("json", "yaml")),
	)
}

func (c MetricsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.ValidateStruct(&c,
		validation.Field(&c.Listen, validation.Required),
	)
}

func (c LogConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.Required,
			validation.In("trace", "debug", "info", "warn", "warning", "error")),
		validation.Field(&c.Format, validation.Required, validation.In("text", "json")),
	)
}
