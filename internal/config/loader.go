package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Load reads the configuration file at path, applies defaults for
// unset keys, and validates the result. An empty path yields a
// configuration of pure defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input.path", "")
	v.SetDefault("input.follow", false)
	v.SetDefault("input.poll_interval", time.Second)
	v.SetDefault("output.format", "json")
	v.SetDefault("output.strict", false)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.listen", ":9199")
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file.max_size_mb", 100)
	v.SetDefault("log.file.max_backups", 3)
	v.SetDefault("log.file.max_age_days", 7)
}
