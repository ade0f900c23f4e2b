package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/penwyp/go-usage-timeline/internal/core/constants"
	"github.com/spf13/viper"
)

const envPrefix = "USAGE_TIMELINE"

// Config holds the complete application configuration
type Config struct {
	UsageFiles string        `mapstructure:"usage_files"`
	AppsFile   string        `mapstructure:"apps_file"`
	TimeStep   time.Duration `mapstructure:"time_step"`
	Timezone   string        `mapstructure:"timezone"`
	CacheSize  int           `mapstructure:"cache_size"`
	Ignore     []string      `mapstructure:"ignore"`
	Output     string        `mapstructure:"output"`
	Server     ServerConfig  `mapstructure:"server"`
	Watch      WatchConfig   `mapstructure:"watch"`
	Logging    LoggingConfig `mapstructure:"logging"`
}

// ServerConfig defines the HTTP query endpoint
type ServerConfig struct {
	Listen    string  `mapstructure:"listen"`
	RateLimit float64 `mapstructure:"rate_limit"` // requests per second
	Burst     int     `mapstructure:"burst"`
}

// WatchConfig defines re-query behavior in watch mode
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// LoggingConfig defines logging behavior
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// Load reads configuration from configPath and USAGE_TIMELINE_* environment
// variables on top of the defaults. With an empty path the default locations
// are searched and a missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Configure viper
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".go-usage-timeline"))
		}
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file, use defaults and environment variables
	}

	// Unmarshal config
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("usage_files", "~/.go-usage-timeline/usage")
	v.SetDefault("apps_file", "~/.go-usage-timeline/apps")
	v.SetDefault("time_step", constants.DefaultTimeStep)
	v.SetDefault("timezone", "Local")
	v.SetDefault("cache_size", constants.DefaultParseCacheSize)
	v.SetDefault("ignore", []string{})
	v.SetDefault("output", "table")

	// Server defaults
	v.SetDefault("server.listen", "127.0.0.1:8765")
	v.SetDefault("server.rate_limit", 10.0)
	v.SetDefault("server.burst", 20)

	// Watch defaults
	v.SetDefault("watch.debounce", "2s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.file", "~/.go-usage-timeline/logs/app.log")
}

// Validate checks the configuration. It is called by Load and again by
// commands after flags have been applied.
func (c *Config) Validate() error {
	if c.UsageFiles == "" {
		return fmt.Errorf("usage_files is required")
	}
	if c.AppsFile == "" {
		return fmt.Errorf("apps_file is required")
	}
	if c.TimeStep <= 0 {
		return fmt.Errorf("time_step must be positive, got %v", c.TimeStep)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative, got %d", c.CacheSize)
	}
	if c.Timezone != "" && c.Timezone != "Local" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
		}
	}
	for _, pattern := range c.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid ignore pattern %q", pattern)
		}
	}

	switch c.Output {
	case "table", "json", "csv", "summary":
	default:
		return fmt.Errorf("invalid output format %q (use table, json, csv or summary)", c.Output)
	}

	if c.Server.RateLimit <= 0 {
		return fmt.Errorf("server.rate_limit must be positive, got %v", c.Server.RateLimit)
	}
	if c.Server.Burst < 1 {
		return fmt.Errorf("server.burst must be at least 1, got %d", c.Server.Burst)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %v", c.Watch.Debounce)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid logging.level %q", c.Logging.Level)
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid logging.format %q (use text or json)", c.Logging.Format)
	}

	return nil
}
