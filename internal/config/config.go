// Package config provides configuration management for the analytics
// application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"

	apperrors "tradelytics/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// DataConfig holds data acquisition and persistence configuration.
type DataConfig struct {
	// Candidates are tried in order; the first JSON file that parses and
	// contains at least one trade wins.
	Candidates []string `mapstructure:"candidates"`
	DBPath     string   `mapstructure:"db_path"`
}

// AnalyticsConfig holds engine tuning values.
type AnalyticsConfig struct {
	// CommissionPerUnit is the round-trip commission per unit of quantity,
	// used when the store holds no persisted setting.
	CommissionPerUnit float64 `mapstructure:"commission_per_unit"`
	// SessionTimezone is the exchange session timezone used when bucketing
	// explicit entry timestamps by hour.
	SessionTimezone string `mapstructure:"session_timezone"`
	// RecoveryThreshold is the minimum sleep and readiness score for the
	// high-recovery band.
	RecoveryThreshold float64 `mapstructure:"recovery_threshold"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/tradelytics"
	}
	return filepath.Join(home, ".config", "tradelytics")
}

// Load loads configuration from the specified directory. If configDir is
// empty, uses the default config directory. A missing config file is not
// an error; defaults apply.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("data.candidates", []string{
		"data/trades.json",
		"data/live-journal.json",
		filepath.Join(configDir, "trades.json"),
	})
	v.SetDefault("data.db_path", filepath.Join(configDir, "tradelytics.db"))
	v.SetDefault("analytics.commission_per_unit", 1.0)
	v.SetDefault("analytics.session_timezone", "America/New_York")
	v.SetDefault("analytics.recovery_threshold", 70.0)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.file_path", filepath.Join(configDir, "logs", "tradelytics.log"))
	v.SetDefault("logging.max_size", 50)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age", 30)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TRADELYTICS_DB_PATH"); v != "" {
		cfg.Data.DBPath = v
	}
	if v := os.Getenv("TRADELYTICS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TRADELYTICS_COMMISSION"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil && rate >= 0 {
			cfg.Analytics.CommissionPerUnit = rate
		}
	}
}

// Validate validates the configuration. Failures wrap ErrConfigInvalid.
func (c *Config) Validate() error {
	if c.Analytics.CommissionPerUnit < 0 {
		return fmt.Errorf("%w: commission_per_unit must be non-negative", apperrors.ErrConfigInvalid)
	}
	if c.Analytics.RecoveryThreshold < 0 || c.Analytics.RecoveryThreshold > 100 {
		return fmt.Errorf("%w: recovery_threshold must be between 0 and 100", apperrors.ErrConfigInvalid)
	}
	if _, err := time.LoadLocation(c.Analytics.SessionTimezone); err != nil {
		return fmt.Errorf("%w: session_timezone: %v", apperrors.ErrConfigInvalid, err)
	}
	return nil
}

// SessionLocation resolves the configured session timezone.
func (c *Config) SessionLocation() *time.Location {
	loc, err := time.LoadLocation(c.Analytics.SessionTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
