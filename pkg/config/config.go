// Package config provides the runtime configuration for Cinder: scheduler
// tunables, logging, audio and descriptor file locations, organized into
// sections and loaded from YAML with environment variable substitution.
//
// Example usage:
//
//	cfg := config.Default()
//	if err := config.Load("cinder.yaml", cfg); err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/riftlabs/cinder/internal/envsubst"
	"github.com/riftlabs/cinder/pkg/audio"
	"github.com/riftlabs/cinder/pkg/errors"
	"github.com/riftlabs/cinder/pkg/logger"
	"github.com/riftlabs/cinder/pkg/scheduler"
)

// Config is the root configuration structure.
type Config struct {
	// Scheduler carries the admission-control tunables.
	Scheduler SchedulerConfig `yaml:"scheduler" json:"scheduler"`

	// Logging configures the structured logger.
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Audio configures the optional audio side-channel.
	Audio AudioConfig `yaml:"audio" json:"audio"`

	// Descriptors lists effect descriptor files loaded at startup.
	Descriptors []string `yaml:"descriptors" json:"descriptors"`
}

// SchedulerConfig mirrors scheduler.Config plus loop settings used by the
// simulation command.
type SchedulerConfig struct {
	// MaxBudget is the global particle cost ceiling.
	MaxBudget int `yaml:"max_budget" json:"max_budget"`
	// ReleaseBuffer is the auto-release slack in seconds.
	ReleaseBuffer float64 `yaml:"release_buffer" json:"release_buffer"`
	// TickRate is the frame-tick frequency in Hz for driven loops.
	TickRate int `yaml:"tick_rate" json:"tick_rate"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level" json:"level"`
	Encoding    string `yaml:"encoding" json:"encoding"`
	Development bool   `yaml:"development" json:"development"`
}

// AudioConfig configures the audio bridge. When disabled the scheduler runs
// with a no-op bridge.
type AudioConfig struct {
	Enabled bool             `yaml:"enabled" json:"enabled"`
	Beep    audio.BeepConfig `yaml:"beep" json:"beep"`
}

// Default returns a configuration with sensible defaults: a 2000-particle
// budget, a tenth of a second of release slack and a 60Hz tick.
func Default() *Config {
	return &Config{
		Scheduler: SchedulerConfig{
			MaxBudget:     2000,
			ReleaseBuffer: 0.1,
			TickRate:      60,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "json",
		},
		Audio: AudioConfig{
			Enabled: false,
			Beep:    audio.DefaultBeepConfig(),
		},
	}
}

// Load reads a YAML configuration file over cfg, substituting ${VAR}
// references from the environment first.
func Load(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath) //nolint:gosec // G304: path controlled by caller
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfiguration,
			"failed to read config file "+filePath)
	}

	content := envsubst.Expand(string(data))
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfiguration,
			"failed to parse config file "+filePath)
	}
	return nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Scheduler.MaxBudget <= 0 {
		return errors.Newf(errors.ErrorTypeValidation,
			"scheduler.max_budget must be positive, got %d", c.Scheduler.MaxBudget)
	}
	if c.Scheduler.ReleaseBuffer < 0 {
		return errors.New(errors.ErrorTypeValidation, "scheduler.release_buffer must not be negative")
	}
	if c.Scheduler.TickRate <= 0 {
		return errors.Newf(errors.ErrorTypeValidation,
			"scheduler.tick_rate must be positive, got %d", c.Scheduler.TickRate)
	}
	switch c.Logging.Encoding {
	case "json", "console":
	default:
		return errors.Newf(errors.ErrorTypeValidation,
			"logging.encoding must be json or console, got %q", c.Logging.Encoding)
	}
	return nil
}

// SchedulerSettings converts the section into the scheduler package's
// config.
func (c *Config) SchedulerSettings() scheduler.Config {
	return scheduler.Config{
		MaxBudget:     c.Scheduler.MaxBudget,
		ReleaseBuffer: c.Scheduler.ReleaseBuffer,
	}
}

// LoggerSettings converts the logging section into the logger package's
// config.
func (c *Config) LoggerSettings() logger.Config {
	return logger.Config{
		Level:       c.Logging.Level,
		Encoding:    c.Logging.Encoding,
		Development: c.Logging.Development,
	}
}
