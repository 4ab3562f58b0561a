// Package config loads the pointcook tool configuration.
package config

import (
	"errors"
	"fmt"

	resampler "github.com/tphakala/go-points-resampler"
	"github.com/tphakala/go-points-resampler/internal/logger"
)

// EnvPrefix prefixes every environment variable read by ParseEnv.
const EnvPrefix = "POINTCOOK_"

// Config holds all tool settings.
type Config struct {
	Points   resampler.Config `yaml:"points" envPrefix:"POINTS_"`
	Playback PlaybackConfig   `yaml:"playback" envPrefix:"PLAYBACK_"`
	Logging  LoggingConfig    `yaml:"logging" envPrefix:"LOG_"`
}

// PlaybackConfig describes which times are cooked.
type PlaybackConfig struct {
	Scene string  `yaml:"scene" env:"SCENE"` // Scene file to load
	Start float64 `yaml:"start" env:"START"` // First cooked time in seconds
	End   float64 `yaml:"end" env:"END"`     // Last cooked time; <= Start uses the scene end
	Rate  float64 `yaml:"rate" env:"RATE"`   // Cook calls per second of playback
	Async bool    `yaml:"async" env:"ASYNC"` // Overlap delivery with the next cook
	Dump  bool    `yaml:"dump" env:"DUMP"`   // Log every delivered point
	Limit int     `yaml:"limit" env:"LIMIT"` // Maximum cook calls; 0 is unlimited
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string            `yaml:"level" env:"LEVEL"`
	File  logger.FileConfig `yaml:"file" envPrefix:"FILE_"`
}

// ErrInvalid indicates a configuration value outside its domain.
var ErrInvalid = errors.New("invalid configuration")

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Points: resampler.DefaultConfig(),
		Playback: PlaybackConfig{
			Rate:  60,
			Async: true,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  logger.DefaultFileConfig(""),
		},
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Points.Validate(); err != nil {
		return fmt.Errorf("points: %w", err)
	}
	if c.Playback.Rate <= 0 {
		return fmt.Errorf("%w: playback rate must be positive, got %g", ErrInvalid, c.Playback.Rate)
	}
	if c.Playback.Limit < 0 {
		return fmt.Errorf("%w: playback limit must not be negative", ErrInvalid)
	}
	return nil
}
