// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simulation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/someonegg/popmatch"
	"github.com/someonegg/popmatch/scoring"
)

const (
	DefaultPopulationSize = 10000
	DefaultComplexity     = 3
	DefaultRounds         = 100
	DefaultShards         = 1
	DefaultLogLevel       = "info"

	// EnvPrefix prefixes every environment variable read by LoadConfig.
	EnvPrefix = "POPMATCH_"
)

type Config struct {
	PopulationSize int `json:"population_size" yaml:"population_size" env:"SIZE" validate:"gt=0"`
	// Complexity is the length of every weight and rating vector.
	Complexity int `json:"complexity" yaml:"complexity" env:"COMPLEXITY" validate:"min=1,max=127"`
	// Weights, when set, replaces the random weights of every individual.
	Weights []float64 `json:"weights,omitempty" yaml:"weights" env:"WEIGHTS" validate:"omitempty,dive,gte=0"`

	Rounds int `json:"rounds" yaml:"rounds" env:"ROUNDS" validate:"gt=0"`
	// Seed 0 picks a time based seed.
	Seed int64 `json:"seed" yaml:"seed" env:"SEED"`

	Shards     int  `json:"shards" yaml:"shards" env:"SHARDS" validate:"min=1"`
	Shuffle    bool `json:"shuffle" yaml:"shuffle" env:"SHUFFLE"`
	ClearStale bool `json:"clear_stale" yaml:"clear_stale" env:"CLEAR_STALE"`

	LogLevel string `json:"log_level" yaml:"log_level" env:"LOG_LEVEL" validate:"oneof=debug info warn error"`

	ScoreOverrides []scoring.ScoreRecord `json:"score_overrides,omitempty" yaml:"score_overrides"`
}

func DefaultConfig() Config {
	return Config{
		PopulationSize: DefaultPopulationSize,
		Complexity:     DefaultComplexity,
		Rounds:         DefaultRounds,
		Shards:         DefaultShards,
		LogLevel:       DefaultLogLevel,
	}
}

// LoadConfig loads configuration with priority: env > file > defaults.
// A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := loadConfigFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file failed: %w", err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		var aggErr env.AggregateError
		if errors.As(err, &aggErr) && len(aggErr.Errors) > 0 {
			err = aggErr.Errors[0]
		}
		return cfg, fmt.Errorf("load config env failed: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

var validate = validator.New()

// Validate reports invalid fields wrapped in popmatch.ErrConfiguration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, len(verrs))
			for i, fe := range verrs {
				fields[i] = fmt.Sprintf("%s (%s=%s)", fe.Namespace(), fe.Tag(), fe.Param())
			}
			return fmt.Errorf("%w: invalid %s", popmatch.ErrConfiguration, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", popmatch.ErrConfiguration, err)
	}
	if c.Weights != nil && len(c.Weights) != c.Complexity {
		return fmt.Errorf("%w: %d predefined weights for preference complexity %d",
			popmatch.ErrConfiguration, len(c.Weights), c.Complexity)
	}
	return nil
}

// Level maps LogLevel to a slog level, info when unknown.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
