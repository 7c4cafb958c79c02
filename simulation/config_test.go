// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simulation

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/someonegg/popmatch"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 10000, cfg.PopulationSize)
	assert.Equal(t, 3, cfg.Complexity)
	assert.Equal(t, 100, cfg.Rounds)
	assert.Equal(t, 1, cfg.Shards)
	assert.Nil(t, cfg.Weights)
	assert.False(t, cfg.Shuffle)
	assert.False(t, cfg.ClearStale)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{"Defaults", func(c *Config) {}, true},
		{"ZeroSize", func(c *Config) { c.PopulationSize = 0 }, false},
		{"ZeroComplexity", func(c *Config) { c.Complexity = 0 }, false},
		{"HugeComplexity", func(c *Config) { c.Complexity = 128 }, false},
		{"ZeroRounds", func(c *Config) { c.Rounds = 0 }, false},
		{"ZeroShards", func(c *Config) { c.Shards = 0 }, false},
		{"BadLogLevel", func(c *Config) { c.LogLevel = "loud" }, false},
		{"MatchingWeights", func(c *Config) { c.Weights = []float64{0.7, 0.2, 0.1} }, true},
		{"ShortWeights", func(c *Config) { c.Weights = []float64{0.7, 0.3} }, false},
		{"NegativeWeight", func(c *Config) { c.Weights = []float64{0.7, -0.2, 0.1} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, popmatch.ErrConfiguration)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("NoFile", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("MissingFile", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("YAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "popmatch.yaml")
		content := `
population_size: 200
complexity: 2
weights: [0.6, 0.4]
rounds: 5
seed: 99
shards: 2
shuffle: true
clear_stale: true
log_level: debug
score_overrides:
  - evaluator: f1
    target: m1
    score: 12.5
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, 200, cfg.PopulationSize)
		assert.Equal(t, 2, cfg.Complexity)
		assert.Equal(t, []float64{0.6, 0.4}, cfg.Weights)
		assert.Equal(t, 5, cfg.Rounds)
		assert.Equal(t, int64(99), cfg.Seed)
		assert.Equal(t, 2, cfg.Shards)
		assert.True(t, cfg.Shuffle)
		assert.True(t, cfg.ClearStale)
		assert.Equal(t, slog.LevelDebug, cfg.Level())
		require.Len(t, cfg.ScoreOverrides, 1)
		assert.Equal(t, popmatch.ID("f1"), cfg.ScoreOverrides[0].Evaluator)
		assert.Equal(t, popmatch.ID("m1"), cfg.ScoreOverrides[0].Target)
		assert.Equal(t, 12.5, cfg.ScoreOverrides[0].Score)
	})

	t.Run("EnvOverridesFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "popmatch.yaml")
		require.NoError(t, os.WriteFile(path, []byte("population_size: 200\nrounds: 5\n"), 0644))

		t.Setenv("POPMATCH_SIZE", "300")
		t.Setenv("POPMATCH_WEIGHTS", "0.5,0.25,0.25")
		t.Setenv("POPMATCH_SHUFFLE", "true")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, 300, cfg.PopulationSize)
		assert.Equal(t, 5, cfg.Rounds)
		assert.Equal(t, []float64{0.5, 0.25, 0.25}, cfg.Weights)
		assert.True(t, cfg.Shuffle)
	})

	t.Run("BadEnv", func(t *testing.T) {
		t.Setenv("POPMATCH_ROUNDS", "many")

		_, err := LoadConfig("")
		assert.Error(t, err)
	})

	t.Run("InvalidFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "popmatch.yaml")
		require.NoError(t, os.WriteFile(path, []byte("complexity: [1"), 0644))

		_, err := LoadConfig(path)
		assert.Error(t, err)
	})

	t.Run("InvalidValues", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "popmatch.yaml")
		require.NoError(t, os.WriteFile(path, []byte("complexity: 2\nweights: [1, 2, 3]\n"), 0644))

		_, err := LoadConfig(path)
		assert.ErrorIs(t, err, popmatch.ErrConfiguration)
	})
}

func TestConfig_Level(t *testing.T) {
	for level, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	} {
		cfg := Config{LogLevel: level}
		assert.Equal(t, want, cfg.Level(), level)
	}
}
