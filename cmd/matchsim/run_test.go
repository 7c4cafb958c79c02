// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/someonegg/popmatch"
	"github.com/someonegg/popmatch/simulation"
)

func TestPrintStatistics(t *testing.T) {
	var buf bytes.Buffer
	printStatistics(&buf, popmatch.Stats{
		Proposers:        popmatch.GroupStats{Matched: 3, Total: 5},
		Responders:       popmatch.GroupStats{Matched: 2, Total: 4},
		Imbalance:        popmatch.Imbalance{Larger: popmatch.Male, By: 1},
		UnmatchedPercent: 44.4444,
	})

	out := buf.String()
	assert.Contains(t, out, "Males that do not have a match: 2/5\n")
	assert.Contains(t, out, "Females that do not have a match: 2/4\n")
	assert.Contains(t, out, "Males that have a match: 3/5\n")
	assert.Contains(t, out, "Females that have a match: 2/4\n")
	assert.Contains(t, out, "In this simulation, male population EXCEEDED that of female by 1\n")
	assert.Contains(t, out, "44.44% of individuals were never matched.\n")
}

func TestPrintPopulation(t *testing.T) {
	pop, err := popmatch.NewPopulation(
		popmatch.Individual{ID: "m", Gender: popmatch.Male, Weights: []float64{1}, Ratings: []float64{2}},
		popmatch.Individual{ID: "f", Gender: popmatch.Female, Weights: []float64{1}, Ratings: []float64{2}},
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	printPopulation(&buf, pop)

	out := buf.String()
	assert.True(t, strings.Index(out, "Male Population:") < strings.Index(out, "Identity: m, male"))
	assert.True(t, strings.Index(out, "Female Population:") < strings.Index(out, "Identity: f, female"))
}

func TestDoRun(t *testing.T) {
	dir := t.TempDir()
	out := runOutputs{
		summaryFile: filepath.Join(dir, "summary.json"),
		metricsFile: filepath.Join(dir, "metrics.prom"),
		traceFile:   filepath.Join(dir, "trace.json"),
	}

	cfg := simulation.DefaultConfig()
	cfg.PopulationSize = 60
	cfg.Rounds = 3
	cfg.Seed = 5
	cfg.LogLevel = "error"

	require.NoError(t, doRun(context.Background(), cfg, out))

	data, err := os.ReadFile(out.summaryFile)
	require.NoError(t, err)
	var summary simulation.Summary
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, 3, summary.Rounds)
	assert.Equal(t, int64(5), summary.Seed)
	assert.Equal(t, 60, summary.PopulationSize)

	metrics, err := os.ReadFile(out.metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "popmatch_rounds_total 3")

	trace, err := os.ReadFile(out.traceFile)
	require.NoError(t, err)
	assert.Contains(t, string(trace), "popmatch.round")
}

func TestWriteSummary(t *testing.T) {
	file := filepath.Join(t.TempDir(), "summary.json")
	require.NoError(t, writeSummary(file, simulation.Summary{Seed: 1, Rounds: 2}))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"rounds": 2`)
}
