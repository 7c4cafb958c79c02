// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package simulation drives repeated popmatch rounds over one population.
package simulation

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/someonegg/popmatch"
	"github.com/someonegg/popmatch/scoring"
)

const tracerName = "github.com/someonegg/popmatch/simulation"

type RoundResult struct {
	Round  int                  `json:"round"`
	Report popmatch.RoundReport `json:"report"`
	Stats  popmatch.Stats       `json:"stats"`
}

type Summary struct {
	Seed           int64     `json:"seed"`
	PopulationSize int       `json:"population_size"`
	Complexity     int       `json:"complexity"`
	Weights        []float64 `json:"weights,omitempty"`
	Shards         int       `json:"shards"`
	Shuffle        bool      `json:"shuffle"`
	ClearStale     bool      `json:"clear_stale"`

	Rounds  int                  `json:"rounds"`
	Totals  popmatch.RoundReport `json:"totals"`
	Final   popmatch.Stats       `json:"final"`
	Elapsed time.Duration        `json:"elapsed"`
}

// Simulator owns a population and runs the configured number of rounds
// against it. It is not safe for concurrent use.
type Simulator struct {
	cfg  Config
	seed int64

	pop     *popmatch.Population
	matcher popmatch.Matcher

	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer

	rounds int
	totals popmatch.RoundReport
	last   popmatch.Stats
}

type Option func(*Simulator)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulator) {
		s.logger = logger
	}
}

func WithMetrics(metrics *Metrics) Option {
	return func(s *Simulator) {
		s.metrics = metrics
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Simulator) {
		s.tracer = tracer
	}
}

// WithPopulation runs the rounds against pop instead of a generated one.
func WithPopulation(pop *popmatch.Population) Option {
	return func(s *Simulator) {
		s.pop = pop
	}
}

func New(cfg Config, opts ...Option) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Simulator{
		cfg:    cfg,
		seed:   cfg.Seed,
		logger: slog.Default(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.seed == 0 {
		s.seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(s.seed))

	if s.pop == nil {
		start := time.Now()
		pop, err := popmatch.GeneratePopulation(rng, cfg.PopulationSize, cfg.Complexity, cfg.Weights)
		if err != nil {
			return nil, fmt.Errorf("generate population failed: %w", err)
		}
		s.pop = pop
		s.logger.Info("population generated",
			slog.Int("proposers", len(pop.Proposers())),
			slog.Int("responders", len(pop.Responders())),
			slog.Int("complexity", pop.Complexity()),
			slog.Int64("seed", s.seed),
			slog.Duration("elapsed", time.Since(start)))
	}

	mopts := []popmatch.Option{
		popmatch.WithLogger(s.logger),
		popmatch.WithShards(cfg.Shards),
		popmatch.WithClearStale(cfg.ClearStale),
	}
	if cfg.Shuffle {
		mopts = append(mopts, popmatch.WithShuffle(rand.New(rand.NewSource(rng.Int63()))))
	}
	if len(cfg.ScoreOverrides) > 0 {
		mopts = append(mopts, popmatch.WithScorer(
			scoring.NewComplexScorer(popmatch.DotScorer, cfg.ScoreOverrides)))
	}
	s.matcher = popmatch.GreedyMatcher(mopts...)
	s.last = popmatch.Statistics(s.pop)

	return s, nil
}

func (s *Simulator) Population() *popmatch.Population { return s.pop }

// Seed is the seed actually used, after resolving a zero Config.Seed.
func (s *Simulator) Seed() int64 { return s.seed }

// Rounds is the number of rounds completed so far.
func (s *Simulator) Rounds() int { return s.rounds }

// Step runs one round and reports the statistics that follow it. A failed
// round leaves the population in an unspecified state.
func (s *Simulator) Step(ctx context.Context) (RoundResult, error) {
	round := s.rounds + 1

	ctx, span := s.tracer.Start(ctx, "popmatch.round",
		trace.WithAttributes(
			attribute.Int("popmatch.round", round),
			attribute.Int("popmatch.proposers", len(s.pop.Proposers())),
			attribute.Int("popmatch.responders", len(s.pop.Responders())),
			attribute.Int("popmatch.shards", s.cfg.Shards),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer span.End()

	report, err := s.matcher.Match(s.pop)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.ErrorContext(ctx, "round failed",
			slog.Int("round", round),
			slog.String("error", err.Error()))
		return RoundResult{}, fmt.Errorf("round %d failed: %w", round, err)
	}

	stats := popmatch.Statistics(s.pop)

	s.rounds = round
	s.totals.Add(report)
	s.totals.Duration += report.Duration
	s.last = stats
	s.metrics.observe(report, stats)

	span.SetAttributes(
		attribute.Int("popmatch.proposals", report.Proposals),
		attribute.Int("popmatch.displaced", report.Displaced),
		attribute.Int("popmatch.rejected", report.Rejected),
		attribute.Int("popmatch.matched.male", stats.Proposers.Matched),
		attribute.Int("popmatch.matched.female", stats.Responders.Matched),
		attribute.Float64("popmatch.unmatched_percent", stats.UnmatchedPercent),
	)
	span.SetStatus(codes.Ok, "")

	s.logger.InfoContext(ctx, "round completed",
		slog.Int("round", round),
		slog.Int("rounds", s.cfg.Rounds),
		slog.Int("matched_male", stats.Proposers.Matched),
		slog.Int("matched_female", stats.Responders.Matched),
		slog.Int("mutual_pairs", stats.MutualPairs),
		slog.Float64("unmatched_percent", stats.UnmatchedPercent),
		slog.Duration("elapsed", report.Duration))

	return RoundResult{Round: round, Report: report, Stats: stats}, nil
}

// Run steps until the configured number of rounds has completed, calling
// observe after every round. The context is only checked between rounds;
// a started round always runs to completion.
func (s *Simulator) Run(ctx context.Context, observe func(RoundResult)) (Summary, error) {
	for s.rounds < s.cfg.Rounds {
		if err := ctx.Err(); err != nil {
			return s.Summary(), err
		}

		result, err := s.Step(ctx)
		if err != nil {
			return s.Summary(), err
		}
		if observe != nil {
			observe(result)
		}
	}

	return s.Summary(), nil
}

func (s *Simulator) Summary() Summary {
	return Summary{
		Seed:           s.seed,
		PopulationSize: s.pop.Len(),
		Complexity:     s.pop.Complexity(),
		Weights:        s.cfg.Weights,
		Shards:         s.cfg.Shards,
		Shuffle:        s.cfg.Shuffle,
		ClearStale:     s.cfg.ClearStale,
		Rounds:         s.rounds,
		Totals:         s.totals,
		Final:          s.last,
		Elapsed:        s.totals.Duration,
	}
}
