// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package popmatch

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"
)

type greedyMatcher struct {
	scorer     Scorer
	shards     int
	clearStale bool
	shuffle    *rand.Rand
	logger     *slog.Logger
}

type Option func(*greedyMatcher)

// WithScorer replaces DotScorer.
func WithScorer(scorer Scorer) Option {
	return func(m *greedyMatcher) {
		m.scorer = scorer
	}
}

// WithShards splits the population into n disjoint shards by position
// modulo n. Each shard is matched on its own goroutine and proposers only
// see the responders of their shard.
func WithShards(n int) Option {
	return func(m *greedyMatcher) {
		if n < 1 {
			n = 1
		}
		m.shards = n
	}
}

// WithShuffle visits proposers in a fresh random order every round instead
// of population order.
func WithShuffle(rng *rand.Rand) Option {
	return func(m *greedyMatcher) {
		m.shuffle = rng
	}
}

// WithClearStale clears the candidate of the individuals left behind when a
// new pair forms. By default they keep pointing to their former partner.
func WithClearStale(enabled bool) Option {
	return func(m *greedyMatcher) {
		m.clearStale = enabled
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *greedyMatcher) {
		m.logger = logger
	}
}

// GreedyMatcher returns the round engine. The returned Matcher is not safe
// for concurrent use, and a population should always be driven with the
// same shard count.
func GreedyMatcher(opts ...Option) Matcher {
	m := &greedyMatcher{
		scorer: DotScorer,
		shards: 1,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type shard struct {
	n, k int
}

func (s shard) owns(pos int) bool {
	return pos%s.n == s.k
}

func (m *greedyMatcher) Match(pop *Population) (RoundReport, error) {
	start := time.Now()

	// A corrupted vector must abort the round before anything changes.
	if err := pop.checkDimensions(); err != nil {
		return RoundReport{}, err
	}

	order := make([]int, len(pop.proposers))
	for i := range order {
		order[i] = i
	}
	if m.shuffle != nil {
		m.shuffle.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}

	var report RoundReport

	if m.shards == 1 {
		r, err := m.matchShard(pop, order, shard{1, 0})
		if err != nil {
			return RoundReport{}, err
		}
		report = r
	} else {
		orders := make([][]int, m.shards)
		for _, i := range order {
			orders[i%m.shards] = append(orders[i%m.shards], i)
		}

		reports := make([]RoundReport, m.shards)
		var g errgroup.Group
		for k := 0; k < m.shards; k++ {
			k := k
			g.Go(func() error {
				r, err := m.matchShard(pop, orders[k], shard{m.shards, k})
				reports[k] = r
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return RoundReport{}, err
		}
		for _, r := range reports {
			report.Add(r)
		}
	}

	report.Duration = time.Since(start)

	m.logger.Debug("match round completed",
		slog.Int("proposers", len(pop.proposers)),
		slog.Int("responders", len(pop.responders)),
		slog.Int("shards", m.shards),
		slog.Int("proposals", report.Proposals),
		slog.Int("accepted", report.Accepted),
		slog.Int("displaced", report.Displaced),
		slog.Int("rejected", report.Rejected),
		slog.Duration("elapsed", report.Duration))

	return report, nil
}

// matchShard visits the proposers in order; each scans the responders of
// its shard in population order and stops at the first acceptance.
func (m *greedyMatcher) matchShard(pop *Population, order []int, s shard) (RoundReport, error) {
	var report RoundReport

	responders := pop.responders

	for _, i := range order {
		proposer := &pop.proposers[i]

		for j := s.k; j < len(responders); j += s.n {
			responder := &responders[j]

			if proposer.Blacklisted(responder.ID) {
				report.Skipped++
				continue
			}

			score, err := m.scorer.Score(responder, proposer)
			if err != nil {
				return report, fmt.Errorf("score %s by %s failed: %w", proposer.ID, responder.ID, err)
			}
			report.Proposals++

			current := responder.Candidate
			if current != nil && score < current.Score {
				proposer.blacklist(responder.ID)
				report.Rejected++
				continue
			}

			switch {
			case current == nil:
				report.Accepted++
			case current.ID == proposer.ID:
				report.Kept++
			default:
				report.Displaced++
			}

			m.pair(pop, s, proposer, responder, score)
			break
		}
	}

	return report, nil
}

func (m *greedyMatcher) pair(pop *Population, s shard, proposer, responder *Individual, score float64) {
	if m.clearStale {
		if c := responder.Candidate; c != nil && c.ID != proposer.ID {
			release(pop, s, c.ID, responder.ID)
		}
		if c := proposer.Candidate; c != nil && c.ID != responder.ID {
			release(pop, s, c.ID, proposer.ID)
		}
	}

	responder.Candidate = &Candidate{ID: proposer.ID, Score: score}
	proposer.Candidate = &Candidate{ID: responder.ID, Score: score}
}

// release unmatches id if it still points to partner. Individuals outside
// shard s are left alone.
func release(pop *Population, s shard, id, partner ID) {
	pos, ok := pop.position(id)
	if !ok || !s.owns(pos.pos) {
		return
	}
	ind := pop.Lookup(id)
	if ind.Candidate != nil && ind.Candidate.ID == partner {
		ind.Candidate = nil
	}
}
