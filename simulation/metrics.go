// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simulation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/someonegg/popmatch"
)

// Metrics exports round outcomes and population state. A nil *Metrics
// records nothing.
type Metrics struct {
	rounds    prometheus.Counter
	duration  prometheus.Histogram
	pairs     *prometheus.CounterVec
	matched   *prometheus.GaugeVec
	unmatched prometheus.Gauge
	mutual    prometheus.Gauge
	blacklist prometheus.Gauge
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		rounds: f.NewCounter(prometheus.CounterOpts{
			Name: "popmatch_rounds_total",
			Help: "Matching rounds completed.",
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "popmatch_round_duration_seconds",
			Help:    "Duration of a matching round.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		pairs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "popmatch_pairs_total",
			Help: "Proposer/responder pairs visited, by outcome.",
		}, []string{"outcome"}),
		matched: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "popmatch_matched",
			Help: "Individuals holding a candidate, by gender.",
		}, []string{"gender"}),
		unmatched: f.NewGauge(prometheus.GaugeOpts{
			Name: "popmatch_unmatched_percent",
			Help: "Percentage of all individuals without a candidate.",
		}),
		mutual: f.NewGauge(prometheus.GaugeOpts{
			Name: "popmatch_mutual_pairs",
			Help: "Pairs whose candidates point at each other.",
		}),
		blacklist: f.NewGauge(prometheus.GaugeOpts{
			Name: "popmatch_blacklist_entries",
			Help: "Blacklist entries over all proposers.",
		}),
	}
}

func (m *Metrics) observe(report popmatch.RoundReport, stats popmatch.Stats) {
	if m == nil {
		return
	}

	m.rounds.Inc()
	m.duration.Observe(report.Duration.Seconds())

	m.pairs.WithLabelValues("accepted").Add(float64(report.Accepted))
	m.pairs.WithLabelValues("displaced").Add(float64(report.Displaced))
	m.pairs.WithLabelValues("kept").Add(float64(report.Kept))
	m.pairs.WithLabelValues("rejected").Add(float64(report.Rejected))
	m.pairs.WithLabelValues("skipped").Add(float64(report.Skipped))

	m.matched.WithLabelValues(popmatch.Male.String()).Set(float64(stats.Proposers.Matched))
	m.matched.WithLabelValues(popmatch.Female.String()).Set(float64(stats.Responders.Matched))
	m.unmatched.Set(stats.UnmatchedPercent)
	m.mutual.Set(float64(stats.MutualPairs))
	m.blacklist.Set(float64(stats.BlacklistEntries))
}
