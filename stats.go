// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package popmatch

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

type GroupStats struct {
	Matched int `json:"matched"`
	Total   int `json:"total"`
}

func (g GroupStats) Unmatched() int { return g.Total - g.Matched }

// Percent is the matched percentage, 0 for an empty group.
func (g GroupStats) Percent() float64 {
	return percent(g.Matched, g.Total)
}

type Imbalance struct {
	Larger Gender `json:"larger"`
	By     int    `json:"by"`
}

func (i Imbalance) Balanced() bool { return i.By == 0 }

func (i Imbalance) String() string {
	if i.Balanced() {
		return "male and female populations are equal"
	}
	smaller := Female
	if i.Larger == Female {
		smaller = Male
	}
	return fmt.Sprintf("%s population EXCEEDED that of %s by %d", i.Larger, smaller, i.By)
}

type Stats struct {
	Proposers  GroupStats `json:"proposers"`
	Responders GroupStats `json:"responders"`
	Imbalance  Imbalance  `json:"imbalance"`

	// UnmatchedPercent covers both sides, 0 for an empty population.
	UnmatchedPercent float64 `json:"unmatched_percent"`

	// MutualPairs counts proposers whose responder points back to them.
	MutualPairs int `json:"mutual_pairs"`
	// StaleProposers and StaleResponders count matched individuals whose
	// partner has moved on.
	StaleProposers  int `json:"stale_proposers"`
	StaleResponders int `json:"stale_responders"`

	BlacklistEntries int `json:"blacklist_entries"`

	// Over the candidate scores of matched proposers.
	ScoreMean   float64 `json:"score_mean"`
	ScoreStdDev float64 `json:"score_stddev"`
}

// Statistics summarizes pop without modifying it.
func Statistics(pop *Population) Stats {
	var s Stats

	s.Proposers.Total = len(pop.proposers)
	s.Responders.Total = len(pop.responders)

	var scores []float64

	for i := range pop.proposers {
		p := &pop.proposers[i]
		s.BlacklistEntries += len(p.Blacklist)
		if p.Candidate == nil {
			continue
		}
		s.Proposers.Matched++
		scores = append(scores, p.Candidate.Score)
		if pointsTo(pop.Lookup(p.Candidate.ID), p.ID) {
			s.MutualPairs++
		} else {
			s.StaleProposers++
		}
	}

	for i := range pop.responders {
		r := &pop.responders[i]
		if r.Candidate == nil {
			continue
		}
		s.Responders.Matched++
		if !pointsTo(pop.Lookup(r.Candidate.ID), r.ID) {
			s.StaleResponders++
		}
	}

	switch diff := s.Proposers.Total - s.Responders.Total; {
	case diff > 0:
		s.Imbalance = Imbalance{Larger: Male, By: diff}
	case diff < 0:
		s.Imbalance = Imbalance{Larger: Female, By: -diff}
	}

	s.UnmatchedPercent = percent(s.Proposers.Unmatched()+s.Responders.Unmatched(), pop.Len())

	switch len(scores) {
	case 0:
	case 1:
		s.ScoreMean = scores[0]
	default:
		s.ScoreMean, s.ScoreStdDev = stat.MeanStdDev(scores, nil)
	}

	return s
}

func pointsTo(ind *Individual, id ID) bool {
	return ind != nil && ind.Candidate != nil && ind.Candidate.ID == id
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
