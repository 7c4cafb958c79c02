// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scoring

import "github.com/someonegg/popmatch"

type complexScorer struct {
	orig popmatch.Scorer
	recs map[ScoreKey]ScoreVal
}

// NewComplexScorer pins the scores of the recorded pairs and delegates the
// others to orig. Later records override earlier ones.
func NewComplexScorer(orig popmatch.Scorer, records []ScoreRecord) popmatch.Scorer {
	if orig == nil {
		orig = popmatch.DotScorer
	}
	recs := make(map[ScoreKey]ScoreVal)
	for _, rec := range records {
		recs[rec.ScoreKey] = rec.ScoreVal
	}
	return &complexScorer{
		orig: orig,
		recs: recs,
	}
}

func (s *complexScorer) Score(evaluator, target *popmatch.Individual) (float64, error) {
	key := ScoreKey{Evaluator: evaluator.ID, Target: target.ID}
	if val, ok := s.recs[key]; ok {
		return val.Score, nil
	}
	return s.orig.Score(evaluator, target)
}
