// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package popmatch

import "fmt"

type Scorer interface {
	// Score is how much evaluator values target.
	Score(evaluator, target *Individual) (float64, error)
}

type ScorerFunc func(evaluator, target *Individual) (float64, error)

func (f ScorerFunc) Score(evaluator, target *Individual) (float64, error) {
	return f(evaluator, target)
}

// DotScorer scores with Score.
var DotScorer Scorer = ScorerFunc(Score)

// Score weighs target's ratings with evaluator's weights. It is asymmetric:
// Score(a, b) and Score(b, a) generally differ.
func Score(evaluator, target *Individual) (float64, error) {
	if len(evaluator.Weights) != len(target.Ratings) {
		return 0, fmt.Errorf("%w: %s has %d weights, %s has %d ratings", ErrDimensionMismatch,
			evaluator.ID, len(evaluator.Weights), target.ID, len(target.Ratings))
	}

	var score float64
	for i, w := range evaluator.Weights {
		score += w * target.Ratings[i]
	}
	return score, nil
}
