// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package popmatch

import (
	"fmt"
	"math/rand"
)

const (
	MinRating = 1.0
	MaxRating = 10.0
)

// GenerateVectors returns the weights and ratings of one individual.
// Weights are copied from the supplied vector when it is not nil, otherwise
// drawn uniformly from [0,1). Ratings are drawn uniformly from
// [MinRating, MaxRating], both ends included.
func GenerateVectors(rng *rand.Rand, complexity int, weights []float64) (w, r []float64, err error) {
	if err := checkVectorConfig(complexity, weights); err != nil {
		return nil, nil, err
	}

	w = make([]float64, complexity)
	if weights != nil {
		copy(w, weights)
	} else {
		for i := range w {
			w[i] = rng.Float64()
		}
	}

	r = make([]float64, complexity)
	for i := range r {
		r[i] = closedUniform(rng, MinRating, MaxRating)
	}

	return w, r, nil
}

func checkVectorConfig(complexity int, weights []float64) error {
	if complexity < 1 {
		return fmt.Errorf("%w: preference complexity %d, need at least 1", ErrConfiguration, complexity)
	}
	if weights != nil && len(weights) != complexity {
		return fmt.Errorf("%w: %d predefined weights for preference complexity %d",
			ErrConfiguration, len(weights), complexity)
	}
	return nil
}

const unitSteps = 1 << 53

// closedUniform draws from [lo, hi] on a grid of 2^53 steps.
func closedUniform(rng *rand.Rand, lo, hi float64) float64 {
	u := float64(rng.Int63n(unitSteps+1)) / unitSteps
	return lo + (hi-lo)*u
}
