// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package popmatch

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// NewIndividual builds an unmatched individual with a random gender and a
// random identity. All randomness is drawn from rng, so a seeded generator
// reproduces the same individual.
func NewIndividual(rng *rand.Rand, complexity int, weights []float64) (Individual, error) {
	w, r, err := GenerateVectors(rng, complexity, weights)
	if err != nil {
		return Individual{}, err
	}

	gender := Male
	if rng.Intn(2) == 1 {
		gender = Female
	}

	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return Individual{}, fmt.Errorf("generate identity failed: %w", err)
	}

	return Individual{
		ID:        ID(id.String()),
		Gender:    gender,
		Weights:   w,
		Ratings:   r,
		Blacklist: make(Blacklist),
	}, nil
}

func (ind *Individual) Matched() bool {
	return ind.Candidate != nil
}

func (ind *Individual) Blacklisted(id ID) bool {
	_, ok := ind.Blacklist[id]
	return ok
}

func (ind *Individual) blacklist(id ID) {
	if ind.Blacklist == nil {
		ind.Blacklist = make(Blacklist)
	}
	ind.Blacklist[id] = struct{}{}
}

func (ind *Individual) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Identity: %s, %s\n", ind.ID, ind.Gender)
	fmt.Fprintf(&b, "Preference Weights: %v\n", ind.Weights)
	fmt.Fprintf(&b, "Ratings: %v\n", ind.Ratings)

	blacklist := make([]string, 0, len(ind.Blacklist))
	for id := range ind.Blacklist {
		blacklist = append(blacklist, string(id))
	}
	sort.Strings(blacklist)
	fmt.Fprintf(&b, "Blacklist: %v\n", blacklist)

	if ind.Candidate != nil {
		fmt.Fprintf(&b, "Candidate: %s\n", ind.Candidate.ID)
		fmt.Fprintf(&b, "Candidate Score: %v\n", ind.Candidate.Score)
	} else {
		b.WriteString("Candidate: None\n")
		b.WriteString("Candidate Score: None\n")
	}

	return b.String()
}
