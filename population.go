// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package popmatch

import (
	"fmt"
	"math/rand"
)

// Population owns the proposers and the responders of a simulation.
// Individuals are stored by value and addressed by position or by ID; the
// slices never grow after construction, so pointers into them stay valid.
//
// A Population is not safe for concurrent use.
type Population struct {
	proposers  []Individual
	responders []Individual
	index      map[ID]slot
	complexity int
}

type slot struct {
	side Gender
	pos  int
}

// NewPopulation partitions individuals by gender, keeping their order.
// The preference complexity is taken from the first individual.
func NewPopulation(individuals ...Individual) (*Population, error) {
	p := &Population{
		index: make(map[ID]slot, len(individuals)),
	}
	if len(individuals) > 0 {
		p.complexity = len(individuals[0].Weights)
		if p.complexity < 1 {
			return nil, fmt.Errorf("%w: preference complexity %d, need at least 1", ErrConfiguration, p.complexity)
		}
	}

	for _, ind := range individuals {
		if _, dup := p.index[ind.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate identity %s", ErrConfiguration, ind.ID)
		}
		if len(ind.Weights) != p.complexity || len(ind.Ratings) != p.complexity {
			return nil, fmt.Errorf("%w: individual %s has %d weights and %d ratings, want %d",
				ErrConfiguration, ind.ID, len(ind.Weights), len(ind.Ratings), p.complexity)
		}
		if ind.Blacklist == nil {
			ind.Blacklist = make(Blacklist)
		}

		switch ind.Gender {
		case Male:
			p.index[ind.ID] = slot{Male, len(p.proposers)}
			p.proposers = append(p.proposers, ind)
		case Female:
			p.index[ind.ID] = slot{Female, len(p.responders)}
			p.responders = append(p.responders, ind)
		default:
			return nil, fmt.Errorf("%w: individual %s has unknown gender %d", ErrConfiguration, ind.ID, ind.Gender)
		}
	}

	return p, nil
}

// GeneratePopulation creates size random individuals. The optional weights
// are shared by every individual. The configuration is validated before any
// individual is created.
func GeneratePopulation(rng *rand.Rand, size, complexity int, weights []float64) (*Population, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: population size %d", ErrConfiguration, size)
	}
	if err := checkVectorConfig(complexity, weights); err != nil {
		return nil, err
	}

	individuals := make([]Individual, size)
	for i := range individuals {
		ind, err := NewIndividual(rng, complexity, weights)
		if err != nil {
			return nil, err
		}
		individuals[i] = ind
	}

	pop, err := NewPopulation(individuals...)
	if err != nil {
		return nil, err
	}
	pop.complexity = complexity
	return pop, nil
}

// Proposers returns the proposer arena. It must not be modified while a
// round is running.
func (p *Population) Proposers() []Individual { return p.proposers }

// Responders returns the responder arena. It must not be modified while a
// round is running.
func (p *Population) Responders() []Individual { return p.responders }

func (p *Population) Len() int { return len(p.proposers) + len(p.responders) }

func (p *Population) Complexity() int { return p.complexity }

// Lookup returns the individual with the given identity, or nil.
func (p *Population) Lookup(id ID) *Individual {
	s, ok := p.index[id]
	if !ok {
		return nil
	}
	if s.side == Male {
		return &p.proposers[s.pos]
	}
	return &p.responders[s.pos]
}

func (p *Population) position(id ID) (slot, bool) {
	s, ok := p.index[id]
	return s, ok
}

// checkDimensions verifies that every vector still has the population's
// preference complexity.
func (p *Population) checkDimensions() error {
	for _, side := range [][]Individual{p.proposers, p.responders} {
		for i := range side {
			ind := &side[i]
			if len(ind.Weights) != p.complexity || len(ind.Ratings) != p.complexity {
				return fmt.Errorf("%w: individual %s has %d weights and %d ratings, want %d",
					ErrDimensionMismatch, ind.ID, len(ind.Weights), len(ind.Ratings), p.complexity)
			}
		}
	}
	return nil
}
