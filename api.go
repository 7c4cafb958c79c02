// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package popmatch simulates repeated two-sided population matching with a
// round based greedy proposal algorithm.
//
// Proposers (Male) scan responders (Female) in population order. A responder
// accepts the first proposer whose score, computed from the responder's
// weights against the proposer's ratings, is at least as high as the score of
// the responder's current candidate. Rejected proposers blacklist the
// responder for the rest of the run.
package popmatch

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrConfiguration reports an invalid population configuration, such as
	// a weight vector whose length differs from the preference complexity.
	ErrConfiguration = errors.New("popmatch: configuration error")

	// ErrDimensionMismatch reports weights and ratings of unequal length.
	ErrDimensionMismatch = errors.New("popmatch: dimension mismatch")
)

type Matcher interface {
	// Match runs one round against pop, mutating candidate and blacklist
	// state in place.
	Match(pop *Population) (RoundReport, error)
}

// ID is an opaque identity token. Only equality is meaningful.
type ID string

type Gender int

const (
	Male   Gender = iota // proposers
	Female               // responders
)

func (g Gender) String() string {
	switch g {
	case Male:
		return "male"
	case Female:
		return "female"
	}
	return "unknown"
}

func (g Gender) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

func (g *Gender) UnmarshalText(text []byte) error {
	switch string(text) {
	case "male":
		*g = Male
	case "female":
		*g = Female
	default:
		return fmt.Errorf("unknown gender %q", text)
	}
	return nil
}

// Candidate is an accepted partner and the score of the acceptance.
type Candidate struct {
	ID    ID
	Score float64
}

type Blacklist map[ID]struct{}

type Individual struct {
	ID     ID
	Gender Gender

	// Weights is how much this individual cares about each attribute.
	Weights []float64
	// Ratings is how this individual scores on each attribute.
	Ratings []float64

	// Blacklist records the responders that rejected this individual.
	Blacklist Blacklist
	// Candidate is nil when unmatched.
	Candidate *Candidate
}

type RoundReport struct {
	Proposals int `json:"proposals"` // scored pairs
	Accepted  int `json:"accepted"`  // accepted by an unmatched responder
	Displaced int `json:"displaced"` // accepted over an existing candidate
	Kept      int `json:"kept"`      // re-accepted by the current candidate
	Rejected  int `json:"rejected"`
	Skipped   int `json:"skipped"` // blacklisted pairs

	Duration time.Duration `json:"duration"`
}

func (r *RoundReport) Add(o RoundReport) {
	r.Proposals += o.Proposals
	r.Accepted += o.Accepted
	r.Displaced += o.Displaced
	r.Kept += o.Kept
	r.Rejected += o.Rejected
	r.Skipped += o.Skipped
}
