// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scoring provides popmatch.Scorer wrappers.
package scoring

import "github.com/someonegg/popmatch"

type ScoreRecord struct {
	ScoreKey `yaml:",inline"`
	ScoreVal `yaml:",inline"`
}

// ScoreKey is directional: Evaluator scores Target.
type ScoreKey struct {
	Evaluator popmatch.ID `json:"evaluator" yaml:"evaluator"`
	Target    popmatch.ID `json:"target" yaml:"target"`
}

type ScoreVal struct {
	Score float64 `json:"score" yaml:"score"`
}
