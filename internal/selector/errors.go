// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package selector

import (
	"errors"
	"fmt"
	"math"

	"github.com/pdiddy/scholar-select/pkg/types"
)

// ErrNoSimilarity is returned when Options carries no similarity backend.
var ErrNoSimilarity = errors.New("no similarity backend configured")

// ValidationError reports an invalid selection parameter.
type ValidationError struct {
	Param  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Param, e.Value, e.Reason)
}

// PaperError reports a malformed input paper by its index.
type PaperError struct {
	Index int
	Field string
	Value any
}

func (e *PaperError) Error() string {
	return fmt.Sprintf("paper %d: invalid or missing %s (%v)", e.Index, e.Field, e.Value)
}

func (o Options) validate() error {
	if o.NPapers < 0 {
		return &ValidationError{Param: "n_papers", Value: o.NPapers, Reason: "must be >= 0"}
	}
	weights := []struct {
		name string
		v    float64
	}{
		{"alpha", o.Alpha},
		{"beta", o.Beta},
		{"penalty_weight", o.PenaltyWeight},
	}
	for _, w := range weights {
		if math.IsNaN(w.v) || math.IsInf(w.v, 0) {
			return &ValidationError{Param: w.name, Value: w.v, Reason: "must be finite"}
		}
		if w.v < 0 {
			return &ValidationError{Param: w.name, Value: w.v, Reason: "must be >= 0"}
		}
	}
	if o.RecencyWindowYears < 0 {
		return &ValidationError{Param: "recency_window_years", Value: o.RecencyWindowYears, Reason: "must be >= 0"}
	}
	if o.Similarity == nil {
		return ErrNoSimilarity
	}
	return nil
}

// validatePapers fails on the first paper lacking a usable year or carrying
// a negative citation count. A blank abstract is not an error; such papers
// are filtered out.
func validatePapers(papers []types.Paper) error {
	for i, p := range papers {
		if p.Year <= 0 {
			return &PaperError{Index: i, Field: "year", Value: p.Year}
		}
		if p.Citations < 0 {
			return &PaperError{Index: i, Field: "citations", Value: p.Citations}
		}
	}
	return nil
}
