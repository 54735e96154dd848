// Package schema validates saved reviews for structural consistency.
package schema

import (
	"fmt"
	"math"

	"github.com/dshills/tablescore/internal/review"
	"github.com/dshills/tablescore/internal/scoring"
)

// aggregateTolerance bounds the drift allowed between a stored aggregate and
// its recomputation after a JSON round trip.
const aggregateTolerance = 1e-9

// ValidationError describes a single schema violation.
type ValidationError struct {
	Path    string
	Message string
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Review for structural validity. Empty names are allowed.
func Validate(r *review.Review) []ValidationError {
	var errs []ValidationError

	if r.ID == "" {
		errs = append(errs, ValidationError{"id", "required"})
	}
	if r.CreatedAt.IsZero() {
		errs = append(errs, ValidationError{"createdAt", "required"})
	}

	participantIDs := make(map[string]bool)
	for i, p := range r.Participants {
		prefix := fmt.Sprintf("participants[%d]", i)
		if p.ID == "" {
			errs = append(errs, ValidationError{prefix + ".id", "required"})
		} else if participantIDs[p.ID] {
			errs = append(errs, ValidationError{prefix + ".id", fmt.Sprintf("duplicate ID: %q", p.ID)})
		} else {
			participantIDs[p.ID] = true
		}
	}

	categoryIDs := make(map[string]bool)
	for i, c := range r.Categories {
		prefix := fmt.Sprintf("categories[%d]", i)
		if c.ID == "" {
			errs = append(errs, ValidationError{prefix + ".id", "required"})
		} else if categoryIDs[c.ID] {
			errs = append(errs, ValidationError{prefix + ".id", fmt.Sprintf("duplicate ID: %q", c.ID)})
		} else {
			categoryIDs[c.ID] = true
		}
	}

	type cell struct{ p, c string }
	cells := make(map[cell]bool)
	for i, s := range r.Scores {
		prefix := fmt.Sprintf("scores[%d]", i)
		if !participantIDs[s.ParticipantID] {
			errs = append(errs, ValidationError{prefix + ".participantId", fmt.Sprintf("unknown participant: %q", s.ParticipantID)})
		}
		if !categoryIDs[s.CategoryID] {
			errs = append(errs, ValidationError{prefix + ".categoryId", fmt.Sprintf("unknown category: %q", s.CategoryID)})
		}
		if !review.ValidScore(s.Value) {
			errs = append(errs, ValidationError{prefix + ".score", fmt.Sprintf("%g not in [%g, %g]", s.Value, review.MinScore, review.MaxScore)})
		}
		k := cell{s.ParticipantID, s.CategoryID}
		if cells[k] {
			errs = append(errs, ValidationError{prefix, fmt.Sprintf("duplicate score for (%q, %q)", s.ParticipantID, s.CategoryID)})
		}
		cells[k] = true
	}

	errs = append(errs, validateAggregate(r)...)
	return errs
}

func validateAggregate(r *review.Review) []ValidationError {
	switch {
	case r.AverageScore == nil && r.StarRating == nil:
		return nil
	case r.AverageScore == nil:
		return []ValidationError{{"averageScore", "required when starRating is set"}}
	case r.StarRating == nil:
		return []ValidationError{{"starRating", "required when averageScore is set"}}
	}

	out := scoring.Aggregate(r.Scores, r.Participants, r.Categories)
	if out.Status != scoring.Succeeded {
		return []ValidationError{{"averageScore", "present but the grid is not complete"}}
	}
	var errs []ValidationError
	if math.Abs(*r.AverageScore-out.Average) > aggregateTolerance {
		errs = append(errs, ValidationError{"averageScore", fmt.Sprintf("%g does not match computed %g", *r.AverageScore, out.Average)})
	}
	if math.Abs(*r.StarRating-out.StarRating) > aggregateTolerance {
		errs = append(errs, ValidationError{"starRating", fmt.Sprintf("%g does not match computed %g", *r.StarRating, out.StarRating)})
	}
	return errs
}
