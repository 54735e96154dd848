// Package scoring validates score grids and derives the aggregate rating.
package scoring

import (
	"fmt"

	"github.com/dshills/tablescore/internal/review"
)

// Upsert returns a copy of scores with the (participantID, categoryID) cell
// set to value. An existing cell keeps its position; a new one is appended.
func Upsert(scores []review.Score, participantID, categoryID string, value float64) []review.Score {
	out := make([]review.Score, len(scores), len(scores)+1)
	copy(out, scores)
	for i := range out {
		if out[i].ParticipantID == participantID && out[i].CategoryID == categoryID {
			out[i].Value = value
			return out
		}
	}
	return append(out, review.Score{ParticipantID: participantID, CategoryID: categoryID, Value: value})
}

// Lookup returns the value of the (participantID, categoryID) cell.
// The second result is false when the cell has no score.
func Lookup(scores []review.Score, participantID, categoryID string) (float64, bool) {
	for _, s := range scores {
		if s.ParticipantID == participantID && s.CategoryID == categoryID {
			return s.Value, true
		}
	}
	return 0, false
}

// Status tags the outcome of an aggregation.
type Status int

const (
	// NotReady means there is nothing to aggregate yet.
	NotReady Status = iota
	// Failed means the grid has missing or invalid cells.
	Failed
	// Succeeded means Average and StarRating are set.
	Succeeded
)

func (s Status) String() string {
	switch s {
	case NotReady:
		return "not_ready"
	case Failed:
		return "failed"
	case Succeeded:
		return "succeeded"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// IncompleteGridError reports a grid in which some expected cell lacks
// exactly one score inside the allowed range.
type IncompleteGridError struct {
	Expected int
	Filled   int
}

func (e *IncompleteGridError) Error() string {
	return fmt.Sprintf("incomplete grid: %d of %d cells hold a score between %g and %g; every participant must score every category",
		e.Filled, e.Expected, review.MinScore, review.MaxScore)
}

// Outcome is the tagged result of Aggregate.
type Outcome struct {
	Status     Status
	Average    float64
	StarRating float64
	Reason     *IncompleteGridError
}

// Err returns the failure reason, or nil unless Status is Failed.
func (o Outcome) Err() error {
	if o.Status != Failed || o.Reason == nil {
		return nil
	}
	return o.Reason
}

// Aggregate computes the mean of the grid and its star rating (mean / 2).
// Empty inputs yield NotReady. Any expected cell without exactly one
// in-range score yields Failed. No rounding is applied.
func Aggregate(scores []review.Score, participants []review.Participant, categories []review.Category) Outcome {
	if len(scores) == 0 || len(participants) == 0 || len(categories) == 0 {
		return Outcome{Status: NotReady}
	}

	type cell struct{ p, c string }
	counts := make(map[cell]int, len(scores))
	values := make(map[cell]float64, len(scores))
	for _, s := range scores {
		k := cell{s.ParticipantID, s.CategoryID}
		counts[k]++
		values[k] = s.Value
	}

	expected := len(participants) * len(categories)
	filled := 0
	var sum float64
	for _, p := range participants {
		for _, c := range categories {
			k := cell{p.ID, c.ID}
			if counts[k] != 1 || !review.ValidScore(values[k]) {
				continue
			}
			filled++
			sum += values[k]
		}
	}

	if filled != expected {
		return Outcome{
			Status: Failed,
			Reason: &IncompleteGridError{Expected: expected, Filled: filled},
		}
	}

	avg := sum / float64(expected)
	return Outcome{
		Status:     Succeeded,
		Average:    avg,
		StarRating: avg / 2,
	}
}
