package review

import "math"

// Score scale bounds. ScoreStep is the granularity offered to users; the
// engine accepts any value inside the bounds.
const (
	MinScore  = 1.0
	MaxScore  = 10.0
	ScoreStep = 0.25
)

// ValidScore reports whether v lies in [MinScore, MaxScore].
func ValidScore(v float64) bool {
	return !math.IsNaN(v) && v >= MinScore && v <= MaxScore
}

// ScoreOptions returns every selectable score from MinScore to MaxScore in
// ScoreStep increments.
func ScoreOptions() []float64 {
	n := int((MaxScore-MinScore)/ScoreStep) + 1
	opts := make([]float64, n)
	for i := range opts {
		opts[i] = MinScore + float64(i)*ScoreStep
	}
	return opts
}
