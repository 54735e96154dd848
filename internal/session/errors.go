package session

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrReviewNotFound is returned when a review id is not saved.
	ErrReviewNotFound = errors.New("review not found")
	// ErrUnknownParticipant is returned for a participant id not in the form.
	ErrUnknownParticipant = errors.New("unknown participant")
	// ErrUnknownCategory is returned for a category id not in the form.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrScoreOutOfRange is returned for a score outside the scale.
	ErrScoreOutOfRange = errors.New("score out of range")
)

// SaveValidationError lists the requirements a save attempt did not meet.
type SaveValidationError struct {
	Missing []string
}

func (e *SaveValidationError) Error() string {
	return fmt.Sprintf("cannot save review: missing %s", strings.Join(e.Missing, ", "))
}
