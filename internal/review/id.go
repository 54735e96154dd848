package review

import "github.com/google/uuid"

// NewID returns a random opaque identifier.
func NewID() string {
	return uuid.NewString()
}
