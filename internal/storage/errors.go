package storage

import (
	"errors"
	"fmt"
)

// ErrDuplicateID is returned by Insert when a review with the same id is
// already saved.
var ErrDuplicateID = errors.New("review id already exists")

// ReadError describes stored content that could not be read or decoded.
// Reads recover from it by treating the content as absent.
type ReadError struct {
	Key string
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %q: %v", e.Key, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError describes a failed write to the underlying store. Nothing is
// retried.
type WriteError struct {
	Key string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %q: %v", e.Key, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
