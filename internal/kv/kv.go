// Package kv provides the synchronous string key-value capability reviews
// and drafts are persisted through.
package kv

import (
	"fmt"
	"strings"
)

// Store is a synchronous key-value store. Writes are last-write-wins.
type Store interface {
	// Get returns the value for key. The second result is false when the key
	// is absent.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Backends lists the backend names accepted by Open.
func Backends() []string {
	return []string{BackendMemory, BackendFile, BackendSQLite}
}

// Open returns the store for backend. location is a directory for the file
// backend, a database path for sqlite, and ignored for memory.
func Open(backend, location string) (Store, error) {
	switch strings.ToLower(backend) {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile:
		f, err := OpenFile(location)
		if err != nil {
			return nil, err
		}
		return f, nil
	case BackendSQLite:
		s, err := OpenSQLite(location)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("kv.Open: unknown backend %q", backend)
}
