// Package backup reads and writes whole-collection backup files.
package backup

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dshills/tablescore/internal/review"
)

// File holds a loaded backup with its content hash.
type File struct {
	FilePath string
	Reviews  []review.Review
	Hash     string
}

// Load reads a backup file and computes its SHA-256 hash.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("backup.Load: %w", err)
	}
	var reviews []review.Review
	if err := json.Unmarshal(data, &reviews); err != nil {
		return nil, fmt.Errorf("backup.Load: parse %s: %w", path, err)
	}
	h := sha256.Sum256(data)
	return &File{
		FilePath: path,
		Reviews:  reviews,
		Hash:     fmt.Sprintf("sha256:%x", h),
	}, nil
}

// Write stores reviews at outPath as an indented JSON array.
func Write(reviews []review.Review, outPath string) error {
	if reviews == nil {
		reviews = []review.Review{}
	}
	data, err := json.MarshalIndent(reviews, "", "  ")
	if err != nil {
		return fmt.Errorf("backup.Write: %w", err)
	}
	if err := os.WriteFile(outPath, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("backup.Write: %w", err)
	}
	return nil
}
