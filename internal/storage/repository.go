// Package storage persists saved reviews and the in-progress draft through a
// kv.Store.
package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/dshills/tablescore/internal/kv"
	"github.com/dshills/tablescore/internal/review"
)

// Keys under which reviews and the draft are stored.
const (
	ReviewsKey = "restaurant_reviews"
	DraftKey   = "restaurant_review_draft"
)

// Patch carries every replaceable field of a saved review.
type Patch struct {
	Draft        review.Draft
	AverageScore *float64
	StarRating   *float64
}

// Repository is the saved review collection. The whole collection is
// rewritten on every change.
type Repository struct {
	store  kv.Store
	logger *log.Logger
}

// NewRepository returns a repository over store. A nil logger discards
// diagnostics.
func NewRepository(store kv.Store, logger *log.Logger) *Repository {
	return &Repository{store: store, logger: orDiscard(logger)}
}

// List returns every saved review. Missing or unreadable content yields an
// empty collection.
func (r *Repository) List() []review.Review {
	reviews, err := r.load()
	if err != nil {
		r.logger.Printf("storage: %v; treating as no reviews", err)
		return []review.Review{}
	}
	return reviews
}

// Get returns the saved review with the given id.
func (r *Repository) Get(id string) (review.Review, bool) {
	for _, rv := range r.List() {
		if rv.ID == id {
			return rv, true
		}
	}
	return review.Review{}, false
}

// Insert appends a fully formed review and persists the collection. An
// unreadable collection is never overwritten; its *ReadError is returned.
func (r *Repository) Insert(rv review.Review) error {
	reviews, err := r.load()
	if err != nil {
		return err
	}
	for _, existing := range reviews {
		if existing.ID == rv.ID {
			return fmt.Errorf("storage.Insert %s: %w", rv.ID, ErrDuplicateID)
		}
	}
	return r.save(append(reviews, rv.Clone()))
}

// Update replaces every field of the review except ID and CreatedAt, keeping
// its position. It reports false without writing when id is not saved.
func (r *Repository) Update(id string, p Patch) (bool, error) {
	reviews, err := r.load()
	if err != nil {
		return false, err
	}
	for i := range reviews {
		if reviews[i].ID != id {
			continue
		}
		updated := review.Review{
			ID:           reviews[i].ID,
			Draft:        p.Draft,
			AverageScore: p.AverageScore,
			StarRating:   p.StarRating,
			CreatedAt:    reviews[i].CreatedAt,
		}
		reviews[i] = updated.Clone()
		if err := r.save(reviews); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// Delete removes the review with the given id. It reports false without
// writing when id is not saved.
func (r *Repository) Delete(id string) (bool, error) {
	reviews, err := r.load()
	if err != nil {
		return false, err
	}
	kept := make([]review.Review, 0, len(reviews))
	for _, rv := range reviews {
		if rv.ID != id {
			kept = append(kept, rv)
		}
	}
	if len(kept) == len(reviews) {
		return false, nil
	}
	if err := r.save(kept); err != nil {
		return false, err
	}
	return true, nil
}

// ClearAll removes the whole collection, readable or not.
func (r *Repository) ClearAll() error {
	if err := r.store.Remove(ReviewsKey); err != nil {
		return &WriteError{Key: ReviewsKey, Err: err}
	}
	return nil
}

func (r *Repository) load() ([]review.Review, error) {
	raw, ok, err := r.store.Get(ReviewsKey)
	if err != nil {
		return nil, &ReadError{Key: ReviewsKey, Err: err}
	}
	if !ok {
		return []review.Review{}, nil
	}
	var reviews []review.Review
	if err := json.Unmarshal([]byte(raw), &reviews); err != nil {
		return nil, &ReadError{Key: ReviewsKey, Err: err}
	}
	if reviews == nil {
		reviews = []review.Review{}
	}
	return reviews, nil
}

func (r *Repository) save(reviews []review.Review) error {
	data, err := json.Marshal(reviews)
	if err != nil {
		return &WriteError{Key: ReviewsKey, Err: err}
	}
	if err := r.store.Set(ReviewsKey, string(data)); err != nil {
		return &WriteError{Key: ReviewsKey, Err: err}
	}
	return nil
}

func orDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return log.New(io.Discard, "", 0)
	}
	return l
}
