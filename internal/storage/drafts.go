package storage

import (
	"encoding/json"
	"log"

	"github.com/dshills/tablescore/internal/kv"
	"github.com/dshills/tablescore/internal/review"
)

// Drafts holds the single in-progress draft. Saving always replaces it.
type Drafts struct {
	store  kv.Store
	logger *log.Logger
}

// NewDrafts returns a draft store over store. A nil logger discards
// diagnostics.
func NewDrafts(store kv.Store, logger *log.Logger) *Drafts {
	return &Drafts{store: store, logger: orDiscard(logger)}
}

// Save overwrites the stored draft with d.
func (s *Drafts) Save(d review.Draft) error {
	data, err := json.Marshal(d.Clone())
	if err != nil {
		return &WriteError{Key: DraftKey, Err: err}
	}
	if err := s.store.Set(DraftKey, string(data)); err != nil {
		return &WriteError{Key: DraftKey, Err: err}
	}
	return nil
}

// Load returns the stored draft. The second result is false when there is
// none or it cannot be read.
func (s *Drafts) Load() (review.Draft, bool) {
	raw, ok, err := s.store.Get(DraftKey)
	if err != nil {
		s.logger.Printf("storage: %v; ignoring draft", &ReadError{Key: DraftKey, Err: err})
		return review.Draft{}, false
	}
	if !ok {
		return review.Draft{}, false
	}
	var d review.Draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		s.logger.Printf("storage: %v; ignoring draft", &ReadError{Key: DraftKey, Err: err})
		return review.Draft{}, false
	}
	return d, true
}

// Clear removes the stored draft.
func (s *Drafts) Clear() error {
	if err := s.store.Remove(DraftKey); err != nil {
		return &WriteError{Key: DraftKey, Err: err}
	}
	return nil
}
