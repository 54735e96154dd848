// Package session holds the state of one review form: the working draft,
// its computed aggregate, and the rules that move it between states.
package session

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/dshills/tablescore/internal/review"
	"github.com/dshills/tablescore/internal/scoring"
	"github.com/dshills/tablescore/internal/storage"
)

// State is the position of the form in the save flow.
type State int

const (
	// Empty is a blank form.
	Empty State = iota
	// Editing is a form with changes and no current aggregate of its own.
	Editing
	// Computed is a form whose grid has a fresh aggregate.
	Computed
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Editing:
		return "editing"
	case Computed:
		return "computed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Reviews is the saved review collection as the form uses it.
type Reviews interface {
	Get(id string) (review.Review, bool)
	Insert(rv review.Review) error
	Update(id string, p storage.Patch) (bool, error)
	ClearAll() error
}

// Drafts is the single stored in-progress snapshot.
type Drafts interface {
	Save(d review.Draft) error
	Load() (review.Draft, bool)
	Clear() error
}

// Aggregate is the rating shown for the form. Carried marks a value copied
// from a saved review opened for edit rather than computed in this session.
type Aggregate struct {
	Average    float64
	StarRating float64
	Carried    bool
}

// Session is one form. It is owned by the caller and not safe for
// concurrent use.
type Session struct {
	reviews Reviews
	drafts  Drafts
	logger  *log.Logger
	now     func() time.Time

	draft     review.Draft
	state     State
	editingID string
	aggregate *Aggregate
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the diagnostics logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the clock used to stamp new reviews.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns an empty form over the given stores.
func New(reviews Reviews, drafts Drafts, opts ...Option) *Session {
	s := &Session{
		reviews: reviews,
		drafts:  drafts,
		logger:  log.New(io.Discard, "", 0),
		now:     time.Now,
		draft:   review.Draft{}.Clone(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Restore loads the stored draft into the form, if there is one.
func (s *Session) Restore() bool {
	d, ok := s.drafts.Load()
	if !ok {
		return false
	}
	s.clearForm()
	s.draft = d.Clone()
	if !s.draft.Empty() {
		s.state = Editing
	}
	return true
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// EditingID returns the id of the saved review being edited, or "".
func (s *Session) EditingID() string { return s.editingID }

// Aggregate returns the current aggregate, if any.
func (s *Session) Aggregate() (Aggregate, bool) {
	if s.aggregate == nil {
		return Aggregate{}, false
	}
	return *s.aggregate, true
}

// Draft returns a copy of the form content.
func (s *Session) Draft() review.Draft { return s.draft.Clone() }

// touched records an edit. Grid edits invalidate the aggregate.
func (s *Session) touched(grid bool) {
	if s.state == Empty {
		s.state = Editing
	}
	if grid {
		s.aggregate = nil
		if s.state == Computed {
			s.state = Editing
		}
	}
}

// SetRestaurantName sets the name of the restaurant under review.
func (s *Session) SetRestaurantName(name string) {
	s.draft.RestaurantName = name
	s.touched(false)
}

// AddParticipant appends a participant with a fresh id.
func (s *Session) AddParticipant(name string) review.Participant {
	p := s.draft.AddParticipant()
	s.draft.RenameParticipant(p.ID, name)
	p.Name = name
	s.touched(true)
	return p
}

// RenameParticipant renames a participant. Its scores are kept.
func (s *Session) RenameParticipant(id, name string) error {
	if !s.draft.RenameParticipant(id, name) {
		return fmt.Errorf("%w: %s", ErrUnknownParticipant, id)
	}
	s.touched(false)
	return nil
}

// RemoveParticipant removes the participant and its scores.
func (s *Session) RemoveParticipant(id string) error {
	if !s.draft.RemoveParticipant(id) {
		return fmt.Errorf("%w: %s", ErrUnknownParticipant, id)
	}
	s.touched(true)
	return nil
}

// AddCategory appends a category with a fresh id.
func (s *Session) AddCategory(name string) review.Category {
	c := s.draft.AddCategory()
	s.draft.RenameCategory(c.ID, name)
	c.Name = name
	s.touched(true)
	return c
}

// AddCategories adds a category per name not already present and returns
// the ones added.
func (s *Session) AddCategories(names ...string) []review.Category {
	added := s.draft.AddCategories(names...)
	if len(added) > 0 {
		s.touched(true)
	}
	return added
}

// RenameCategory renames a category. Its scores are kept.
func (s *Session) RenameCategory(id, name string) error {
	if !s.draft.RenameCategory(id, name) {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, id)
	}
	s.touched(false)
	return nil
}

// RemoveCategory removes the category and its scores.
func (s *Session) RemoveCategory(id string) error {
	if !s.draft.RemoveCategory(id) {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, id)
	}
	s.touched(true)
	return nil
}

// SetScore sets one cell of the grid.
func (s *Session) SetScore(participantID, categoryID string, value float64) error {
	if _, ok := s.draft.Participant(participantID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParticipant, participantID)
	}
	if _, ok := s.draft.Category(categoryID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, categoryID)
	}
	if !review.ValidScore(value) {
		return fmt.Errorf("%w: %g not in [%g, %g]", ErrScoreOutOfRange, value, review.MinScore, review.MaxScore)
	}
	s.draft.Scores = scoring.Upsert(s.draft.Scores, participantID, categoryID, value)
	s.touched(true)
	return nil
}

// Compute aggregates the grid. On success the form becomes Computed and the
// stored draft is cleared. An incomplete grid returns its
// *scoring.IncompleteGridError and leaves the state unchanged. An empty
// form yields a NotReady outcome and no error.
func (s *Session) Compute() (scoring.Outcome, error) {
	out := scoring.Aggregate(s.draft.Scores, s.draft.Participants, s.draft.Categories)
	switch out.Status {
	case scoring.Succeeded:
		if err := s.drafts.Clear(); err != nil {
			return out, err
		}
		s.aggregate = &Aggregate{Average: out.Average, StarRating: out.StarRating}
		s.state = Computed
		return out, nil
	case scoring.Failed:
		s.aggregate = nil
		return out, out.Err()
	default:
		s.aggregate = nil
		return out, nil
	}
}

// SaveDraft overwrites the stored draft with the form content.
func (s *Session) SaveDraft() error {
	return s.drafts.Save(s.draft)
}

// Save validates the form and stores it: as an update when a saved review
// is being edited, otherwise as a new review. On success the stored draft
// is cleared and the form resets to Empty. On failure the form is left as
// it was.
func (s *Session) Save() (review.Review, error) {
	if err := s.validateSave(); err != nil {
		return review.Review{}, err
	}
	agg := *s.aggregate

	prevDraft, hadDraft := s.drafts.Load()
	if err := s.drafts.Clear(); err != nil {
		return review.Review{}, err
	}

	saved, err := s.persist(agg)
	if err != nil {
		if hadDraft {
			if rerr := s.drafts.Save(prevDraft); rerr != nil {
				s.logger.Printf("session: restore draft after failed save: %v", rerr)
			}
		}
		return review.Review{}, err
	}

	s.clearForm()
	return saved, nil
}

func (s *Session) persist(agg Aggregate) (review.Review, error) {
	avg, stars := agg.Average, agg.StarRating

	if s.editingID != "" {
		orig, ok := s.reviews.Get(s.editingID)
		if !ok {
			return review.Review{}, fmt.Errorf("%w: %s", ErrReviewNotFound, s.editingID)
		}
		p := storage.Patch{
			Draft:        s.draft.Clone(),
			AverageScore: &avg,
			StarRating:   &stars,
		}
		ok, err := s.reviews.Update(s.editingID, p)
		if err != nil {
			return review.Review{}, err
		}
		if !ok {
			return review.Review{}, fmt.Errorf("%w: %s", ErrReviewNotFound, s.editingID)
		}
		s.logger.Printf("session: updated review %s", s.editingID)
		return review.Review{
			ID:           orig.ID,
			Draft:        p.Draft,
			AverageScore: p.AverageScore,
			StarRating:   p.StarRating,
			CreatedAt:    orig.CreatedAt,
		}, nil
	}

	rv := review.Review{
		ID:           review.NewID(),
		Draft:        s.draft.Clone(),
		AverageScore: &avg,
		StarRating:   &stars,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.reviews.Insert(rv); err != nil {
		return review.Review{}, err
	}
	s.logger.Printf("session: saved review %s", rv.ID)
	return rv, nil
}

func (s *Session) validateSave() error {
	var missing []string
	if s.draft.RestaurantName == "" {
		missing = append(missing, "restaurant name")
	}
	if len(s.draft.Participants) == 0 {
		missing = append(missing, "participants")
	}
	if len(s.draft.Categories) == 0 {
		missing = append(missing, "categories")
	}
	if len(s.draft.Scores) == 0 {
		missing = append(missing, "scores")
	}
	if s.aggregate == nil {
		missing = append(missing, "computed rating")
	}
	if len(missing) > 0 {
		return &SaveValidationError{Missing: missing}
	}
	return nil
}

// Reset blanks the form, leaves edit mode and clears the stored draft.
func (s *Session) Reset() error {
	s.clearForm()
	return s.drafts.Clear()
}

// CancelEdit abandons the current edit and returns to an empty form.
func (s *Session) CancelEdit() error {
	return s.Reset()
}

// LoadForEdit copies a saved review into the form. Its saved aggregate is
// carried for display until the grid changes or is recomputed.
func (s *Session) LoadForEdit(id string) error {
	rv, ok := s.reviews.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrReviewNotFound, id)
	}
	s.clearForm()
	s.draft = rv.Draft.Clone()
	s.editingID = rv.ID
	s.state = Editing
	if rv.HasAggregate() {
		s.aggregate = &Aggregate{Average: *rv.AverageScore, StarRating: *rv.StarRating, Carried: true}
	}
	return nil
}

// ClearAll deletes every saved review and resets the form.
func (s *Session) ClearAll() error {
	if err := s.reviews.ClearAll(); err != nil {
		return err
	}
	return s.Reset()
}

func (s *Session) clearForm() {
	s.draft = review.Draft{}.Clone()
	s.state = Empty
	s.editingID = ""
	s.aggregate = nil
}
