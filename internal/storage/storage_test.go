package storage

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/dshills/tablescore/internal/kv"
	"github.com/dshills/tablescore/internal/review"
)

// flakyStore wraps a memory store and fails writes or reads on demand.
type flakyStore struct {
	*kv.Memory
	failSet bool
	failGet bool
}

var errQuota = errors.New("quota exceeded")

func (f *flakyStore) Set(key, value string) error {
	if f.failSet {
		return errQuota
	}
	return f.Memory.Set(key, value)
}

func (f *flakyStore) Remove(key string) error {
	if f.failSet {
		return errQuota
	}
	return f.Memory.Remove(key)
}

func (f *flakyStore) Get(key string) (string, bool, error) {
	if f.failGet {
		return "", false, errors.New("disk unreadable")
	}
	return f.Memory.Get(key)
}

func sampleReview(id, name string) review.Review {
	avg, stars := 7.5, 3.75
	return review.Review{
		ID: id,
		Draft: review.Draft{
			RestaurantName: name,
			Participants:   []review.Participant{{ID: "p1", Name: "Anna"}},
			Categories:     []review.Category{{ID: "c1", Name: "taste"}},
			Scores:         []review.Score{{ParticipantID: "p1", CategoryID: "c1", Value: 7.5}},
		},
		AverageScore: &avg,
		StarRating:   &stars,
		CreatedAt:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// --- Repository tests ---

func TestListEmptyStore(t *testing.T) {
	repo := NewRepository(kv.NewMemory(), nil)
	got := repo.List()
	if got == nil || len(got) != 0 {
		t.Errorf("List() = %#v, want empty non-nil slice", got)
	}
}

func TestListCorruptContentIsEmpty(t *testing.T) {
	store := kv.NewMemory()
	_ = store.Set(ReviewsKey, "{not json")
	var buf bytes.Buffer
	repo := NewRepository(store, log.New(&buf, "", 0))

	if got := repo.List(); len(got) != 0 {
		t.Errorf("expected empty list, got %d", len(got))
	}
	if !strings.Contains(buf.String(), ReviewsKey) {
		t.Errorf("expected logged read error, got %q", buf.String())
	}
}

func TestListUnreadableStoreIsEmpty(t *testing.T) {
	store := &flakyStore{Memory: kv.NewMemory()}
	repo := NewRepository(store, nil)
	if err := repo.Insert(sampleReview("r1", "A")); err != nil {
		t.Fatal(err)
	}
	store.failGet = true
	if got := repo.List(); len(got) != 0 {
		t.Errorf("expected empty list on read failure, got %d", len(got))
	}
}

func TestInsertAndGet(t *testing.T) {
	repo := NewRepository(kv.NewMemory(), nil)
	if err := repo.Insert(sampleReview("r1", "Da Mario")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := repo.Insert(sampleReview("r2", "Trattoria")); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, ok := repo.Get("r2")
	if !ok || got.RestaurantName != "Trattoria" {
		t.Errorf("Get(r2) = %+v, %v", got, ok)
	}
	if !got.CreatedAt.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Errorf("createdAt = %v", got.CreatedAt)
	}
	if _, ok := repo.Get("nope"); ok {
		t.Error("Get(nope) found a review")
	}
}

func TestInsertDuplicateID(t *testing.T) {
	repo := NewRepository(kv.NewMemory(), nil)
	_ = repo.Insert(sampleReview("r1", "A"))
	err := repo.Insert(sampleReview("r1", "B"))
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
	if n := len(repo.List()); n != 1 {
		t.Errorf("expected 1 review, got %d", n)
	}
}

func TestInsertWriteFailure(t *testing.T) {
	store := &flakyStore{Memory: kv.NewMemory(), failSet: true}
	repo := NewRepository(store, nil)
	err := repo.Insert(sampleReview("r1", "A"))
	var we *WriteError
	if !errors.As(err, &we) {
		t.Fatalf("expected WriteError, got %v", err)
	}
	if !errors.Is(err, errQuota) {
		t.Errorf("expected wrapped cause, got %v", err)
	}
}

func TestUpdatePreservesIdentityAndOrder(t *testing.T) {
	repo := NewRepository(kv.NewMemory(), nil)
	for _, id := range []string{"r1", "r2", "r3"} {
		_ = repo.Insert(sampleReview(id, id))
	}

	avg, stars := 9.0, 4.5
	ok, err := repo.Update("r2", Patch{
		Draft: review.Draft{
			RestaurantName: "Renamed",
			Participants:   []review.Participant{{ID: "p9", Name: "Zoe"}},
			Categories:     []review.Category{{ID: "c9", Name: "service"}},
			Scores:         []review.Score{{ParticipantID: "p9", CategoryID: "c9", Value: 9}},
		},
		AverageScore: &avg,
		StarRating:   &stars,
	})
	if err != nil || !ok {
		t.Fatalf("Update = %v, %v", ok, err)
	}

	list := repo.List()
	ids := []string{list[0].ID, list[1].ID, list[2].ID}
	if strings.Join(ids, ",") != "r1,r2,r3" {
		t.Errorf("order = %v", ids)
	}
	got := list[1]
	if got.RestaurantName != "Renamed" || got.Participants[0].Name != "Zoe" || *got.AverageScore != 9 {
		t.Errorf("fields not replaced: %+v", got)
	}
	if !got.CreatedAt.Equal(sampleReview("", "").CreatedAt) {
		t.Errorf("createdAt changed: %v", got.CreatedAt)
	}
}

func TestUpdateMissingIsNoop(t *testing.T) {
	store := kv.NewMemory()
	repo := NewRepository(store, nil)
	_ = repo.Insert(sampleReview("r1", "A"))
	before, _, _ := store.Get(ReviewsKey)

	ok, err := repo.Update("ghost", Patch{})
	if err != nil || ok {
		t.Errorf("Update(ghost) = %v, %v", ok, err)
	}
	after, _, _ := store.Get(ReviewsKey)
	if before != after {
		t.Error("collection changed")
	}
}

func TestDelete(t *testing.T) {
	repo := NewRepository(kv.NewMemory(), nil)
	_ = repo.Insert(sampleReview("r1", "A"))
	_ = repo.Insert(sampleReview("r2", "B"))

	ok, err := repo.Delete("r1")
	if err != nil || !ok {
		t.Fatalf("Delete = %v, %v", ok, err)
	}
	ok, err = repo.Delete("r1")
	if err != nil || ok {
		t.Errorf("second Delete = %v, %v", ok, err)
	}
	list := repo.List()
	if len(list) != 1 || list[0].ID != "r2" {
		t.Errorf("list = %+v", list)
	}
}

func TestClearAll(t *testing.T) {
	repo := NewRepository(kv.NewMemory(), nil)
	_ = repo.Insert(sampleReview("r1", "A"))
	if err := repo.ClearAll(); err != nil {
		t.Fatal(err)
	}
	if n := len(repo.List()); n != 0 {
		t.Errorf("expected empty after ClearAll, got %d", n)
	}
}

func TestRepositoryOverSQLite(t *testing.T) {
	store, err := kv.OpenSQLite(t.TempDir() + "/reviews.db")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	repo := NewRepository(store, nil)
	if err := repo.Insert(sampleReview("r1", "A")); err != nil {
		t.Fatal(err)
	}
	if got, ok := repo.Get("r1"); !ok || *got.StarRating != 3.75 {
		t.Errorf("Get = %+v, %v", got, ok)
	}
}

func TestWriteFailures(t *testing.T) {
	avg := 8.0
	tests := []struct {
		name string
		op   func(*Repository) error
	}{
		{"update", func(r *Repository) error {
			_, err := r.Update("r1", Patch{Draft: review.Draft{RestaurantName: "B"}, AverageScore: &avg, StarRating: &avg})
			return err
		}},
		{"delete", func(r *Repository) error {
			_, err := r.Delete("r1")
			return err
		}},
		{"clear all", func(r *Repository) error { return r.ClearAll() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &flakyStore{Memory: kv.NewMemory()}
			repo := NewRepository(store, nil)
			if err := repo.Insert(sampleReview("r1", "A")); err != nil {
				t.Fatal(err)
			}
			before, _, _ := store.Get(ReviewsKey)

			store.failSet = true
			err := tt.op(repo)
			var we *WriteError
			if !errors.As(err, &we) || !errors.Is(err, errQuota) {
				t.Fatalf("expected WriteError wrapping the cause, got %v", err)
			}
			store.failSet = false
			if after, _, _ := store.Get(ReviewsKey); after != before {
				t.Error("collection changed after failed write")
			}
		})
	}
}

func TestWritesKeepUnreadableCollection(t *testing.T) {
	tests := []struct {
		name string
		op   func(*Repository) error
	}{
		{"insert", func(r *Repository) error { return r.Insert(sampleReview("r9", "New")) }},
		{"update", func(r *Repository) error {
			_, err := r.Update("r1", Patch{})
			return err
		}},
		{"delete", func(r *Repository) error {
			_, err := r.Delete("r1")
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := kv.NewMemory()
			_ = store.Set(ReviewsKey, `[{"id":"r1",`)
			repo := NewRepository(store, nil)

			var re *ReadError
			if err := tt.op(repo); !errors.As(err, &re) {
				t.Fatalf("expected ReadError, got %v", err)
			}
			if raw, _, _ := store.Get(ReviewsKey); raw != `[{"id":"r1",` {
				t.Errorf("stored content overwritten: %s", raw)
			}
		})
	}

	store := kv.NewMemory()
	_ = store.Set(ReviewsKey, "garbage")
	if err := NewRepository(store, nil).ClearAll(); err != nil {
		t.Errorf("ClearAll over corrupt content: %v", err)
	}
	if _, ok, _ := store.Get(ReviewsKey); ok {
		t.Error("corrupt collection not removed")
	}
}

// --- Draft tests ---

func TestDraftLifecycle(t *testing.T) {
	drafts := NewDrafts(kv.NewMemory(), nil)
	if _, ok := drafts.Load(); ok {
		t.Fatal("expected no draft")
	}

	first := review.Draft{RestaurantName: "One"}
	second := review.Draft{RestaurantName: "Two", Participants: []review.Participant{{ID: "p", Name: "Anna"}}}
	if err := drafts.Save(first); err != nil {
		t.Fatal(err)
	}
	if err := drafts.Save(second); err != nil {
		t.Fatal(err)
	}
	got, ok := drafts.Load()
	if !ok || got.RestaurantName != "Two" || len(got.Participants) != 1 {
		t.Errorf("Load = %+v, %v; want last saved", got, ok)
	}

	if err := drafts.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, ok := drafts.Load(); ok {
		t.Error("draft survived Clear")
	}
}

func TestDraftCorruptLoadsAsNone(t *testing.T) {
	store := kv.NewMemory()
	_ = store.Set(DraftKey, "[[[")
	drafts := NewDrafts(store, nil)
	if _, ok := drafts.Load(); ok {
		t.Error("corrupt draft should load as none")
	}
}

func TestDraftEncodesEmptyArrays(t *testing.T) {
	store := kv.NewMemory()
	drafts := NewDrafts(store, nil)
	_ = drafts.Save(review.Draft{RestaurantName: "X"})
	raw, _, _ := store.Get(DraftKey)
	if !strings.Contains(raw, `"participants":[]`) {
		t.Errorf("expected empty arrays, got %s", raw)
	}
}

func TestDraftWriteFailure(t *testing.T) {
	drafts := NewDrafts(&flakyStore{Memory: kv.NewMemory(), failSet: true}, nil)
	var we *WriteError
	if err := drafts.Save(review.Draft{}); !errors.As(err, &we) {
		t.Errorf("expected WriteError, got %v", err)
	}
}
