package schema

import (
	"testing"
	"time"

	"github.com/dshills/tablescore/internal/review"
)

func validReview() *review.Review {
	avg, stars := 7.0, 3.5
	return &review.Review{
		ID: "r1",
		Draft: review.Draft{
			RestaurantName: "Da Mario",
			Participants:   []review.Participant{{ID: "p1", Name: "Anna"}, {ID: "p2", Name: "Bruno"}},
			Categories:     []review.Category{{ID: "c1", Name: "taste"}},
			Scores: []review.Score{
				{ParticipantID: "p1", CategoryID: "c1", Value: 6},
				{ParticipantID: "p2", CategoryID: "c1", Value: 8},
			},
		},
		AverageScore: &avg,
		StarRating:   &stars,
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func hasPath(errs []ValidationError, path string) bool {
	for _, e := range errs {
		if e.Path == path {
			return true
		}
	}
	return false
}

func TestValidateValid(t *testing.T) {
	errs := Validate(validReview())
	for _, e := range errs {
		t.Errorf("unexpected error: %s", e)
	}
}

func TestValidateWithoutAggregate(t *testing.T) {
	r := validReview()
	r.AverageScore, r.StarRating = nil, nil
	r.Scores = r.Scores[:1]
	if errs := Validate(r); len(errs) > 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestValidateEmptyNamesAllowed(t *testing.T) {
	r := validReview()
	r.RestaurantName = ""
	r.Participants[0].Name = ""
	if errs := Validate(r); len(errs) > 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestValidateViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *review.Review)
		path   string
	}{
		{"missing id", func(r *review.Review) { r.ID = "" }, "id"},
		{"missing createdAt", func(r *review.Review) { r.CreatedAt = time.Time{} }, "createdAt"},
		{"duplicate participant", func(r *review.Review) { r.Participants[1].ID = "p1" }, "participants[1].id"},
		{"empty category id", func(r *review.Review) { r.Categories[0].ID = "" }, "categories[0].id"},
		{"dangling participant", func(r *review.Review) { r.Scores[0].ParticipantID = "ghost" }, "scores[0].participantId"},
		{"dangling category", func(r *review.Review) { r.Scores[1].CategoryID = "ghost" }, "scores[1].categoryId"},
		{"out of range", func(r *review.Review) { r.Scores[0].Value = 11 }, "scores[0].score"},
		{"duplicate cell", func(r *review.Review) { r.Scores[1].ParticipantID = "p1" }, "scores[1]"},
		{"half aggregate", func(r *review.Review) { r.StarRating = nil }, "starRating"},
		{"wrong average", func(r *review.Review) { v := 9.0; r.AverageScore = &v }, "averageScore"},
		{"wrong stars", func(r *review.Review) { v := 4.0; r.StarRating = &v }, "starRating"},
		{"aggregate on partial grid", func(r *review.Review) { r.Scores = r.Scores[:1] }, "averageScore"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validReview()
			tt.mutate(r)
			errs := Validate(r)
			if !hasPath(errs, tt.path) {
				t.Errorf("expected error at %s, got %v", tt.path, errs)
			}
		})
	}
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Path: "id", Message: "required"}
	if e.Error() != "id: required" {
		t.Errorf("Error() = %q", e.Error())
	}
}
