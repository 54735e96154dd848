// Package review defines the core types for tablescore reviews and drafts.
package review

import "time"

// Participant is a diner taking part in a review.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Category is an aspect of the meal the participants score.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Score is one cell of the grid. At most one Score exists per
// (ParticipantID, CategoryID) pair.
type Score struct {
	ParticipantID string  `json:"participantId"`
	CategoryID    string  `json:"categoryId"`
	Value         float64 `json:"score"`
}

// Draft is the editable content of a review: the form state while a session
// is in progress, and the stored in-progress snapshot.
type Draft struct {
	RestaurantName string        `json:"restaurantName"`
	Participants   []Participant `json:"participants"`
	Categories     []Category    `json:"categories"`
	Scores         []Score       `json:"scores"`
}

// Review is a saved review. ID and CreatedAt never change after creation.
// AverageScore and StarRating are set only from a fully filled grid at save
// time and are never recomputed afterwards.
type Review struct {
	ID string `json:"id"`
	Draft
	AverageScore *float64  `json:"averageScore,omitempty"`
	StarRating   *float64  `json:"starRating,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HasAggregate reports whether both computed fields are present.
func (r *Review) HasAggregate() bool {
	return r.AverageScore != nil && r.StarRating != nil
}
