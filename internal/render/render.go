// Package render produces Markdown reports and listing lines from reviews.
package render

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dshills/tablescore/internal/review"
	"github.com/dshills/tablescore/internal/scoring"
)

// ErrNothingToExport is returned by Exportable for a review that has no
// name, participants, categories or scores.
var ErrNothingToExport = errors.New("nothing to export")

const (
	dateLayout = "2006-01-02"
	starFull   = "★"
	starEmpty  = "☆"
	notAvail   = "N/A"
)

// Exportable reports whether r carries enough data for a report.
func Exportable(r *review.Review) error {
	if r.RestaurantName == "" || len(r.Participants) == 0 ||
		len(r.Categories) == 0 || len(r.Scores) == 0 {
		return ErrNothingToExport
	}
	return nil
}

// Markdown renders a review as a Markdown report.
func Markdown(r *review.Review) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Restaurant Review: %s\n\n", r.RestaurantName)
	fmt.Fprintf(&b, "**Date:** %s\n\n", r.CreatedAt.Local().Format(dateLayout))

	// Participants
	b.WriteString("## Participants\n\n")
	for _, p := range r.Participants {
		fmt.Fprintf(&b, "- %s\n", p.Name)
	}
	b.WriteString("\n")

	// Scores by category
	b.WriteString("## Scores by Category\n\n")
	b.WriteString("| Category |")
	for _, p := range r.Participants {
		fmt.Fprintf(&b, " %s |", escapeCell(p.Name))
	}
	b.WriteString("\n|---|")
	for range r.Participants {
		b.WriteString("---|")
	}
	b.WriteString("\n")
	for _, c := range r.Categories {
		fmt.Fprintf(&b, "| **%s** |", escapeCell(c.Name))
		for _, p := range r.Participants {
			cellText := "-"
			if v, ok := scoring.Lookup(r.Scores, p.ID, c.ID); ok {
				cellText = scoring.FormatScore(v)
			}
			fmt.Fprintf(&b, " %s |", cellText)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Result
	b.WriteString("## Result\n\n")
	avg, stars, glyphs := notAvail, notAvail, notAvail
	if r.HasAggregate() {
		avg = scoring.FormatAverage(*r.AverageScore)
		stars = scoring.FormatStarRating(*r.StarRating)
		glyphs = strings.Repeat(starFull, scoring.StarGlyphs(*r.StarRating))
	}
	fmt.Fprintf(&b, "**Average:** %s / 10\n\n", avg)
	fmt.Fprintf(&b, "**Stars:** %s (%s / 5)\n", glyphs, stars)

	return b.String()
}

// Summary renders a single listing line: id, name, date, average and a
// five-star row.
func Summary(r *review.Review) string {
	avg, rating, row := notAvail, notAvail, strings.Repeat(starEmpty, scoring.MaxStars)
	if r.HasAggregate() {
		avg = scoring.FormatAverage(*r.AverageScore)
		rating = scoring.FormatStarRating(*r.StarRating)
		row = StarRow(*r.StarRating)
	}
	return fmt.Sprintf("%s  %-24s  %s  %s / 10  %s (%s / 5)",
		r.ID, r.RestaurantName, r.CreatedAt.Local().Format(dateLayout), avg, row, rating)
}

// StarRow renders a five-star row with the integer part of rating filled.
func StarRow(rating float64) string {
	filled := scoring.FilledStars(rating)
	return strings.Repeat(starFull, filled) + strings.Repeat(starEmpty, scoring.MaxStars-filled)
}

var unsafeName = regexp.MustCompile(`[\s/\\]`)

// FileName returns the report file name for r. Whitespace and path
// separators become underscores, so the result is always a single path
// element.
func FileName(r *review.Review) string {
	return unsafeName.ReplaceAllString(r.RestaurantName, "_") + "_review.md"
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
