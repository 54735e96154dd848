package scoring

import (
	"math"
	"strconv"
)

// MaxStars is the top of the star scale.
const MaxStars = 5

// FormatScore renders a cell value with two decimals.
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatAverage renders an average with two decimals.
func FormatAverage(avg float64) string {
	return strconv.FormatFloat(avg, 'f', 2, 64)
}

// FormatStarRating renders a star rating with one decimal.
func FormatStarRating(stars float64) string {
	return strconv.FormatFloat(stars, 'f', 1, 64)
}

// StarGlyphs returns how many discrete star glyphs an exported report
// shows for rating: the nearest integer, clamped to [0, MaxStars].
func StarGlyphs(rating float64) int {
	return clampStars(int(math.Round(rating)))
}

// FilledStars returns how many stars of a five-star row are filled:
// the integer part of rating, clamped to [0, MaxStars].
func FilledStars(rating float64) int {
	return clampStars(int(math.Floor(rating)))
}

func clampStars(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxStars {
		return MaxStars
	}
	return n
}
