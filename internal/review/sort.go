package review

import (
	"fmt"
	"sort"
	"strings"
)

// SortKey selects a listing order.
type SortKey string

const (
	SortSaved   SortKey = "saved"
	SortNewest  SortKey = "newest"
	SortAverage SortKey = "average"
	SortName    SortKey = "name"
)

// ParseSortKey accepts one of the SortKey values; empty means SortSaved.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortSaved, nil
	case SortSaved, SortNewest, SortAverage, SortName:
		return k, nil
	default:
		return "", fmt.Errorf("unknown sort order %q (want saved, newest, average or name)", s)
	}
}

// SortReviews orders reviews in place. Ties keep saved order.
// Reviews without an aggregate sort after rated ones under SortAverage.
func SortReviews(reviews []Review, by SortKey) {
	switch by {
	case SortNewest:
		sort.SliceStable(reviews, func(i, j int) bool {
			return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
		})
	case SortAverage:
		sort.SliceStable(reviews, func(i, j int) bool {
			return averageOrder(&reviews[i]) > averageOrder(&reviews[j])
		})
	case SortName:
		sort.SliceStable(reviews, func(i, j int) bool {
			return strings.ToLower(reviews[i].RestaurantName) < strings.ToLower(reviews[j].RestaurantName)
		})
	}
}

func averageOrder(r *Review) float64 {
	if r.AverageScore == nil {
		return -1
	}
	return *r.AverageScore
}
