// Package ranking orders match results into the documented total order and
// truncates them.
package ranking

import (
	"slices"

	"github.com/okian/scout/internal/domain/model"
)

// Compare orders a before b when it ranks higher: clones first, then the
// mode's primary score, similarity, defining-match count and coverage, all
// descending, and finally the record key ascending so the order is total.
func Compare(a, b *model.MatchResult, mode model.SearchMode) int {
	if d := a.Tier.Rank() - b.Tier.Rank(); d != 0 {
		return d
	}
	if c := desc(a.PrimaryScore(mode), b.PrimaryScore(mode)); c != 0 {
		return c
	}
	if c := desc(a.SimilarityScore, b.SimilarityScore); c != 0 {
		return c
	}
	if d := b.DefiningMatchCount - a.DefiningMatchCount; d != 0 {
		return d
	}
	if c := desc(a.Coverage, b.Coverage); c != 0 {
		return c
	}
	ka, kb := a.Record.Key(), b.Record.Key()
	switch {
	case ka.Less(kb):
		return -1
	case kb.Less(ka):
		return 1
	}
	return 0
}

// Sort orders results in place.
func Sort(results []model.MatchResult, mode model.SearchMode) {
	slices.SortStableFunc(results, func(a, b model.MatchResult) int {
		return Compare(&a, &b, mode)
	})
}

// Top sorts results and then keeps the first n. A non-positive n keeps all.
func Top(results []model.MatchResult, mode model.SearchMode, n int) []model.MatchResult {
	Sort(results, mode)
	if n > 0 && len(results) > n {
		return results[:n]
	}
	return results
}

// IsSorted reports whether results already follow the order.
func IsSorted(results []model.MatchResult, mode model.SearchMode) bool {
	return slices.IsSortedFunc(results, func(a, b model.MatchResult) int {
		return Compare(&a, &b, mode)
	})
}

func desc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}
