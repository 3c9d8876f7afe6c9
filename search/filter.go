package search

import (
	"strings"

	"github.com/poiesic/coursefind/core"
)

// Sentinel filter values meaning "no constraint". The empty string is
// treated the same way, so callers without a facet UI can pass "".
const (
	AllCategories = "All Categories"
	AllLevels     = "All Levels"
)

// FilterResults narrows an already-ranked result list by category and level.
// Matching is case-insensitive exact match; both facets, when constrained,
// must hold. Surviving results keep their relative order, which makes the
// filter idempotent. The result may be empty.
func FilterResults(results []*core.SearchResult, category, level string) []*core.SearchResult {
	filtered := make([]*core.SearchResult, 0, len(results))
	for _, result := range results {
		if !matchesFacet(result.Course.Category, category, AllCategories) {
			continue
		}
		if !matchesFacet(result.Course.Level, level, AllLevels) {
			continue
		}
		filtered = append(filtered, result)
	}
	return filtered
}

// matchesFacet reports whether a course field satisfies a facet selection.
// The sentinel ("All Categories" / "All Levels") and the empty string mean
// the facet is unconstrained.
func matchesFacet(value, selected, sentinel string) bool {
	if selected == "" || strings.EqualFold(selected, sentinel) {
		return true
	}
	return strings.EqualFold(value, selected)
}
