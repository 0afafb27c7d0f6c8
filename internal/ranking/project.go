package ranking

import (
	"sort"
	"strings"
)

// RankedEntry is an Entry plus its dense 1-based position within one
// projection. Ranks are recomputed on every projection and never persisted.
type RankedEntry struct {
	Entry
	Rank int `json:"rank"`
}

// Project filters entries by a case-insensitive username substring match,
// sorts descending by the view's metric, and assigns dense ranks 1..N.
// The sort is stable: equal metrics keep their pre-sort relative order.
func Project(entries []Entry, searchTerm string, view View) []RankedEntry {
	term := strings.ToLower(searchTerm)

	filtered := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Username == "" {
			continue
		}
		if term == "" || strings.Contains(strings.ToLower(e.Username), term) {
			filtered = append(filtered, e)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Metric(view) > filtered[j].Metric(view)
	})

	ranked := make([]RankedEntry, len(filtered))
	for i, e := range filtered {
		ranked[i] = RankedEntry{Entry: e, Rank: i + 1}
	}
	return ranked
}
