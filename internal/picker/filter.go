package picker

import (
	"strings"

	"github.com/skycastapp/skycast/internal/geo"
)

// Filter derives the candidate subset of items for a search query. It is
// pure: neither input is mutated.
//
// An empty query returns items unchanged. Otherwise matching is a
// case-insensitive substring test on the item name. The item family is
// dispatched on the Kind tag of the first element: for state→city lists
// each state keeps only its matching cities and is dropped entirely when
// none match; flat lists are filtered on the items themselves. An empty
// item list is a legitimate state and yields an empty result.
func Filter(items []geo.Item, query string) []geo.Item {
	if query == "" {
		return items
	}
	if len(items) == 0 {
		return nil
	}

	q := strings.ToLower(query)

	if items[0].Hierarchical() {
		return filterHierarchical(items, q)
	}
	return filterFlat(items, q)
}

// filterFlat keeps items whose name contains the lowercased query.
func filterFlat(items []geo.Item, q string) []geo.Item {
	out := make([]geo.Item, 0, len(items))
	for _, it := range items {
		if matches(it.Name, q) {
			out = append(out, it)
		}
	}
	return out
}

// filterHierarchical keeps states that retain at least one matching city.
// The returned states carry only their matching cities.
func filterHierarchical(states []geo.Item, q string) []geo.Item {
	out := make([]geo.Item, 0, len(states))
	for _, state := range states {
		var kept []geo.Item
		for _, city := range state.Cities {
			if matches(city.Name, q) {
				kept = append(kept, city)
			}
		}
		if len(kept) == 0 {
			continue
		}
		filtered := state
		filtered.Cities = kept
		out = append(out, filtered)
	}
	return out
}

// matches reports whether name contains the already-lowercased query.
func matches(name, q string) bool {
	return strings.Contains(strings.ToLower(name), q)
}
