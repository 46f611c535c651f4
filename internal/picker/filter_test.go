package picker

import (
	"strings"
	"testing"

	"github.com/skycastapp/skycast/internal/geo"
)

func flatItems(names ...string) []geo.Item {
	items := make([]geo.Item, 0, len(names))
	for _, n := range names {
		items = append(items, geo.Item{Kind: geo.KindCity, Name: n})
	}
	return items
}

func stateItem(name string, cities ...string) geo.Item {
	item := geo.Item{Kind: geo.KindStateWithCities, Name: name}
	for _, c := range cities {
		item.Cities = append(item.Cities, geo.Item{Kind: geo.KindCity, Name: c})
	}
	return item
}

func TestFilter_EmptyQueryIsIdentity(t *testing.T) {
	items := flatItems("Springfield", "Chicago", "Peoria")

	got := Filter(items, "")
	if len(got) != len(items) {
		t.Fatalf("Filter(items, \"\") returned %d items, want %d", len(got), len(items))
	}
	for i := range items {
		if got[i].Name != items[i].Name {
			t.Errorf("item %d = %q, want %q", i, got[i].Name, items[i].Name)
		}
	}
}

func TestFilter_FlatSubsetProperty(t *testing.T) {
	items := flatItems("Springfield", "Spring Valley", "Chicago", "SPRINGDALE", "Reno")

	tests := []struct {
		query string
		want  []string
	}{
		{"spring", []string{"Springfield", "Spring Valley", "SPRINGDALE"}},
		{"SPRING", []string{"Springfield", "Spring Valley", "SPRINGDALE"}},
		{"field", []string{"Springfield"}},
		{"o", []string{"Chicago", "Reno"}},
		{"xyz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := Filter(items, tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("Filter(%q) = %d items, want %d", tt.query, len(got), len(tt.want))
			}
			for i, name := range tt.want {
				if got[i].Name != name {
					t.Errorf("item %d = %q, want %q", i, got[i].Name, name)
				}
				if !strings.Contains(strings.ToLower(got[i].Name), strings.ToLower(tt.query)) {
					t.Errorf("item %q does not contain query %q", got[i].Name, tt.query)
				}
			}
		})
	}
}

func TestFilter_HierarchicalDropsEmptyStates(t *testing.T) {
	states := []geo.Item{
		stateItem("Illinois", "Springfield", "Chicago"),
		stateItem("Nevada", "Spring Valley", "Reno"),
		stateItem("Texas", "Austin", "Houston"),
	}

	got := Filter(states, "spring")

	if len(got) != 2 {
		t.Fatalf("got %d states, want 2 (Texas has no match)", len(got))
	}
	for _, state := range got {
		if len(state.Cities) == 0 {
			t.Errorf("state %q retained with empty city list", state.Name)
		}
		for _, city := range state.Cities {
			if !strings.Contains(strings.ToLower(city.Name), "spring") {
				t.Errorf("city %q in %q does not match query", city.Name, state.Name)
			}
		}
	}
	if got[0].Name != "Illinois" || got[1].Name != "Nevada" {
		t.Errorf("states = %q, %q; want Illinois, Nevada", got[0].Name, got[1].Name)
	}
}

func TestFilter_HierarchicalDoesNotMutateInput(t *testing.T) {
	states := []geo.Item{stateItem("Illinois", "Springfield", "Chicago")}

	Filter(states, "spring")

	if len(states[0].Cities) != 2 {
		t.Errorf("input state mutated: %d cities, want 2", len(states[0].Cities))
	}
}

func TestFilter_EmptyListDoesNotPanic(t *testing.T) {
	if got := Filter(nil, "spring"); len(got) != 0 {
		t.Errorf("Filter(nil, query) = %v, want empty", got)
	}
	if got := Filter([]geo.Item{}, "spring"); len(got) != 0 {
		t.Errorf("Filter(empty, query) = %v, want empty", got)
	}
}

func TestFilter_MatchIsSubstringNotPrefix(t *testing.T) {
	items := flatItems("Las Vegas", "Vega Baja")

	got := Filter(items, "vega")
	if len(got) != 2 {
		t.Fatalf("substring match should hit both, got %d", len(got))
	}
}
