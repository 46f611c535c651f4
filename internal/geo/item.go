package geo

import "fmt"

// Kind identifies which variant of selectable entity an Item is.
type Kind int

const (
	// KindCountry is a top-level country entry (carries a flag emoji).
	KindCountry Kind = iota
	// KindState is a state or province without its city list attached.
	KindState
	// KindCity is a single city.
	KindCity
	// KindUnit is a measurement unit option (e.g. Celsius).
	KindUnit
	// KindStateWithCities is a state bundled with its ordered city list.
	// This is the only hierarchical variant; Cities is set for it alone.
	KindStateWithCities
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindCountry:
		return "country"
	case KindState:
		return "state"
	case KindCity:
		return "city"
	case KindUnit:
		return "unit"
	case KindStateWithCities:
		return "state+cities"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Item is one selectable entity. Lists handed to a picker hold a single
// variant family: all flat (country/state/city/unit) or all
// KindStateWithCities.
type Item struct {
	Kind  Kind   `yaml:"kind"`
	Name  string `yaml:"name"`
	Code  string `yaml:"code,omitempty"`  // ISO country code, state code, or unit symbol
	Emoji string `yaml:"emoji,omitempty"` // display glyph (flag for countries)

	// Cities is populated only when Kind is KindStateWithCities.
	Cities []Item `yaml:"cities,omitempty"`
}

// String returns "name (code)" or just the name when no code is set.
func (it Item) String() string {
	if it.Code == "" {
		return it.Name
	}
	return fmt.Sprintf("%s (%s)", it.Name, it.Code)
}

// Hierarchical reports whether the item belongs to the state→city family.
func (it Item) Hierarchical() bool {
	return it.Kind == KindStateWithCities
}

// Same reports identity between two items: kind plus code when codes exist,
// falling back to the name. The picker uses this for default re-sync checks.
func (it Item) Same(other Item) bool {
	if it.Kind != other.Kind {
		return false
	}
	if it.Code != "" || other.Code != "" {
		return it.Code == other.Code
	}
	return it.Name == other.Name
}

// Flatten returns the item's cities as a flat KindCity list. For flat items
// it returns nil.
func (it Item) Flatten() []Item {
	if it.Kind != KindStateWithCities {
		return nil
	}
	out := make([]Item, 0, len(it.Cities))
	out = append(out, it.Cities...)
	return out
}
