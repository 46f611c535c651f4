package geo

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog holds the selectable geography and unit data for one SkyCast run.
type Catalog struct {
	Countries []Item `yaml:"countries"`
	// States maps a country code to its states, each bundled with cities.
	States map[string][]Item `yaml:"states"`
	Units  []Item            `yaml:"units"`
}

// DefaultCatalog returns the built-in catalog shipped with SkyCast.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Countries: []Item{
			{Kind: KindCountry, Name: "United States", Code: "US", Emoji: "🇺🇸"},
			{Kind: KindCountry, Name: "Canada", Code: "CA", Emoji: "🇨🇦"},
			{Kind: KindCountry, Name: "United Kingdom", Code: "GB", Emoji: "🇬🇧"},
			{Kind: KindCountry, Name: "Australia", Code: "AU", Emoji: "🇦🇺"},
			{Kind: KindCountry, Name: "Germany", Code: "DE", Emoji: "🇩🇪"},
			{Kind: KindCountry, Name: "Japan", Code: "JP", Emoji: "🇯🇵"},
		},
		States: map[string][]Item{
			"US": {
				stateWithCities("Illinois", "IL", "Springfield", "Chicago", "Peoria", "Rockford"),
				stateWithCities("Nevada", "NV", "Spring Valley", "Las Vegas", "Reno", "Henderson"),
				stateWithCities("California", "CA", "Sacramento", "Los Angeles", "San Francisco", "San Diego"),
				stateWithCities("New York", "NY", "Albany", "New York City", "Buffalo", "Rochester"),
				stateWithCities("Texas", "TX", "Austin", "Houston", "Dallas", "San Antonio"),
			},
			"CA": {
				stateWithCities("Ontario", "ON", "Toronto", "Ottawa", "Hamilton", "London"),
				stateWithCities("Quebec", "QC", "Montreal", "Quebec City", "Laval"),
				stateWithCities("British Columbia", "BC", "Vancouver", "Victoria", "Kelowna"),
			},
			"GB": {
				stateWithCities("England", "ENG", "London", "Manchester", "Birmingham", "Leeds"),
				stateWithCities("Scotland", "SCT", "Edinburgh", "Glasgow", "Aberdeen"),
				stateWithCities("Wales", "WLS", "Cardiff", "Swansea", "Newport"),
			},
			"AU": {
				stateWithCities("New South Wales", "NSW", "Sydney", "Newcastle", "Wollongong"),
				stateWithCities("Victoria", "VIC", "Melbourne", "Geelong", "Ballarat"),
				stateWithCities("Queensland", "QLD", "Brisbane", "Gold Coast", "Cairns"),
			},
			"DE": {
				stateWithCities("Bavaria", "BY", "Munich", "Nuremberg", "Augsburg"),
				stateWithCities("Berlin", "BE", "Berlin"),
				stateWithCities("Hesse", "HE", "Frankfurt", "Wiesbaden", "Kassel"),
			},
			"JP": {
				stateWithCities("Tokyo", "13", "Tokyo", "Hachioji"),
				stateWithCities("Osaka", "27", "Osaka", "Sakai"),
				stateWithCities("Hokkaido", "01", "Sapporo", "Hakodate", "Asahikawa"),
			},
		},
		Units: []Item{
			{Kind: KindUnit, Name: "Celsius", Code: "C", Emoji: "🌡️"},
			{Kind: KindUnit, Name: "Fahrenheit", Code: "F", Emoji: "🌡️"},
		},
	}
}

func stateWithCities(name, code string, cities ...string) Item {
	items := make([]Item, 0, len(cities))
	for _, c := range cities {
		items = append(items, Item{Kind: KindCity, Name: c})
	}
	return Item{Kind: KindStateWithCities, Name: name, Code: code, Cities: items}
}

// CountryByCode looks up a country by its ISO code. Returns false when the
// catalog has no such country.
func (c *Catalog) CountryByCode(code string) (Item, bool) {
	for _, country := range c.Countries {
		if country.Code == code {
			return country, true
		}
	}
	return Item{}, false
}

// StatesOf returns the state list (with cities) for a country code, or nil
// when the catalog has no data for that country.
func (c *Catalog) StatesOf(countryCode string) []Item {
	return c.States[countryCode]
}

// StateByCode looks up a state within a country.
func (c *Catalog) StateByCode(countryCode, stateCode string) (Item, bool) {
	for _, s := range c.States[countryCode] {
		if s.Code == stateCode {
			return s, true
		}
	}
	return Item{}, false
}

// CitiesOf returns the flat city list for a state, or nil when the catalog
// has no data for it.
func (c *Catalog) CitiesOf(countryCode, stateCode string) []Item {
	state, ok := c.StateByCode(countryCode, stateCode)
	if !ok {
		return nil
	}
	return state.Flatten()
}

// UnitByCode looks up a unit option by its symbol ("C" or "F").
func (c *Catalog) UnitByCode(code string) (Item, bool) {
	for _, u := range c.Units {
		if u.Code == code {
			return u, true
		}
	}
	return Item{}, false
}

// LoadUserCatalog reads a user catalog YAML file and merges it over the
// built-in catalog. Countries and units with a code already present replace
// the built-in entry; state lists replace per country. A missing file is
// not an error - the built-in catalog is returned unchanged.
func LoadUserCatalog(path string) (*Catalog, error) {
	catalog := DefaultCatalog()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return catalog, nil
		}
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var user Catalog
	if err := yaml.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	catalog.merge(&user)
	return catalog, nil
}

// merge applies user entries over the built-in catalog.
func (c *Catalog) merge(user *Catalog) {
	for _, country := range user.Countries {
		country.Kind = KindCountry
		if i := indexByCode(c.Countries, country.Code); i >= 0 {
			c.Countries[i] = country
		} else {
			c.Countries = append(c.Countries, country)
		}
	}

	for code, states := range user.States {
		for i := range states {
			states[i].Kind = KindStateWithCities
			for j := range states[i].Cities {
				states[i].Cities[j].Kind = KindCity
			}
		}
		if c.States == nil {
			c.States = make(map[string][]Item)
		}
		c.States[code] = states
	}

	for _, unit := range user.Units {
		unit.Kind = KindUnit
		if i := indexByCode(c.Units, unit.Code); i >= 0 {
			c.Units[i] = unit
		} else {
			c.Units = append(c.Units, unit)
		}
	}
}

func indexByCode(items []Item, code string) int {
	if code == "" {
		return -1
	}
	for i, it := range items {
		if it.Code == code {
			return i
		}
	}
	return -1
}
