package config

import "time"

// Registry represents the entire user configuration file.
// This stores application preferences and metadata for known weather stations.
type Registry struct {
	Version     int                 `yaml:"version"`
	Stations    map[string]*Station `yaml:"stations,omitempty"` // Keyed by station ID
	Preferences *Preferences        `yaml:"preferences,omitempty"`
}

// Station represents user-defined metadata for a personal weather station
// discovered on the local network.
type Station struct {
	Nickname string    `yaml:"nickname,omitempty"`  // User-friendly name
	LastIP   string    `yaml:"last_ip,omitempty"`   // Last known IP address
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last discovery/connection time
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	Units        string    `yaml:"units"`                   // Temperature unit symbol ("C" or "F")
	DefaultPlace *PlaceRef `yaml:"default_place,omitempty"` // Pre-selected location for the pickers
	APIHost      string    `yaml:"api_host,omitempty"`      // Forecast API base URL override
	RelayHost    string    `yaml:"relay_host,omitempty"`    // Live-update relay URL override
	AutoDiscover bool      `yaml:"auto_discover"`           // Scan for LAN stations on startup
	ScanTimeout  int       `yaml:"scan_timeout"`            // mDNS scan timeout in seconds
}

// PlaceRef identifies a location by catalog codes. It seeds the selection
// pickers' defaults; the pickers themselves never write it back.
type PlaceRef struct {
	Country string `yaml:"country"`        // ISO country code (e.g. "US")
	State   string `yaml:"state"`          // State code within the country
	City    string `yaml:"city,omitempty"` // City name
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:  1,
		Stations: make(map[string]*Station),
		Preferences: &Preferences{
			Units:        "C",
			AutoDiscover: false,
			ScanTimeout:  10,
		},
	}
}

// GetStation retrieves station metadata by ID.
// Returns nil if the station doesn't exist in the registry.
func (r *Registry) GetStation(id string) *Station {
	return r.Stations[id]
}

// EnsureStation ensures a station entry exists in the registry.
// Returns the entry (existing or newly created).
func (r *Registry) EnsureStation(id string) *Station {
	if r.Stations == nil {
		r.Stations = make(map[string]*Station)
	}
	if station, exists := r.Stations[id]; exists {
		return station
	}
	station := &Station{}
	r.Stations[id] = station
	return station
}

// UpdateStationLastSeen updates the last seen timestamp and IP for a station.
func (r *Registry) UpdateStationLastSeen(id, ip string) {
	station := r.EnsureStation(id)
	station.LastSeen = time.Now()
	station.LastIP = ip
}

// SetStationNickname sets a user-friendly nickname for a station.
func (r *Registry) SetStationNickname(id, nickname string) {
	station := r.EnsureStation(id)
	station.Nickname = nickname
}

// SetDefaultPlace records the codes that seed the pickers on next launch.
func (r *Registry) SetDefaultPlace(country, state, city string) {
	if r.Preferences == nil {
		r.Preferences = &Preferences{Units: "C", ScanTimeout: 10}
	}
	r.Preferences.DefaultPlace = &PlaceRef{Country: country, State: state, City: city}
}

// SetUnits records the preferred temperature unit symbol.
func (r *Registry) SetUnits(symbol string) {
	if r.Preferences == nil {
		r.Preferences = &Preferences{ScanTimeout: 10}
	}
	r.Preferences.Units = symbol
}
