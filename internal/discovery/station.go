package discovery

import (
	"fmt"
	"time"
)

// Station represents a discovered personal weather station on the network
type Station struct {
	// ID is the station identifier (e.g., "4471023")
	ID string

	// Hostname is the mDNS hostname (e.g., "wxs4471023.local")
	Hostname string

	// IP is the IPv4 address (e.g., "192.168.1.42")
	IP string

	// Port is the HTTP port (typically 80)
	Port int

	// Metadata contains additional mDNS TXT record data
	// Common fields: "model=WS-2902", "fw=1.4.2"
	Metadata map[string]string

	// DiscoveredAt is when the station was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the station
func (s *Station) String() string {
	return fmt.Sprintf("Weather Station %s (%s) at %s:%d", s.ID, s.Hostname, s.IP, s.Port)
}

// BaseURL returns the HTTP base URL for the station's local readings endpoint
func (s *Station) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", s.IP, s.Port)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (s *Station) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}

// Model returns the station model from TXT metadata, or "unknown"
func (s *Station) Model() string {
	if model := s.GetMetadata("model"); model != "" {
		return model
	}
	return "unknown"
}
