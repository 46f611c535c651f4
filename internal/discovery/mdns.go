package discovery

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/skycastapp/skycast/internal/logging"
)

const (
	// ServiceType is the mDNS service type personal weather stations
	// advertise under
	ServiceType = "_wxstation._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for station discovery
	DefaultScanTimeout = 10 * time.Second

	// DefaultPort is the default HTTP port for station readings
	DefaultPort = 80
)

// idPattern matches station hostnames (e.g., "wxs4471023.local")
var idPattern = regexp.MustCompile(`^wxs(\d+)\.local\.?$`)

// Scanner handles mDNS weather station discovery
type Scanner struct {
	// Timeout is the maximum time to wait for station discovery
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// ScanForStations discovers all weather stations on the local network
// Returns a list of discovered stations or an error
func (s *Scanner) ScanForStations() ([]*Station, error) {
	return s.ScanForStationsWithContext(context.Background())
}

// ScanForStationsWithContext discovers stations with a custom context
func (s *Scanner) ScanForStationsWithContext(ctx context.Context) ([]*Station, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	stations := make([]*Station, 0)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	logging.LogDiscovery("scan_started", zap.Duration("timeout", s.Timeout))

	go func() {
		for entry := range entries {
			station := s.parseServiceEntry(entry)
			if station != nil {
				logging.LogDiscovery("station_found",
					zap.String("id", station.ID),
					zap.String("ip", station.IP),
				)
				stations = append(stations, station)
			}
		}
	}()

	err = resolver.Browse(ctx, ServiceType, ServiceDomain, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	// Wait for context to complete (timeout or cancellation)
	<-ctx.Done()

	logging.LogDiscovery("scan_finished", zap.Int("stations", len(stations)))
	return stations, nil
}

// WaitForStation waits for a specific station by ID
// Returns the station or an error if not found within timeout
func (s *Scanner) WaitForStation(id string) (*Station, error) {
	return s.WaitForStationWithContext(context.Background(), id)
}

// WaitForStationWithContext waits for a specific station with a custom context
func (s *Scanner) WaitForStationWithContext(ctx context.Context, id string) (*Station, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	stationChan := make(chan *Station, 1)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		for entry := range entries {
			station := s.parseServiceEntry(entry)
			if station != nil && station.ID == id {
				stationChan <- station
				cancel() // Found the station, cancel context
				return
			}
		}
	}()

	err = resolver.Browse(ctx, ServiceType, ServiceDomain, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case station := <-stationChan:
		return station, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("station %s not found within timeout", id)
	}
}

// parseServiceEntry converts a zeroconf service entry to a Station
// Returns nil if the entry is not a weather station
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Station {
	hostname := entry.HostName
	if hostname == "" {
		return nil
	}

	matches := idPattern.FindStringSubmatch(hostname)
	if len(matches) < 2 {
		return nil
	}

	id := matches[1]

	// Get IP address (prefer IPv4)
	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}

	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}

	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	// TXT records are in "key=value" format
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	return &Station{
		ID:           id,
		Hostname:     hostname,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// ScanForStations is a convenience function to scan with a custom timeout
func ScanForStations(timeout time.Duration) ([]*Station, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.ScanForStations()
}

// QuickScan performs a fast scan with a 3-second timeout
func QuickScan() ([]*Station, error) {
	scanner := NewScanner()
	scanner.Timeout = 3 * time.Second
	return scanner.ScanForStations()
}

// FindStation searches for a specific station by ID with default timeout
func FindStation(id string) (*Station, error) {
	scanner := NewScanner()
	return scanner.WaitForStation(id)
}
