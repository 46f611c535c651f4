package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestScanner_parseServiceEntry(t *testing.T) {
	scanner := NewScanner()

	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantNil  bool
		wantID   string
		wantIP   string
		wantPort int
	}{
		{
			name: "valid station with IPv4",
			entry: &zeroconf.ServiceEntry{
				HostName: "wxs4471023.local.",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.42")},
				Text:     []string{"model=WS-2902", "fw=1.4.2"},
			},
			wantNil:  false,
			wantID:   "4471023",
			wantIP:   "192.168.1.42",
			wantPort: 80,
		},
		{
			name: "valid station without trailing dot",
			entry: &zeroconf.ServiceEntry{
				HostName: "wxs123456.local",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("10.0.0.5")},
				Text:     []string{},
			},
			wantNil:  false,
			wantID:   "123456",
			wantIP:   "10.0.0.5",
			wantPort: 80,
		},
		{
			name: "station with custom port",
			entry: &zeroconf.ServiceEntry{
				HostName: "wxs999.local",
				Port:     8080,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.100")},
			},
			wantNil:  false,
			wantID:   "999",
			wantIP:   "192.168.1.100",
			wantPort: 8080,
		},
		{
			name: "station with no port specified (should default to 80)",
			entry: &zeroconf.ServiceEntry{
				HostName: "wxs111.local",
				Port:     0,
				AddrIPv4: []net.IP{net.ParseIP("172.16.0.1")},
			},
			wantNil:  false,
			wantID:   "111",
			wantIP:   "172.16.0.1",
			wantPort: 80,
		},
		{
			name: "non-station service (wrong hostname pattern)",
			entry: &zeroconf.ServiceEntry{
				HostName: "printer.local",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.1")},
			},
			wantNil: true,
		},
		{
			name: "empty hostname",
			entry: &zeroconf.ServiceEntry{
				HostName: "",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.1")},
			},
			wantNil: true,
		},
		{
			name: "no IP address",
			entry: &zeroconf.ServiceEntry{
				HostName: "wxs4471023.local",
				Port:     80,
				AddrIPv4: []net.IP{},
				AddrIPv6: []net.IP{},
			},
			wantNil: true,
		},
		{
			name: "IPv6 only station",
			entry: &zeroconf.ServiceEntry{
				HostName: "wxs222.local",
				Port:     80,
				AddrIPv6: []net.IP{net.ParseIP("fe80::1")},
			},
			wantNil:  false,
			wantID:   "222",
			wantIP:   "fe80::1",
			wantPort: 80,
		},
		{
			name: "station with both IPv4 and IPv6 (should prefer IPv4)",
			entry: &zeroconf.ServiceEntry{
				HostName: "wxs333.local",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.50")},
				AddrIPv6: []net.IP{net.ParseIP("fe80::2")},
			},
			wantNil:  false,
			wantID:   "333",
			wantIP:   "192.168.1.50",
			wantPort: 80,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			station := scanner.parseServiceEntry(tt.entry)

			if tt.wantNil {
				if station != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", station)
				}
				return
			}

			if station == nil {
				t.Fatal("parseServiceEntry() = nil, want non-nil station")
			}

			if station.ID != tt.wantID {
				t.Errorf("station.ID = %v, want %v", station.ID, tt.wantID)
			}

			if station.IP != tt.wantIP {
				t.Errorf("station.IP = %v, want %v", station.IP, tt.wantIP)
			}

			if station.Port != tt.wantPort {
				t.Errorf("station.Port = %v, want %v", station.Port, tt.wantPort)
			}

			if station.Hostname != tt.entry.HostName {
				t.Errorf("station.Hostname = %v, want %v", station.Hostname, tt.entry.HostName)
			}

			// Check that DiscoveredAt is recent (within last second)
			if time.Since(station.DiscoveredAt) > time.Second {
				t.Errorf("station.DiscoveredAt is not recent: %v", station.DiscoveredAt)
			}
		})
	}
}

func TestScanner_parseServiceEntry_Metadata(t *testing.T) {
	scanner := NewScanner()

	entry := &zeroconf.ServiceEntry{
		HostName: "wxs4471023.local",
		Port:     80,
		AddrIPv4: []net.IP{net.ParseIP("192.168.1.42")},
		Text:     []string{"model=WS-2902", "fw=1.4.2", "outdoor", "sensors=temp,wind,rain"},
	}

	station := scanner.parseServiceEntry(entry)
	if station == nil {
		t.Fatal("parseServiceEntry() = nil, want station")
	}

	expectedMetadata := map[string]string{
		"model":   "WS-2902",
		"fw":      "1.4.2",
		"outdoor": "", // Key without value
		"sensors": "temp,wind,rain",
	}

	if len(station.Metadata) != len(expectedMetadata) {
		t.Errorf("station.Metadata has %d entries, want %d", len(station.Metadata), len(expectedMetadata))
	}

	for key, expectedValue := range expectedMetadata {
		if actualValue, ok := station.Metadata[key]; !ok {
			t.Errorf("station.Metadata missing key %q", key)
		} else if actualValue != expectedValue {
			t.Errorf("station.Metadata[%q] = %q, want %q", key, actualValue, expectedValue)
		}
	}

	if got := station.Model(); got != "WS-2902" {
		t.Errorf("station.Model() = %q, want WS-2902", got)
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()

	if scanner == nil {
		t.Fatal("NewScanner() = nil, want scanner")
	}

	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("scanner.Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
}

func TestIDPattern(t *testing.T) {
	tests := []struct {
		hostname    string
		shouldMatch bool
		id          string
	}{
		{"wxs4471023.local", true, "4471023"},
		{"wxs4471023.local.", true, "4471023"},
		{"wxs1.local", true, "1"},
		{"wxs999999999999.local", true, "999999999999"},
		{"WXS4471023.local", false, ""}, // uppercase prefix
		{"wxs.local", false, ""},        // no id
		{"wxsABC.local", false, ""},     // non-numeric id
		{"printer.local", false, ""},    // wrong prefix
		{"wxs4471023", false, ""},       // missing .local
		{"", false, ""},                 // empty
	}

	for _, tt := range tests {
		t.Run(tt.hostname, func(t *testing.T) {
			matches := idPattern.FindStringSubmatch(tt.hostname)

			if tt.shouldMatch {
				if matches == nil || len(matches) < 2 {
					t.Errorf("idPattern did not match %q", tt.hostname)
				} else if matches[1] != tt.id {
					t.Errorf("idPattern matched %q with id %q, want %q", tt.hostname, matches[1], tt.id)
				}
			} else {
				if matches != nil {
					t.Errorf("idPattern matched %q, want no match", tt.hostname)
				}
			}
		})
	}
}
