package discovery

import "testing"

func TestStationBaseURL(t *testing.T) {
	station := &Station{ID: "4471023", IP: "192.168.1.42", Port: 80}
	if got := station.BaseURL(); got != "http://192.168.1.42:80" {
		t.Errorf("BaseURL() = %q", got)
	}

	station.Port = 8080
	if got := station.BaseURL(); got != "http://192.168.1.42:8080" {
		t.Errorf("BaseURL() = %q", got)
	}
}

func TestStationString(t *testing.T) {
	station := &Station{ID: "4471023", Hostname: "wxs4471023.local", IP: "192.168.1.42", Port: 80}
	want := "Weather Station 4471023 (wxs4471023.local) at 192.168.1.42:80"
	if got := station.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestStationGetMetadata(t *testing.T) {
	station := &Station{Metadata: map[string]string{"model": "WS-2902"}}
	if got := station.GetMetadata("model"); got != "WS-2902" {
		t.Errorf("GetMetadata(model) = %q", got)
	}
	if got := station.GetMetadata("missing"); got != "" {
		t.Errorf("GetMetadata(missing) = %q, want empty", got)
	}

	// Nil metadata map must not panic
	empty := &Station{}
	if got := empty.GetMetadata("model"); got != "" {
		t.Errorf("GetMetadata on nil map = %q, want empty", got)
	}
	if got := empty.Model(); got != "unknown" {
		t.Errorf("Model() on nil map = %q, want unknown", got)
	}
}
