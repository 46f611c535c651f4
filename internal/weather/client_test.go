package weather

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const sampleForecastJSON = `{
	"location": {"country": "United States", "state": "Illinois", "city": "Springfield", "lat": 39.78, "lon": -89.65},
	"current": {"temp_c": 22.5, "feels_like_c": 21.0, "humidity": 48, "wind_kph": 11, "wind_dir": "NW", "condition": "Clear"},
	"daily": [
		{"date": "2026-08-26", "min_temp_c": 15, "max_temp_c": 27, "condition": "Sunny", "rain_pct": 0},
		{"date": "2026-08-27", "min_temp_c": 16, "max_temp_c": 24, "condition": "Light rain", "rain_pct": 60}
	]
}`

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClientWithURL(server.URL)
	client.SetRetry(2, 10*time.Millisecond)
	client.CacheDuration = 0
	return client, server
}

func TestGetForecast(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/forecast" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("city"); got != "Springfield" {
			t.Errorf("city query = %q, want Springfield", got)
		}
		if got := r.URL.Query().Get("state"); got != "Illinois" {
			t.Errorf("state query = %q, want Illinois", got)
		}
		_, _ = w.Write([]byte(sampleForecastJSON))
	})
	defer server.Close()

	forecast, err := client.GetForecast("United States", "Illinois", "Springfield")
	if err != nil {
		t.Fatalf("GetForecast failed: %v", err)
	}

	if forecast.Location.City != "Springfield" {
		t.Errorf("city = %q, want Springfield", forecast.Location.City)
	}
	if forecast.Current.TempC != 22.5 {
		t.Errorf("temp = %v, want 22.5", forecast.Current.TempC)
	}
	if len(forecast.Daily) != 2 {
		t.Errorf("daily entries = %d, want 2", len(forecast.Daily))
	}
}

func TestGetForecastOmitsEmptyState(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if _, present := r.URL.Query()["state"]; present {
			t.Error("state parameter should be omitted for flat countries")
		}
		_, _ = w.Write([]byte(sampleForecastJSON))
	})
	defer server.Close()

	if _, err := client.GetForecast("Iceland", "", "Reykjavik"); err != nil {
		t.Fatalf("GetForecast failed: %v", err)
	}
}

func TestGetForecastRetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(sampleForecastJSON))
	})
	defer server.Close()

	forecast, err := client.GetForecast("United States", "Illinois", "Springfield")
	if err != nil {
		t.Fatalf("GetForecast should succeed after retries: %v", err)
	}
	if forecast == nil {
		t.Fatal("expected forecast after retries")
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestGetForecastDoesNotRetryNotFound(t *testing.T) {
	var attempts atomic.Int32
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})
	defer server.Close()

	_, err := client.GetForecast("United States", "Illinois", "Nowhere")
	if err == nil {
		t.Fatal("expected error for unknown place")
	}
	if !IsNotFoundError(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("attempts = %d, want 1 (not found is not retryable)", got)
	}
}

func TestGetForecastAuthError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	defer server.Close()

	_, err := client.GetForecast("United States", "Illinois", "Springfield")
	if !IsAuthError(err) {
		t.Errorf("expected auth error, got %v", err)
	}
	if IsRetryable(err) {
		t.Error("auth errors must not be retryable")
	}
}

func TestGetForecastSendsAPIKey(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q, want Bearer test-key", got)
		}
		_, _ = w.Write([]byte(sampleForecastJSON))
	})
	defer server.Close()
	client.APIKey = "test-key"

	if _, err := client.GetForecast("United States", "Illinois", "Springfield"); err != nil {
		t.Fatalf("GetForecast failed: %v", err)
	}
}

func TestForecastCache(t *testing.T) {
	var hits atomic.Int32
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(sampleForecastJSON))
	})
	defer server.Close()
	client.CacheDuration = time.Minute

	for i := 0; i < 3; i++ {
		if _, err := client.GetForecast("United States", "Illinois", "Springfield"); err != nil {
			t.Fatalf("GetForecast failed: %v", err)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1 (cache should serve repeats)", got)
	}

	// Different place misses the cache
	if _, err := client.GetForecast("United States", "Illinois", "Chicago"); err != nil {
		t.Fatalf("GetForecast failed: %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("server hits = %d, want 2 after new place", got)
	}

	client.InvalidateCache()
	if _, err := client.GetForecast("United States", "Illinois", "Springfield"); err != nil {
		t.Fatalf("GetForecast failed: %v", err)
	}
	if got := hits.Load(); got != 3 {
		t.Errorf("server hits = %d, want 3 after invalidation", got)
	}
}

func TestGetCachedForecast(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleForecastJSON))
	})
	defer server.Close()
	client.CacheDuration = time.Minute

	if cached := client.GetCachedForecast("United States", "Illinois", "Springfield"); cached != nil {
		t.Error("expected no cached forecast before any fetch")
	}

	if _, err := client.GetForecast("United States", "Illinois", "Springfield"); err != nil {
		t.Fatalf("GetForecast failed: %v", err)
	}

	cached := client.GetCachedForecast("United States", "Illinois", "Springfield")
	if cached == nil {
		t.Fatal("expected cached forecast after fetch")
	}
	if cached.Location.City != "Springfield" {
		t.Errorf("cached city = %q, want Springfield", cached.Location.City)
	}
}

func TestGetForecastTrailingGarbage(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleForecastJSON + "\x00\x00garbage"))
	})
	defer server.Close()

	forecast, err := client.GetForecast("United States", "Illinois", "Springfield")
	if err != nil {
		t.Fatalf("GetForecast should tolerate trailing garbage: %v", err)
	}
	if forecast.Location.City != "Springfield" {
		t.Errorf("city = %q, want Springfield", forecast.Location.City)
	}
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"clean object", `{"a":1}`, `{"a":1}`, false},
		{"trailing garbage", `{"a":1}xxx`, `{"a":1}`, false},
		{"nested objects", `{"a":{"b":2}}tail`, `{"a":{"b":2}}`, false},
		{"brace in string", `{"a":"}"}junk`, `{"a":"}"}`, false},
		{"leading whitespace", "  {\"a\":1}\n", `{"a":1}`, false},
		{"empty body", ``, ``, true},
		{"not an object", `[1,2]`, ``, true},
		{"unterminated", `{"a":1`, ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanJSONResponse([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
