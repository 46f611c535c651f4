package weather

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/skycastapp/skycast/internal/logging"
)

const (
	// DefaultAPIHost is the default forecast API host
	DefaultAPIHost = "api.skycast.dev"

	// APIKeyEnvVar is the environment variable holding the forecast API key
	APIKeyEnvVar = "SKYCAST_API_KEY"

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed requests
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 1 * time.Second

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 30 * time.Second

	// DefaultCacheDuration is the default forecast cache validity duration
	DefaultCacheDuration = 5 * time.Minute
)

// Client talks to the SkyCast forecast API over HTTPS.
type Client struct {
	// BaseURL is the base URL for the API (e.g., "https://api.skycast.dev")
	BaseURL string

	// APIKey is sent as a bearer token; empty means anonymous access
	APIKey string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay is the maximum delay for exponential backoff
	MaxRetryDelay time.Duration

	// UseExponentialBackoff enables exponential backoff for retries
	UseExponentialBackoff bool

	// CacheDuration is how long to cache forecasts per place (0 = no cache)
	CacheDuration time.Duration

	cache      map[string]cacheEntry
	cacheMutex sync.RWMutex
}

type cacheEntry struct {
	forecast Forecast
	fetched  time.Time
}

// NewClient creates a forecast client for the given API host.
// An empty host falls back to DefaultAPIHost. The API key is read from
// SKYCAST_API_KEY.
func NewClient(host string) *Client {
	if host == "" {
		host = DefaultAPIHost
	}
	return NewClientWithURL("https://" + host)
}

// NewClientWithURL creates a client with a full base URL. Used by tests to
// point at an httptest server.
func NewClientWithURL(baseURL string) *Client {
	return &Client{
		BaseURL:               baseURL,
		APIKey:                os.Getenv(APIKeyEnvVar),
		HTTPClient:            &http.Client{Timeout: DefaultTimeout},
		MaxRetries:            DefaultMaxRetries,
		RetryDelay:            DefaultRetryDelay,
		MaxRetryDelay:         DefaultMaxRetryDelay,
		UseExponentialBackoff: true,
		CacheDuration:         DefaultCacheDuration,
		cache:                 make(map[string]cacheEntry),
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetRetry configures retry behavior
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

// Ping performs a health check against the API
func (c *Client) Ping() error {
	req, err := http.NewRequest("GET", c.BaseURL+"/v1/health", nil)
	if err != nil {
		return NewNetworkError("failed to create ping request", err)
	}
	c.setAuth(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return NewNetworkError("forecast service unreachable", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return NewAuthError("authentication failed (check API key)")
	}
	if resp.StatusCode != http.StatusOK {
		return NewHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}
	return nil
}

// GetForecast retrieves the forecast for a place, using the per-place cache
// when it is still fresh. Retries transient failures with exponential
// backoff.
func (c *Client) GetForecast(country, state, city string) (*Forecast, error) {
	key := cacheKey(country, state, city)

	if c.CacheDuration > 0 {
		c.cacheMutex.RLock()
		if entry, ok := c.cache[key]; ok && time.Since(entry.fetched) < c.CacheDuration {
			cached := entry.forecast
			c.cacheMutex.RUnlock()
			return &cached, nil
		}
		c.cacheMutex.RUnlock()
	}

	var lastErr error
	currentDelay := c.RetryDelay

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(currentDelay)

			if c.UseExponentialBackoff {
				currentDelay *= 2
				if currentDelay > c.MaxRetryDelay {
					currentDelay = c.MaxRetryDelay
				}
			}
		}

		forecast, err := c.getForecastAttempt(country, state, city)
		if err == nil {
			if c.CacheDuration > 0 {
				c.cacheMutex.Lock()
				c.cache[key] = cacheEntry{forecast: *forecast, fetched: time.Now()}
				c.cacheMutex.Unlock()
			}
			return forecast, nil
		}

		lastErr = err

		if !IsRetryable(err) {
			return nil, err
		}
	}

	return nil, lastErr
}

// getForecastAttempt performs a single fetch
func (c *Client) getForecastAttempt(country, state, city string) (*Forecast, error) {
	q := url.Values{}
	q.Set("country", country)
	if state != "" {
		q.Set("state", state)
	}
	q.Set("city", city)

	fetchURL := c.BaseURL + "/v1/forecast?" + q.Encode()

	req, err := http.NewRequest("GET", fetchURL, nil)
	if err != nil {
		return nil, NewNetworkError("failed to create GET request", err)
	}
	c.setAuth(req)

	started := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logging.LogFetch(fetchURL, 0, time.Since(started), err)
		return nil, NewNetworkError("GET request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()
	logging.LogFetch(fetchURL, resp.StatusCode, time.Since(started), nil)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, NewAuthError("authentication failed (check API key)")
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewNotFoundError(fmt.Sprintf("no forecast for %q", city))
	case resp.StatusCode != http.StatusOK:
		return nil, NewHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewNetworkError("failed to read response body", err)
	}

	cleanedBody, err := CleanJSONResponse(body)
	if err != nil {
		return nil, NewParseError("failed to clean JSON response", err)
	}

	var forecast Forecast
	if err := json.Unmarshal(cleanedBody, &forecast); err != nil {
		return nil, NewParseError("failed to parse JSON response", err)
	}

	return &forecast, nil
}

func (c *Client) setAuth(req *http.Request) {
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
}

// InvalidateCache clears all cached forecasts, forcing the next GetForecast
// to fetch fresh data
func (c *Client) InvalidateCache() {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()
	c.cache = make(map[string]cacheEntry)
}

// SetCacheDuration sets the cache validity duration.
// Set to 0 to disable caching entirely.
func (c *Client) SetCacheDuration(duration time.Duration) {
	c.CacheDuration = duration
	if duration == 0 {
		c.InvalidateCache()
	}
}

// GetCachedForecast returns the cached forecast for a place without making a
// network request. Returns nil if no valid cache entry exists.
func (c *Client) GetCachedForecast(country, state, city string) *Forecast {
	c.cacheMutex.RLock()
	defer c.cacheMutex.RUnlock()

	if entry, ok := c.cache[cacheKey(country, state, city)]; ok && time.Since(entry.fetched) < c.CacheDuration {
		cached := entry.forecast
		return &cached
	}
	return nil
}

func cacheKey(country, state, city string) string {
	return country + "/" + state + "/" + city
}
