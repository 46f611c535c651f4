// Package weather fetches forecasts from the SkyCast forecast API and
// subscribes to live condition updates over the WebSocket relay.
//
// The HTTP client retries transient failures with exponential backoff and
// caches forecasts per place. Errors are classified into a typed taxonomy
// (APIError) so callers can distinguish retryable network failures from
// bad API keys or unknown places.
package weather
