package weather

import (
	"bytes"
	"fmt"
	"math"
	"time"
)

// Location identifies the place a forecast was produced for.
type Location struct {
	Country string  `json:"country"`
	State   string  `json:"state,omitempty"`
	City    string  `json:"city"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// String returns "City, State, Country" skipping empty segments.
func (l Location) String() string {
	if l.State != "" {
		return fmt.Sprintf("%s, %s, %s", l.City, l.State, l.Country)
	}
	return fmt.Sprintf("%s, %s", l.City, l.Country)
}

// CurrentConditions holds the observed weather at fetch time.
// Temperatures are always transported in Celsius; display conversion
// happens in the formatter.
type CurrentConditions struct {
	TempC       float64   `json:"temp_c"`
	FeelsLikeC  float64   `json:"feels_like_c"`
	Humidity    int       `json:"humidity"`
	WindKph     float64   `json:"wind_kph"`
	WindDir     string    `json:"wind_dir"`
	Condition   string    `json:"condition"`
	Icon        string    `json:"icon,omitempty"`
	ObservedAt  time.Time `json:"observed_at"`
}

// DailyForecast is a single day in the multi-day outlook.
type DailyForecast struct {
	Date      string  `json:"date"` // YYYY-MM-DD
	MinTempC  float64 `json:"min_temp_c"`
	MaxTempC  float64 `json:"max_temp_c"`
	Condition string  `json:"condition"`
	Icon      string  `json:"icon,omitempty"`
	RainPct   int     `json:"rain_pct"`
}

// Forecast is the full API response for a place.
type Forecast struct {
	Location Location          `json:"location"`
	Current  CurrentConditions `json:"current"`
	Daily    []DailyForecast   `json:"daily"`
	Source   string            `json:"source,omitempty"`
}

// CelsiusToFahrenheit converts a Celsius temperature for display.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9.0/5.0 + 32.0
}

// FormatTemp renders a Celsius temperature in the requested units ("C" or "F").
// Unknown units fall back to Celsius. Rounded half-up, not banker's rounding,
// so 22.5 reads 23.
func FormatTemp(tempC float64, units string) string {
	if units == "F" {
		return fmt.Sprintf("%.0f°F", math.Round(CelsiusToFahrenheit(tempC)))
	}
	return fmt.Sprintf("%.0f°C", math.Round(tempC))
}

// CleanJSONResponse trims trailing garbage some gateways append after the
// closing brace of a JSON body. Returns the body unchanged when it is
// already clean.
func CleanJSONResponse(body []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty response body")
	}
	if trimmed[0] != '{' {
		return nil, fmt.Errorf("response does not start with '{'")
	}

	depth := 0
	inString := false
	escaped := false
	for i, b := range trimmed {
		if escaped {
			escaped = false
			continue
		}
		switch b {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return trimmed[:i+1], nil
				}
			}
		}
	}

	return nil, fmt.Errorf("unterminated JSON object")
}
