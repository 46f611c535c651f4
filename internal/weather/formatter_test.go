package weather

import (
	"strings"
	"testing"
)

func sampleForecast() *Forecast {
	return &Forecast{
		Location: Location{Country: "United States", State: "Illinois", City: "Springfield"},
		Current: CurrentConditions{
			TempC:      22.5,
			FeelsLikeC: 21.0,
			Humidity:   48,
			WindKph:    11,
			WindDir:    "NW",
			Condition:  "Clear",
		},
		Daily: []DailyForecast{
			{Date: "2026-08-26", MinTempC: 15, MaxTempC: 27, Condition: "Sunny"},
			{Date: "2026-08-27", MinTempC: 16, MaxTempC: 24, Condition: "Light rain", RainPct: 60},
		},
	}
}

func TestFormatTemp(t *testing.T) {
	tests := []struct {
		tempC float64
		units string
		want  string
	}{
		{22.5, "C", "23°C"},
		{0, "C", "0°C"},
		{0, "F", "32°F"},
		{100, "F", "212°F"},
		{22.5, "", "23°C"},   // unknown units fall back to Celsius
		{-40, "F", "-40°F"},  // the crossover point
	}

	for _, tt := range tests {
		if got := FormatTemp(tt.tempC, tt.units); got != tt.want {
			t.Errorf("FormatTemp(%v, %q) = %q, want %q", tt.tempC, tt.units, got, tt.want)
		}
	}
}

func TestLocationString(t *testing.T) {
	withState := Location{Country: "United States", State: "Illinois", City: "Springfield"}
	if got := withState.String(); got != "Springfield, Illinois, United States" {
		t.Errorf("got %q", got)
	}

	flat := Location{Country: "Iceland", City: "Reykjavik"}
	if got := flat.String(); got != "Reykjavik, Iceland" {
		t.Errorf("got %q", got)
	}
}

func TestConditionIcon(t *testing.T) {
	tests := []struct {
		condition string
		want      string
	}{
		{"Clear", "☀️"},
		{"Partly cloudy", "☁️"},
		{"Light rain", "🌧️"},
		{"Thunderstorm", "⛈️"},
		{"Snow showers", "❄️"},
	}

	for _, tt := range tests {
		if got := ConditionIcon(tt.condition, ""); got != tt.want {
			t.Errorf("ConditionIcon(%q) = %q, want %q", tt.condition, got, tt.want)
		}
	}

	// Unmatched condition prefers the API-supplied icon
	if got := ConditionIcon("Sahara dust", "🟤"); got != "🟤" {
		t.Errorf("got %q, want API icon", got)
	}
}

func TestFormatCompact(t *testing.T) {
	got := FormatCompact(sampleForecast(), "C")
	want := "Springfield, Illinois, United States: ☀️ 23°C, Clear"
	if got != want {
		t.Errorf("FormatCompact = %q, want %q", got, want)
	}
}

func TestFormatDetailed(t *testing.T) {
	got := FormatDetailed(sampleForecast(), "F")

	for _, fragment := range []string{
		"Springfield, Illinois, United States",
		"73°F",            // 22.5C converted
		"feels like 70°F", // 21.0C converted
		"Humidity 48%",
		"Wind 11 km/h NW",
		"2026-08-26",
		"💧60%",
	} {
		if !strings.Contains(got, fragment) {
			t.Errorf("detailed output missing %q:\n%s", fragment, got)
		}
	}

	// Zero rain chance is not rendered
	if strings.Contains(got, "💧0%") {
		t.Error("zero rain chance should be omitted")
	}
}
