package weather

import (
	"fmt"
	"strings"
)

// conditionIcons maps condition keywords to a display glyph.
var conditionIcons = map[string]string{
	"clear":   "☀️",
	"sunny":   "☀️",
	"cloud":   "☁️",
	"rain":    "🌧️",
	"drizzle": "🌦️",
	"storm":   "⛈️",
	"thunder": "⛈️",
	"snow":    "❄️",
	"fog":     "🌫️",
	"mist":    "🌫️",
	"wind":    "💨",
}

// ConditionIcon returns a glyph for a textual condition, or the icon the
// API supplied when the text matches nothing.
func ConditionIcon(condition, apiIcon string) string {
	lower := strings.ToLower(condition)
	for keyword, icon := range conditionIcons {
		if strings.Contains(lower, keyword) {
			return icon
		}
	}
	if apiIcon != "" {
		return apiIcon
	}
	return "🌡️"
}

// FormatCompact renders a forecast as a single line, suitable for
// `skycast forecast --format compact` and status bars.
//
//	Springfield, Illinois, United States: ☀️ 22°C, Clear
func FormatCompact(f *Forecast, units string) string {
	icon := ConditionIcon(f.Current.Condition, f.Current.Icon)
	return fmt.Sprintf("%s: %s %s, %s",
		f.Location.String(),
		icon,
		FormatTemp(f.Current.TempC, units),
		f.Current.Condition)
}

// FormatDetailed renders the full current conditions plus the multi-day
// outlook as a multi-line block.
func FormatDetailed(f *Forecast, units string) string {
	var b strings.Builder

	icon := ConditionIcon(f.Current.Condition, f.Current.Icon)
	fmt.Fprintf(&b, "%s\n", f.Location.String())
	fmt.Fprintf(&b, "%s %s  %s (feels like %s)\n",
		icon, f.Current.Condition,
		FormatTemp(f.Current.TempC, units),
		FormatTemp(f.Current.FeelsLikeC, units))
	fmt.Fprintf(&b, "Humidity %d%%  Wind %.0f km/h %s\n",
		f.Current.Humidity, f.Current.WindKph, f.Current.WindDir)

	if len(f.Daily) > 0 {
		b.WriteString("\n")
		for _, day := range f.Daily {
			fmt.Fprintf(&b, "%s  %s %-14s %s / %s",
				day.Date,
				ConditionIcon(day.Condition, day.Icon),
				day.Condition,
				FormatTemp(day.MinTempC, units),
				FormatTemp(day.MaxTempC, units))
			if day.RainPct > 0 {
				fmt.Fprintf(&b, "  💧%d%%", day.RainPct)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}
