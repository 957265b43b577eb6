// Package report renders weather snapshots and advice for the terminal.
package report

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kjstillabower/irrigation-advisor/internal/models"
)

const (
	Title = "SMART IRRIGATION ADVICE CHATBOT"
	width = 70
)

var (
	heavyRule = strings.Repeat("=", width)
	lightRule = strings.Repeat("-", width)
)

// FormatReport renders the full result of one recommendation cycle. The advice
// text is included verbatim.
func FormatReport(crop string, w models.WeatherRecord, advice string) string {
	var b strings.Builder
	b.WriteString(heavyRule + "\n")
	b.WriteString(Title + "\n")
	b.WriteString(heavyRule + "\n\n")

	fmt.Fprintf(&b, "Crop Type: %s\n", TitleCase(crop))
	fmt.Fprintf(&b, "Location: %s, %s\n\n", w.City, w.Country)

	b.WriteString(lightRule + "\n")
	b.WriteString("CURRENT WEATHER CONDITIONS\n")
	b.WriteString(lightRule + "\n")
	writeConditions(&b, w, "")

	b.WriteString("\n" + lightRule + "\n")
	b.WriteString("IRRIGATION RECOMMENDATION\n")
	b.WriteString(lightRule + "\n")
	b.WriteString(advice + "\n")
	b.WriteString("\n" + heavyRule + "\n")
	return b.String()
}

// FormatWeatherSummary renders an indented block of current conditions.
func FormatWeatherSummary(w models.WeatherRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Weather in %s, %s:\n", w.City, w.Country)
	writeConditions(&b, w, "  ")
	return b.String()
}

func writeConditions(b *strings.Builder, w models.WeatherRecord, indent string) {
	fmt.Fprintf(b, "%sTemperature: %.1f°C (feels like %.1f°C)\n", indent, w.Temperature, w.FeelsLike)
	fmt.Fprintf(b, "%sHumidity: %d%%\n", indent, w.Humidity)
	fmt.Fprintf(b, "%sConditions: %s\n", indent, Capitalize(w.Description))
	fmt.Fprintf(b, "%sWind Speed: %.1f m/s\n", indent, w.WindSpeed)
	fmt.Fprintf(b, "%sCloud Coverage: %d%%\n", indent, w.Clouds)
	fmt.Fprintf(b, "%sRecent Rainfall: %s\n", indent, RainfallLine(w))
}

// RainfallLine picks exactly one rain window: the last hour wins over the last
// three hours, and neither yields "None".
func RainfallLine(w models.WeatherRecord) string {
	switch {
	case w.Rain1h > 0:
		return fmt.Sprintf("%.1f mm (last hour)", w.Rain1h)
	case w.Rain3h > 0:
		return fmt.Sprintf("%.1f mm (last 3 hours)", w.Rain3h)
	}
	return "None"
}

// TitleCase upper-cases the first letter of every word and lower-cases the rest.
// A word starts at any letter that follows a non-letter. TitleCase(TitleCase(s))
// equals TitleCase(s).
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) && !prevLetter:
			b.WriteRune(unicode.ToTitle(r))
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}

// Capitalize upper-cases the first rune and lower-cases the remainder.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToTitle(r)) + strings.ToLower(s[size:])
}
