package advice

import (
	"fmt"
	"strings"

	"github.com/kjstillabower/irrigation-advisor/internal/models"
)

const systemPrompt = "You are an agricultural irrigation expert who provides practical, clear advice to farmers."

// BuildPrompt renders the user message for one crop and weather snapshot.
// Output is a pure function of its inputs.
func BuildPrompt(crop string, w models.WeatherRecord) string {
	var b strings.Builder
	b.WriteString("You are an agricultural expert specializing in irrigation management. ")
	b.WriteString("Based on the current weather conditions and crop type, provide specific irrigation recommendations for a farmer.\n\n")

	fmt.Fprintf(&b, "Crop Type: %s\n\n", crop)

	b.WriteString("Current Weather Conditions:\n")
	fmt.Fprintf(&b, "- Location: %s, %s\n", w.City, w.Country)
	fmt.Fprintf(&b, "- Temperature: %.1f°C (feels like %.1f°C)\n", w.Temperature, w.FeelsLike)
	fmt.Fprintf(&b, "- Humidity: %d%%\n", w.Humidity)
	fmt.Fprintf(&b, "- Weather: %s (%s)\n", w.Description, w.Conditions)
	fmt.Fprintf(&b, "- Wind Speed: %.1f m/s\n", w.WindSpeed)
	fmt.Fprintf(&b, "- Cloud Coverage: %d%%\n", w.Clouds)
	fmt.Fprintf(&b, "- Recent Rainfall: %s\n\n", rainfall(w))

	b.WriteString("Please provide irrigation advice in the following format:\n\n")
	for i, s := range sectionTitles {
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, s, sectionHints[i])
	}
	b.WriteString("\nKeep your response concise, practical, and beginner-friendly. ")
	b.WriteString("Use simple language that a farmer with basic knowledge can understand.")
	return b.String()
}

// rainfall lists every non-zero rain window, or "None".
func rainfall(w models.WeatherRecord) string {
	var parts []string
	if w.Rain1h > 0 {
		parts = append(parts, fmt.Sprintf("%.1f mm (last hour)", w.Rain1h))
	}
	if w.Rain3h > 0 {
		parts = append(parts, fmt.Sprintf("%.1f mm (last 3 hours)", w.Rain3h))
	}
	if len(parts) == 0 {
		return "None"
	}
	return strings.Join(parts, ", ")
}
