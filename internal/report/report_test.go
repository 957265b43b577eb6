package report

import (
	"strings"
	"testing"

	"github.com/kjstillabower/irrigation-advisor/internal/models"
)

var paris = models.WeatherRecord{
	City:        "Paris",
	Country:     "FR",
	Temperature: 18.2,
	FeelsLike:   17.0,
	Humidity:    60,
	Conditions:  "Clear",
	Description: "clear sky",
	WindSpeed:   3.4,
	Clouds:      10,
}

func TestFormatReport_Layout(t *testing.T) {
	advice := "1. IRRIGATION DECISION: No\n\n**keep** formatting as-is"
	got := FormatReport("tomato", paris, advice)

	want := strings.Join([]string{
		strings.Repeat("=", 70),
		"SMART IRRIGATION ADVICE CHATBOT",
		strings.Repeat("=", 70),
		"",
		"Crop Type: Tomato",
		"Location: Paris, FR",
		"",
		strings.Repeat("-", 70),
		"CURRENT WEATHER CONDITIONS",
		strings.Repeat("-", 70),
		"Temperature: 18.2°C (feels like 17.0°C)",
		"Humidity: 60%",
		"Conditions: Clear sky",
		"Wind Speed: 3.4 m/s",
		"Cloud Coverage: 10%",
		"Recent Rainfall: None",
		"",
		strings.Repeat("-", 70),
		"IRRIGATION RECOMMENDATION",
		strings.Repeat("-", 70),
		advice,
		"",
		strings.Repeat("=", 70),
		"",
	}, "\n")
	if got != want {
		t.Errorf("FormatReport() =\n%s\nwant\n%s", got, want)
	}
}

func TestFormatReport_SingleRainfallLine(t *testing.T) {
	tests := []struct {
		name   string
		rain1h float64
		rain3h float64
		want   string
	}{
		{"last hour wins", 2.0, 5.0, "Recent Rainfall: 2.0 mm (last hour)"},
		{"last 3 hours", 0, 5.0, "Recent Rainfall: 5.0 mm (last 3 hours)"},
		{"none", 0, 0, "Recent Rainfall: None"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := paris
			w.Rain1h, w.Rain3h = tt.rain1h, tt.rain3h
			got := FormatReport("corn", w, "advice")
			if n := strings.Count(got, "Recent Rainfall:"); n != 1 {
				t.Fatalf("rainfall lines = %d, want 1", n)
			}
			if !strings.Contains(got, tt.want+"\n") {
				t.Errorf("FormatReport() missing %q", tt.want)
			}
		})
	}
}

func TestFormatReport_CropHeaderIdempotent(t *testing.T) {
	a := FormatReport("tomato", paris, "x")
	b := FormatReport("Tomato", paris, "x")
	if a != b {
		t.Error("FormatReport() differs for \"tomato\" and \"Tomato\"")
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"tomato", "Tomato"},
		{"sweet corn", "Sweet Corn"},
		{"BASMATI RICE", "Basmati Rice"},
		{"winter-wheat", "Winter-Wheat"},
		{"", ""},
	}
	for _, tt := range tests {
		got := TitleCase(tt.in)
		if got != tt.want {
			t.Errorf("TitleCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := TitleCase(got); again != got {
			t.Errorf("TitleCase(%q) = %q, not idempotent", got, again)
		}
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"clear sky", "Clear sky"},
		{"LIGHT RAIN", "Light rain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Capitalize(tt.in); got != tt.want {
			t.Errorf("Capitalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatWeatherSummary(t *testing.T) {
	w := paris
	w.Rain3h = 1.5
	got := FormatWeatherSummary(w)
	want := "Weather in Paris, FR:\n" +
		"  Temperature: 18.2°C (feels like 17.0°C)\n" +
		"  Humidity: 60%\n" +
		"  Conditions: Clear sky\n" +
		"  Wind Speed: 3.4 m/s\n" +
		"  Cloud Coverage: 10%\n" +
		"  Recent Rainfall: 1.5 mm (last 3 hours)\n"
	if got != want {
		t.Errorf("FormatWeatherSummary() =\n%s\nwant\n%s", got, want)
	}
}
