package advice

import "testing"

func TestParseSections(t *testing.T) {
	text := "Here is my advice.\n" +
		"1. IRRIGATION DECISION: Yes, the soil is drying.\n" +
		"2. RECOMMENDED FREQUENCY: Every 2 days\n" +
		"**3. Duration:** 20 minutes\n" +
		"   longer on sandy soil\n" +
		"### 4) BEST TIME - Early morning\n" +
		"5. PRECAUTIONS: Avoid midday watering\n" +
		"6. ADDITIONAL TIPS: Mulch around the base"

	got := ParseSections(text)
	if len(got) != 6 {
		t.Fatalf("ParseSections() = %d sections, want 6: %+v", len(got), got)
	}
	for i, s := range got {
		if s.Number != i+1 {
			t.Errorf("section %d Number = %d", i, s.Number)
		}
		if s.Title != sectionTitles[i] {
			t.Errorf("section %d Title = %q, want %q", i, s.Title, sectionTitles[i])
		}
	}
	if got[2].Body != "20 minutes\n   longer on sandy soil" {
		t.Errorf("DURATION body = %q", got[2].Body)
	}
	if got[3].Body != "Early morning" {
		t.Errorf("BEST TIME body = %q", got[3].Body)
	}
}

func TestParseSections_Lenient(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"free text", "Water lightly in the morning and check soil moisture."},
		{"unknown titles", "1. SUMMARY: fine\n2. NOTES: none"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseSections(tt.text); got != nil {
				t.Errorf("ParseSections() = %+v, want nil", got)
			}
		})
	}
}
