package advice

import (
	"regexp"
	"strings"
)

var sectionTitles = [...]string{
	"IRRIGATION DECISION",
	"RECOMMENDED FREQUENCY",
	"DURATION",
	"BEST TIME",
	"PRECAUTIONS",
	"ADDITIONAL TIPS",
}

var sectionHints = [...]string{
	"(Yes/No/Consider) with a brief reason",
	"How often to irrigate (e.g., daily, every 2 days)",
	"Approximate irrigation duration per session",
	"Best time of day to irrigate",
	"Any weather-based precautions",
	"Crop-specific advice",
}

// Section is one numbered part of an advice text.
type Section struct {
	Number int
	Title  string
	Body   string
}

// Matches "1. IRRIGATION DECISION: ...", "**2) Best Time:** ...", "### 3. DURATION - ...".
var sectionHeader = regexp.MustCompile(`^\s*(?:#+\s*)?(?:\*\*)?\s*([1-6])\s*[.)]\s*(?:\*\*)?\s*([A-Za-z][A-Za-z /-]*?)\s*(?:\*\*)?\s*[:\-–]\s*(?:\*\*)?\s*(.*)$`)

// ParseSections extracts the numbered sections the prompt asks for. Parsing is
// lenient: unrecognised text is ignored and a response with no sections yields nil.
// The advice text is always shown verbatim regardless of what this finds.
func ParseSections(text string) []Section {
	var out []Section
	var cur *Section
	flush := func() {
		if cur != nil {
			cur.Body = strings.TrimSpace(cur.Body)
			out = append(out, *cur)
			cur = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if m := sectionHeader.FindStringSubmatch(line); m != nil && isKnownTitle(m[2]) {
			flush()
			cur = &Section{
				Number: int(m[1][0] - '0'),
				Title:  strings.ToUpper(strings.TrimSpace(m[2])),
				Body:   m[3],
			}
			continue
		}
		if cur != nil {
			cur.Body += "\n" + line
		}
	}
	flush()
	return out
}

func isKnownTitle(s string) bool {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, t := range sectionTitles {
		if s == t {
			return true
		}
	}
	return false
}
