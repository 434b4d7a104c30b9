package keymetrics

import "regexp"

// NotAvailable replaces a highlight the report text does not contain.
const NotAvailable = "N/A"

// Highlights are the two figures the regex strategy looks for.
type Highlights struct {
	EngagedSessions string
	Conversions     string
}

// Numbers use "." as the thousands separator, e.g. "35.682". Labels match
// on exact casing and must not follow a letter, so "Tasso conversioni" is not
// a count; a preceding digit is allowed because extracted pages often join
// lines without a separator ("35.682Conversioni 3.720"). A number followed
// by a decimal comma ("2,3") is rejected.
var (
	engagedSessionsPattern = regexp.MustCompile(`(?m)(?:^|[^\p{L}])Sessioni con coinvolgimento\s*:?\s*(\d+(?:\.\d{3})*)(?:[^\d,]|$)`)
	conversionsPattern     = regexp.MustCompile(`(?m)(?:^|[^\p{L}])Conversioni\s*:?\s*(\d+(?:\.\d{3})*)(?:[^\d,]|$)`)
)

// ExtractHighlights scans report text for the engaged-sessions and
// conversions counts. It never fails; a missing label yields NotAvailable.
func ExtractHighlights(text string) Highlights {
	return Highlights{
		EngagedSessions: firstMatch(engagedSessionsPattern, text),
		Conversions:     firstMatch(conversionsPattern, text),
	}
}

// Found reports how many of the highlights were present.
func (h Highlights) Found() int {
	n := 0
	if h.EngagedSessions != NotAvailable {
		n++
	}
	if h.Conversions != NotAvailable {
		n++
	}
	return n
}

func firstMatch(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return NotAvailable
}
