package keymetrics

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	italian      = message.NewPrinter(language.Italian)
	plainInteger = regexp.MustCompile(`^[+-]?\d+$`)
)

// FormatNumber groups the thousands of a plain integer with "." following
// Italian convention ("1234567" becomes "1.234.567"). Anything else,
// including already grouped numbers, percentages and text, is returned
// unchanged.
func FormatNumber(s string) string {
	trimmed := strings.TrimSpace(s)
	if !plainInteger.MatchString(trimmed) {
		return s
	}
	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return s
	}
	out := italian.Sprintf("%d", n)
	if strings.HasPrefix(trimmed, "+") {
		out = "+" + out
	}
	return out
}
