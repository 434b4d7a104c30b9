package logging

import (
	"regexp"
	"strings"
)

// RedactedPlaceholder is the string used to replace sensitive data
const RedactedPlaceholder = "[REDACTED]"

// sensitivePatterns match credentials that may end up inside free-text
// values such as provider error messages.
var sensitivePatterns = []*regexp.Regexp{
	// OpenAI keys: sk-... (legacy) or sk-proj-... (project-scoped)
	regexp.MustCompile(`(sk-[a-zA-Z0-9_-]{20,})`),
	regexp.MustCompile(`(?i)(bearer\s+[a-zA-Z0-9._-]{20,})`),
	regexp.MustCompile(`(?i)(api_?key\s*[:=]\s*[^\s,;]{8,})`),
}

// sensitiveFieldNames mark field keys whose value is never logged.
var sensitiveFieldNames = []string{
	"OPENAI_API_KEY",
	"API_KEY",
	"APIKEY",
	"AUTHORIZATION",
	"SECRET",
	"TOKEN",
}

// RedactSensitiveData replaces every credential found in value.
//
// Example:
//
//	RedactSensitiveData("invalid key sk-proj-abc123def456ghi789jkl")
//	// "invalid key [REDACTED]"
func RedactSensitiveData(value string) string {
	if value == "" {
		return value
	}
	for _, pattern := range sensitivePatterns {
		value = pattern.ReplaceAllString(value, RedactedPlaceholder)
	}
	return value
}

// IsSensitiveField reports whether a field key names a credential. Token
// counts ("input_tokens", "max_tokens") are not credentials.
func IsSensitiveField(name string) bool {
	upper := strings.ToUpper(name)
	if strings.HasSuffix(upper, "TOKENS") {
		return false
	}
	for _, s := range sensitiveFieldNames {
		if strings.Contains(upper, s) {
			return true
		}
	}
	return false
}
