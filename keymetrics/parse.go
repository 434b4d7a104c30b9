package keymetrics

import (
	"encoding/json"
	"fmt"
	"strings"

	"reportmailer/core"
)

const opParse = "metrics.parse"

// SanitizeResponse strips a surrounding markdown code fence and anything
// before the first "{" or after the last "}". It returns "" when no JSON
// object can be delimited.
func SanitizeResponse(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the opening fence line, including any language tag.
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		if end := strings.LastIndex(s, "```"); end >= 0 {
			s = s[:end]
		}
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return s[start : end+1]
}

// ParseKeyMetrics decodes a completion response into KeyMetrics. Every
// section and field must be present and non-null; bare numbers are accepted
// as their literal text. Any violation is a core schema error and no record
// is returned.
func ParseKeyMetrics(raw string) (*KeyMetrics, error) {
	clean := SanitizeResponse(raw)
	if clean == "" {
		return nil, core.SchemaError(opParse, "response contains no JSON object", nil)
	}

	var sections map[string]map[string]json.RawMessage
	if err := json.Unmarshal([]byte(clean), &sections); err != nil {
		return nil, core.SchemaError(opParse, "response is not valid JSON", err)
	}

	if missing := missingFields(sections); len(missing) > 0 {
		return nil, core.SchemaError(opParse, fmt.Sprintf("missing fields: %s", strings.Join(missing, ", ")), nil)
	}

	var metrics KeyMetrics
	if err := json.Unmarshal([]byte(clean), &metrics); err != nil {
		return nil, core.SchemaError(opParse, "response does not match the metrics schema", err)
	}
	return &metrics, nil
}

// missingFields returns "section.key" for every required key that is absent
// or null.
func missingFields(sections map[string]map[string]json.RawMessage) []string {
	var missing []string
	for _, sec := range schema {
		fields, ok := sections[sec.name]
		if !ok || fields == nil {
			missing = append(missing, sec.name)
			continue
		}
		for _, key := range sec.keys {
			v, ok := fields[key]
			if !ok || strings.TrimSpace(string(v)) == "null" {
				missing = append(missing, sec.name+"."+key)
			}
		}
	}
	return missing
}
