package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Byte size constants. Binary units (1024 base) displayed as KB/MB/GB.
const (
	BytesPerKB int64 = 1024
	BytesPerMB int64 = 1024 * BytesPerKB
	BytesPerGB int64 = 1024 * BytesPerMB
)

// FormatBytes renders a byte count compactly, without decimals when the value
// is a whole number of the unit.
//
// Examples:
//   - FormatBytes(512) returns "512 B"
//   - FormatBytes(1536) returns "1.5 KB"
//   - FormatBytes(33554432) returns "32 MB"
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}

	var unit string
	var size int64
	switch {
	case bytes >= BytesPerGB:
		unit, size = "GB", BytesPerGB
	case bytes >= BytesPerMB:
		unit, size = "MB", BytesPerMB
	case bytes >= BytesPerKB:
		unit, size = "KB", BytesPerKB
	default:
		return fmt.Sprintf("%d B", bytes)
	}

	if bytes%size == 0 {
		return fmt.Sprintf("%d %s", bytes/size, unit)
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(size), unit)
}

// ParseBytes converts a size such as "32MB", "1.5 GB" or "1048576" to bytes.
// Units are case-insensitive; a bare number is a byte count.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	numEnd := len(s)
	for i, c := range s {
		if (c < '0' || c > '9') && c != '.' {
			numEnd = i
			break
		}
	}
	if numEnd == 0 {
		return 0, fmt.Errorf("invalid size %q: no number found", s)
	}

	value, err := strconv.ParseFloat(s[:numEnd], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}

	var multiplier int64
	switch strings.ToUpper(strings.TrimSpace(s[numEnd:])) {
	case "", "B":
		multiplier = 1
	case "KB", "K":
		multiplier = BytesPerKB
	case "MB", "M":
		multiplier = BytesPerMB
	case "GB", "G":
		multiplier = BytesPerGB
	default:
		return 0, fmt.Errorf("invalid size %q: unknown unit", s)
	}

	return int64(value * float64(multiplier)), nil
}
