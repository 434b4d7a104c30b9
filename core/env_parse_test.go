package core

import (
	"testing"
	"time"
)

func TestGetEnvOrDefault(t *testing.T) {
	const testKey = "REPORTMAILER_TEST_STRING"

	tests := []struct {
		name     string
		envValue string
		want     string
	}{
		{name: "returns env value when set", envValue: "custom_value", want: "custom_value"},
		{name: "returns default when empty", envValue: "", want: "default"},
		{name: "whitespace only counts as empty", envValue: "   ", want: "default"},
		{name: "trims surrounding whitespace", envValue: "  gpt-4o ", want: "gpt-4o"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(testKey, tt.envValue)
			if got := GetEnvOrDefault(testKey, "default"); got != tt.want {
				t.Errorf("GetEnvOrDefault() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseIntEnv(t *testing.T) {
	const testKey = "REPORTMAILER_TEST_INT"

	tests := []struct {
		name     string
		envValue string
		want     int
	}{
		{name: "valid integer", envValue: "6000", want: 6000},
		{name: "negative integer", envValue: "-5", want: -5},
		{name: "empty uses default", envValue: "", want: 42},
		{name: "invalid uses default", envValue: "lots", want: 42},
		{name: "float uses default", envValue: "1.5", want: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(testKey, tt.envValue)
			if got := ParseIntEnv(testKey, 42); got != tt.want {
				t.Errorf("ParseIntEnv() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseFloat32Env(t *testing.T) {
	const testKey = "REPORTMAILER_TEST_FLOAT"

	tests := []struct {
		name     string
		envValue string
		want     float32
	}{
		{name: "valid float", envValue: "0.2", want: 0.2},
		{name: "integer form", envValue: "1", want: 1},
		{name: "invalid uses default", envValue: "warm", want: 0.7},
		{name: "empty uses default", envValue: "", want: 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(testKey, tt.envValue)
			if got := ParseFloat32Env(testKey, 0.7); got != tt.want {
				t.Errorf("ParseFloat32Env() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseBoolEnv(t *testing.T) {
	const testKey = "REPORTMAILER_TEST_BOOL"

	tests := []struct {
		name         string
		envValue     string
		defaultValue bool
		want         bool
	}{
		{name: "true lowercase", envValue: "true", defaultValue: false, want: true},
		{name: "TRUE uppercase", envValue: "TRUE", defaultValue: false, want: true},
		{name: "1", envValue: "1", defaultValue: false, want: true},
		{name: "yes", envValue: "yes", defaultValue: false, want: true},
		{name: "on", envValue: "on", defaultValue: false, want: true},
		{name: "false", envValue: "false", defaultValue: true, want: false},
		{name: "0", envValue: "0", defaultValue: true, want: false},
		{name: "off", envValue: "off", defaultValue: true, want: false},
		{name: "not set returns default", envValue: "", defaultValue: true, want: true},
		{name: "invalid returns default", envValue: "maybe", defaultValue: true, want: true},
		{name: "whitespace handled", envValue: "  true  ", defaultValue: false, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(testKey, tt.envValue)
			if got := ParseBoolEnv(testKey, tt.defaultValue); got != tt.want {
				t.Errorf("ParseBoolEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseDurationEnv(t *testing.T) {
	const testKey = "REPORTMAILER_TEST_DURATION"

	t.Setenv(testKey, "45")
	if got := ParseDurationEnv(testKey, 10); got != 45*time.Second {
		t.Errorf("ParseDurationEnv() = %v, want 45s", got)
	}

	t.Setenv(testKey, "")
	if got := ParseDurationEnv(testKey, 10); got != 10*time.Second {
		t.Errorf("ParseDurationEnv() = %v, want 10s", got)
	}
}

func TestParseByteSizeEnv(t *testing.T) {
	const testKey = "REPORTMAILER_TEST_SIZE"

	tests := []struct {
		envValue string
		want     int64
	}{
		{"16MB", 16 * BytesPerMB},
		{"2048", 2048},
		{"lots", 32 * BytesPerMB},
		{"", 32 * BytesPerMB},
	}
	for _, tt := range tests {
		t.Setenv(testKey, tt.envValue)
		if got := ParseByteSizeEnv(testKey, 32*BytesPerMB); got != tt.want {
			t.Errorf("ParseByteSizeEnv(%q) = %d, want %d", tt.envValue, got, tt.want)
		}
	}
}
