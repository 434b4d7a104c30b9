package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestConfigError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ConfigError
		contains []string
	}{
		{
			name: "error with action",
			err: &ConfigError{
				Code:    "TEST_CODE",
				Message: "Test message",
				Action:  "Take this action",
			},
			contains: []string{"Test message", "Take this action"},
		},
		{
			name: "error without action",
			err: &ConfigError{
				Code:    "TEST_CODE",
				Message: "Test message only",
			},
			contains: []string{"Test message only"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errStr := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(errStr, s) {
					t.Errorf("ConfigError.Error() = %q, expected to contain %q", errStr, s)
				}
			}
		})
	}
}

func TestErrInvalidValue(t *testing.T) {
	err := ErrInvalidValue("TOP_P", "3", "must be in (0, 1]")
	if err.Code != ErrCodeInvalidValue {
		t.Errorf("Expected code %s, got %s", ErrCodeInvalidValue, err.Code)
	}
	if !strings.Contains(err.Message, "TOP_P") || !strings.Contains(err.Message, "must be in") {
		t.Errorf("Message %q should name the variable and reason", err.Message)
	}
}

func TestIsConfigError(t *testing.T) {
	wrapped := fmt.Errorf("startup: %w", ErrMissingConfig("OPENAI_MODEL"))
	got, ok := IsConfigError(wrapped)
	if !ok {
		t.Fatal("IsConfigError should see through wrapping")
	}
	if got.Code != ErrCodeMissingConfig {
		t.Errorf("Code = %s, want %s", got.Code, ErrCodeMissingConfig)
	}

	if _, ok := IsConfigError(errors.New("plain")); ok {
		t.Error("plain error should not be a ConfigError")
	}
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "op message and cause",
			err:  ExtractionError("pdf.extract", "cannot open PDF", errors.New("bad xref")),
			want: "pdf.extract: extraction error: cannot open PDF: bad xref",
		},
		{
			name: "cause only",
			err:  CompletionError("llm.complete", "", errors.New("timeout")),
			want: "llm.complete: completion error: timeout",
		},
		{
			name: "no op",
			err:  ValidationError("", "client name is required"),
			want: "validation error: client name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	cause := errors.New("unexpected EOF")
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"schema", SchemaError("metrics.parse", "invalid JSON", cause), KindSchema},
		{"wrapped encoding", fmt.Errorf("truncate: %w", EncodingError("tokens", "", cause)), KindEncoding},
		{"plain error", cause, KindUnknown},
		{"nil", nil, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_IsAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("generate: %w", CompletionError("llm.complete", "request failed", cause))

	if !errors.Is(err, &Error{Kind: KindCompletion}) {
		t.Error("errors.Is should match on kind")
	}
	if errors.Is(err, &Error{Kind: KindSchema}) {
		t.Error("errors.Is should not match a different kind")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the wrapped cause")
	}
}
