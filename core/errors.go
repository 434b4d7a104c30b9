package core

import (
	"errors"
	"fmt"
)

// ConfigError represents a configuration-related error with actionable instructions.
type ConfigError struct {
	Code    string // Error code for programmatic handling
	Message string // Human-readable error message
	Action  string // Actionable instruction for resolution
}

func (e *ConfigError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s. %s", e.Message, e.Action)
	}
	return e.Message
}

// Error codes for configuration errors
const (
	ErrCodeInvalidValue  = "INVALID_VALUE"
	ErrCodeProfileFailed = "PROFILE_FAILED"
	ErrCodeMissingConfig = "MISSING_CONFIG"
)

// ErrInvalidValue returns an error for an environment variable that parsed but is out of range.
func ErrInvalidValue(varName, value, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidValue,
		Message: fmt.Sprintf("Invalid value %q for %s: %s", value, varName, reason),
		Action:  fmt.Sprintf("Fix %s in your .env file", varName),
	}
}

// ErrProfileFailed returns an error when the agency profile file cannot be loaded.
func ErrProfileFailed(path string, reason error) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeProfileFailed,
		Message: fmt.Sprintf("Cannot load agency profile %s: %v", path, reason),
		Action:  "Check PROFILE_PATH or remove it to use the built-in wording",
	}
}

// ErrMissingConfig returns an error for missing required configuration
func ErrMissingConfig(varName string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeMissingConfig,
		Message: fmt.Sprintf("Missing required configuration: %s", varName),
		Action:  fmt.Sprintf("Set %s in your .env file", varName),
	}
}

// IsConfigError checks if an error is a ConfigError and returns it if so
func IsConfigError(err error) (*ConfigError, bool) {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr, true
	}
	return nil, false
}

// Kind classifies a generation failure. Every kind aborts the current
// generation; none is retried.
type Kind string

const (
	KindExtraction Kind = "extraction"
	KindEncoding   Kind = "encoding"
	KindCompletion Kind = "completion"
	KindSchema     Kind = "schema"
	KindValidation Kind = "validation"
	KindUnknown    Kind = "unknown"
)

// Error is the error type returned by every pipeline stage.
type Error struct {
	Kind    Kind
	Op      string // stage or operation that failed, e.g. "pdf.extract"
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Op == "" {
		return fmt.Sprintf("%s error: %s", e.Kind, msg)
	}
	return fmt.Sprintf("%s: %s error: %s", e.Op, e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports kind equality so callers can match with errors.Is(err, &Error{Kind: KindSchema}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Op == "" || t.Op == e.Op)
}

// NewError builds an *Error of the given kind.
func NewError(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

// ExtractionError reports an unreadable or text-less PDF.
func ExtractionError(op, message string, err error) *Error {
	return NewError(KindExtraction, op, message, err)
}

// EncodingError reports a tokenizer failure.
func EncodingError(op, message string, err error) *Error {
	return NewError(KindEncoding, op, message, err)
}

// CompletionError reports a transport or provider failure.
func CompletionError(op, message string, err error) *Error {
	return NewError(KindCompletion, op, message, err)
}

// SchemaError reports a completion response that is not the expected JSON shape.
func SchemaError(op, message string, err error) *Error {
	return NewError(KindSchema, op, message, err)
}

// ValidationError reports missing or invalid form fields.
func ValidationError(op, message string) *Error {
	return NewError(KindValidation, op, message, nil)
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
