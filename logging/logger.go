// Package logging provides the service's structured logger: zap with console
// and rotating-file output, and automatic redaction of credentials.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures NewLogger.
type Options struct {
	// Development selects colored console output and debug level.
	Development bool

	// Level overrides the mode's default level when non-empty
	// ("debug", "info", "warn", "error").
	Level string

	// FilePath is the JSON log file. Empty disables file output.
	FilePath string

	// File controls rotation of FilePath.
	File FileWriterConfig
}

// Logger wraps zap.Logger and redacts sensitive fields before every write.
//
// Example:
//
//	logger, err := logging.NewLogger(logging.Options{FilePath: "reportmailer.log"})
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
//	logger.Info("email generated", zap.String("strategy", "structured"))
type Logger struct {
	zap *zap.Logger
}

// NewLogger builds a Logger writing to stdout and, if configured, to a
// rotating file.
func NewLogger(opts Options) (*Logger, error) {
	defaultLevel := zapcore.InfoLevel
	if opts.Development {
		defaultLevel = zapcore.DebugLevel
	}
	level := ParseLogLevelString(opts.Level, defaultLevel)

	var file zapcore.WriteSyncer
	if opts.FilePath != "" {
		file = NewFileWriter(opts.FilePath, opts.File)
	}

	core := NewMultiCore(level, zapcore.Lock(os.Stdout), file, opts.Development)
	return NewWithCore(core), nil
}

// NewWithCore wraps an existing core. Tests use it with zaptest/observer.
func NewWithCore(core zapcore.Core) *Logger {
	return &Logger{zap: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))}
}

// NewNop returns a Logger that discards everything.
func NewNop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	if l == nil || l.zap == nil {
		return nil
	}
	return l.zap.Sync()
}

// Debug logs a message at DebugLevel.
func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.zap.Debug(msg, redactFields(fields)...)
}

// Info logs a message at InfoLevel.
func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.zap.Info(msg, redactFields(fields)...)
}

// Warn logs a message at WarnLevel.
func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.zap.Warn(msg, redactFields(fields)...)
}

// Error logs a message at ErrorLevel.
func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.zap.Error(msg, redactFields(fields)...)
}

// With returns a child logger that adds fields to every entry.
//
// Example:
//
//	reqLogger := logger.With(zap.String("request_id", id))
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{zap: l.zap.With(redactFields(fields)...)}
}

// Named adds a sub-logger name, e.g. "http" or "pipeline".
func (l *Logger) Named(name string) *Logger {
	return &Logger{zap: l.zap.Named(name)}
}

// Zap returns the underlying zap.Logger.
func (l *Logger) Zap() *zap.Logger {
	return l.zap
}

func redactFields(fields []zap.Field) []zap.Field {
	if len(fields) == 0 {
		return fields
	}
	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		out[i] = redactField(f)
	}
	return out
}

func redactField(field zap.Field) zap.Field {
	if IsSensitiveField(field.Key) {
		return zap.String(field.Key, RedactedPlaceholder)
	}

	switch field.Type {
	case zapcore.StringType:
		if redacted := RedactSensitiveData(field.String); redacted != field.String {
			return zap.String(field.Key, redacted)
		}
	case zapcore.ErrorType:
		// Provider errors can echo the key back.
		if err, ok := field.Interface.(error); ok && err != nil {
			if msg := err.Error(); RedactSensitiveData(msg) != msg {
				return zap.String(field.Key, RedactSensitiveData(msg))
			}
		}
	}
	return field
}
