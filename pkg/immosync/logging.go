package immosync

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// LogLevel defines the severity level for logging.
type LogLevel int

const (
	// LogLevelDebug enables all log messages including detailed debugging.
	LogLevelDebug LogLevel = iota

	// LogLevelInfo enables informational messages and above.
	LogLevelInfo

	// LogLevelWarn enables warning messages and above.
	LogLevelWarn

	// LogLevelError enables only error messages.
	LogLevelError

	// LogLevelNone disables all logging.
	LogLevelNone
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelNone:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}

// Logger defines the interface for cache logging.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

// F is a convenience function to create a logging field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// DefaultLogger implements Logger using Go's standard log package.
type DefaultLogger struct {
	level  LogLevel
	logger *log.Logger
	fields []Field
}

// NewDefaultLogger creates a new logger with the specified level.
func NewDefaultLogger(level LogLevel) *DefaultLogger {
	return &DefaultLogger{
		level:  level,
		logger: log.New(os.Stderr, "", log.LstdFlags),
	}
}

// Debug logs a debug message.
func (l *DefaultLogger) Debug(msg string, fields ...Field) {
	l.logAt(LogLevelDebug, msg, fields)
}

// Info logs an informational message.
func (l *DefaultLogger) Info(msg string, fields ...Field) {
	l.logAt(LogLevelInfo, msg, fields)
}

// Warn logs a warning message.
func (l *DefaultLogger) Warn(msg string, fields ...Field) {
	l.logAt(LogLevelWarn, msg, fields)
}

// Error logs an error message.
func (l *DefaultLogger) Error(msg string, fields ...Field) {
	l.logAt(LogLevelError, msg, fields)
}

// With returns a logger that includes the given fields on every message.
func (l *DefaultLogger) With(fields ...Field) Logger {
	combined := make([]Field, 0, len(l.fields)+len(fields))
	combined = append(combined, l.fields...)
	combined = append(combined, fields...)
	return &DefaultLogger{
		level:  l.level,
		logger: l.logger,
		fields: combined,
	}
}

func (l *DefaultLogger) logAt(level LogLevel, msg string, fields []Field) {
	if level < l.level {
		return
	}

	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(level.String())
	b.WriteString("] ")
	b.WriteString(msg)
	for _, f := range l.fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	l.logger.Print(b.String())
}

// NoOpLogger discards all log messages.
type NoOpLogger struct{}

// NewNoOpLogger creates a logger that discards everything.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// Debug does nothing.
func (NoOpLogger) Debug(string, ...Field) {}

// Info does nothing.
func (NoOpLogger) Info(string, ...Field) {}

// Warn does nothing.
func (NoOpLogger) Warn(string, ...Field) {}

// Error does nothing.
func (NoOpLogger) Error(string, ...Field) {}

// With returns the logger unchanged.
func (n NoOpLogger) With(...Field) Logger { return n }
