package logging

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// LogLevel is a thin enum for user friendly level configuration decoupled
// from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
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
	default:
		return "UNKNOWN"
	}
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger defines the minimal logging interface for meetinglens. This allows
// users to provide their own logger implementation or use the built-in
// adapters.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewSlogLogger builds a Logger writing to output in the given format ("json"
// or "text") at the given level. A nil output defaults to stderr.
func NewSlogLogger(level LogLevel, format string, output io.Writer) Logger {
	if output == nil {
		output = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: slogLevel(level)}
	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(output, opts)
	} else {
		handler = slog.NewJSONHandler(output, opts)
	}
	return NewSlogAdapter(slog.New(handler))
}

// NoOpLogger discards all log messages. Useful for testing or when logging is
// disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}

// CallLogger wraps a Logger with a component attribute and a convenience
// helper for model call telemetry. It is cheap to copy via WithComponent.
type CallLogger struct {
	logger    Logger
	component string
}

// NewCallLogger wraps logger; a nil logger yields a silent CallLogger.
func NewCallLogger(logger Logger) *CallLogger {
	if logger == nil {
		logger = NoOpLogger{}
	}
	return &CallLogger{logger: logger}
}

// WithComponent returns a copy tagged with the logical component (backend,
// composer, classifier, runner).
func (c *CallLogger) WithComponent(component string) *CallLogger {
	return &CallLogger{logger: c.logger, component: component}
}

// Debug logs at debug level with the component attribute attached.
func (c *CallLogger) Debug(msg string, args ...any) { c.logger.Debug(msg, c.attrs(args)...) }

// Info logs at info level with the component attribute attached.
func (c *CallLogger) Info(msg string, args ...any) { c.logger.Info(msg, c.attrs(args)...) }

// Warn logs at warn level with the component attribute attached.
func (c *CallLogger) Warn(msg string, args ...any) { c.logger.Warn(msg, c.attrs(args)...) }

// Error logs at error level with the component attribute attached.
func (c *CallLogger) Error(msg string, args ...any) { c.logger.Error(msg, c.attrs(args)...) }

func (c *CallLogger) attrs(args []any) []any {
	if c.component == "" {
		return args
	}
	out := make([]any, 0, len(args)+2)
	out = append(out, "component", c.component)
	return append(out, args...)
}

// LogModelCall records model call latency, attempt count and success.
func (c *CallLogger) LogModelCall(model string, attempts int, dur time.Duration, success bool, errMsg string) {
	args := []any{"model", model, "attempts", attempts, "duration", dur, "success", success}
	if errMsg != "" {
		args = append(args, "error", errMsg)
	}
	if success {
		c.Info("model call completed", args...)
		return
	}
	c.Error("model call failed", args...)
}
