// Package logging provides the minimal logging interface used across
// meetinglens plus adapters for Go's structured logging.
//
// The Logger interface defines the standard methods (Debug, Info, Warn,
// Error) that the backend caller, runner and CLI use for observability. This
// package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping *slog.Logger
//   - NoOpLogger for silent operation (tests, --quiet runs)
//   - CallLogger with a convenience helper for model call telemetry
//
// The design intentionally keeps the interface minimal so callers can plug in
// any structured logger.
package logging
