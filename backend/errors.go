package backend

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies a failed call so the batch and stability layers can
// distinguish transient from fatal conditions.
type ErrorKind string

const (
	// ErrAuthMissing indicates absent or rejected credentials.
	ErrAuthMissing ErrorKind = "auth_missing"
	// ErrRateLimited indicates an explicit rate-limit signal (HTTP 429).
	ErrRateLimited ErrorKind = "rate_limited"
	// ErrTimeout indicates a per-attempt deadline was exceeded.
	ErrTimeout ErrorKind = "timeout"
	// ErrTransport indicates a network-level failure before a status code
	// was obtained.
	ErrTransport ErrorKind = "transport"
	// ErrServer5xx indicates an HTTP 5xx reply.
	ErrServer5xx ErrorKind = "server_5xx"
	// ErrClient4xx indicates a non-retryable HTTP 4xx reply.
	ErrClient4xx ErrorKind = "client_4xx"
	// ErrEmptyContent indicates a successful transport with no usable
	// content in the reply.
	ErrEmptyContent ErrorKind = "empty_content"
)

// Retryable reports whether a kind is transient and worth retrying.
func Retryable(kind ErrorKind) bool {
	switch kind {
	case ErrRateLimited, ErrTimeout, ErrTransport, ErrServer5xx:
		return true
	default:
		return false
	}
}

// CallError is the classified error type returned by backend
// implementations. Status is the HTTP status code when one was obtained.
type CallError struct {
	Kind   ErrorKind
	Status int
	Err    error
}

// Error implements the error interface.
func (e *CallError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Err)
	}
	return string(e.Kind)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *CallError) Unwrap() error { return e.Err }

// ClassifyStatus maps an HTTP status code to an ErrorKind.
func ClassifyStatus(status int) ErrorKind {
	switch {
	case status == 401 || status == 403:
		return ErrAuthMissing
	case status == 429:
		return ErrRateLimited
	case status >= 500:
		return ErrServer5xx
	case status >= 400:
		return ErrClient4xx
	default:
		return ErrTransport
	}
}

// AsCallError coerces any error into a classified *CallError. Context
// deadline and cancellation surface as timeouts; everything unclassified is a
// transport failure.
func AsCallError(err error) *CallError {
	var ce *CallError
	if errors.As(err, &ce) {
		return ce
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &CallError{Kind: ErrTimeout, Err: err}
	}
	return &CallError{Kind: ErrTransport, Err: err}
}
