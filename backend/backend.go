package backend

import "context"

// Request is the normalized single-shot input handed to a Backend: a system
// segment, a user segment and generation parameters. Backends must not mutate
// it.
type Request struct {
	System          string
	User            string
	Temperature     float64
	MaxOutputTokens int64
	// JSONResponse hints the backend to constrain the reply to a JSON
	// object. Backends without a native response format option emulate it
	// via prompt instruction.
	JSONResponse bool
}

// Response carries the raw text content of a completed request.
type Response struct {
	Content string
}

// Info contains metadata about a backend implementation.
type Info struct {
	// Name is the model identifier (e.g. "gpt-4o-mini").
	Name string `json:"name"`
	// Provider is the backend tag stamped into artifacts ("openai",
	// "anthropic", "ollama", "mock").
	Provider string `json:"provider"`
}

// Backend is the minimal interface a chat completion vendor must satisfy.
// Complete performs exactly one attempt; retries, pacing and timeouts belong
// to Caller. Implementations return *CallError for classified failures and
// plain errors otherwise.
type Backend interface {
	Complete(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the backend implementation.
	Info() Info
}
