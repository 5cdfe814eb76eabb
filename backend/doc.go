// Package backend defines the single-shot chat completion abstraction used by
// the composer and classifier, together with the Caller wrapper that adds
// retry, rate pacing and error classification on top of any Backend
// implementation.
//
// Concrete backends live in subpackages (openai, anthropic, ollama) so the
// dependency surface of each vendor SDK stays isolated. Higher layers depend
// only on the Backend interface and on Caller. A call never raises across
// that boundary; it always yields a Result with errors represented as data.
package backend
