// Package composer turns a natural-language hero prompt into an ordered
// execution plan over the canonical task library.
//
// Compose builds a deterministic system prompt embedding the full task
// registry and the fixed planning rules, asks the backend for a JSON plan,
// then validates it: steps referencing unknown task ids are dropped with a
// warning, step numbers are made contiguous, and tasks_covered is recomputed
// as the order-preserving dedup of the surviving plan. Every failure mode
// (empty prompt, exhausted retries, unparseable reply) yields a well-formed
// composition with the error field populated and an empty plan; Compose
// never returns a Go error.
package composer
