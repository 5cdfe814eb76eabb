// Package parse recovers JSON objects from noisy model replies.
//
// Replies may be fenced, prefixed with prose, truncated or otherwise
// malformed. Extract walks a fixed strategy sequence, from direct parse
// through balanced-span extraction and tolerant reconstruction down to a
// schema specific text fallback, and reports which strategy succeeded with
// per-attempt warnings so failures stay diagnosable. It never panics and
// never returns an error; an unrecoverable reply yields an Outcome with a nil
// object.
package parse
