// Package classifier assigns calendar events a specific meeting type from
// the enterprise taxonomy.
//
// The primary path prompts the backend with a meeting context built from
// subject, description, attendee count and duration, then validates the JSON
// reply against the taxonomy (auto-correcting the category and clamping
// confidence). Two fallbacks keep classification total: a text-extraction
// pass over unparseable replies, and a deterministic keyword table for when
// the backend is unavailable. Classify never returns a Go error.
package classifier
