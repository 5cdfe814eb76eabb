// Package artifact persists run outputs as timestamped JSON documents.
//
// The Store interface abstracts the sink: an in-memory map for tests, a
// filesystem directory of timestamp-named files, or a SQLite database (see
// the sqlite subpackage). Artifacts are append-only: writers never update a
// stored document in place, and every emission is a fresh name.
//
// Writer sits on top of a Store and knows how to serialize the domain
// records (compositions, classifications, batch records, stability reports)
// with their default naming scheme.
package artifact
