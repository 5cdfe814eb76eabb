// Package registry holds the two immutable reference tables of the toolkit:
// the canonical unit task library used by the execution composer and the
// enterprise meeting taxonomy used by the classifier.
//
// Both tables are fixed constants of the system. They are built once at
// package init and handed to downstream components by reference; nothing in
// this package mutates them afterwards. Callers must treat returned slices as
// read-only.
package registry
