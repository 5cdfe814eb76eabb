// Package runner orchestrates batch and stability runs over the composer and
// classifier.
//
// A batch processes a fixed input suite sequentially, in declared order, with
// per-item error isolation: a failed item is recorded and the batch moves on.
// A stability run repeats a composition batch N times with identical options
// and quantifies variance across the trials: per prompt the always/sometimes
// selected task sets, task count mean and standard deviation, and the
// intersection-over-union consistency percentage.
//
// Artifact emission order matches input order within a batch, and trial order
// within a stability run.
package runner
