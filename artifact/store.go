package artifact

// Store is the pluggable artifact sink. Artifacts are grouped by run id; an
// empty run id addresses the sink root. Implementations must be safe for
// concurrent use and must treat saved data as immutable.
type Store interface {
	// Save stores the artifact bytes under the given run and name.
	Save(runID, name string, data []byte) error

	// Get returns the stored artifact bytes or ErrNotFound.
	Get(runID, name string) ([]byte, error)

	// List returns the artifact names stored for the run.
	List(runID string) ([]string, error)

	// Delete removes the artifact if present or returns ErrNotFound.
	Delete(runID, name string) error
}
