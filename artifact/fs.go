package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FSStore persists artifacts as files below a base directory. Each run gets
// its own subdirectory; an empty run id writes directly into the base
// directory. Names are timestamped by the Writer, so files are effectively
// append-only.
type FSStore struct {
	dir string
}

// NewFSStore creates the base directory if needed and returns a filesystem
// backed store.
func NewFSStore(dir string) (*FSStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &FSStore{dir: dir}, nil
}

// Dir returns the base directory.
func (s *FSStore) Dir() string { return s.dir }

func (s *FSStore) path(runID, name string) string {
	// Artifact names are generated, but keep path traversal out anyway.
	name = filepath.Base(name)
	if runID == "" {
		return filepath.Join(s.dir, name)
	}
	return filepath.Join(s.dir, filepath.Base(runID), name)
}

// Save writes the artifact bytes to disk, creating the run directory on
// first use.
func (s *FSStore) Save(runID, name string, data []byte) error {
	p := s.path(runID, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create run dir: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}

// Get reads the stored artifact bytes or returns ErrNotFound.
func (s *FSStore) Get(runID, name string) ([]byte, error) {
	data, err := os.ReadFile(s.path(runID, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	return data, nil
}

// List returns the sorted artifact file names of a run.
func (s *FSStore) List(runID string) ([]string, error) {
	dir := s.dir
	if runID != "" {
		dir = filepath.Join(s.dir, filepath.Base(runID))
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the artifact file if present or returns ErrNotFound.
func (s *FSStore) Delete(runID, name string) error {
	err := os.Remove(s.path(runID, name))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}
