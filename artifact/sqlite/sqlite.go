// Package sqlite provides a SQLite-backed artifact.Store for durable,
// queryable artifact retention in a single file.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hupe1980/meetinglens/artifact"
)

const schema = `
CREATE TABLE IF NOT EXISTS artifacts (
	run_id     TEXT NOT NULL,
	name       TEXT NOT NULL,
	data       BLOB NOT NULL,
	created_at TEXT NOT NULL,
	PRIMARY KEY (run_id, name)
);`

// Store persists artifacts in a SQLite database. Safe for concurrent use;
// database/sql serializes access to the single connection pool.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// artifacts table exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Save stores (or overwrites) the artifact bytes for the given run and name.
func (s *Store) Save(runID, name string, data []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO artifacts (run_id, name, data, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (run_id, name) DO UPDATE SET data = excluded.data, created_at = excluded.created_at`,
		runID, name, data, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save artifact: %w", err)
	}
	return nil
}

// Get returns the stored artifact bytes or artifact.ErrNotFound.
func (s *Store) Get(runID, name string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(
		`SELECT data FROM artifacts WHERE run_id = ? AND name = ?`, runID, name,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, artifact.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get artifact: %w", err)
	}
	return data, nil
}

// List returns the artifact names stored for the run, sorted by name.
func (s *Store) List(runID string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT name FROM artifacts WHERE run_id = ? ORDER BY name`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan artifact name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes the artifact if present or returns artifact.ErrNotFound.
func (s *Store) Delete(runID, name string) error {
	res, err := s.db.Exec(
		`DELETE FROM artifacts WHERE run_id = ? AND name = ?`, runID, name,
	)
	if err != nil {
		return fmt.Errorf("delete artifact: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return artifact.ErrNotFound
	}
	return nil
}
