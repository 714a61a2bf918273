// Package state persists per-file content hashes between runs so watch mode
// can skip documents whose input has not changed.
package state

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a sqlite-backed hash store. Use ":memory:" for tests.
type Store struct {
	db *sql.DB
}

// Open opens (and initializes) the store at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize state schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS files (
		rel_path   TEXT PRIMARY KEY,
		input_hash TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// HashContent returns the canonical content hash used by the store.
func HashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Unchanged reports whether relPath was last seen with exactly this hash.
func (s *Store) Unchanged(relPath, hash string) (bool, error) {
	var stored string
	err := s.db.QueryRow(`SELECT input_hash FROM files WHERE rel_path = ?`, relPath).Scan(&stored)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query state for %s: %w", relPath, err)
	}
	return stored == hash, nil
}

// Record stores the hash last processed for relPath.
func (s *Store) Record(relPath, hash string) error {
	_, err := s.db.Exec(`
		INSERT INTO files (rel_path, input_hash, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(rel_path) DO UPDATE SET input_hash = excluded.input_hash, updated_at = excluded.updated_at`,
		relPath, hash, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("record state for %s: %w", relPath, err)
	}
	return nil
}

// Forget drops the entry for relPath (used when a file disappears).
func (s *Store) Forget(relPath string) error {
	_, err := s.db.Exec(`DELETE FROM files WHERE rel_path = ?`, relPath)
	return err
}
