// Package store is the SQLite cache behind incremental validation. It keeps
// one row per locale: the aggregate content hash of the locale's catalog
// files and the serialized diagnostics from the last run. When a locale's
// hash is unchanged, the engine replays the cached diagnostics instead of
// re-validating.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite data access layer for the validation cache.
type Store struct {
	db *sql.DB
}

// Entry is one cached validation result.
type Entry struct {
	Locale        string
	Hash          string
	LastValidated time.Time
	Payload       []byte // serialized diagnostics
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the cache schema. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS locales (
  locale          TEXT PRIMARY KEY,
  hash            TEXT NOT NULL,
  last_validated  TIMESTAMP NOT NULL,
  payload         BLOB
);
`

// Lookup returns the cached entry for a locale, or nil when none exists.
func (s *Store) Lookup(locale string) (*Entry, error) {
	row := s.db.QueryRow(
		`SELECT locale, hash, last_validated, payload FROM locales WHERE locale = ?`, locale)

	var e Entry
	if err := row.Scan(&e.Locale, &e.Hash, &e.LastValidated, &e.Payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup locale %s: %w", locale, err)
	}
	return &e, nil
}

// Put upserts the cached validation result for a locale.
func (s *Store) Put(locale, hash string, payload []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO locales (locale, hash, last_validated, payload) VALUES (?, ?, ?, ?)
		 ON CONFLICT(locale) DO UPDATE SET hash = excluded.hash,
		   last_validated = excluded.last_validated, payload = excluded.payload`,
		locale, hash, time.Now(), payload)
	if err != nil {
		return fmt.Errorf("put locale %s: %w", locale, err)
	}
	return nil
}

// Prune deletes cache entries for locales not in keep, so renamed or removed
// locale directories don't leave stale rows behind.
func (s *Store) Prune(keep []string) error {
	known := make(map[string]bool, len(keep))
	for _, l := range keep {
		known[l] = true
	}

	rows, err := s.db.Query(`SELECT locale FROM locales`)
	if err != nil {
		return fmt.Errorf("prune: list locales: %w", err)
	}
	var stale []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			rows.Close()
			return fmt.Errorf("prune: scan locale: %w", err)
		}
		if !known[l] {
			stale = append(stale, l)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("prune: %w", err)
	}

	for _, l := range stale {
		if _, err := s.db.Exec(`DELETE FROM locales WHERE locale = ?`, l); err != nil {
			return fmt.Errorf("prune locale %s: %w", l, err)
		}
	}
	return nil
}
