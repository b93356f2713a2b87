// Package storage persists chess games in a dimensional star schema backed
// by an embedded SQLite database. Six dimensions (player, date, event,
// result, source, opening) are resolved with get-or-create semantics; each
// loaded game appends exactly one fact row.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Store handles all star-schema database operations. Writes are synchronous;
// the design assumes a single writer process (scheduled-batch usage).
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens the SQLite database at dataSourceName, creating parent
// directories for file-backed paths
func NewStore(dataSourceName string) (*Store, error) {
	if dir := filepath.Dir(dataSourceName); dataSourceName != ":memory:" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Single connection: the store is single-writer, and it keeps
	// :memory: databases on one coherent connection
	db.SetMaxOpenConns(1)

	return &Store{db: db, path: dataSourceName}, nil
}

// InitDB creates the star-schema tables if missing and seeds dim_source with
// the known platforms. Safe to invoke repeatedly.
func (s *Store) InitDB() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, ddl := range allDDL {
		if _, err := tx.Exec(ddl); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	for _, source := range seededSources {
		if _, err := getOrCreateSource(tx, source); err != nil {
			return fmt.Errorf("failed to seed source %q: %w", source, err)
		}
	}

	return tx.Commit()
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DeleteDB removes the database file
func (s *Store) DeleteDB() error {
	// Close connection first
	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	// ☣ DESTRUCTIVE: Removes database file
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete database file: %w", err)
	}

	return nil
}
