// Package db provides the SQLite connection and schema for the sqlite store backend.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQLite database connection
type DB struct {
	*sql.DB
}

// Open opens the database and initializes the schema
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &DB{db}, nil
}

// initSchema creates all required tables
func initSchema(db *sql.DB) error {
	// Entries - ttl is epoch seconds as text, NULL = never expires
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS memo_entries (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			ttl TEXT
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create memo_entries table: %w", err)
	}

	// Metadata - one row per named field (last_key_used)
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS memo_meta (
			name TEXT PRIMARY KEY,
			value TEXT
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create memo_meta table: %w", err)
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
