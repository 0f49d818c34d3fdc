package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/memo/internal/db"
	"github.com/dokzlo13/memo/internal/memo"
)

const metaLastKeyUsed = "last_key_used"

// SQLite keeps the document in a SQLite database. Save still rewrites every
// row, inside one transaction.
type SQLite struct {
	path string
	db   *db.DB
}

// NewSQLite creates a backend bound to the database file at path.
// The database is opened by Load.
func NewSQLite(path string) *SQLite {
	return &SQLite{path: path}
}

// Location returns the database path.
func (s *SQLite) Location() string {
	return s.path
}

// Load opens the database, creating the file and schema if needed, and reads
// the document.
func (s *SQLite) Load() (*memo.Document, error) {
	if err := s.open(); err != nil {
		return nil, err
	}

	doc := memo.NewDocument()

	rows, err := s.db.Query(`SELECT key, value, ttl FROM memo_entries`)
	if err != nil {
		return nil, s.wrap("failed to query entries", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		var ttl sql.NullString
		if err := rows.Scan(&key, &value, &ttl); err != nil {
			return nil, s.wrap("failed to scan entry", err)
		}
		entry := memo.Entry{Value: value}
		if ttl.Valid {
			t := ttl.String
			entry.TTL = &t
		}
		doc.Entries[key] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap("failed to read entries", err)
	}

	var last sql.NullString
	err = s.db.QueryRow(`SELECT value FROM memo_meta WHERE name = ?`, metaLastKeyUsed).Scan(&last)
	if err != nil && err != sql.ErrNoRows {
		return nil, s.wrap("failed to read metadata", err)
	}
	if last.Valid {
		k := last.String
		doc.Meta.LastKeyUsed = &k
	}

	doc.Normalize()
	return doc, nil
}

// Save replaces every stored row with the contents of doc.
func (s *SQLite) Save(doc *memo.Document) error {
	if err := s.open(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return s.wrap("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM memo_entries`); err != nil {
		return s.wrap("failed to clear entries", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO memo_entries (key, value, ttl) VALUES (?, ?, ?)`)
	if err != nil {
		return s.wrap("failed to prepare insert", err)
	}
	defer stmt.Close()

	for key, entry := range doc.Entries {
		var ttl sql.NullString
		if entry.TTL != nil {
			ttl = sql.NullString{String: *entry.TTL, Valid: true}
		}
		if _, err := stmt.Exec(key, entry.Value, ttl); err != nil {
			return s.wrap("failed to insert entry", err)
		}
	}

	var last sql.NullString
	if doc.Meta.LastKeyUsed != nil {
		last = sql.NullString{String: *doc.Meta.LastKeyUsed, Valid: true}
	}
	_, err = tx.Exec(`
		INSERT INTO memo_meta (name, value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value
	`, metaLastKeyUsed, last)
	if err != nil {
		return s.wrap("failed to store metadata", err)
	}

	if err := tx.Commit(); err != nil {
		return s.wrap("failed to commit", err)
	}
	return nil
}

// Close closes the database if it was opened.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLite) open() error {
	if s.db != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: %s: %v", memo.ErrIO, s.path, err)
	}

	conn, err := db.Open(s.path)
	if err != nil {
		return s.wrap("failed to open store", err)
	}
	s.db = conn

	log.Debug().Str("path", s.path).Msg("Opened SQLite memo store")
	return nil
}

// wrap classifies a driver error: a file that is not a database is a format
// error, everything else is i/o.
func (s *SQLite) wrap(msg string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrNotADB {
		return fmt.Errorf("%w: %s: %s: %v", memo.ErrFormat, s.path, msg, err)
	}
	return fmt.Errorf("%w: %s: %s: %v", memo.ErrIO, s.path, msg, err)
}
