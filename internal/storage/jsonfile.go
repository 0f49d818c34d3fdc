// Package storage provides the backends a memo.Store persists through.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/memo/internal/memo"
)

// JSONFile keeps the whole document in one pretty-printed JSON file.
type JSONFile struct {
	path string
}

// NewJSONFile creates a backend bound to path.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Location returns the file path.
func (f *JSONFile) Location() string {
	return f.path
}

// Load reads the document. A missing file is created, together with its
// directory, holding an empty document, and then read back.
func (f *JSONFile) Load() (*memo.Document, error) {
	if err := f.ensure(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", memo.ErrIO, f.path, err)
	}

	var doc memo.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", memo.ErrFormat, f.path, err)
	}
	doc.Normalize()
	return &doc, nil
}

// Save replaces the file with doc. The document is written to a temp file in
// the same directory and renamed over the target.
func (f *JSONFile) Save(doc *memo.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", memo.ErrIO, f.path, err)
	}
	return writeAtomic(f.path, data)
}

// Close is a no-op; the file is not held open between operations.
func (f *JSONFile) Close() error {
	return nil
}

func (f *JSONFile) ensure() error {
	_, err := os.Stat(f.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s: %v", memo.ErrIO, f.path, err)
	}

	log.Debug().Str("path", f.path).Msg("Creating empty memo store")
	return f.Save(memo.NewDocument())
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %v", memo.ErrIO, path, err)
	}

	// The replacement keeps the existing file's permissions.
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, ".memo-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", memo.ErrIO, path, err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", memo.ErrIO, path, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", memo.ErrIO, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", memo.ErrIO, path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", memo.ErrIO, path, err)
	}
	return nil
}
