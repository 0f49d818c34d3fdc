package memo

import (
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Backend loads and saves the whole document at one fixed location.
type Backend interface {
	// Location returns where the document lives, for diagnostics.
	Location() string

	// Load reads the document, creating an empty one if none exists yet.
	// Failures wrap ErrIO or ErrFormat.
	Load() (*Document, error)

	// Save overwrites the stored document entirely. Failures wrap ErrIO.
	Save(doc *Document) error

	// Close releases any resources held by the backend.
	Close() error
}

// Store is the in-memory view of one backing document. Every successful
// mutation, and every successful Get, is written through to the backend.
//
// A Store is not safe for concurrent use and assumes it is the only writer of
// its backing location for the duration of one invocation.
type Store struct {
	backend Backend
	doc     *Document
}

// Open loads the store from backend.
func Open(backend Backend) (*Store, error) {
	doc, err := backend.Load()
	if err != nil {
		return nil, err
	}
	doc.Normalize()

	log.Debug().
		Str("location", backend.Location()).
		Int("entries", len(doc.Entries)).
		Msg("Loaded memo store")

	return &Store{backend: backend, doc: doc}, nil
}

// Save writes the full in-memory state to the backend.
func (s *Store) Save() error {
	return s.backend.Save(s.doc)
}

// SweepExpired removes every entry whose expiry has been reached at now and
// persists the result, even when nothing was removed.
func (s *Store) SweepExpired(now time.Time) (int, error) {
	removed := 0
	for key, entry := range s.doc.Entries {
		if entry.IsExpired(now) {
			delete(s.doc.Entries, key)
			removed++
		}
	}

	if removed > 0 {
		log.Debug().Int("count", removed).Msg("Swept expired entries")
	}

	return removed, s.Save()
}

// ResolveKey maps the "-" shortcut to the last-used key. Any other key, or
// "-" with no last-used key recorded, is returned unchanged.
func (s *Store) ResolveKey(key string) string {
	if key == LastUsedShortcut && s.doc.Meta.LastKeyUsed != nil {
		return *s.doc.Meta.LastKeyUsed
	}
	return key
}

// LastKeyUsed returns the last read or written key, if any.
func (s *Store) LastKeyUsed() (string, bool) {
	if s.doc.Meta.LastKeyUsed == nil {
		return "", false
	}
	return *s.doc.Meta.LastKeyUsed, true
}

// Add inserts a new entry. It never overwrites: an existing key yields
// ErrAlreadyExists and leaves the store untouched. The key is taken literally.
func (s *Store) Add(key, value string, expiresAt *time.Time) error {
	if _, ok := s.doc.Entries[key]; ok {
		return ErrAlreadyExists
	}

	s.doc.Entries[key] = NewEntry(value, expiresAt)
	s.touch(key)

	log.Debug().Str("key", key).Bool("ttl", expiresAt != nil).Msg("Added entry")
	return s.Save()
}

// Set updates an existing entry. value and expiresAt are applied
// independently, only when non-nil. The key is recorded as last used even if
// nothing changed. Returns the resolved key.
func (s *Store) Set(key string, value *string, expiresAt *time.Time) (string, error) {
	key = s.ResolveKey(key)

	entry, ok := s.doc.Entries[key]
	if !ok {
		return key, ErrNotFound
	}

	if value != nil {
		entry.Value = *value
	}
	if expiresAt != nil {
		entry.TTL = formatTTL(expiresAt)
	}
	s.doc.Entries[key] = entry
	s.touch(key)

	log.Debug().
		Str("key", key).
		Bool("value", value != nil).
		Bool("ttl", expiresAt != nil).
		Msg("Set entry")
	return key, s.Save()
}

// Remove deletes an entry. The last-used key is left alone, even when it
// named the removed entry. Returns the resolved key.
func (s *Store) Remove(key string) (string, error) {
	key = s.ResolveKey(key)

	if _, ok := s.doc.Entries[key]; !ok {
		return key, ErrNotFound
	}
	delete(s.doc.Entries, key)

	log.Debug().Str("key", key).Msg("Removed entry")
	return key, s.Save()
}

// Get returns an entry and records its key as last used, which rewrites the
// backing document. Returns the resolved key.
func (s *Store) Get(key string) (string, Entry, error) {
	key = s.ResolveKey(key)

	entry, ok := s.doc.Entries[key]
	if !ok {
		return key, Entry{}, ErrNotFound
	}
	s.touch(key)

	if err := s.Save(); err != nil {
		return key, Entry{}, err
	}
	return key, entry, nil
}

// List returns all entries ordered by key. It has no side effects.
func (s *Store) List() []Item {
	items := make([]Item, 0, len(s.doc.Entries))
	for key, entry := range s.doc.Entries {
		items = append(items, Item{Key: key, Entry: entry})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })
	return items
}

// Keys returns all keys in sorted order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.doc.Entries))
	for key := range s.doc.Entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Complete returns the keys starting with prefix.
func (s *Store) Complete(prefix string) []string {
	var matches []string
	for _, key := range s.Keys() {
		if strings.HasPrefix(key, prefix) {
			matches = append(matches, key)
		}
	}
	return matches
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.doc.Entries)
}

func (s *Store) touch(key string) {
	k := key
	s.doc.Meta.LastKeyUsed = &k
}
