// Package memo implements the local key-value store: its data model, the
// expiry sweep, "-" key resolution and the write-through mutation protocol.
package memo

import (
	"strconv"
	"time"
)

// Entry is one stored value.
type Entry struct {
	Value string  `json:"value"`
	TTL   *string `json:"ttl"` // absolute expiry in epoch seconds; nil means never
}

// NewEntry creates an entry, encoding expiresAt as epoch seconds when given.
func NewEntry(value string, expiresAt *time.Time) Entry {
	return Entry{Value: value, TTL: formatTTL(expiresAt)}
}

// ExpiresAt returns the parsed expiry instant.
// The second return is false when there is no TTL or it does not parse.
func (e Entry) ExpiresAt() (time.Time, bool) {
	if e.TTL == nil {
		return time.Time{}, false
	}
	secs, err := strconv.ParseInt(*e.TTL, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(secs, 0), true
}

// IsExpired reports whether the entry's expiry has been reached at now.
// Unparseable TTLs never expire.
func (e Entry) IsExpired(now time.Time) bool {
	exp, ok := e.ExpiresAt()
	if !ok {
		return false
	}
	return exp.Unix() <= now.Unix()
}

// Remaining returns ttl - now, truncated to whole seconds.
func (e Entry) Remaining(now time.Time) (time.Duration, bool) {
	exp, ok := e.ExpiresAt()
	if !ok {
		return 0, false
	}
	return time.Duration(exp.Unix()-now.Unix()) * time.Second, true
}

// Metadata is process-wide convenience state persisted with the entries.
type Metadata struct {
	LastKeyUsed *string `json:"last_key_used"`
}

// Document is the unit a Backend loads and saves.
type Document struct {
	Entries map[string]Entry `json:"store"`
	Meta    Metadata         `json:"meta"`
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{Entries: make(map[string]Entry)}
}

// Normalize fills a nil entry map and drops an empty last-used key, which older
// files wrote instead of null.
func (d *Document) Normalize() {
	if d.Entries == nil {
		d.Entries = make(map[string]Entry)
	}
	if d.Meta.LastKeyUsed != nil && *d.Meta.LastKeyUsed == "" {
		d.Meta.LastKeyUsed = nil
	}
}

// Item is one listed key/entry pair.
type Item struct {
	Key   string
	Entry Entry
}

func formatTTL(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := strconv.FormatInt(t.Unix(), 10)
	return &s
}
