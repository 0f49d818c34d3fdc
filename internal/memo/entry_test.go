package memo

import (
	"errors"
	"testing"
	"time"
)

func TestEntry_IsExpired(t *testing.T) {
	now := time.Unix(500, 0)

	tests := []struct {
		name  string
		entry Entry
		want  bool
	}{
		{"no_ttl", Entry{Value: "v"}, false},
		{"before_now", NewEntry("v", timePtr(time.Unix(499, 0))), true},
		{"at_now", NewEntry("v", timePtr(time.Unix(500, 0))), true},
		{"after_now", NewEntry("v", timePtr(time.Unix(501, 0))), false},
		{"unparseable", Entry{Value: "v", TTL: strPtr("soon")}, false},
		{"empty_ttl", Entry{Value: "v", TTL: strPtr("")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.IsExpired(now); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntry_NewEntryEncodesEpochSeconds(t *testing.T) {
	e := NewEntry("v", timePtr(time.Unix(1_700_000_123, 999)))
	if e.TTL == nil || *e.TTL != "1700000123" {
		t.Errorf("TTL = %v, want 1700000123", e.TTL)
	}
	if NewEntry("v", nil).TTL != nil {
		t.Error("NewEntry without expiry should have nil TTL")
	}
}

func TestEntry_Remaining(t *testing.T) {
	now := time.Unix(100, 0)
	if _, ok := (Entry{}).Remaining(now); ok {
		t.Error("Remaining() without ttl should report false")
	}
	rem, ok := NewEntry("v", timePtr(time.Unix(90, 0))).Remaining(now)
	if !ok || rem != -10*time.Second {
		t.Errorf("Remaining() = %v, %v, want -10s", rem, ok)
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key   string
		valid bool
	}{
		{"foo", true},
		{"Foo_1", true},
		{"a", true},
		{"", false},
		{"has space", false},
		{"1abc", false},
		{"-", false},
		{"_x", false},
	}

	for _, tt := range tests {
		err := ValidateKey(tt.key)
		if tt.valid && err != nil {
			t.Errorf("ValidateKey(%q) = %v, want nil", tt.key, err)
		}
		if !tt.valid && !errors.Is(err, ErrInvalidKey) {
			t.Errorf("ValidateKey(%q) = %v, want ErrInvalidKey", tt.key, err)
		}
	}
}

func TestIsDomain(t *testing.T) {
	if !IsDomain(ErrNotFound) || !IsDomain(ErrAlreadyExists) || !IsDomain(ValidateKey("")) {
		t.Error("domain outcomes should be classified as domain")
	}
	if IsDomain(ErrIO) || IsDomain(ErrFormat) {
		t.Error("storage failures should not be classified as domain")
	}
}
