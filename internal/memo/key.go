package memo

import (
	"fmt"
	"strings"
)

// LastUsedShortcut resolves to the most recently read or written key.
const LastUsedShortcut = "-"

// ValidateKey checks the rules for a new key: non-empty, no spaces, and a
// leading ASCII letter.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	if strings.Contains(key, " ") {
		return fmt.Errorf("%w: key cannot contain spaces", ErrInvalidKey)
	}
	c := key[0]
	if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
		return fmt.Errorf("%w: key must start with an alphabetic character", ErrInvalidKey)
	}
	return nil
}
