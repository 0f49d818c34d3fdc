package memo

import "errors"

// Fatal errors. These abort the invocation.
var (
	ErrIO     = errors.New("storage i/o failed")
	ErrFormat = errors.New("invalid store format")
)

// Domain outcomes. These are reported to the user and never abort.
var (
	ErrAlreadyExists = errors.New("key already exists")
	ErrNotFound      = errors.New("no value found")
	ErrInvalidKey    = errors.New("invalid key")
)

// IsDomain reports whether err is an expected user-level outcome rather than a
// storage failure.
func IsDomain(err error) bool {
	return errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidKey)
}
