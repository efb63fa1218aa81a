package repositories

import "errors"

// Errors shared by all repository implementations. Services match on these
// with errors.Is and translate them into their own taxonomy.
var (
	// ErrNotFound is returned when a record does not exist, or when a note
	// exists but belongs to a different owner. The two cases are deliberately
	// indistinguishable.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when a create or update would violate
	// email uniqueness.
	ErrDuplicateEmail = errors.New("email already registered")
)
