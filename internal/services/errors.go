package services

import "errors"

// Service-level error taxonomy. Handlers map these onto HTTP statuses with
// errors.Is; only the short messages below ever cross the HTTP boundary.
var (
	// Validation failures (400).
	ErrMissingFields = errors.New("missing required fields")
	ErrEmptyContent  = errors.New("content is required")

	// Authentication failures (401).
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidToken    = errors.New("invalid or expired token")

	// Conflicts (surfaced as 400 per the API contract).
	ErrEmailTaken = errors.New("email already registered")

	// Profile update with neither field supplied (400).
	ErrNothingToUpdate = errors.New("nothing to update")

	// Missing or foreign-owned note (404 on reads, folded into 400 on
	// mutations per the API contract).
	ErrNoteNotFound = errors.New("note not found")
)
