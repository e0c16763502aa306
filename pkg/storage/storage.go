// Package storage holds the store-level error taxonomy shared by every
// persistence adapter. Callers match these with errors.Is; the wrapped
// driver error stays available for logging but is never shown to clients.
package storage

import "errors"

var (
	// ErrConstraintViolation covers referential-integrity, check and
	// not-null failures reported by the store.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrUniqueViolation is reported when a unique key already exists.
	ErrUniqueViolation = errors.New("unique violation")
	// ErrUnavailable covers connection and transport failures.
	ErrUnavailable = errors.New("store unavailable")
)
