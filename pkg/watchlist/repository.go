package watchlist

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("anime not found in watchlist")
	ErrInvalidInput = errors.New("invalid anime input")
)

// Repository is the port for catalog rows and their watchlist links.
type Repository interface {
	// AddForUser inserts the catalog row and its link atomically and returns
	// the new anime id. On any failure neither row exists afterwards.
	AddForUser(ctx context.Context, userID int64, attrs Attributes) (int64, error)
	// UpdateProgress changes watched episodes only on a row linked to
	// userID. Returns ErrNotFound when no such link exists.
	UpdateProgress(ctx context.Context, userID, animeID int64, watched int) error
	// RemoveForUser deletes the link and then the catalog row in one
	// transaction. Removing an unlinked pair is a no-op.
	RemoveForUser(ctx context.Context, userID, animeID int64) error
	ListByUser(ctx context.Context, userID int64) ([]Anime, error)
}

// Lister is the read-only slice of Repository used by login.
type Lister interface {
	ListByUser(ctx context.Context, userID int64) ([]Anime, error)
}
