package auth

import (
	"context"
	"errors"
)

// Common errors used by repository/use cases
var (
	ErrNotFound           = errors.New("not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
)

// UserRepository abstracts persistence concerns from the domain layer.
type UserRepository interface {
	// Create stores the user and returns it with the generated ID set.
	// Returns ErrUserAlreadyExists when the username is taken.
	Create(ctx context.Context, user User) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
}
