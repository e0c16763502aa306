package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/artem13815/animelist/pkg/security/password"
	"github.com/artem13815/animelist/pkg/watchlist"
)

// AuthUseCase describes authentication/registration behavior.
type AuthUseCase interface {
	Register(ctx context.Context, username, password string) (User, error)
	Login(ctx context.Context, username, password string) (Session, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

type authService struct {
	repo     UserRepository
	hasher   password.Hasher
	animes   watchlist.Lister
	tokens   TokenGenerator
	sessions TokenRevoker

	// decoy is checked on unknown usernames so both login failures cost
	// one hash comparison.
	decoy string
}

// NewAuthService returns default implementation of AuthUseCase.
func NewAuthService(repo UserRepository, hasher password.Hasher, animes watchlist.Lister, tokens TokenGenerator, sessions TokenRevoker) AuthUseCase {
	decoy, _ := hasher.Hash("animelist-unknown-user")
	return &authService{repo: repo, hasher: hasher, animes: animes, tokens: tokens, sessions: sessions, decoy: decoy}
}

func (s *authService) Register(ctx context.Context, username, plaintext string) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" || plaintext == "" {
		return User{}, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	if len(plaintext) > MaxPasswordBytes {
		return User{}, fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, MaxPasswordBytes)
	}

	// Fail fast on a taken name; the unique constraint catches the race.
	_, err := s.repo.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return User{}, ErrUserAlreadyExists
	case !errors.Is(err, ErrNotFound):
		return User{}, err
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return User{}, err
	}
	return s.repo.Create(ctx, User{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	})
}

// Login answers ErrInvalidCredentials for both an unknown username and a
// wrong password so callers cannot enumerate accounts.
func (s *authService) Login(ctx context.Context, username, plaintext string) (Session, error) {
	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.hasher.Verify(plaintext, s.decoy)
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if !s.hasher.Verify(plaintext, user.PasswordHash) {
		return Session{}, ErrInvalidCredentials
	}

	items, err := s.animes.ListByUser(ctx, user.ID)
	if err != nil {
		return Session{}, fmt.Errorf("load watchlist: %w", err)
	}
	if items == nil {
		items = []watchlist.Anime{}
	}
	token, err := s.tokens.Generate(ctx, user)
	if err != nil {
		return Session{}, fmt.Errorf("generate token: %w", err)
	}
	return Session{User: user, Token: token, Watchlist: items}, nil
}

func (s *authService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return fmt.Errorf("%w: token has no id", ErrInvalidInput)
	}
	return s.sessions.Revoke(ctx, tokenID, expiresAt)
}
