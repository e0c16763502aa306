package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/animelist/pkg/auth"
	"github.com/artem13815/animelist/pkg/storage"
	pgstore "github.com/artem13815/animelist/pkg/storage/postgres"
)

// UserRepository implements auth.UserRepository backed by PostgreSQL (pgx).
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user auth.User) (auth.User, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, created_at)
		VALUES ($1, $2, $3)
		RETURNING user_id
	`, user.Username, user.PasswordHash, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		err = pgstore.Classify(err)
		if errors.Is(err, storage.ErrUniqueViolation) {
			return auth.User{}, auth.ErrUserAlreadyExists
		}
		return auth.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (auth.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT user_id, username, password_hash, created_at
		FROM users WHERE username = $1
	`, username)
	var user auth.User
	var createdAt time.Time
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.User{}, auth.ErrNotFound
		}
		return auth.User{}, pgstore.Classify(err)
	}
	user.CreatedAt = createdAt.UTC()
	return user, nil
}
