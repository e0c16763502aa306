package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/artem13815/animelist/pkg/storage"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unique", &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}, storage.ErrUniqueViolation},
		{"foreign key", &pgconn.PgError{Code: "23503"}, storage.ErrConstraintViolation},
		{"check", &pgconn.PgError{Code: "23514"}, storage.ErrConstraintViolation},
		{"not null", &pgconn.PgError{Code: "23502"}, storage.ErrConstraintViolation},
		{"wrapped", fmt.Errorf("insert link: %w", &pgconn.PgError{Code: "23503"}), storage.ErrConstraintViolation},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), storage.ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, tt.err, "driver error must stay in the chain")
		})
	}
}

func TestClassify_PassThrough(t *testing.T) {
	assert.NoError(t, Classify(nil))
	assert.Equal(t, pgx.ErrNoRows, Classify(pgx.ErrNoRows))

	syntax := &pgconn.PgError{Code: "42601"}
	got := Classify(syntax)
	assert.False(t, errors.Is(got, storage.ErrConstraintViolation))
	assert.False(t, errors.Is(got, storage.ErrUnavailable))
}
