package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/artem13815/animelist/pkg/storage"
)

// SQLSTATE codes the adapters care about.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
	codeCheckViolation      = "23514"
)

// Classify wraps a driver error with the matching storage sentinel so that
// callers can branch on errors.Is without importing pgx. Errors that do not
// map to a sentinel are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s: %w", storage.ErrUniqueViolation, pgErr.ConstraintName, err)
		case codeForeignKeyViolation, codeNotNullViolation, codeCheckViolation:
			return fmt.Errorf("%w: %s: %w", storage.ErrConstraintViolation, pgErr.ConstraintName, err)
		}
		return err
	}
	var connectErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connectErr) || errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}
	return err
}
