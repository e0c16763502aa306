package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies every pending embedded migration and returns the schema
// version before and after the run.
func Migrate(ctx context.Context, pool *pgxpool.Pool) (from, to int64, err error) {
	subtree, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return 0, 0, fmt.Errorf("migrations subtree: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, subtree)
	if err != nil {
		return 0, 0, fmt.Errorf("goose provider: %w", err)
	}
	from, err = provider.GetDBVersion(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("current schema version: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return from, from, fmt.Errorf("apply migrations: %w", err)
	}
	to, err = provider.GetDBVersion(ctx)
	if err != nil {
		return from, 0, fmt.Errorf("new schema version: %w", err)
	}
	return from, to, nil
}
