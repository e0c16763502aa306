package postgres

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/animelist/pkg/auth"
	"github.com/artem13815/animelist/pkg/storage"
	pgstore "github.com/artem13815/animelist/pkg/storage/postgres"
	"github.com/artem13815/animelist/pkg/watchlist"
)

// These tests run against a real database and are skipped unless
// ANIMELIST_TEST_DATABASE_URL points at a disposable Postgres instance.

var usernameSeq atomic.Int64

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("ANIMELIST_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("ANIMELIST_TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgstore.Connect(ctx, dsn, nil)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, _, err = pgstore.Migrate(ctx, pool)
	require.NoError(t, err)
	return pool
}

// uniqueUsername stays under the 50 character column limit.
func uniqueUsername(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("u%d-%d", time.Now().UnixNano()%1e12, usernameSeq.Add(1))
}

func createUser(t *testing.T, users *UserRepository) auth.User {
	t.Helper()
	u, err := users.Create(context.Background(), auth.User{
		Username:     uniqueUsername(t),
		PasswordHash: "$2a$04$notarealhashbutlongenoughforthecolumn",
		CreatedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NotZero(t, u.ID)
	return u
}

func countRows(t *testing.T, pool *pgxpool.Pool, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, pool.QueryRow(context.Background(), query, args...).Scan(&n))
	return n
}

func sampleAttrs(title string) watchlist.Attributes {
	return watchlist.Attributes{
		SourceID:        5114,
		Title:           title,
		ImageRef:        "https://cdn.example/" + title + ".jpg",
		WatchedEpisodes: 0,
		TotalEpisodes:   "12",
	}
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	pool := testPool(t)
	users := NewUserRepository(pool)
	ctx := context.Background()
	name := uniqueUsername(t)

	_, err := users.Create(ctx, auth.User{Username: name, PasswordHash: "h1", CreatedAt: time.Now()})
	require.NoError(t, err)
	_, err = users.Create(ctx, auth.User{Username: name, PasswordHash: "h2", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, auth.ErrUserAlreadyExists)

	assert.Equal(t, 1, countRows(t, pool, `SELECT count(*) FROM users WHERE username = $1`, name))
}

func TestUserRepository_GetByUsername(t *testing.T) {
	pool := testPool(t)
	users := NewUserRepository(pool)
	created := createUser(t, users)

	got, err := users.GetByUsername(context.Background(), created.Username)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.PasswordHash, got.PasswordHash)

	_, err = users.GetByUsername(context.Background(), "missing-"+uniqueUsername(t))
	assert.ErrorIs(t, err, auth.ErrNotFound)
}

func TestAnimeRepository_AddCreatesRowAndLink(t *testing.T) {
	pool := testPool(t)
	user := createUser(t, NewUserRepository(pool))
	animes := NewAnimeRepository(pool)

	id, err := animes.AddForUser(context.Background(), user.ID, sampleAttrs("Frieren"))
	require.NoError(t, err)

	assert.Equal(t, 1, countRows(t, pool, `SELECT count(*) FROM animes WHERE anime_id = $1`, id))
	assert.Equal(t, 1, countRows(t, pool, `SELECT count(*) FROM watchlist_links WHERE user_id = $1 AND anime_id = $2`, user.ID, id))
}

func TestAnimeRepository_AddRollsBackForUnknownUser(t *testing.T) {
	pool := testPool(t)
	animes := NewAnimeRepository(pool)
	title := uniqueUsername(t)

	_, err := animes.AddForUser(context.Background(), -1, sampleAttrs(title))
	assert.ErrorIs(t, err, storage.ErrConstraintViolation)

	assert.Zero(t, countRows(t, pool, `SELECT count(*) FROM animes WHERE title = $1`, title))
}

func TestAnimeRepository_UpdateProgressIsolation(t *testing.T) {
	pool := testPool(t)
	users := NewUserRepository(pool)
	alice, bob := createUser(t, users), createUser(t, users)
	animes := NewAnimeRepository(pool)
	ctx := context.Background()

	aliceAnime, err := animes.AddForUser(ctx, alice.ID, sampleAttrs("X"))
	require.NoError(t, err)

	err = animes.UpdateProgress(ctx, bob.ID, aliceAnime, 7)
	assert.ErrorIs(t, err, watchlist.ErrNotFound)
	assert.Equal(t, 0, countRows(t, pool, `SELECT watched_episodes FROM animes WHERE anime_id = $1`, aliceAnime))

	require.NoError(t, animes.UpdateProgress(ctx, alice.ID, aliceAnime, 5))
	list, err := animes.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 5, list[0].WatchedEpisodes)
}

func TestAnimeRepository_RemoveIsIdempotentAndScoped(t *testing.T) {
	pool := testPool(t)
	users := NewUserRepository(pool)
	alice, bob := createUser(t, users), createUser(t, users)
	animes := NewAnimeRepository(pool)
	ctx := context.Background()

	id, err := animes.AddForUser(ctx, alice.ID, sampleAttrs("Y"))
	require.NoError(t, err)

	// bob cannot remove alice's entry
	require.NoError(t, animes.RemoveForUser(ctx, bob.ID, id))
	assert.Equal(t, 1, countRows(t, pool, `SELECT count(*) FROM animes WHERE anime_id = $1`, id))

	require.NoError(t, animes.RemoveForUser(ctx, alice.ID, id))
	require.NoError(t, animes.RemoveForUser(ctx, alice.ID, id))

	assert.Zero(t, countRows(t, pool, `SELECT count(*) FROM animes WHERE anime_id = $1`, id))
	assert.Zero(t, countRows(t, pool, `SELECT count(*) FROM watchlist_links WHERE anime_id = $1`, id))
}

func TestAnimeRepository_ListByUserEmpty(t *testing.T) {
	pool := testPool(t)
	user := createUser(t, NewUserRepository(pool))

	list, err := NewAnimeRepository(pool).ListByUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
