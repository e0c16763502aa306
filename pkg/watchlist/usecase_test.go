package watchlist_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/animelist/pkg/auth"
	"github.com/artem13815/animelist/pkg/storage"
	"github.com/artem13815/animelist/pkg/testutil"
	"github.com/artem13815/animelist/pkg/watchlist"
)

func newUser(t *testing.T, store *testutil.Store, name string) int64 {
	t.Helper()
	u, err := store.Create(context.Background(), auth.User{Username: name, PasswordHash: "x"})
	require.NoError(t, err)
	return u.ID
}

func naruto() watchlist.Attributes {
	return watchlist.Attributes{
		SourceID:        20,
		Title:           "Naruto",
		ImageRef:        "/img/naruto.jpg",
		WatchedEpisodes: 0,
		TotalEpisodes:   "220",
	}
}

func TestAdd_LinksAnimeToUser(t *testing.T) {
	store := testutil.NewStore()
	svc := watchlist.NewService(store)
	alice := newUser(t, store, "alice")

	id, err := svc.Add(context.Background(), alice, naruto())
	require.NoError(t, err)
	assert.Positive(t, id)

	items, err := svc.List(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)
	assert.Equal(t, "Naruto", items[0].Title)
	assert.Equal(t, "220", items[0].TotalEpisodes)
	assert.Nil(t, items[0].TitleLocalized)
}

func TestAdd_TrimsAndDropsBlankLocalizedTitle(t *testing.T) {
	store := testutil.NewStore()
	svc := watchlist.NewService(store)
	alice := newUser(t, store, "alice")

	attrs := naruto()
	attrs.Title = "  Naruto  "
	blank := "   "
	attrs.TitleLocalized = &blank

	id, err := svc.Add(context.Background(), alice, attrs)
	require.NoError(t, err)

	got, ok := store.Anime(id)
	require.True(t, ok)
	assert.Equal(t, "Naruto", got.Title)
	assert.Nil(t, got.TitleLocalized)
}

func TestAdd_RejectsInvalidInput(t *testing.T) {
	cases := map[string]func(a *watchlist.Attributes){
		"empty title":      func(a *watchlist.Attributes) { a.Title = " " },
		"empty image":      func(a *watchlist.Attributes) { a.ImageRef = "" },
		"empty total":      func(a *watchlist.Attributes) { a.TotalEpisodes = "" },
		"negative watched": func(a *watchlist.Attributes) { a.WatchedEpisodes = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			store := testutil.NewStore()
			svc := watchlist.NewService(store)
			alice := newUser(t, store, "alice")

			attrs := naruto()
			mutate(&attrs)
			_, err := svc.Add(context.Background(), alice, attrs)
			assert.ErrorIs(t, err, watchlist.ErrInvalidInput)
			assert.Zero(t, store.AnimeCount())
			assert.Zero(t, store.LinkCount())
		})
	}
}

func TestAdd_UnknownUserLeavesNoRows(t *testing.T) {
	store := testutil.NewStore()
	svc := watchlist.NewService(store)

	_, err := svc.Add(context.Background(), 999, naruto())
	assert.ErrorIs(t, err, storage.ErrConstraintViolation)
	assert.Zero(t, store.AnimeCount())
	assert.Zero(t, store.LinkCount())
}

func TestUpdateProgress(t *testing.T) {
	store := testutil.NewStore()
	svc := watchlist.NewService(store)
	alice := newUser(t, store, "alice")
	bob := newUser(t, store, "bob")
	ctx := context.Background()

	id, err := svc.Add(ctx, alice, naruto())
	require.NoError(t, err)

	require.NoError(t, svc.UpdateProgress(ctx, alice, id, 5))
	got, _ := store.Anime(id)
	assert.Equal(t, 5, got.WatchedEpisodes)

	// bob has no link to alice's entry
	assert.ErrorIs(t, svc.UpdateProgress(ctx, bob, id, 100), watchlist.ErrNotFound)
	got, _ = store.Anime(id)
	assert.Equal(t, 5, got.WatchedEpisodes)

	assert.ErrorIs(t, svc.UpdateProgress(ctx, alice, id, -3), watchlist.ErrInvalidInput)
	assert.ErrorIs(t, svc.UpdateProgress(ctx, alice, id+100, 1), watchlist.ErrNotFound)
}

func TestRemove(t *testing.T) {
	store := testutil.NewStore()
	svc := watchlist.NewService(store)
	alice := newUser(t, store, "alice")
	bob := newUser(t, store, "bob")
	ctx := context.Background()

	id, err := svc.Add(ctx, alice, naruto())
	require.NoError(t, err)

	// another user's delete is a no-op
	require.NoError(t, svc.Remove(ctx, bob, id))
	assert.Equal(t, 1, store.AnimeCount())
	assert.Equal(t, 1, store.LinkCount())

	require.NoError(t, svc.Remove(ctx, alice, id))
	assert.Zero(t, store.AnimeCount())
	assert.Zero(t, store.LinkCount())

	// removing again succeeds without changes
	require.NoError(t, svc.Remove(ctx, alice, id))
}

func TestList_EmptyIsNotNil(t *testing.T) {
	store := testutil.NewStore()
	svc := watchlist.NewService(store)
	alice := newUser(t, store, "alice")

	items, err := svc.List(context.Background(), alice)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestList_PropagatesStoreError(t *testing.T) {
	store := testutil.NewStore()
	store.Err = errors.New("connection reset")
	svc := watchlist.NewService(store)

	_, err := svc.List(context.Background(), 1)
	assert.ErrorIs(t, err, store.Err)
}
