// Package testutil provides an in-memory stand-in for the Postgres
// repositories. It mirrors the store's constraints (unique usernames,
// foreign keys, atomic add/remove) so use cases and handlers can be tested
// without a database.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/artem13815/animelist/pkg/auth"
	"github.com/artem13815/animelist/pkg/storage"
	"github.com/artem13815/animelist/pkg/watchlist"
)

type link struct{ userID, animeID int64 }

// Store implements auth.UserRepository and watchlist.Repository.
type Store struct {
	mu     sync.Mutex
	users  map[int64]auth.User
	byName map[string]int64
	animes map[int64]watchlist.Anime
	links  map[link]struct{}
	nextID int64

	// Err, when set, is returned by every call.
	Err error
	// FailLinkInsert makes AddForUser fail after the anime insert, as a
	// foreign key violation would.
	FailLinkInsert bool
}

func NewStore() *Store {
	return &Store{
		users:  make(map[int64]auth.User),
		byName: make(map[string]int64),
		animes: make(map[int64]watchlist.Anime),
		links:  make(map[link]struct{}),
	}
}

func (s *Store) Create(ctx context.Context, user auth.User) (auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return auth.User{}, s.Err
	}
	if _, taken := s.byName[user.Username]; taken {
		return auth.User{}, auth.ErrUserAlreadyExists
	}
	s.nextID++
	user.ID = s.nextID
	s.users[user.ID] = user
	s.byName[user.Username] = user.ID
	return user, nil
}

func (s *Store) GetByUsername(ctx context.Context, username string) (auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return auth.User{}, s.Err
	}
	id, ok := s.byName[username]
	if !ok {
		return auth.User{}, auth.ErrNotFound
	}
	return s.users[id], nil
}

func (s *Store) AddForUser(ctx context.Context, userID int64, attrs watchlist.Attributes) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	// Nothing is written until both steps are known to succeed.
	if _, ok := s.users[userID]; !ok || s.FailLinkInsert {
		return 0, fmt.Errorf("insert watchlist link: %w", storage.ErrConstraintViolation)
	}
	s.nextID++
	id := s.nextID
	s.animes[id] = watchlist.Anime{
		ID:              id,
		SourceID:        attrs.SourceID,
		Title:           attrs.Title,
		TitleLocalized:  attrs.TitleLocalized,
		ImageRef:        attrs.ImageRef,
		WatchedEpisodes: attrs.WatchedEpisodes,
		TotalEpisodes:   attrs.TotalEpisodes,
	}
	s.links[link{userID, id}] = struct{}{}
	return id, nil
}

func (s *Store) UpdateProgress(ctx context.Context, userID, animeID int64, watched int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.links[link{userID, animeID}]; !ok {
		return watchlist.ErrNotFound
	}
	a := s.animes[animeID]
	a.WatchedEpisodes = watched
	s.animes[animeID] = a
	return nil
}

func (s *Store) RemoveForUser(ctx context.Context, userID, animeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	key := link{userID, animeID}
	if _, ok := s.links[key]; !ok {
		return nil
	}
	delete(s.links, key)
	delete(s.animes, animeID)
	return nil
}

func (s *Store) ListByUser(ctx context.Context, userID int64) ([]watchlist.Anime, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	res := []watchlist.Anime{}
	for l := range s.links {
		if l.userID == userID {
			res = append(res, s.animes[l.animeID])
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

// UserCount, AnimeCount and LinkCount expose row counts for assertions.
func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

func (s *Store) AnimeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.animes)
}

func (s *Store) LinkCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.links)
}

// Anime returns the stored row regardless of ownership.
func (s *Store) Anime(id int64) (watchlist.Anime, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.animes[id]
	return a, ok
}

// StoredUser returns the raw user row, including the password hash.
func (s *Store) StoredUser(username string) (auth.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byName[username]
	if !ok {
		return auth.User{}, false
	}
	return s.users[id], true
}
