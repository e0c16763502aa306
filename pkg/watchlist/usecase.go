package watchlist

import (
	"context"
	"fmt"
	"strings"
)

// UseCase is the user-facing watchlist behaviour.
type UseCase interface {
	Add(ctx context.Context, userID int64, attrs Attributes) (int64, error)
	UpdateProgress(ctx context.Context, userID, animeID int64, watched int) error
	Remove(ctx context.Context, userID, animeID int64) error
	List(ctx context.Context, userID int64) ([]Anime, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) UseCase { return &service{repo: repo} }

func (s *service) Add(ctx context.Context, userID int64, attrs Attributes) (int64, error) {
	attrs.Title = strings.TrimSpace(attrs.Title)
	attrs.ImageRef = strings.TrimSpace(attrs.ImageRef)
	attrs.TotalEpisodes = strings.TrimSpace(attrs.TotalEpisodes)
	if attrs.TitleLocalized != nil {
		localized := strings.TrimSpace(*attrs.TitleLocalized)
		if localized == "" {
			attrs.TitleLocalized = nil
		} else {
			attrs.TitleLocalized = &localized
		}
	}
	switch {
	case attrs.Title == "":
		return 0, fmt.Errorf("%w: title is required", ErrInvalidInput)
	case attrs.ImageRef == "":
		return 0, fmt.Errorf("%w: image_ref is required", ErrInvalidInput)
	case attrs.TotalEpisodes == "":
		return 0, fmt.Errorf("%w: total_episodes is required", ErrInvalidInput)
	case attrs.WatchedEpisodes < 0:
		return 0, fmt.Errorf("%w: watched_episodes must not be negative", ErrInvalidInput)
	}
	return s.repo.AddForUser(ctx, userID, attrs)
}

func (s *service) UpdateProgress(ctx context.Context, userID, animeID int64, watched int) error {
	if watched < 0 {
		return fmt.Errorf("%w: watched_episodes must not be negative", ErrInvalidInput)
	}
	return s.repo.UpdateProgress(ctx, userID, animeID, watched)
}

func (s *service) Remove(ctx context.Context, userID, animeID int64) error {
	return s.repo.RemoveForUser(ctx, userID, animeID)
}

func (s *service) List(ctx context.Context, userID int64) ([]Anime, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Anime{}
	}
	return items, nil
}
