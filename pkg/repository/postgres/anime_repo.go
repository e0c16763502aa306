package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	pgstore "github.com/artem13815/animelist/pkg/storage/postgres"
	"github.com/artem13815/animelist/pkg/watchlist"
)

// AnimeRepository keeps catalog rows (animes) and their membership rows
// (watchlist_links) in step. Writes touching both tables run in one
// transaction.
type AnimeRepository struct {
	pool *pgxpool.Pool
}

func NewAnimeRepository(pool *pgxpool.Pool) *AnimeRepository {
	return &AnimeRepository{pool: pool}
}

func (r *AnimeRepository) AddForUser(ctx context.Context, userID int64, attrs watchlist.Attributes) (int64, error) {
	var animeID int64
	err := pgstore.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
INSERT INTO animes (source_id, title, title_localized, image_ref, watched_episodes, total_episodes)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING anime_id
`, attrs.SourceID, attrs.Title, attrs.TitleLocalized, attrs.ImageRef, attrs.WatchedEpisodes, attrs.TotalEpisodes).Scan(&animeID)
		if err != nil {
			return fmt.Errorf("insert anime: %w", err)
		}
		// A missing user fails here on the foreign key and takes the
		// anime row above down with it.
		_, err = tx.Exec(ctx, `
INSERT INTO watchlist_links (user_id, anime_id)
VALUES ($1, $2)
`, userID, animeID)
		if err != nil {
			return fmt.Errorf("insert watchlist link: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return animeID, nil
}

func (r *AnimeRepository) UpdateProgress(ctx context.Context, userID, animeID int64, watched int) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE animes SET watched_episodes = $1
FROM watchlist_links l
WHERE animes.anime_id = l.anime_id AND l.user_id = $2 AND l.anime_id = $3
`, watched, userID, animeID)
	if err != nil {
		return pgstore.Classify(fmt.Errorf("update progress: %w", err))
	}
	if cmd.RowsAffected() == 0 {
		return watchlist.ErrNotFound
	}
	return nil
}

func (r *AnimeRepository) RemoveForUser(ctx context.Context, userID, animeID int64) error {
	return pgstore.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		// Link first: the foreign key on watchlist_links blocks deleting
		// a still-referenced anime row.
		cmd, err := tx.Exec(ctx, `DELETE FROM watchlist_links WHERE user_id = $1 AND anime_id = $2`, userID, animeID)
		if err != nil {
			return fmt.Errorf("delete watchlist link: %w", err)
		}
		if cmd.RowsAffected() == 0 {
			// Not ours or already gone; never touch another user's row.
			return nil
		}
		if _, err := tx.Exec(ctx, `DELETE FROM animes WHERE anime_id = $1`, animeID); err != nil {
			return fmt.Errorf("delete anime: %w", err)
		}
		return nil
	})
}

func (r *AnimeRepository) ListByUser(ctx context.Context, userID int64) ([]watchlist.Anime, error) {
	rows, err := r.pool.Query(ctx, `
SELECT a.anime_id, a.source_id, a.title, a.title_localized, a.image_ref, a.watched_episodes, a.total_episodes
FROM animes a
INNER JOIN watchlist_links l ON a.anime_id = l.anime_id
WHERE l.user_id = $1
ORDER BY a.anime_id
`, userID)
	if err != nil {
		return nil, pgstore.Classify(fmt.Errorf("list watchlist: %w", err))
	}
	defer rows.Close()
	res := []watchlist.Anime{}
	for rows.Next() {
		var a watchlist.Anime
		if err := rows.Scan(&a.ID, &a.SourceID, &a.Title, &a.TitleLocalized, &a.ImageRef, &a.WatchedEpisodes, &a.TotalEpisodes); err != nil {
			return nil, fmt.Errorf("scan anime: %w", err)
		}
		res = append(res, a)
	}
	if err := rows.Err(); err != nil {
		return nil, pgstore.Classify(err)
	}
	return res, nil
}
