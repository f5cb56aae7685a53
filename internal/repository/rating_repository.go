package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rpattn/moviesapi/internal/db"
	"github.com/rpattn/moviesapi/internal/domain"
	"github.com/rpattn/moviesapi/internal/logging"
	"github.com/rpattn/moviesapi/internal/metrics"
)

// ratingRepository implements RatingRepository on Postgres
type ratingRepository struct {
	conn *db.Connection
}

// NewRatingRepository creates a new rating repository
func NewRatingRepository(conn *db.Connection) RatingRepository {
	return &ratingRepository{conn: conn}
}

// Rate stores the user's rating, replacing any earlier one. A missing movie yields ErrNotFound.
func (r *ratingRepository) Rate(ctx context.Context, rating domain.Rating) (domain.Rating, error) {
	start := time.Now()
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM movies WHERE id = $1)`, rating.MovieID).Scan(&exists); err != nil {
			return translateError("check movie exists", err)
		}
		if !exists {
			return fmt.Errorf("movie %s: %w", rating.MovieID, domain.ErrNotFound)
		}

		_, err := tx.Exec(ctx,
			`INSERT INTO ratings (movie_id, user_id, rating) VALUES ($1, $2, $3)
ON CONFLICT (movie_id, user_id) DO UPDATE SET rating = EXCLUDED.rating`,
			rating.MovieID, rating.UserID, rating.Rating,
		)
		if err != nil {
			return translateError("rate movie", err)
		}
		return nil
	})
	metrics.RecordDBQuery("rate", "ratings", time.Since(start), err)
	if err != nil {
		return domain.Rating{}, err
	}

	metrics.RecordRatingWrite("rate")
	logging.Ctx(ctx).Debug().
		Str("movie_id", rating.MovieID.String()).
		Str("user_id", rating.UserID.String()).
		Int("rating", rating.Rating).
		Msg("movie rated")

	return rating, nil
}

// Delete removes the user's rating of the movie, or returns ErrNotFound when there was none.
func (r *ratingRepository) Delete(ctx context.Context, movieID, userID uuid.UUID) error {
	start := time.Now()
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM ratings WHERE movie_id = $1 AND user_id = $2`, movieID, userID)
		if err != nil {
			return translateError("delete rating", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("rating of movie %s: %w", movieID, domain.ErrNotFound)
		}
		return nil
	})
	metrics.RecordDBQuery("delete", "ratings", time.Since(start), err)
	if err != nil {
		return err
	}

	metrics.RecordRatingWrite("delete")
	return nil
}

// ListForUser returns every rating of the user with the rated movie's slug.
func (r *ratingRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.UserRating, error) {
	start := time.Now()
	rows, err := r.conn.Pool.Query(ctx, `SELECT r.movie_id, m.slug, r.rating
FROM ratings r
JOIN movies m ON m.id = r.movie_id
WHERE r.user_id = $1
ORDER BY m.slug ASC, r.movie_id ASC`, userID)
	if err != nil {
		metrics.RecordDBQuery("list_for_user", "ratings", time.Since(start), err)
		return nil, translateError("list ratings", err)
	}

	ratings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.UserRating, error) {
		var (
			rating domain.UserRating
			value  int32
		)
		err := row.Scan(&rating.MovieID, &rating.Slug, &value)
		rating.Rating = int(value)
		return rating, err
	})
	metrics.RecordDBQuery("list_for_user", "ratings", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to scan ratings: %w", err)
	}

	return ratings, nil
}
