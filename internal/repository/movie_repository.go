package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rpattn/moviesapi/internal/db"
	"github.com/rpattn/moviesapi/internal/domain"
	"github.com/rpattn/moviesapi/internal/listing"
	"github.com/rpattn/moviesapi/internal/logging"
	"github.com/rpattn/moviesapi/internal/metrics"
)

// movieRepository implements MovieRepository on Postgres
type movieRepository struct {
	conn    *db.Connection
	fetcher *listing.Fetcher
}

// NewMovieRepository creates a new movie repository
func NewMovieRepository(conn *db.Connection) MovieRepository {
	return &movieRepository{
		conn:    conn,
		fetcher: listing.NewFetcher(conn.Pool),
	}
}

// Create inserts the movie and its genres in one transaction.
// A movie with the same slug yields ErrConflict.
func (r *movieRepository) Create(ctx context.Context, movie domain.Movie) (domain.Movie, error) {
	start := time.Now()
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM movies WHERE slug = $1)`, movie.Slug).Scan(&exists); err != nil {
			return translateError("check movie slug", err)
		}
		if exists {
			return fmt.Errorf("movie with slug %q: %w", movie.Slug, domain.ErrConflict)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO movies (id, slug, title, year_of_release) VALUES ($1, $2, $3, $4)`,
			movie.ID, movie.Slug, movie.Title, movie.YearOfRelease,
		); err != nil {
			return translateError("create movie", err)
		}

		return insertGenres(ctx, tx, movie.ID, movie.Genres)
	})
	metrics.RecordDBQuery("create", "movies", time.Since(start), err)
	if err != nil {
		return domain.Movie{}, err
	}

	logging.Ctx(ctx).Info().Str("movie_id", movie.ID.String()).Str("slug", movie.Slug).Msg("movie created")

	movie.Rating = nil
	movie.UserRating = nil
	return movie, nil
}

// Update replaces title, slug, year and genres, then reads the movie back.
func (r *movieRepository) Update(ctx context.Context, movie domain.Movie, userID *uuid.UUID) (domain.Movie, error) {
	start := time.Now()
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE movies SET slug = $2, title = $3, year_of_release = $4 WHERE id = $1`,
			movie.ID, movie.Slug, movie.Title, movie.YearOfRelease,
		)
		if err != nil {
			return translateError("update movie", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("movie %s: %w", movie.ID, domain.ErrNotFound)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM genres WHERE movie_id = $1`, movie.ID); err != nil {
			return translateError("clear genres", err)
		}

		return insertGenres(ctx, tx, movie.ID, movie.Genres)
	})
	metrics.RecordDBQuery("update", "movies", time.Since(start), err)
	if err != nil {
		return domain.Movie{}, err
	}

	logging.Ctx(ctx).Info().Str("movie_id", movie.ID.String()).Msg("movie updated")

	return r.GetByID(ctx, movie.ID, userID)
}

// Delete removes the movie; genres and ratings cascade.
func (r *movieRepository) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
		if err != nil {
			return translateError("delete movie", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("movie %s: %w", id, domain.ErrNotFound)
		}
		return nil
	})
	metrics.RecordDBQuery("delete", "movies", time.Since(start), err)
	if err != nil {
		return err
	}

	logging.Ctx(ctx).Info().Str("movie_id", id.String()).Msg("movie deleted")
	return nil
}

// GetByID retrieves one movie through the aggregation view
func (r *movieRepository) GetByID(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (domain.Movie, error) {
	return r.getOne(ctx, "get_by_id", "m.id = %s::uuid", id.String(), userID)
}

// GetBySlug retrieves the first movie with the slug, oldest id first.
func (r *movieRepository) GetBySlug(ctx context.Context, slug string, userID *uuid.UUID) (domain.Movie, error) {
	return r.getOne(ctx, "get_by_slug", "m.slug = %s", slug, userID)
}

func (r *movieRepository) getOne(ctx context.Context, op, predicate string, value any, userID *uuid.UUID) (domain.Movie, error) {
	b := listing.NewSQLBuilder()
	sql := listing.SelectMovieView(b, userID) +
		"\nWHERE " + fmt.Sprintf(predicate, b.Bind(value)) +
		"\nORDER BY m.id ASC LIMIT 1"

	start := time.Now()
	movie, err := listing.ScanMovie(r.conn.Pool.QueryRow(ctx, sql, b.Args()...))
	metrics.RecordDBQuery(op, "movies", time.Since(start), err)
	if err != nil {
		return domain.Movie{}, translateError("get movie", err)
	}
	return movie, nil
}

// GetByIDs returns the movies that exist among ids, in no particular order.
func (r *movieRepository) GetByIDs(ctx context.Context, ids []uuid.UUID, userID *uuid.UUID) ([]domain.Movie, error) {
	if len(ids) == 0 {
		return []domain.Movie{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	b := listing.NewSQLBuilder()
	sql := listing.SelectMovieView(b, userID) + "\nWHERE m.id = ANY(" + b.Bind(keys) + "::uuid[])"

	start := time.Now()
	rows, err := r.conn.Pool.Query(ctx, sql, b.Args()...)
	if err != nil {
		metrics.RecordDBQuery("get_by_ids", "movies", time.Since(start), err)
		return nil, translateError("get movies by ids", err)
	}

	movies, err := listing.CollectMovies(rows)
	metrics.RecordDBQuery("get_by_ids", "movies", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return movies, nil
}

func (r *movieRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM movies WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, translateError("check movie exists", err)
	}
	return exists, nil
}

func (r *movieRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.conn.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM movies WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, translateError("check movie slug", err)
	}
	return exists, nil
}

// List returns one keyset page of movies.
func (r *movieRepository) List(ctx context.Context, q listing.Query) (domain.MovieConnection, error) {
	conn, err := r.fetcher.List(ctx, q)
	if err != nil {
		return domain.MovieConnection{}, err
	}
	metrics.RecordListingPage(len(conn.Edges))
	return conn, nil
}

func insertGenres(ctx context.Context, tx pgx.Tx, movieID uuid.UUID, genres []string) error {
	if len(genres) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO genres (movie_id, name) SELECT $1::uuid, g FROM unnest($2::text[]) AS g ON CONFLICT DO NOTHING`,
		movieID, genres,
	)
	if err != nil {
		return translateError("insert genres", err)
	}
	return nil
}
