package listing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rpattn/moviesapi/internal/domain"
)

const movieViewColumns = `m.id, m.slug, m.title, m.year_of_release,
       COALESCE(g.genres, '{}'::text[]) AS genres,
       r.rating,
       ur.rating AS user_rating`

// SelectMovieView renders the aggregation view for alias "m": genres, average rating and
// the rating of userID. A nil userID leaves user_rating NULL.
func SelectMovieView(b *SQLBuilder, userID *uuid.UUID) string {
	var user any
	if userID != nil {
		user = userID.String()
	}

	return fmt.Sprintf(`SELECT %s
FROM movies m
LEFT JOIN LATERAL (
    SELECT array_agg(gn.name ORDER BY gn.name) AS genres
    FROM genres gn
    WHERE gn.movie_id = m.id
) g ON TRUE
LEFT JOIN LATERAL (
    SELECT round(avg(rt.rating), 1)::float8 AS rating
    FROM ratings rt
    WHERE rt.movie_id = m.id
) r ON TRUE
LEFT JOIN ratings ur ON ur.movie_id = m.id AND ur.user_id = %s::uuid`, movieViewColumns, b.Bind(user))
}

// ScanMovie reads one row of the aggregation view.
func ScanMovie(row pgx.Row) (domain.Movie, error) {
	var (
		movie      domain.Movie
		year       int32
		rating     pgtype.Float8
		userRating pgtype.Int4
	)

	if err := row.Scan(&movie.ID, &movie.Slug, &movie.Title, &year, &movie.Genres, &rating, &userRating); err != nil {
		return domain.Movie{}, err
	}

	movie.YearOfRelease = int(year)
	if movie.Genres == nil {
		movie.Genres = []string{}
	}
	if rating.Valid {
		value := rating.Float64
		movie.Rating = &value
	}
	if userRating.Valid {
		value := int(userRating.Int32)
		movie.UserRating = &value
	}

	return movie, nil
}

// CollectMovies scans every row of the aggregation view and closes rows.
func CollectMovies(rows pgx.Rows) ([]domain.Movie, error) {
	defer rows.Close()

	movies := make([]domain.Movie, 0)
	for rows.Next() {
		movie, err := ScanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate movies: %w", err)
	}

	return movies, nil
}
