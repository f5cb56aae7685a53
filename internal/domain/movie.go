package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Movie is the aggregated read model of a movie. Rating and UserRating are
// computed on every read and never stored on the movie row.
type Movie struct {
	ID            uuid.UUID `json:"id"`
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	YearOfRelease int       `json:"yearOfRelease"`
	Genres        []string  `json:"genres"`
	Rating        *float64  `json:"rating"`
	UserRating    *int      `json:"userRating"`
}

// NewMovie creates a movie with a time-ordered identifier and a slug derived from the title.
func NewMovie(title string, yearOfRelease int, genres []string) (Movie, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Movie{}, fmt.Errorf("failed to generate movie id: %w", err)
	}

	return Movie{
		ID:            id,
		Slug:          Slugify(title),
		Title:         title,
		YearOfRelease: yearOfRelease,
		Genres:        normalizeGenres(genres),
	}, nil
}

// WithDetails returns a copy of the movie with title, slug, year and genres replaced.
func (m Movie) WithDetails(title string, yearOfRelease int, genres []string) Movie {
	return Movie{
		ID:            m.ID,
		Slug:          Slugify(title),
		Title:         title,
		YearOfRelease: yearOfRelease,
		Genres:        normalizeGenres(genres),
		Rating:        m.Rating,
		UserRating:    m.UserRating,
	}
}

// Slugify lowercases the title and joins its words with dashes.
func Slugify(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), "-")
}

// normalizeGenres drops duplicates while keeping first-seen order.
func normalizeGenres(genres []string) []string {
	seen := make(map[string]struct{}, len(genres))
	result := make([]string, 0, len(genres))
	for _, genre := range genres {
		if _, ok := seen[genre]; ok {
			continue
		}
		seen[genre] = struct{}{}
		result = append(result, genre)
	}
	return result
}
