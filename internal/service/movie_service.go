// Package service holds the use cases shared by the REST and GraphQL transports.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rpattn/moviesapi/internal/domain"
	"github.com/rpattn/moviesapi/internal/listing"
	"github.com/rpattn/moviesapi/internal/repository"
	"github.com/rpattn/moviesapi/internal/validation"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// MovieInput is the payload for creating or replacing a movie.
type MovieInput struct {
	Title         string   `json:"title" validate:"required,min=1,max=100,pgtext"`
	YearOfRelease int      `json:"yearOfRelease" validate:"required,gte=1800,lte=9999"`
	Genres        []string `json:"genres" validate:"required,min=1,dive,min=1,max=50,pgtext"`
}

// ListMoviesInput carries raw listing parameters as received by a transport.
type ListMoviesInput struct {
	Title  *string `json:"title" validate:"omitempty,pgtext"`
	Year   *int    `json:"year" validate:"omitempty,gte=-2147483648,lte=2147483647"`
	SortBy string
	Order  string
	First  *int   `json:"first" validate:"omitempty,gte=0,lte=100"`
	After  string `json:"after"`
}

type MovieService struct {
	movies repository.MovieRepository
}

func NewMovieService(movies repository.MovieRepository) *MovieService {
	return &MovieService{movies: movies}
}

func (s *MovieService) Create(ctx context.Context, input MovieInput) (domain.Movie, error) {
	if err := validation.ValidateStruct(input); err != nil {
		return domain.Movie{}, err
	}

	movie, err := domain.NewMovie(input.Title, input.YearOfRelease, input.Genres)
	if err != nil {
		return domain.Movie{}, err
	}

	return s.movies.Create(ctx, movie)
}

// Update replaces every editable attribute of the movie.
func (s *MovieService) Update(ctx context.Context, id uuid.UUID, input MovieInput, userID *uuid.UUID) (domain.Movie, error) {
	if err := validation.ValidateStruct(input); err != nil {
		return domain.Movie{}, err
	}

	current, err := s.movies.GetByID(ctx, id, userID)
	if err != nil {
		return domain.Movie{}, err
	}

	return s.movies.Update(ctx, current.WithDetails(input.Title, input.YearOfRelease, input.Genres), userID)
}

func (s *MovieService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.movies.Delete(ctx, id)
}

// Get looks the movie up by id when idOrSlug parses as a uuid, by slug otherwise.
func (s *MovieService) Get(ctx context.Context, idOrSlug string, userID *uuid.UUID) (domain.Movie, error) {
	if id, err := uuid.Parse(idOrSlug); err == nil {
		return s.movies.GetByID(ctx, id, userID)
	}
	return s.movies.GetBySlug(ctx, idOrSlug, userID)
}

// GetByIDs backs the per-request movie loader.
func (s *MovieService) GetByIDs(ctx context.Context, ids []uuid.UUID, userID *uuid.UUID) ([]domain.Movie, error) {
	return s.movies.GetByIDs(ctx, ids, userID)
}

// List validates the raw parameters and returns one keyset page.
func (s *MovieService) List(ctx context.Context, input ListMoviesInput, userID *uuid.UUID) (domain.MovieConnection, error) {
	q, err := ParseListQuery(input)
	if err != nil {
		return domain.MovieConnection{}, err
	}
	q.UserID = userID
	return s.movies.List(ctx, q)
}

// ParseListQuery turns raw parameters into a listing query. Every failure is a
// *validation.RequestValidationError naming the offending parameter.
func ParseListQuery(input ListMoviesInput) (listing.Query, error) {
	if err := validation.ValidateStruct(input); err != nil {
		return listing.Query{}, err
	}

	field, err := domain.ParseMovieSortField(input.SortBy)
	if err != nil {
		return listing.Query{}, validation.NewFieldError("sortBy", "sortBy must be one of: title year")
	}
	direction, err := domain.ParseSortDirection(input.Order)
	if err != nil {
		return listing.Query{}, validation.NewFieldError("order", "order must be one of: asc desc")
	}

	q := listing.Query{
		Filter: domain.MovieFilter{Title: input.Title, Year: input.Year},
		Sort:   domain.MovieSort{Field: field, Direction: direction},
		First:  DefaultPageSize,
	}
	if input.First != nil {
		q.First = *input.First
	}

	if input.After != "" {
		cursor, err := listing.DecodeCursor(input.After)
		if err != nil {
			return listing.Query{}, validation.NewFieldError("after", fmt.Sprintf("after is not a valid cursor: %v", err))
		}
		q.After = &cursor
	}

	return q, nil
}
