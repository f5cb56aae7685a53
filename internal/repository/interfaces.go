package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/rpattn/moviesapi/internal/domain"
	"github.com/rpattn/moviesapi/internal/listing"
)

// MovieRepository defines the interface for movie operations.
// Reads take the requesting user so userRating can be filled; nil means anonymous.
type MovieRepository interface {
	Create(ctx context.Context, movie domain.Movie) (domain.Movie, error)
	Update(ctx context.Context, movie domain.Movie, userID *uuid.UUID) (domain.Movie, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (domain.Movie, error)
	GetBySlug(ctx context.Context, slug string, userID *uuid.UUID) (domain.Movie, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID, userID *uuid.UUID) ([]domain.Movie, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, q listing.Query) (domain.MovieConnection, error)
}

// RatingRepository defines the interface for rating operations
type RatingRepository interface {
	Rate(ctx context.Context, rating domain.Rating) (domain.Rating, error)
	Delete(ctx context.Context, movieID, userID uuid.UUID) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.UserRating, error)
}
