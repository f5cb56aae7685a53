package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rpattn/moviesapi/internal/domain"
	"github.com/rpattn/moviesapi/internal/repository"
	"github.com/rpattn/moviesapi/internal/validation"
)

type RatingService struct {
	ratings repository.RatingRepository
}

func NewRatingService(ratings repository.RatingRepository) *RatingService {
	return &RatingService{ratings: ratings}
}

// Rate stores userID's rating of movieID, replacing an earlier one.
func (s *RatingService) Rate(ctx context.Context, movieID, userID uuid.UUID, rating int) (domain.Rating, error) {
	if rating < domain.MinRating || rating > domain.MaxRating {
		return domain.Rating{}, validation.NewFieldError("rating",
			fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating))
	}
	return s.ratings.Rate(ctx, domain.Rating{MovieID: movieID, UserID: userID, Rating: rating})
}

func (s *RatingService) Delete(ctx context.Context, movieID, userID uuid.UUID) error {
	return s.ratings.Delete(ctx, movieID, userID)
}

func (s *RatingService) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.UserRating, error) {
	ratings, err := s.ratings.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ratings == nil {
		ratings = []domain.UserRating{}
	}
	return ratings, nil
}
