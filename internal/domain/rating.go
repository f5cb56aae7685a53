package domain

import (
	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Rating is one user's score for one movie. The (MovieID, UserID) pair is unique.
type Rating struct {
	MovieID uuid.UUID `json:"movieId"`
	UserID  uuid.UUID `json:"userId"`
	Rating  int       `json:"rating"`
}

// UserRating is a rating as listed for its owner, with the rated movie's slug.
type UserRating struct {
	MovieID uuid.UUID `json:"movieId"`
	Slug    string    `json:"slug"`
	Rating  int       `json:"rating"`
}
