package rest

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/rpattn/moviesapi/internal/api"
	"github.com/rpattn/moviesapi/internal/auth"
	"github.com/rpattn/moviesapi/internal/domain"
	"github.com/rpattn/moviesapi/internal/service"
)

type ratingHandler struct {
	ratings *service.RatingService
}

type rateRequest struct {
	Rating int `json:"rating"`
}

// ratingResponse is a rating as returned to its owner. A user has at most one
// rating per movie, so the rating id is the movie id.
type ratingResponse struct {
	ID      uuid.UUID `json:"id"`
	MovieID uuid.UUID `json:"movieId"`
	Rating  int       `json:"rating"`
	Slug    string    `json:"slug,omitempty"`
}

// rate godoc
// @Summary      Rate a movie
// @Description  Creates or replaces the caller's rating of the movie
// @Tags         ratings
// @Accept       json
// @Produce      json
// @Param        movieId  path      string       true  "Movie id"
// @Param        rating   body      rateRequest  true  "Rating between 1 and 5"
// @Success      201      {object}  ratingResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /api/ratings/{movieId} [put]
func (h *ratingHandler) rate(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	movieID, err := uuidParam(r, "movieId")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	var req rateRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}

	rating, err := h.ratings.Rate(r.Context(), movieID, identity.UserID, req.Rating)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, ratingResponse{ID: rating.MovieID, MovieID: rating.MovieID, Rating: rating.Rating})
}

// delete godoc
// @Summary      Delete my rating
// @Tags         ratings
// @Param        movieId  path  string  true  "Movie id"
// @Success      204
// @Failure      404  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /api/ratings/{movieId} [delete]
func (h *ratingHandler) delete(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	movieID, err := uuidParam(r, "movieId")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	if err := h.ratings.Delete(r.Context(), movieID, identity.UserID); err != nil {
		api.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listMine godoc
// @Summary      List my ratings
// @Tags         ratings
// @Produce      json
// @Success      200  {array}   ratingResponse
// @Failure      401  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /api/ratings/me [get]
func (h *ratingHandler) listMine(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	ratings, err := h.ratings.ListForUser(r.Context(), identity.UserID)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toRatingResponses(ratings))
}

func toRatingResponses(ratings []domain.UserRating) []ratingResponse {
	result := make([]ratingResponse, len(ratings))
	for i, rating := range ratings {
		result[i] = ratingResponse{ID: rating.MovieID, MovieID: rating.MovieID, Rating: rating.Rating, Slug: rating.Slug}
	}
	return result
}
