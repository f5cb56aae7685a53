package rest

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rpattn/moviesapi/internal/api"
	"github.com/rpattn/moviesapi/internal/auth"
	"github.com/rpattn/moviesapi/internal/service"
	"github.com/rpattn/moviesapi/internal/validation"
)

type movieHandler struct {
	movies *service.MovieService
}

// create godoc
// @Summary      Create a movie
// @Tags         movies
// @Accept       json
// @Produce      json
// @Param        movie  body      service.MovieInput  true  "Movie"
// @Success      201    {object}  domain.Movie
// @Failure      400    {object}  api.ErrorResponse
// @Failure      401    {object}  api.ErrorResponse
// @Failure      403    {object}  api.ErrorResponse
// @Failure      409    {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /api/movies [post]
func (h *movieHandler) create(w http.ResponseWriter, r *http.Request) {
	var input service.MovieInput
	if err := api.DecodeJSON(r, &input); err != nil {
		api.WriteError(w, r, err)
		return
	}

	movie, err := h.movies.Create(r.Context(), input)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/movies/"+movie.ID.String())
	api.WriteJSON(w, http.StatusCreated, movie)
}

// list godoc
// @Summary      List movies
// @Description  Keyset paginated listing ordered by the sort field, then id
// @Tags         movies
// @Produce      json
// @Param        title   query     string  false  "Title substring"
// @Param        year    query     int     false  "Year of release"
// @Param        sortBy  query     string  false  "Sort field"  Enums(title, year)
// @Param        order   query     string  false  "Sort order"  Enums(asc, desc)
// @Param        first   query     int     false  "Page size (0..100, default 10)"
// @Param        after   query     string  false  "Cursor of the last edge already seen"
// @Success      200     {object}  domain.MovieConnection
// @Failure      400     {object}  api.ErrorResponse
// @Router       /api/movies [get]
func (h *movieHandler) list(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	input := service.ListMoviesInput{
		SortBy: query.Get("sortBy"),
		Order:  query.Get("order"),
		After:  query.Get("after"),
	}
	if query.Has("title") {
		title := query.Get("title")
		input.Title = &title
	}

	var err error
	if input.Year, err = intParam(query.Get("year"), "year"); err != nil {
		api.WriteError(w, r, err)
		return
	}
	if input.First, err = intParam(query.Get("first"), "first"); err != nil {
		api.WriteError(w, r, err)
		return
	}

	conn, err := h.movies.List(r.Context(), input, auth.UserIDFromContext(r.Context()))
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, conn)
}

// get godoc
// @Summary      Get a movie
// @Description  Looks the movie up by id when the path is a UUID, otherwise by slug
// @Tags         movies
// @Produce      json
// @Param        idOrSlug  path      string  true  "Movie id or slug"
// @Success      200       {object}  domain.Movie
// @Failure      404       {object}  api.ErrorResponse
// @Router       /api/movies/{idOrSlug} [get]
func (h *movieHandler) get(w http.ResponseWriter, r *http.Request) {
	movie, err := h.movies.Get(r.Context(), chi.URLParam(r, "idOrSlug"), auth.UserIDFromContext(r.Context()))
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, movie)
}

// update godoc
// @Summary      Replace a movie
// @Tags         movies
// @Accept       json
// @Produce      json
// @Param        id     path      string              true  "Movie id"
// @Param        movie  body      service.MovieInput  true  "Movie"
// @Success      200    {object}  domain.Movie
// @Failure      400    {object}  api.ErrorResponse
// @Failure      404    {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /api/movies/{id} [put]
func (h *movieHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	var input service.MovieInput
	if err := api.DecodeJSON(r, &input); err != nil {
		api.WriteError(w, r, err)
		return
	}

	movie, err := h.movies.Update(r.Context(), id, input, auth.UserIDFromContext(r.Context()))
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, movie)
}

// delete godoc
// @Summary      Delete a movie
// @Tags         movies
// @Param        id  path  string  true  "Movie id"
// @Success      204
// @Failure      403  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /api/movies/{id} [delete]
func (h *movieHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	if err := h.movies.Delete(r.Context(), id); err != nil {
		api.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func intParam(raw, name string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, validation.NewFieldError(name, name+" must be an integer")
	}
	return &n, nil
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, validation.NewFieldError(name, name+" must be a valid uuid")
	}
	return id, nil
}
