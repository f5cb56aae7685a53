// Package rest exposes the movies service over HTTP.
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/rpattn/moviesapi/internal/api"
	"github.com/rpattn/moviesapi/internal/auth"
	"github.com/rpattn/moviesapi/internal/config"
	_ "github.com/rpattn/moviesapi/internal/docs"
	"github.com/rpattn/moviesapi/internal/metrics"
	"github.com/rpattn/moviesapi/internal/middleware"
	"github.com/rpattn/moviesapi/internal/service"
)

// TokenManager issues and validates bearer tokens.
type TokenManager interface {
	middleware.TokenValidator
	GenerateToken(req auth.TokenRequest) (string, error)
}

// Dependencies are the collaborators the router dispatches to.
type Dependencies struct {
	Movies     *service.MovieService
	Ratings    *service.RatingService
	Export     http.Handler
	Import     http.Handler
	GraphQL    http.Handler
	Tokens     TokenManager
	Authorizer middleware.Authorizer
	Ping       func(ctx context.Context) error
}

// NewRouter builds the HTTP handler for every route.
func NewRouter(cfg config.Config, deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
	}).Handler)
	if cfg.RateLimit.RequestsPerMinute > 0 {
		r.Use(rateLimit(cfg.RateLimit.RequestsPerMinute, "global"))
	}
	r.Use(middleware.Authenticate(deps.Tokens))

	movies := &movieHandler{movies: deps.Movies}
	ratings := &ratingHandler{ratings: deps.Ratings}
	tokens := &tokenHandler{tokens: deps.Tokens}
	health := &healthHandler{ping: deps.Ping}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health.check)

		r.With(rateLimit(cfg.RateLimit.TokenPerMinute, "token")).Post("/token", tokens.issue)

		r.Route("/movies", func(r chi.Router) {
			r.Get("/", movies.list)
			r.Get("/{idOrSlug}", movies.get)
			r.With(middleware.RequirePermission(deps.Authorizer, auth.PermMoviesWrite)).Post("/", movies.create)
			if deps.Import != nil {
				r.With(middleware.RequirePermission(deps.Authorizer, auth.PermMoviesWrite)).Method(http.MethodPost, "/import", deps.Import)
			}
			r.With(middleware.RequirePermission(deps.Authorizer, auth.PermMoviesWrite)).Put("/{id}", movies.update)
			r.With(middleware.RequirePermission(deps.Authorizer, auth.PermMoviesDelete)).Delete("/{id}", movies.delete)
		})

		r.Route("/ratings", func(r chi.Router) {
			r.Use(middleware.RequireAuthenticated)
			r.Get("/me", ratings.listMine)
			if deps.Export != nil {
				r.Method(http.MethodGet, "/me/export", deps.Export)
			}
			r.With(middleware.RequirePermission(deps.Authorizer, auth.PermRatingsWrite)).Put("/{movieId}", ratings.rate)
			r.Delete("/{movieId}", ratings.delete)
		})
	})

	if deps.GraphQL != nil {
		r.Method(http.MethodPost, "/graphql", middleware.DataLoaderMiddleware(deps.Movies)(deps.GraphQL))
	}

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
	))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.WriteStatusError(w, r, http.StatusNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.WriteStatusError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
	})

	return r
}

// rateLimit limits requests per client IP and answers 429 in the error envelope.
func rateLimit(perMinute int, name string) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.RecordRateLimitHit(name)
			api.WriteStatusError(w, r, http.StatusTooManyRequests, "rate limit exceeded", nil)
		}),
	)
}

type healthHandler struct {
	ping func(ctx context.Context) error
}

type healthResponse struct {
	Status string `json:"status"`
}

// check godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  healthResponse
// @Failure      503  {object}  api.ErrorResponse
// @Router       /api/health [get]
func (h *healthHandler) check(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		if err := h.ping(r.Context()); err != nil {
			api.WriteStatusError(w, r, http.StatusServiceUnavailable, "database unavailable", err)
			return
		}
	}
	api.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
