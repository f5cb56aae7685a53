package middleware

import (
	"context"
	"net/http"

	"github.com/rpattn/moviesapi/internal/auth"
	"github.com/rpattn/moviesapi/internal/movieloader"
)

type ctxKey string

const movieLoaderKey ctxKey = "movieLoader"

// DataLoaderMiddleware attaches a movie loader bound to the caller to the request context.
// It must run after Authenticate.
func DataLoaderMiddleware(repo movieloader.MovieFetcher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			loader := movieloader.NewMovieLoader(repo, auth.UserIDFromContext(r.Context()))
			ctx := context.WithValue(r.Context(), movieLoaderKey, loader)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// MovieLoaderFromContext retrieves the movie loader from context
func MovieLoaderFromContext(ctx context.Context) *movieloader.MovieLoader {
	if l, ok := ctx.Value(movieLoaderKey).(*movieloader.MovieLoader); ok {
		return l
	}
	return nil
}
