package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rpattn/moviesapi/internal/api"
	"github.com/rpattn/moviesapi/internal/auth"
	"github.com/rpattn/moviesapi/internal/domain"
)

// TokenValidator turns a bearer token into an identity.
type TokenValidator interface {
	ValidateToken(token string) (auth.Identity, error)
}

// Authorizer decides whether an identity holds a permission.
type Authorizer interface {
	Authorize(identity auth.Identity, perm auth.Permission) error
}

// Authenticate attaches the identity of a valid bearer token to the request context.
// Requests without a token pass through anonymously; an invalid token is rejected.
func Authenticate(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				api.WriteError(w, r, fmt.Errorf("%w: authorization header must be a bearer token", domain.ErrUnauthorized))
				return
			}

			identity, err := validator.ValidateToken(strings.TrimSpace(token))
			if err != nil {
				api.WriteError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.ContextWithIdentity(r.Context(), identity)))
		})
	}
}

// RequireAuthenticated rejects anonymous requests with 401.
func RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.IdentityFromContext(r.Context()); !ok {
			api.WriteStatusError(w, r, http.StatusUnauthorized, "authentication required", domain.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePermission rejects anonymous requests with 401 and callers lacking perm with 403.
func RequirePermission(authorizer Authorizer, perm auth.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := auth.IdentityFromContext(r.Context())
			if !ok {
				api.WriteStatusError(w, r, http.StatusUnauthorized, "authentication required", domain.ErrUnauthorized)
				return
			}
			if err := authorizer.Authorize(identity, perm); err != nil {
				api.WriteError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
