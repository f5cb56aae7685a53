package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/rpattn/moviesapi/internal/auth"
	"github.com/rpattn/moviesapi/internal/domain"
	"github.com/rpattn/moviesapi/internal/logging"
)

type stubValidator struct {
	identity auth.Identity
	tokens   []string
}

func (s *stubValidator) ValidateToken(token string) (auth.Identity, error) {
	s.tokens = append(s.tokens, token)
	if token != "good" {
		return auth.Identity{}, fmt.Errorf("%w: bad token", domain.ErrUnauthorized)
	}
	return s.identity, nil
}

type stubAuthorizer struct{ allow bool }

func (s stubAuthorizer) Authorize(identity auth.Identity, perm auth.Permission) error {
	if !s.allow {
		return domain.ErrForbidden
	}
	return nil
}

func identityEcho(w http.ResponseWriter, r *http.Request) {
	if id := auth.UserIDFromContext(r.Context()); id != nil {
		w.Write([]byte(id.String()))
		return
	}
	w.Write([]byte("anonymous"))
}

func TestRequestIDGeneratesAndEchoes(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rec.Header().Get(RequestIDHeader) != seen {
		t.Fatalf("expected generated id to be stored and echoed, got %q / %q", seen, rec.Header().Get(RequestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen != "client-id" || rec.Header().Get(RequestIDHeader) != "client-id" {
		t.Fatalf("expected client id to be kept, got %q", seen)
	}
}

func TestAuthenticate(t *testing.T) {
	userID := uuid.New()
	validator := &stubValidator{identity: auth.Identity{UserID: userID}}
	h := Authenticate(validator)(http.HandlerFunc(identityEcho))

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"anonymous", "", http.StatusOK, "anonymous"},
		{"valid bearer", "Bearer good", http.StatusOK, userID.String()},
		{"lowercase scheme", "bearer good", http.StatusOK, userID.String()},
		{"invalid token", "Bearer bad", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			if tt.body != "" && rec.Body.String() != tt.body {
				t.Fatalf("expected body %q, got %q", tt.body, rec.Body.String())
			}
		})
	}
}

func TestRequirePermission(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	withIdentity := func(r *http.Request) *http.Request {
		return r.WithContext(auth.ContextWithIdentity(r.Context(), auth.Identity{UserID: uuid.New()}))
	}

	tests := []struct {
		name     string
		allow    bool
		identify bool
		status   int
	}{
		{"anonymous", true, false, http.StatusUnauthorized},
		{"forbidden", false, true, http.StatusForbidden},
		{"allowed", true, true, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := RequirePermission(stubAuthorizer{allow: tt.allow}, auth.PermMoviesWrite)(ok)
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.identify {
				req = withIdentity(req)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
		})
	}
}

func TestRequireAuthenticated(t *testing.T) {
	h := RequireAuthenticated(http.HandlerFunc(identityEcho))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

type noMovies struct{}

func (noMovies) GetByIDs(ctx context.Context, ids []uuid.UUID, userID *uuid.UUID) ([]domain.Movie, error) {
	return nil, nil
}

func TestDataLoaderMiddleware(t *testing.T) {
	var found bool
	h := DataLoaderMiddleware(noMovies{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		found = MovieLoaderFromContext(r.Context()) != nil
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !found {
		t.Fatalf("expected a movie loader in the request context")
	}
	if MovieLoaderFromContext(context.Background()) != nil {
		t.Fatalf("expected no loader in a bare context")
	}
}

func TestLoggingCapturesStatus(t *testing.T) {
	h := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected status to pass through, got %d", rec.Code)
	}
}
