package middleware

import (
	"net/http"

	"github.com/rpattn/moviesapi/internal/logging"
)

const RequestIDHeader = "X-Request-ID"

// RequestID takes the request id from X-Request-ID or generates one, stores it in the
// request context and echoes it back.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > 128 {
			requestID = logging.GenerateRequestID()
		}

		w.Header().Set(RequestIDHeader, requestID)
		ctx := logging.ContextWithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
