package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/graph-gophers/graphql-go/errors"
	"github.com/graph-gophers/graphql-go/introspection"
	"github.com/graph-gophers/graphql-go/trace/tracer"
	"github.com/rs/zerolog"

	"github.com/rpattn/moviesapi/internal/logging"
	"github.com/rpattn/moviesapi/internal/metrics"
)

// responseWriter captures HTTP status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// ResolverTracer logs each GraphQL field resolution with its duration and error.
type ResolverTracer struct{}

var _ tracer.Tracer = ResolverTracer{}

func (ResolverTracer) TraceQuery(ctx context.Context, queryString string, operationName string, variables map[string]interface{}, varTypes map[string]*introspection.Type) (context.Context, tracer.QueryFinishFunc) {
	start := time.Now()
	return ctx, func(errs []*errors.QueryError) {
		logger := logging.Ctx(ctx)
		var event *zerolog.Event
		if len(errs) > 0 {
			event = logger.Warn().Int("errors", len(errs)).Str("first_error", errs[0].Message)
		} else {
			event = logger.Debug()
		}
		event.Str("operation", operationName).
			Float64("duration_ms", float64(time.Since(start).Microseconds())/1000).
			Msg("graphql query")
	}
}

func (ResolverTracer) TraceField(ctx context.Context, label, typeName, fieldName string, trivial bool, args map[string]interface{}) (context.Context, tracer.FieldFinishFunc) {
	if trivial {
		return ctx, func(*errors.QueryError) {}
	}
	start := time.Now()
	return ctx, func(err *errors.QueryError) {
		event := logging.Ctx(ctx).Debug().
			Str("field", typeName+"."+fieldName).
			Float64("duration_ms", float64(time.Since(start).Microseconds())/1000)
		if err != nil {
			event = event.Str("error", err.Message)
		}
		event.Msg("graphql resolver")
	}
}

func (ResolverTracer) TraceValidation(ctx context.Context) func([]*errors.QueryError) {
	return func(errs []*errors.QueryError) {
		if len(errs) > 0 {
			logging.Ctx(ctx).Debug().Int("errors", len(errs)).Str("first_error", errs[0].Message).Msg("graphql validation failed")
		}
	}
}

// Logging writes one access log line per request and records request metrics by route pattern.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		metrics.TrackActiveRequest(true)
		defer metrics.TrackActiveRequest(false)

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		metrics.RecordAPIRequest(r.Method, route, strconv.Itoa(rw.statusCode), duration)

		logging.Ctx(r.Context()).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.statusCode).
			Dur("duration", duration).
			Str("remote", r.RemoteAddr).
			Msg("http request")
	})
}
