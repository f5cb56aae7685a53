// Package api writes JSON responses and the error envelope shared by every HTTP route.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/rpattn/moviesapi/internal/domain"
	"github.com/rpattn/moviesapi/internal/logging"
	"github.com/rpattn/moviesapi/internal/validation"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	StatusCode    int                     `json:"statusCode"`
	Error         string                  `json:"error"`
	Message       string                  `json:"message"`
	CorrelationID string                  `json:"correlationId"`
	SubErrors     []validation.FieldError `json:"subErrors,omitempty"`
}

// WriteJSON encodes body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		logging.Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("failed to write JSON response")
	}
}

// DecodeJSON reads a request body into dst; malformed JSON is ErrInvalidArgument.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return validation.NewFieldError("body", "request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return validation.NewFieldError("body", "request body is not valid JSON")
	}
	return nil
}

// StatusFor maps an error onto its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders err in the error envelope. Server errors are logged and their
// detail is not sent to the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	WriteStatusError(w, r, status, publicMessage(status, err), err)
}

// WriteStatusError renders the envelope for an explicit status.
func WriteStatusError(w http.ResponseWriter, r *http.Request, status int, message string, cause error) {
	ctx := r.Context()

	body := ErrorResponse{
		StatusCode:    status,
		Error:         http.StatusText(status),
		Message:       message,
		CorrelationID: logging.CorrelationIDFromContext(ctx),
	}

	var ve *validation.RequestValidationError
	if errors.As(cause, &ve) {
		body.SubErrors = ve.Fields
	}

	if status >= http.StatusInternalServerError {
		logging.CtxErr(ctx, cause).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	} else if cause != nil {
		logging.Ctx(ctx).Debug().Err(cause).Int("status", status).Msg("request rejected")
	}

	WriteJSON(w, status, body)
}

func publicMessage(status int, err error) string {
	if status >= http.StatusInternalServerError || err == nil {
		return http.StatusText(status)
	}
	return err.Error()
}
