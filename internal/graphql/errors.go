package graphql

import (
	"errors"

	"github.com/rpattn/moviesapi/internal/domain"
	"github.com/rpattn/moviesapi/internal/validation"
)

// codedError adds a machine readable code to the GraphQL error extensions.
type codedError struct {
	err  error
	code string
}

func (e *codedError) Error() string { return e.err.Error() }

func (e *codedError) Unwrap() error { return e.err }

func (e *codedError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": e.code}
	var ve *validation.RequestValidationError
	if errors.As(e.err, &ve) {
		ext["subErrors"] = ve.Fields
	}
	return ext
}

func resolverError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return &codedError{err: err, code: "BAD_USER_INPUT"}
	case errors.Is(err, domain.ErrUnauthorized):
		return &codedError{err: err, code: "UNAUTHENTICATED"}
	case errors.Is(err, domain.ErrForbidden):
		return &codedError{err: err, code: "FORBIDDEN"}
	case errors.Is(err, domain.ErrNotFound):
		return &codedError{err: err, code: "NOT_FOUND"}
	case errors.Is(err, domain.ErrConflict):
		return &codedError{err: err, code: "CONFLICT"}
	default:
		return &codedError{err: errors.New("internal server error"), code: "INTERNAL_SERVER_ERROR"}
	}
}
