package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rpattn/moviesapi/internal/domain"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateError maps driver errors onto domain sentinels, keeping the cause wrapped.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to %s: %w", op, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("failed to %s: %w: %s", op, domain.ErrConflict, pgErr.Detail)
		case pgForeignKeyViolation:
			return fmt.Errorf("failed to %s: %w: %s", op, domain.ErrNotFound, pgErr.Detail)
		}
	}

	return fmt.Errorf("failed to %s: %w", op, err)
}
