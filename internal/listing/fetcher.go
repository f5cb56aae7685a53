package listing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rpattn/moviesapi/internal/domain"
	"github.com/rpattn/moviesapi/internal/metrics"
)

// Queryer is the subset of pgxpool.Pool used for reads.
type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Query is a validated listing request.
type Query struct {
	Filter domain.MovieFilter
	Sort   domain.MovieSort
	First  int
	After  *Cursor
	UserID *uuid.UUID
}

// Fetcher runs keyset listings against the movies store.
type Fetcher struct {
	db Queryer
}

func NewFetcher(db Queryer) *Fetcher {
	return &Fetcher{db: db}
}

// List returns one page. The window fetch and the previous-page probe are separate
// reads without a shared snapshot.
func (f *Fetcher) List(ctx context.Context, q Query) (domain.MovieConnection, error) {
	if q.First < 0 {
		return domain.MovieConnection{}, fmt.Errorf("%w: first must not be negative", domain.ErrInvalidArgument)
	}

	key, err := ResolveSort(q.Sort)
	if err != nil {
		return domain.MovieConnection{}, err
	}

	window, err := f.FetchWindow(ctx, q, key)
	if err != nil {
		return domain.MovieConnection{}, err
	}

	hasPrevious, err := f.HasPreviousPage(ctx, q, key, window)
	if err != nil {
		return domain.MovieConnection{}, err
	}

	return AssemblePage(window, q.First, key, hasPrevious), nil
}

// FetchWindow returns up to First+1 movies strictly after the cursor in key order.
func (f *Fetcher) FetchWindow(ctx context.Context, q Query, key SortKey) ([]domain.Movie, error) {
	sql, args := buildWindowQuery(q, key)

	start := time.Now()
	rows, err := f.db.Query(ctx, sql, args...)
	if err != nil {
		metrics.RecordDBQuery("list_window", "movies", time.Since(start), err)
		return nil, fmt.Errorf("failed to fetch movie window: %w", err)
	}

	movies, err := CollectMovies(rows)
	metrics.RecordDBQuery("list_window", "movies", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	return movies, nil
}

// HasPreviousPage probes for one filtered row strictly before the first fetched row.
// With nothing fetched, every matching row sits at or before the cursor, so the answer
// is whether any row matches at all; without a cursor it is false.
func (f *Fetcher) HasPreviousPage(ctx context.Context, q Query, key SortKey, window []domain.Movie) (bool, error) {
	var pos *Position
	if len(window) > 0 {
		pos = &Position{ID: window[0].ID, Key: key.KeyOf(window[0])}
	} else if q.After == nil {
		return false, nil
	}

	sql, args := buildPreviousProbe(q.Filter, key, pos)

	start := time.Now()
	var exists bool
	err := f.db.QueryRow(ctx, sql, args...).Scan(&exists)
	metrics.RecordDBQuery("list_previous_probe", "movies", time.Since(start), err)
	if err != nil {
		return false, fmt.Errorf("failed to probe previous page: %w", err)
	}

	return exists, nil
}

func buildWindowQuery(q Query, key SortKey) (string, []any) {
	b := NewSQLBuilder()

	var sb strings.Builder
	sb.WriteString(SelectMovieView(b, q.UserID))

	where := BuildFilter(b, q.Filter)
	if q.After != nil {
		where = where.And(key.After(b, q.After.Position(key)))
	}

	sb.WriteString("\nWHERE ")
	sb.WriteString(where.SQL())
	sb.WriteString("\nORDER BY ")
	sb.WriteString(key.OrderBy())
	sb.WriteString("\nLIMIT ")
	sb.WriteString(b.Bind(q.First + 1))

	return sb.String(), b.Args()
}

func buildPreviousProbe(filter domain.MovieFilter, key SortKey, pos *Position) (string, []any) {
	b := NewSQLBuilder()

	where := BuildFilter(b, filter)
	if pos != nil {
		where = where.And(key.Before(b, *pos))
	}

	return "SELECT EXISTS (SELECT 1 FROM movies m WHERE " + where.SQL() + ")", b.Args()
}
