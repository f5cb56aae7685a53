package movieloader

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader"

	"github.com/rpattn/moviesapi/internal/domain"
)

// MovieFetcher loads aggregated movies by id for one user.
type MovieFetcher interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID, userID *uuid.UUID) ([]domain.Movie, error)
}

// MovieLoader batches movie lookups made while resolving one request.
type MovieLoader struct {
	Loader *dataloader.Loader
}

// NewMovieLoader builds a loader whose batches are read as userID.
func NewMovieLoader(repo MovieFetcher, userID *uuid.UUID) *MovieLoader {
	batchFn := func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		ids := make([]uuid.UUID, len(keys))
		for i, k := range keys {
			id, err := uuid.Parse(k.String())
			if err != nil {
				return errorResults(len(keys), fmt.Errorf("invalid UUID: %w", err))
			}
			ids[i] = id
		}

		movies, err := repo.GetByIDs(ctx, ids, userID)
		if err != nil {
			return errorResults(len(keys), err)
		}

		byID := make(map[uuid.UUID]domain.Movie, len(movies))
		for _, m := range movies {
			byID[m.ID] = m
		}

		// results follow key order; a missing movie resolves to nil
		results := make([]*dataloader.Result, len(keys))
		for i, id := range ids {
			if m, ok := byID[id]; ok {
				movie := m
				results[i] = &dataloader.Result{Data: &movie}
			} else {
				results[i] = &dataloader.Result{Data: (*domain.Movie)(nil)}
			}
		}
		return results
	}

	loader := dataloader.NewBatchedLoader(batchFn, dataloader.WithWait(5*time.Millisecond))
	return &MovieLoader{Loader: loader}
}

// Load resolves one movie, or nil when it does not exist.
func (l *MovieLoader) Load(ctx context.Context, id uuid.UUID) (*domain.Movie, error) {
	data, err := l.Loader.Load(ctx, dataloader.StringKey(id.String()))()
	if err != nil {
		return nil, err
	}
	movie, _ := data.(*domain.Movie)
	return movie, nil
}

func errorResults(n int, err error) []*dataloader.Result {
	results := make([]*dataloader.Result, n)
	for i := range results {
		results[i] = &dataloader.Result{Error: err}
	}
	return results
}
