package graphql

import (
	"context"

	"github.com/google/uuid"
	graphqlgo "github.com/graph-gophers/graphql-go"

	"github.com/rpattn/moviesapi/internal/auth"
	"github.com/rpattn/moviesapi/internal/domain"
	"github.com/rpattn/moviesapi/internal/logging"
	"github.com/rpattn/moviesapi/internal/middleware"
	"github.com/rpattn/moviesapi/internal/service"
)

type movieResolver struct {
	movie domain.Movie
}

func (r *movieResolver) ID() graphqlgo.ID { return graphqlgo.ID(r.movie.ID.String()) }

func (r *movieResolver) Slug() string { return r.movie.Slug }

func (r *movieResolver) Title() string { return r.movie.Title }

func (r *movieResolver) YearOfRelease() int32 { return int32(r.movie.YearOfRelease) }

func (r *movieResolver) Genres() []string {
	if r.movie.Genres == nil {
		return []string{}
	}
	return r.movie.Genres
}

func (r *movieResolver) Rating() *float64 { return r.movie.Rating }

func (r *movieResolver) UserRating() *float64 {
	if r.movie.UserRating == nil {
		return nil
	}
	value := float64(*r.movie.UserRating)
	return &value
}

type movieEdgeResolver struct {
	edge domain.MovieEdge
}

func (r *movieEdgeResolver) Cursor() graphqlgo.ID { return graphqlgo.ID(r.edge.Cursor) }

func (r *movieEdgeResolver) Node() *movieResolver { return &movieResolver{movie: r.edge.Node} }

type pageInfoResolver struct {
	info domain.PageInfo
}

func (r *pageInfoResolver) StartCursor() *graphqlgo.ID { return toID(r.info.StartCursor) }

func (r *pageInfoResolver) EndCursor() *graphqlgo.ID { return toID(r.info.EndCursor) }

func (r *pageInfoResolver) HasNextPage() bool { return r.info.HasNextPage }

func (r *pageInfoResolver) HasPreviousPage() bool { return r.info.HasPreviousPage }

type movieConnectionResolver struct {
	conn domain.MovieConnection
}

func (r *movieConnectionResolver) Edges() []*movieEdgeResolver {
	edges := make([]*movieEdgeResolver, len(r.conn.Edges))
	for i, edge := range r.conn.Edges {
		edges[i] = &movieEdgeResolver{edge: edge}
	}
	return edges
}

func (r *movieConnectionResolver) PageInfo() *pageInfoResolver {
	return &pageInfoResolver{info: r.conn.PageInfo}
}

type ratingResolver struct {
	rating domain.UserRating
	movies *service.MovieService
}

// ID is the rated movie's id; a user holds at most one rating per movie.
func (r *ratingResolver) ID() graphqlgo.ID { return graphqlgo.ID(r.rating.MovieID.String()) }

func (r *ratingResolver) Rating() int32 { return int32(r.rating.Rating) }

// Movie goes through the request's movie loader so a ratings list costs one batch query.
func (r *ratingResolver) Movie(ctx context.Context) (*movieResolver, error) {
	if loader := middleware.MovieLoaderFromContext(ctx); loader != nil {
		movie, err := loader.Load(ctx, r.rating.MovieID)
		if err != nil {
			logging.CtxErr(ctx, err).Str("movie_id", r.rating.MovieID.String()).Msg("failed to load rated movie")
			return nil, resolverError(err)
		}
		if movie == nil {
			return nil, nil
		}
		return &movieResolver{movie: *movie}, nil
	}

	movies, err := r.movies.GetByIDs(ctx, []uuid.UUID{r.rating.MovieID}, auth.UserIDFromContext(ctx))
	if err != nil {
		return nil, resolverError(err)
	}
	if len(movies) == 0 {
		return nil, nil
	}
	return &movieResolver{movie: movies[0]}, nil
}

func toID(s *string) *graphqlgo.ID {
	if s == nil {
		return nil
	}
	id := graphqlgo.ID(*s)
	return &id
}
