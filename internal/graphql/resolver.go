package graphql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	graphqlgo "github.com/graph-gophers/graphql-go"

	"github.com/rpattn/moviesapi/internal/auth"
	"github.com/rpattn/moviesapi/internal/domain"
	"github.com/rpattn/moviesapi/internal/middleware"
	"github.com/rpattn/moviesapi/internal/service"
)

// Resolver handles GraphQL queries and mutations
type Resolver struct {
	movies     *service.MovieService
	ratings    *service.RatingService
	authorizer middleware.Authorizer
}

// NewResolver creates a new GraphQL resolver
func NewResolver(movies *service.MovieService, ratings *service.RatingService, authorizer middleware.Authorizer) *Resolver {
	return &Resolver{
		movies:     movies,
		ratings:    ratings,
		authorizer: authorizer,
	}
}

// Query resolvers

type moviesArgs struct {
	Title     *string
	Year      *int32
	SortField *string
	SortOrder *string
	First     *int32
	After     *graphqlgo.ID
}

// Movies returns one keyset page of movies
func (r *Resolver) Movies(ctx context.Context, args moviesArgs) (*movieConnectionResolver, error) {
	input := service.ListMoviesInput{Title: args.Title}
	if args.Year != nil {
		year := int(*args.Year)
		input.Year = &year
	}
	if args.SortField != nil {
		input.SortBy = *args.SortField
	}
	if args.SortOrder != nil {
		input.Order = *args.SortOrder
	}
	if args.First != nil {
		first := int(*args.First)
		input.First = &first
	}
	if args.After != nil {
		input.After = string(*args.After)
	}

	conn, err := r.movies.List(ctx, input, auth.UserIDFromContext(ctx))
	if err != nil {
		return nil, resolverError(err)
	}
	return &movieConnectionResolver{conn: conn}, nil
}

// Movie returns the movie with the given id or slug, or null.
func (r *Resolver) Movie(ctx context.Context, args struct{ IDOrSlug string }) (*movieResolver, error) {
	movie, err := r.movies.Get(ctx, args.IDOrSlug, auth.UserIDFromContext(ctx))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, resolverError(err)
	}
	return &movieResolver{movie: movie}, nil
}

// MyRatings returns the caller's ratings
func (r *Resolver) MyRatings(ctx context.Context) ([]*ratingResolver, error) {
	identity, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	ratings, err := r.ratings.ListForUser(ctx, identity.UserID)
	if err != nil {
		return nil, resolverError(err)
	}

	result := make([]*ratingResolver, len(ratings))
	for i, rating := range ratings {
		result[i] = &ratingResolver{rating: rating, movies: r.movies}
	}
	return result, nil
}

// Mutation resolvers

// RateMovie stores the caller's rating of a movie
func (r *Resolver) RateMovie(ctx context.Context, args struct {
	MovieID graphqlgo.ID
	Rating  int32
}) (*ratingResolver, error) {
	identity, err := r.authorize(ctx, auth.PermRatingsWrite)
	if err != nil {
		return nil, err
	}
	movieID, err := parseID("movieId", args.MovieID)
	if err != nil {
		return nil, err
	}

	rating, err := r.ratings.Rate(ctx, movieID, identity.UserID, int(args.Rating))
	if err != nil {
		return nil, resolverError(err)
	}
	return &ratingResolver{
		rating: domain.UserRating{MovieID: rating.MovieID, Rating: rating.Rating},
		movies: r.movies,
	}, nil
}

// DeleteRating removes the caller's rating of a movie
func (r *Resolver) DeleteRating(ctx context.Context, args struct{ MovieID graphqlgo.ID }) (bool, error) {
	identity, err := requireIdentity(ctx)
	if err != nil {
		return false, err
	}
	movieID, err := parseID("movieId", args.MovieID)
	if err != nil {
		return false, err
	}

	if err := r.ratings.Delete(ctx, movieID, identity.UserID); err != nil {
		return false, resolverError(err)
	}
	return true, nil
}

func (r *Resolver) authorize(ctx context.Context, perm auth.Permission) (auth.Identity, error) {
	identity, err := requireIdentity(ctx)
	if err != nil {
		return auth.Identity{}, err
	}
	if err := r.authorizer.Authorize(identity, perm); err != nil {
		return auth.Identity{}, resolverError(err)
	}
	return identity, nil
}

func requireIdentity(ctx context.Context) (auth.Identity, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return auth.Identity{}, resolverError(fmt.Errorf("%w: authentication required", domain.ErrUnauthorized))
	}
	return identity, nil
}

func parseID(field string, id graphqlgo.ID) (uuid.UUID, error) {
	parsed, err := uuid.Parse(string(id))
	if err != nil {
		return uuid.Nil, resolverError(fmt.Errorf("%w: %s must be a uuid", domain.ErrInvalidArgument, field))
	}
	return parsed, nil
}
