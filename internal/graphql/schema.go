package graphql

import (
	_ "embed"
	"net/http"

	graphqlgo "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"

	"github.com/rpattn/moviesapi/internal/middleware"
)

//go:embed schema.graphql
var schemaSDL string

// NewSchema parses the movies schema against resolver.
func NewSchema(resolver *Resolver) (*graphqlgo.Schema, error) {
	return graphqlgo.ParseSchema(schemaSDL, resolver,
		graphqlgo.Tracer(middleware.ResolverTracer{}),
		graphqlgo.MaxDepth(8),
	)
}

// NewHandler serves POSTed GraphQL requests.
func NewHandler(schema *graphqlgo.Schema) http.Handler {
	return &relay.Handler{Schema: schema}
}
