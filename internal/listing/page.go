package listing

import "github.com/rpattn/moviesapi/internal/domain"

// AssemblePage trims the sentinel row from window and builds the connection.
func AssemblePage(window []domain.Movie, first int, key SortKey, hasPrevious bool) domain.MovieConnection {
	kept := window
	hasNext := len(window) > first
	if hasNext {
		kept = window[:first]
	}

	edges := make([]domain.MovieEdge, len(kept))
	for i, movie := range kept {
		edges[i] = domain.MovieEdge{
			Cursor: EncodeCursor(key, movie),
			Node:   movie,
		}
	}

	info := domain.PageInfo{
		HasNextPage:     hasNext,
		HasPreviousPage: hasPrevious,
	}
	if len(edges) > 0 {
		start := edges[0].Cursor
		end := edges[len(edges)-1].Cursor
		info.StartCursor = &start
		info.EndCursor = &end
	}

	return domain.MovieConnection{Edges: edges, PageInfo: info}
}
