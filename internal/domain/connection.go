package domain

// MovieEdge pairs a movie with the cursor that points at it.
type MovieEdge struct {
	Cursor string `json:"cursor"`
	Node   Movie  `json:"node"`
}

// PageInfo describes the position of a page within the full listing.
type PageInfo struct {
	StartCursor     *string `json:"startCursor"`
	EndCursor       *string `json:"endCursor"`
	HasNextPage     bool    `json:"hasNextPage"`
	HasPreviousPage bool    `json:"hasPreviousPage"`
}

// MovieConnection is one page of a movie listing.
type MovieConnection struct {
	Edges    []MovieEdge `json:"edges"`
	PageInfo PageInfo    `json:"pageInfo"`
}
