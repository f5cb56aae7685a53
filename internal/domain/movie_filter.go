package domain

// MovieFilter represents filtering options for listing movies. A nil field matches everything.
type MovieFilter struct {
	Title *string
	Year  *int
}
