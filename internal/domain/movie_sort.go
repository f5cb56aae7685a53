package domain

import (
	"fmt"
	"strings"
)

// SortDirection represents ordering direction for sortable fields.
type SortDirection string

const (
	SortDirectionNone SortDirection = ""
	SortDirectionAsc  SortDirection = "asc"
	SortDirectionDesc SortDirection = "desc"
)

// MovieSortField enumerates fields that can be sorted when listing movies.
type MovieSortField string

const (
	MovieSortFieldNone  MovieSortField = ""
	MovieSortFieldTitle MovieSortField = "title"
	MovieSortFieldYear  MovieSortField = "year"
)

// MovieSort captures ordering preferences for movie listings.
type MovieSort struct {
	Field     MovieSortField
	Direction SortDirection
}

// ParseMovieSortField accepts "title" or "year" in any case. An empty value means no sort field.
func ParseMovieSortField(value string) (MovieSortField, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return MovieSortFieldNone, nil
	case string(MovieSortFieldTitle):
		return MovieSortFieldTitle, nil
	case string(MovieSortFieldYear):
		return MovieSortFieldYear, nil
	default:
		return MovieSortFieldNone, fmt.Errorf("%w: unsupported sort field %q", ErrInvalidArgument, value)
	}
}

// ParseSortDirection accepts "asc" or "desc" in any case. An empty value means no direction.
func ParseSortDirection(value string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return SortDirectionNone, nil
	case string(SortDirectionAsc):
		return SortDirectionAsc, nil
	case string(SortDirectionDesc):
		return SortDirectionDesc, nil
	default:
		return SortDirectionNone, fmt.Errorf("%w: unsupported sort direction %q", ErrInvalidArgument, value)
	}
}
