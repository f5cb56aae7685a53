package listing

import (
	"fmt"

	"github.com/rpattn/moviesapi/internal/domain"
)

// orderTemplate is a fixed total order over the aggregation view. The keyset
// predicates take the cursor key expression as %[1]s and the cursor id as %[2]s.
type orderTemplate struct {
	name    string
	orderBy string
	keyExpr string
	after   string
	before  string
}

var (
	orderByID = orderTemplate{
		name:    "id",
		orderBy: "m.id ASC",
		after:   "m.id > %[2]s",
		before:  "m.id < %[2]s",
	}
	orderByTitleAsc = orderTemplate{
		name:    "title_asc",
		orderBy: "m.title ASC, m.id ASC",
		keyExpr: "COALESCE(%[1]s::text, (SELECT p.title FROM movies p WHERE p.id = %[2]s))",
		after:   "(m.title > %[1]s OR (m.title = %[1]s AND m.id > %[2]s) OR (%[1]s IS NULL AND m.id > %[2]s))",
		before:  "(m.title < %[1]s OR (m.title = %[1]s AND m.id < %[2]s) OR (%[1]s IS NULL AND m.id < %[2]s))",
	}
	orderByTitleDesc = orderTemplate{
		name:    "title_desc",
		orderBy: "m.title DESC, m.id ASC",
		keyExpr: "COALESCE(%[1]s::text, (SELECT p.title FROM movies p WHERE p.id = %[2]s))",
		after:   "(m.title < %[1]s OR (m.title = %[1]s AND m.id > %[2]s) OR (%[1]s IS NULL AND m.id > %[2]s))",
		before:  "(m.title > %[1]s OR (m.title = %[1]s AND m.id < %[2]s) OR (%[1]s IS NULL AND m.id < %[2]s))",
	}
	orderByYearAsc = orderTemplate{
		name:    "year_asc",
		orderBy: "m.year_of_release ASC, m.id ASC",
		keyExpr: "COALESCE(%[1]s::integer, (SELECT p.year_of_release FROM movies p WHERE p.id = %[2]s))",
		after:   "(m.year_of_release > %[1]s OR (m.year_of_release = %[1]s AND m.id > %[2]s) OR (%[1]s IS NULL AND m.id > %[2]s))",
		before:  "(m.year_of_release < %[1]s OR (m.year_of_release = %[1]s AND m.id < %[2]s) OR (%[1]s IS NULL AND m.id < %[2]s))",
	}
	orderByYearDesc = orderTemplate{
		name:    "year_desc",
		orderBy: "m.year_of_release DESC, m.id ASC",
		keyExpr: "COALESCE(%[1]s::integer, (SELECT p.year_of_release FROM movies p WHERE p.id = %[2]s))",
		after:   "(m.year_of_release < %[1]s OR (m.year_of_release = %[1]s AND m.id > %[2]s) OR (%[1]s IS NULL AND m.id > %[2]s))",
		before:  "(m.year_of_release > %[1]s OR (m.year_of_release = %[1]s AND m.id < %[2]s) OR (%[1]s IS NULL AND m.id < %[2]s))",
	}
)

// SortKey is a resolved total order: the requested primary key followed by id ASC.
type SortKey struct {
	Field     domain.MovieSortField
	Direction domain.SortDirection
	tmpl      *orderTemplate
}

// ResolveSort maps a requested sort to one of the fixed orders. Without a field the
// listing is ordered by id; a field without direction sorts ascending.
func ResolveSort(sort domain.MovieSort) (SortKey, error) {
	desc := false
	switch sort.Direction {
	case domain.SortDirectionNone, domain.SortDirectionAsc:
	case domain.SortDirectionDesc:
		desc = true
	default:
		return SortKey{}, fmt.Errorf("%w: unsupported sort direction %q", domain.ErrInvalidArgument, sort.Direction)
	}

	switch sort.Field {
	case domain.MovieSortFieldNone:
		return SortKey{Field: domain.MovieSortFieldNone, Direction: domain.SortDirectionAsc, tmpl: &orderByID}, nil
	case domain.MovieSortFieldTitle:
		if desc {
			return SortKey{Field: sort.Field, Direction: domain.SortDirectionDesc, tmpl: &orderByTitleDesc}, nil
		}
		return SortKey{Field: sort.Field, Direction: domain.SortDirectionAsc, tmpl: &orderByTitleAsc}, nil
	case domain.MovieSortFieldYear:
		if desc {
			return SortKey{Field: sort.Field, Direction: domain.SortDirectionDesc, tmpl: &orderByYearDesc}, nil
		}
		return SortKey{Field: sort.Field, Direction: domain.SortDirectionAsc, tmpl: &orderByYearAsc}, nil
	default:
		return SortKey{}, fmt.Errorf("%w: unsupported sort field %q", domain.ErrInvalidArgument, sort.Field)
	}
}

func (k SortKey) template() *orderTemplate {
	if k.tmpl == nil {
		return &orderByID
	}
	return k.tmpl
}

// Name identifies the order, e.g. "title_desc".
func (k SortKey) Name() string {
	return k.template().name
}

// OrderBy renders the ORDER BY list.
func (k SortKey) OrderBy() string {
	return k.template().orderBy
}

// KeyOf returns the movie's value for the primary sort column, or nil for id order.
func (k SortKey) KeyOf(movie domain.Movie) any {
	switch k.Field {
	case domain.MovieSortFieldTitle:
		return movie.Title
	case domain.MovieSortFieldYear:
		return movie.YearOfRelease
	default:
		return nil
	}
}

// After renders the predicate selecting rows strictly after pos.
func (k SortKey) After(b *SQLBuilder, pos Position) string {
	return k.keyset(b, pos, k.template().after)
}

// Before renders the predicate selecting rows strictly before pos.
func (k SortKey) Before(b *SQLBuilder, pos Position) string {
	return k.keyset(b, pos, k.template().before)
}

func (k SortKey) keyset(b *SQLBuilder, pos Position, predicate string) string {
	tmpl := k.template()
	id := b.Bind(pos.ID.String()) + "::uuid"
	if tmpl.keyExpr == "" {
		return fmt.Sprintf(predicate, "", id)
	}
	key := fmt.Sprintf(tmpl.keyExpr, b.Bind(pos.Key), id)
	return fmt.Sprintf(predicate, key, id)
}
