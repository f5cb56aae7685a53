package listing

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/rpattn/moviesapi/internal/domain"
)

func moviesForYears(years ...int) []domain.Movie {
	movies := make([]domain.Movie, len(years))
	for i, year := range years {
		movies[i] = domain.Movie{ID: uuid.New(), Title: "movie", YearOfRelease: year, Genres: []string{}}
	}
	return movies
}

func TestAssemblePageTrimsSentinel(t *testing.T) {
	key, _ := ResolveSort(domain.MovieSort{})
	window := moviesForYears(2019, 2020, 2021)

	page := AssemblePage(window, 2, key, false)
	if len(page.Edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(page.Edges))
	}
	if !page.PageInfo.HasNextPage {
		t.Fatalf("expected hasNextPage when the sentinel row is present")
	}
	if *page.PageInfo.StartCursor != window[0].ID.String() || *page.PageInfo.EndCursor != window[1].ID.String() {
		t.Fatalf("unexpected cursors %v %v", *page.PageInfo.StartCursor, *page.PageInfo.EndCursor)
	}
	for i, edge := range page.Edges {
		if edge.Cursor != edge.Node.ID.String() {
			t.Fatalf("edge %d cursor does not point at its node", i)
		}
	}
}

func TestAssemblePageExactFit(t *testing.T) {
	key, _ := ResolveSort(domain.MovieSort{})
	page := AssemblePage(moviesForYears(2019, 2020), 2, key, true)

	if page.PageInfo.HasNextPage {
		t.Fatalf("expected no next page when exactly first rows were fetched")
	}
	if !page.PageInfo.HasPreviousPage {
		t.Fatalf("expected hasPreviousPage to be passed through")
	}
}

func TestAssemblePageEmpty(t *testing.T) {
	key, _ := ResolveSort(domain.MovieSort{})
	page := AssemblePage(nil, 5, key, true)

	if page.Edges == nil || len(page.Edges) != 0 {
		t.Fatalf("expected empty, non-nil edges")
	}
	if page.PageInfo.StartCursor != nil || page.PageInfo.EndCursor != nil {
		t.Fatalf("expected no cursors on an empty page")
	}
	if page.PageInfo.HasNextPage || !page.PageInfo.HasPreviousPage {
		t.Fatalf("unexpected page info %+v", page.PageInfo)
	}
}

func TestAssemblePageZeroFirst(t *testing.T) {
	key, _ := ResolveSort(domain.MovieSort{})
	page := AssemblePage(moviesForYears(2000), 0, key, false)

	if len(page.Edges) != 0 || !page.PageInfo.HasNextPage {
		t.Fatalf("expected no edges and a next page, got %+v", page)
	}
}

func TestBuildWindowQuery(t *testing.T) {
	userID := uuid.New()
	after := Cursor{ID: uuid.New(), Field: domain.MovieSortFieldTitle, Title: strPtr("Heat")}
	q := Query{
		Filter: domain.MovieFilter{Year: intPtr(1995)},
		Sort:   domain.MovieSort{Field: domain.MovieSortFieldTitle},
		First:  10,
		After:  &after,
		UserID: &userID,
	}
	key, _ := ResolveSort(q.Sort)

	sql, args := buildWindowQuery(q, key)

	for _, fragment := range []string{
		"ur.user_id = $1::uuid",
		"m.year_of_release = $2::integer",
		"(m.title > COALESCE($4::text,",
		"ORDER BY m.title ASC, m.id ASC",
		"LIMIT $5",
	} {
		if !strings.Contains(sql, fragment) {
			t.Fatalf("expected query to contain %q:\n%s", fragment, sql)
		}
	}

	expected := []any{userID.String(), 1995, after.ID.String(), "Heat", 11}
	if len(args) != len(expected) {
		t.Fatalf("expected %d args, got %#v", len(expected), args)
	}
	for i := range expected {
		if args[i] != expected[i] {
			t.Fatalf("arg %d: expected %#v got %#v", i, expected[i], args[i])
		}
	}
}

func TestBuildPreviousProbeWithoutPosition(t *testing.T) {
	key, _ := ResolveSort(domain.MovieSort{})
	sql, args := buildPreviousProbe(domain.MovieFilter{}, key, nil)

	if sql != "SELECT EXISTS (SELECT 1 FROM movies m WHERE TRUE)" {
		t.Fatalf("unexpected probe %q", sql)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %#v", args)
	}
}
