package listing

import (
	"strings"
	"testing"

	"github.com/rpattn/moviesapi/internal/domain"
)

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }

func TestBuildFilterEmptyMatchesAll(t *testing.T) {
	b := NewSQLBuilder()
	p := BuildFilter(b, domain.MovieFilter{})
	if p.SQL() != "TRUE" {
		t.Fatalf("expected TRUE for empty filter, got %q", p.SQL())
	}
	if len(b.Args()) != 0 {
		t.Fatalf("expected no args, got %v", b.Args())
	}
}

func TestBuildFilterEmptyTitleMatchesAll(t *testing.T) {
	b := NewSQLBuilder()
	p := BuildFilter(b, domain.MovieFilter{Title: strPtr("")})
	if p.SQL() != "TRUE" {
		t.Fatalf("expected empty title to match everything, got %q", p.SQL())
	}
}

func TestBuildFilterCombinesTitleAndYear(t *testing.T) {
	b := NewSQLBuilder()
	b.AddArg("user")
	p := BuildFilter(b, domain.MovieFilter{Title: strPtr("Matrix"), Year: intPtr(1999)})

	expected := `m.title LIKE $2 ESCAPE '\' AND m.year_of_release = $3::integer`
	if p.SQL() != expected {
		t.Fatalf("unexpected predicate:\nexpected %s\ngot      %s", expected, p.SQL())
	}

	args := b.Args()
	if len(args) != 3 || args[1] != "%Matrix%" || args[2] != 1999 {
		t.Fatalf("unexpected args: %#v", args)
	}
}

func TestBuildFilterTreatsWildcardsLiterally(t *testing.T) {
	b := NewSQLBuilder()
	BuildFilter(b, domain.MovieFilter{Title: strPtr(`100%_sure\'s`)})

	pattern := b.Args()[0].(string)
	if pattern != `%100\%\_sure\\'s%` {
		t.Fatalf("unexpected escaped pattern %q", pattern)
	}
}

func TestPredicateAndDoesNotAlias(t *testing.T) {
	b := NewSQLBuilder()
	base := BuildFilter(b, domain.MovieFilter{Year: intPtr(2020)})
	left := base.And("a")
	right := base.And("b")

	if !strings.HasSuffix(left.SQL(), " AND a") || !strings.HasSuffix(right.SQL(), " AND b") {
		t.Fatalf("expected independent predicates, got %q and %q", left.SQL(), right.SQL())
	}
	if base.SQL() != "m.year_of_release = $1::integer" {
		t.Fatalf("expected base predicate untouched, got %q", base.SQL())
	}
}
