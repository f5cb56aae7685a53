package listing

import (
	"strings"

	"github.com/rpattn/moviesapi/internal/domain"
)

// Predicate is a conjunction of parameterized SQL clauses over the movies alias "m".
type Predicate struct {
	clauses []string
}

// BuildFilter translates the optional filters into a predicate. Absent filters add no
// clause, so an empty filter matches every movie.
func BuildFilter(b *SQLBuilder, filter domain.MovieFilter) Predicate {
	var p Predicate

	if filter.Title != nil && *filter.Title != "" {
		pattern := "%" + EscapeLike(*filter.Title) + "%"
		p.clauses = append(p.clauses, `m.title LIKE `+b.Bind(pattern)+` ESCAPE '\'`)
	}

	if filter.Year != nil {
		p.clauses = append(p.clauses, "m.year_of_release = "+b.Bind(*filter.Year)+"::integer")
	}

	return p
}

// And returns a predicate with clause appended.
func (p Predicate) And(clause string) Predicate {
	clauses := make([]string, len(p.clauses), len(p.clauses)+1)
	copy(clauses, p.clauses)
	return Predicate{clauses: append(clauses, clause)}
}

// SQL renders the predicate. An empty predicate renders as TRUE.
func (p Predicate) SQL() string {
	if len(p.clauses) == 0 {
		return "TRUE"
	}
	return strings.Join(p.clauses, " AND ")
}

// EscapeLike escapes LIKE wildcards so the value matches literally under ESCAPE '\'.
func EscapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
