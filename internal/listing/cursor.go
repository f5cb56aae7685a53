package listing

import (
	"encoding/base64"
	"fmt"
	"math"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/rpattn/moviesapi/internal/domain"
)

// Cursor is a decoded pagination token. Field and the matching key are only set
// for tokens minted under a sorted listing.
type Cursor struct {
	ID    uuid.UUID
	Field domain.MovieSortField
	Title *string
	Year  *int
}

type cursorPayload struct {
	ID    string  `json:"id"`
	Field string  `json:"f,omitempty"`
	Title *string `json:"t,omitempty"`
	Year  *int    `json:"y,omitempty"`
}

// Position is a point in a sort order. A nil Key is looked up by ID inside the query,
// falling back to plain id comparison when the row no longer exists.
type Position struct {
	ID  uuid.UUID
	Key any
}

// EncodeCursor mints the token for movie under the given order. Under id order the
// token is the movie id itself.
func EncodeCursor(key SortKey, movie domain.Movie) string {
	payload := cursorPayload{ID: movie.ID.String()}
	switch key.Field {
	case domain.MovieSortFieldTitle:
		title := movie.Title
		payload.Field = string(key.Field)
		payload.Title = &title
	case domain.MovieSortFieldYear:
		year := movie.YearOfRelease
		payload.Field = string(key.Field)
		payload.Year = &year
	default:
		return payload.ID
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		// cursorPayload only holds strings and ints
		return movie.ID.String()
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor parses a token produced by EncodeCursor. A bare movie id is accepted too,
// but it carries no sort key: under a title or year order its key is looked up from the
// live row, and once that row is gone the position degrades to a plain id comparison
// that is not a suffix of the requested order. Bare ids are only stable under id order.
func DecodeCursor(value string) (Cursor, error) {
	if id, err := uuid.Parse(value); err == nil {
		return Cursor{ID: id}, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: malformed cursor", domain.ErrInvalidArgument)
	}

	var payload cursorPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Cursor{}, fmt.Errorf("%w: malformed cursor", domain.ErrInvalidArgument)
	}

	id, err := uuid.Parse(payload.ID)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: malformed cursor id", domain.ErrInvalidArgument)
	}

	cursor := Cursor{ID: id}
	switch domain.MovieSortField(payload.Field) {
	case domain.MovieSortFieldTitle:
		if payload.Title == nil {
			return Cursor{}, fmt.Errorf("%w: cursor is missing its title key", domain.ErrInvalidArgument)
		}
		cursor.Field = domain.MovieSortFieldTitle
		cursor.Title = payload.Title
	case domain.MovieSortFieldYear:
		if payload.Year == nil {
			return Cursor{}, fmt.Errorf("%w: cursor is missing its year key", domain.ErrInvalidArgument)
		}
		if *payload.Year < math.MinInt32 || *payload.Year > math.MaxInt32 {
			return Cursor{}, fmt.Errorf("%w: cursor year key is out of range", domain.ErrInvalidArgument)
		}
		cursor.Field = domain.MovieSortFieldYear
		cursor.Year = payload.Year
	case domain.MovieSortFieldNone:
	default:
		return Cursor{}, fmt.Errorf("%w: unsupported cursor sort field", domain.ErrInvalidArgument)
	}

	return cursor, nil
}

// Position resolves the cursor against key. The embedded sort value is used when it
// was minted for the same field, so a deleted row keeps its place.
func (c Cursor) Position(key SortKey) Position {
	pos := Position{ID: c.ID}
	if c.Field != key.Field {
		return pos
	}
	switch key.Field {
	case domain.MovieSortFieldTitle:
		if c.Title != nil {
			pos.Key = *c.Title
		}
	case domain.MovieSortFieldYear:
		if c.Year != nil {
			pos.Key = *c.Year
		}
	}
	return pos
}
