package repository_test

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/rpattn/moviesapi/internal/db"
	"github.com/rpattn/moviesapi/internal/domain"
)

// Container is a running Postgres testcontainer with the movies schema applied.
type Container struct {
	Container *postgres.PostgresContainer
	Conn      *db.Connection
	Config    db.Config
}

// SetupPostgres starts Postgres, runs the embedded migrations and opens a pool.
func SetupPostgres(ctx context.Context) (*Container, error) {
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("movies"),
		postgres.WithUsername("movies"),
		postgres.WithPassword("movies"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start PostgreSQL container: %w", err)
	}

	host, err := pgContainer.Host(ctx)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	cfg := db.Config{
		Host:     host,
		Port:     port.Int(),
		User:     "movies",
		Password: "movies",
		DBName:   "movies",
		SSLMode:  "disable",
		MaxConns: 4,
		MinConns: 1,
	}

	if err := db.RunMigrations(cfg); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}

	conn, err := db.NewConnection(ctx, cfg)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}

	return &Container{Container: pgContainer, Conn: conn, Config: cfg}, nil
}

// Terminate closes the pool and removes the container.
func (c *Container) Terminate(ctx context.Context) error {
	if c.Conn != nil {
		c.Conn.Close()
	}
	if c.Container != nil {
		return c.Container.Terminate(ctx)
	}
	return nil
}

// CleanupTables empties every table between specs.
func CleanupTables(ctx context.Context, conn *db.Connection) error {
	_, err := conn.Pool.Exec(ctx, `TRUNCATE ratings, genres, movies`)
	return err
}

// SeedMovie inserts a movie row directly, allowing duplicate slugs for tie tests.
func SeedMovie(ctx context.Context, conn *db.Connection, title string, year int, genres ...string) (domain.Movie, error) {
	movie, err := domain.NewMovie(title, year, genres)
	if err != nil {
		return domain.Movie{}, err
	}

	if _, err := conn.Pool.Exec(ctx,
		`INSERT INTO movies (id, slug, title, year_of_release) VALUES ($1, $2, $3, $4)`,
		movie.ID, movie.Slug, movie.Title, movie.YearOfRelease,
	); err != nil {
		return domain.Movie{}, fmt.Errorf("failed to seed movie %q: %w", title, err)
	}
	for _, genre := range movie.Genres {
		if _, err := conn.Pool.Exec(ctx, `INSERT INTO genres (movie_id, name) VALUES ($1, $2)`, movie.ID, genre); err != nil {
			return domain.Movie{}, fmt.Errorf("failed to seed genre %q: %w", genre, err)
		}
	}

	return movie, nil
}

// SortMovies orders movies the way the store does for the given sort.
// Seeded titles share a prefix and differ in digits, so byte order matches any collation.
func SortMovies(movies []domain.Movie, s domain.MovieSort) []domain.Movie {
	sorted := append([]domain.Movie(nil), movies...)
	idLess := func(a, b domain.Movie) bool { return bytes.Compare(a.ID[:], b.ID[:]) < 0 }

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		switch s.Field {
		case domain.MovieSortFieldTitle:
			if a.Title != b.Title {
				if s.Direction == domain.SortDirectionDesc {
					return a.Title > b.Title
				}
				return a.Title < b.Title
			}
		case domain.MovieSortFieldYear:
			if a.YearOfRelease != b.YearOfRelease {
				if s.Direction == domain.SortDirectionDesc {
					return a.YearOfRelease > b.YearOfRelease
				}
				return a.YearOfRelease < b.YearOfRelease
			}
		}
		return idLess(a, b)
	})
	return sorted
}

func movieIDs(movies []domain.Movie) []uuid.UUID {
	ids := make([]uuid.UUID, len(movies))
	for i, m := range movies {
		ids[i] = m.ID
	}
	return ids
}

func edgeIDs(conn domain.MovieConnection) []uuid.UUID {
	ids := make([]uuid.UUID, len(conn.Edges))
	for i, e := range conn.Edges {
		ids[i] = e.Node.ID
	}
	return ids
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
