package repository_test

import (
	"fmt"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rpattn/moviesapi/internal/domain"
	"github.com/rpattn/moviesapi/internal/listing"
)

// walk follows endCursor until hasNextPage is false and returns every visited id.
func walk(q listing.Query) ([]uuid.UUID, []domain.MovieConnection) {
	var (
		ids   []uuid.UUID
		pages []domain.MovieConnection
	)
	for guard := 0; guard < 200; guard++ {
		page, err := movies.List(ctx, q)
		Expect(err).ToNot(HaveOccurred())
		pages = append(pages, page)
		ids = append(ids, edgeIDs(page)...)
		if !page.PageInfo.HasNextPage {
			return ids, pages
		}
		Expect(page.PageInfo.EndCursor).ToNot(BeNil())
		cursor, err := listing.DecodeCursor(*page.PageInfo.EndCursor)
		Expect(err).ToNot(HaveOccurred())
		q.After = &cursor
	}
	Fail("pagination did not terminate")
	return nil, nil
}

var _ = Describe("Movie listing", func() {
	BeforeEach(func() {
		Expect(CleanupTables(ctx, container.Conn)).To(Succeed())
	})

	Describe("completeness", func() {
		var seeded []domain.Movie

		BeforeEach(func() {
			seeded = nil
			for i := 0; i < 23; i++ {
				movie, err := SeedMovie(ctx, container.Conn, fmt.Sprintf("Film%02d", i%9), 1990+i%5, "Drama")
				Expect(err).ToNot(HaveOccurred())
				seeded = append(seeded, movie)
			}
		})

		sorts := []domain.MovieSort{
			{},
			{Field: domain.MovieSortFieldTitle},
			{Field: domain.MovieSortFieldTitle, Direction: domain.SortDirectionDesc},
			{Field: domain.MovieSortFieldYear, Direction: domain.SortDirectionAsc},
			{Field: domain.MovieSortFieldYear, Direction: domain.SortDirectionDesc},
		}

		for _, s := range sorts {
			for _, first := range []int{1, 4, 10, 23, 50} {
				It(fmt.Sprintf("visits every movie once with sort %q %q and first=%d", s.Field, s.Direction, first), func() {
					ids, pages := walk(listing.Query{Sort: s, First: first})
					Expect(ids).To(Equal(movieIDs(SortMovies(seeded, s))))

					Expect(pages[0].PageInfo.HasPreviousPage).To(BeFalse())
					for _, page := range pages[1:] {
						Expect(page.PageInfo.HasPreviousPage).To(BeTrue())
					}
				})
			}
		}

		It("walks a filtered set completely", func() {
			filter := domain.MovieFilter{Title: strPtr("Film0"), Year: intPtr(1992)}
			var expected []domain.Movie
			for _, m := range seeded {
				if m.YearOfRelease == 1992 {
					expected = append(expected, m)
				}
			}
			s := domain.MovieSort{Field: domain.MovieSortFieldTitle, Direction: domain.SortDirectionDesc}

			ids, _ := walk(listing.Query{Filter: filter, Sort: s, First: 2})
			Expect(ids).To(Equal(movieIDs(SortMovies(expected, s))))
		})

		It("returns identical pages for identical inputs", func() {
			s := domain.MovieSort{Field: domain.MovieSortFieldYear}
			first, err := movies.List(ctx, listing.Query{Sort: s, First: 7})
			Expect(err).ToNot(HaveOccurred())
			second, err := movies.List(ctx, listing.Query{Sort: s, First: 7})
			Expect(err).ToNot(HaveOccurred())
			Expect(second).To(Equal(first))
		})
	})

	Describe("sentinel", func() {
		BeforeEach(func() {
			for i := 0; i < 5; i++ {
				_, err := SeedMovie(ctx, container.Conn, fmt.Sprintf("Film%02d", i), 2000)
				Expect(err).ToNot(HaveOccurred())
			}
		})

		It("reports a next page when k+1 rows match", func() {
			page, err := movies.List(ctx, listing.Query{First: 4})
			Expect(err).ToNot(HaveOccurred())
			Expect(page.Edges).To(HaveLen(4))
			Expect(page.PageInfo.HasNextPage).To(BeTrue())
		})

		It("reports no next page when exactly k rows match", func() {
			page, err := movies.List(ctx, listing.Query{First: 5})
			Expect(err).ToNot(HaveOccurred())
			Expect(page.Edges).To(HaveLen(5))
			Expect(page.PageInfo.HasNextPage).To(BeFalse())
		})

		It("answers first=0 without edges", func() {
			page, err := movies.List(ctx, listing.Query{First: 0})
			Expect(err).ToNot(HaveOccurred())
			Expect(page.Edges).To(BeEmpty())
			Expect(page.PageInfo.HasNextPage).To(BeTrue())
			Expect(page.PageInfo.HasPreviousPage).To(BeFalse())
			Expect(page.PageInfo.StartCursor).To(BeNil())
			Expect(page.PageInfo.EndCursor).To(BeNil())
		})

		It("answers an empty store", func() {
			Expect(CleanupTables(ctx, container.Conn)).To(Succeed())
			page, err := movies.List(ctx, listing.Query{First: 10})
			Expect(err).ToNot(HaveOccurred())
			Expect(page.Edges).To(BeEmpty())
			Expect(page.PageInfo.HasNextPage).To(BeFalse())
			Expect(page.PageInfo.HasPreviousPage).To(BeFalse())
		})
	})

	Describe("tiebreak", func() {
		It("orders equal years by id on every call", func() {
			a, err := SeedMovie(ctx, container.Conn, "Film01", 2001)
			Expect(err).ToNot(HaveOccurred())
			b, err := SeedMovie(ctx, container.Conn, "Film02", 2001)
			Expect(err).ToNot(HaveOccurred())

			expected := movieIDs(SortMovies([]domain.Movie{a, b}, domain.MovieSort{Field: domain.MovieSortFieldYear}))
			for i := 0; i < 3; i++ {
				for _, dir := range []domain.SortDirection{domain.SortDirectionAsc, domain.SortDirectionDesc} {
					page, err := movies.List(ctx, listing.Query{
						Sort:  domain.MovieSort{Field: domain.MovieSortFieldYear, Direction: dir},
						First: 10,
					})
					Expect(err).ToNot(HaveOccurred())
					Expect(edgeIDs(page)).To(Equal(expected))
				}
			}
		})
	})

	Describe("three years", func() {
		var y2019, y2020, y2021 domain.Movie

		BeforeEach(func() {
			var err error
			y2021, err = SeedMovie(ctx, container.Conn, "Film21", 2021)
			Expect(err).ToNot(HaveOccurred())
			y2019, err = SeedMovie(ctx, container.Conn, "Film19", 2019)
			Expect(err).ToNot(HaveOccurred())
			y2020, err = SeedMovie(ctx, container.Conn, "Film20", 2020)
			Expect(err).ToNot(HaveOccurred())
		})

		byYear := domain.MovieSort{Field: domain.MovieSortFieldYear, Direction: domain.SortDirectionAsc}

		It("pages by year ascending", func() {
			page, err := movies.List(ctx, listing.Query{Sort: byYear, First: 2})
			Expect(err).ToNot(HaveOccurred())
			Expect(edgeIDs(page)).To(Equal([]uuid.UUID{y2019.ID, y2020.ID}))
			Expect(page.PageInfo.HasNextPage).To(BeTrue())
			Expect(page.PageInfo.HasPreviousPage).To(BeFalse())

			after, err := listing.DecodeCursor(*page.PageInfo.EndCursor)
			Expect(err).ToNot(HaveOccurred())
			next, err := movies.List(ctx, listing.Query{Sort: byYear, First: 2, After: &after})
			Expect(err).ToNot(HaveOccurred())
			Expect(edgeIDs(next)).To(Equal([]uuid.UUID{y2021.ID}))
			Expect(next.PageInfo.HasNextPage).To(BeFalse())
			Expect(next.PageInfo.HasPreviousPage).To(BeTrue())
		})

		It("accepts a bare movie id as cursor", func() {
			after, err := listing.DecodeCursor(y2020.ID.String())
			Expect(err).ToNot(HaveOccurred())

			next, err := movies.List(ctx, listing.Query{Sort: byYear, First: 2, After: &after})
			Expect(err).ToNot(HaveOccurred())
			Expect(edgeIDs(next)).To(Equal([]uuid.UUID{y2021.ID}))
			Expect(next.PageInfo.HasNextPage).To(BeFalse())
			Expect(next.PageInfo.HasPreviousPage).To(BeTrue())
		})

		It("filters by exact year", func() {
			page, err := movies.List(ctx, listing.Query{Filter: domain.MovieFilter{Year: intPtr(2020)}, First: 10})
			Expect(err).ToNot(HaveOccurred())
			Expect(edgeIDs(page)).To(Equal([]uuid.UUID{y2020.ID}))
			Expect(page.PageInfo.HasNextPage).To(BeFalse())
		})

		It("keeps the position of a deleted cursor row", func() {
			page, err := movies.List(ctx, listing.Query{Sort: byYear, First: 2})
			Expect(err).ToNot(HaveOccurred())
			Expect(movies.Delete(ctx, y2020.ID)).To(Succeed())

			after, err := listing.DecodeCursor(*page.PageInfo.EndCursor)
			Expect(err).ToNot(HaveOccurred())
			next, err := movies.List(ctx, listing.Query{Sort: byYear, First: 2, After: &after})
			Expect(err).ToNot(HaveOccurred())
			Expect(edgeIDs(next)).To(Equal([]uuid.UUID{y2021.ID}))
			Expect(next.PageInfo.HasPreviousPage).To(BeTrue())
		})

		It("falls back to id order for a cursor that never existed", func() {
			after := listing.Cursor{ID: uuid.Nil}
			page, err := movies.List(ctx, listing.Query{Sort: byYear, First: 10, After: &after})
			Expect(err).ToNot(HaveOccurred())
			Expect(page.Edges).To(HaveLen(3))
		})

		It("degrades a deleted bare id to id comparison under a sorted order", func() {
			Expect(movies.Delete(ctx, y2019.ID)).To(Succeed())
			after, err := listing.DecodeCursor(y2019.ID.String())
			Expect(err).ToNot(HaveOccurred())

			// seeded in order 2021, 2019, 2020, so only y2020 has a larger id
			page, err := movies.List(ctx, listing.Query{Sort: byYear, First: 10, After: &after})
			Expect(err).ToNot(HaveOccurred())
			Expect(edgeIDs(page)).To(Equal([]uuid.UUID{y2020.ID}))
		})

		It("reports a previous page after the last row", func() {
			after, err := listing.DecodeCursor(y2021.ID.String())
			Expect(err).ToNot(HaveOccurred())

			page, err := movies.List(ctx, listing.Query{Sort: byYear, First: 2, After: &after})
			Expect(err).ToNot(HaveOccurred())
			Expect(page.Edges).To(BeEmpty())
			Expect(page.PageInfo.HasNextPage).To(BeFalse())
			Expect(page.PageInfo.HasPreviousPage).To(BeTrue())
		})
	})

	Describe("title filter", func() {
		It("treats LIKE metacharacters literally", func() {
			percent, err := SeedMovie(ctx, container.Conn, "100% Love", 2010)
			Expect(err).ToNot(HaveOccurred())
			_, err = SeedMovie(ctx, container.Conn, "1000 Loves", 2010)
			Expect(err).ToNot(HaveOccurred())
			underscore, err := SeedMovie(ctx, container.Conn, "snake_case", 2011)
			Expect(err).ToNot(HaveOccurred())
			_, err = SeedMovie(ctx, container.Conn, "snakeXcase", 2011)
			Expect(err).ToNot(HaveOccurred())
			quote, err := SeedMovie(ctx, container.Conn, "It's \\ here", 2012)
			Expect(err).ToNot(HaveOccurred())

			cases := map[string]uuid.UUID{
				"0%":     percent.ID,
				"e_c":    underscore.ID,
				"'s \\ ": quote.ID,
			}
			for title, id := range cases {
				page, err := movies.List(ctx, listing.Query{Filter: domain.MovieFilter{Title: strPtr(title)}, First: 10})
				Expect(err).ToNot(HaveOccurred())
				Expect(edgeIDs(page)).To(Equal([]uuid.UUID{id}), "title filter %q", title)
			}

			all, err := movies.List(ctx, listing.Query{Filter: domain.MovieFilter{Title: strPtr("")}, First: 10})
			Expect(err).ToNot(HaveOccurred())
			Expect(all.Edges).To(HaveLen(5))
		})
	})
})

var _ = Describe("Movie repository", func() {
	BeforeEach(func() {
		Expect(CleanupTables(ctx, container.Conn)).To(Succeed())
	})

	It("creates, reads, updates and deletes a movie", func() {
		movie, err := domain.NewMovie("Blade Runner", 1982, []string{"Sci-Fi", "Noir"})
		Expect(err).ToNot(HaveOccurred())

		created, err := movies.Create(ctx, movie)
		Expect(err).ToNot(HaveOccurred())
		Expect(created.Slug).To(Equal("blade-runner"))

		byID, err := movies.GetByID(ctx, movie.ID, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(byID.Genres).To(ConsistOf("Sci-Fi", "Noir"))
		Expect(byID.Rating).To(BeNil())
		Expect(byID.UserRating).To(BeNil())

		bySlug, err := movies.GetBySlug(ctx, "blade-runner", nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(bySlug.ID).To(Equal(movie.ID))

		updated, err := movies.Update(ctx, byID.WithDetails("Blade Runner 2049", 2017, []string{"Sci-Fi"}), nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(updated.Slug).To(Equal("blade-runner-2049"))
		Expect(updated.YearOfRelease).To(Equal(2017))
		Expect(updated.Genres).To(Equal([]string{"Sci-Fi"}))

		Expect(movies.Delete(ctx, movie.ID)).To(Succeed())
		_, err = movies.GetByID(ctx, movie.ID, nil)
		Expect(err).To(MatchError(domain.ErrNotFound))
		Expect(movies.Delete(ctx, movie.ID)).To(MatchError(domain.ErrNotFound))
	})

	It("rejects a duplicate slug", func() {
		first, err := domain.NewMovie("Heat", 1995, []string{"Crime"})
		Expect(err).ToNot(HaveOccurred())
		_, err = movies.Create(ctx, first)
		Expect(err).ToNot(HaveOccurred())

		second, err := domain.NewMovie("heat", 1986, []string{"Crime"})
		Expect(err).ToNot(HaveOccurred())
		_, err = movies.Create(ctx, second)
		Expect(err).To(MatchError(domain.ErrConflict))

		exists, err := movies.ExistsBySlug(ctx, "heat")
		Expect(err).ToNot(HaveOccurred())
		Expect(exists).To(BeTrue())
	})

	It("returns ErrNotFound when updating a missing movie", func() {
		movie, err := domain.NewMovie("Ghost", 1990, nil)
		Expect(err).ToNot(HaveOccurred())
		_, err = movies.Update(ctx, movie, nil)
		Expect(err).To(MatchError(domain.ErrNotFound))
	})

	It("loads only existing movies by ids", func() {
		a, err := SeedMovie(ctx, container.Conn, "Film01", 2001)
		Expect(err).ToNot(HaveOccurred())
		b, err := SeedMovie(ctx, container.Conn, "Film02", 2002)
		Expect(err).ToNot(HaveOccurred())

		found, err := movies.GetByIDs(ctx, []uuid.UUID{a.ID, uuid.New(), b.ID}, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(movieIDs(found)).To(ConsistOf(a.ID, b.ID))

		exists, err := movies.ExistsByID(ctx, uuid.New())
		Expect(err).ToNot(HaveOccurred())
		Expect(exists).To(BeFalse())
	})
})
