package repository_test

import (
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rpattn/moviesapi/internal/domain"
	"github.com/rpattn/moviesapi/internal/listing"
)

var _ = Describe("Rating repository", func() {
	var (
		movie domain.Movie
		alice uuid.UUID
		bob   uuid.UUID
	)

	BeforeEach(func() {
		Expect(CleanupTables(ctx, container.Conn)).To(Succeed())

		var err error
		movie, err = SeedMovie(ctx, container.Conn, "Film01", 1999, "Action")
		Expect(err).ToNot(HaveOccurred())
		alice = uuid.New()
		bob = uuid.New()
	})

	countRatings := func(movieID, userID uuid.UUID) int {
		var count int
		err := container.Conn.Pool.QueryRow(ctx,
			`SELECT count(*) FROM ratings WHERE movie_id = $1 AND user_id = $2`, movieID, userID).Scan(&count)
		Expect(err).ToNot(HaveOccurred())
		return count
	}

	It("keeps one rating per user and movie", func() {
		_, err := ratings.Rate(ctx, domain.Rating{MovieID: movie.ID, UserID: alice, Rating: 5})
		Expect(err).ToNot(HaveOccurred())
		_, err = ratings.Rate(ctx, domain.Rating{MovieID: movie.ID, UserID: alice, Rating: 2})
		Expect(err).ToNot(HaveOccurred())

		Expect(countRatings(movie.ID, alice)).To(Equal(1))

		got, err := movies.GetByID(ctx, movie.ID, &alice)
		Expect(err).ToNot(HaveOccurred())
		Expect(got.UserRating).To(HaveValue(Equal(2)))
		Expect(got.Rating).To(HaveValue(BeNumerically("==", 2.0)))
	})

	It("averages ratings to one decimal and hides other users' ratings", func() {
		for _, r := range []struct {
			user  uuid.UUID
			score int
		}{{alice, 4}, {bob, 5}, {uuid.New(), 5}} {
			_, err := ratings.Rate(ctx, domain.Rating{MovieID: movie.ID, UserID: r.user, Rating: r.score})
			Expect(err).ToNot(HaveOccurred())
		}

		page, err := movies.List(ctx, listing.Query{First: 10, UserID: &bob})
		Expect(err).ToNot(HaveOccurred())
		Expect(page.Edges).To(HaveLen(1))
		node := page.Edges[0].Node
		Expect(node.Rating).To(HaveValue(BeNumerically("~", 4.7, 0.001)))
		Expect(node.UserRating).To(HaveValue(Equal(5)))

		anonymous, err := movies.GetByID(ctx, movie.ID, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(anonymous.UserRating).To(BeNil())
	})

	It("leaves rating null for unrated movies", func() {
		got, err := movies.GetByID(ctx, movie.ID, &alice)
		Expect(err).ToNot(HaveOccurred())
		Expect(got.Rating).To(BeNil())
		Expect(got.UserRating).To(BeNil())
	})

	It("rejects a rating for a missing movie", func() {
		_, err := ratings.Rate(ctx, domain.Rating{MovieID: uuid.New(), UserID: alice, Rating: 3})
		Expect(err).To(MatchError(domain.ErrNotFound))
	})

	It("deletes only the caller's rating", func() {
		_, err := ratings.Rate(ctx, domain.Rating{MovieID: movie.ID, UserID: alice, Rating: 3})
		Expect(err).ToNot(HaveOccurred())
		_, err = ratings.Rate(ctx, domain.Rating{MovieID: movie.ID, UserID: bob, Rating: 1})
		Expect(err).ToNot(HaveOccurred())

		Expect(ratings.Delete(ctx, movie.ID, alice)).To(Succeed())
		Expect(ratings.Delete(ctx, movie.ID, alice)).To(MatchError(domain.ErrNotFound))
		Expect(countRatings(movie.ID, bob)).To(Equal(1))
	})

	It("lists the caller's ratings with slugs", func() {
		other, err := SeedMovie(ctx, container.Conn, "Film02", 2000)
		Expect(err).ToNot(HaveOccurred())

		_, err = ratings.Rate(ctx, domain.Rating{MovieID: movie.ID, UserID: alice, Rating: 4})
		Expect(err).ToNot(HaveOccurred())
		_, err = ratings.Rate(ctx, domain.Rating{MovieID: other.ID, UserID: alice, Rating: 1})
		Expect(err).ToNot(HaveOccurred())
		_, err = ratings.Rate(ctx, domain.Rating{MovieID: other.ID, UserID: bob, Rating: 5})
		Expect(err).ToNot(HaveOccurred())

		mine, err := ratings.ListForUser(ctx, alice)
		Expect(err).ToNot(HaveOccurred())
		Expect(mine).To(Equal([]domain.UserRating{
			{MovieID: movie.ID, Slug: "film01", Rating: 4},
			{MovieID: other.ID, Slug: "film02", Rating: 1},
		}))

		none, err := ratings.ListForUser(ctx, uuid.New())
		Expect(err).ToNot(HaveOccurred())
		Expect(none).To(BeEmpty())
	})

	It("cascades ratings when the movie is deleted", func() {
		_, err := ratings.Rate(ctx, domain.Rating{MovieID: movie.ID, UserID: alice, Rating: 4})
		Expect(err).ToNot(HaveOccurred())

		Expect(movies.Delete(ctx, movie.ID)).To(Succeed())
		Expect(countRatings(movie.ID, alice)).To(Equal(0))
	})
})
