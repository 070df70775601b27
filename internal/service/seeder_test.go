package service

import (
    "context"
    "fmt"
    "net/http"
    "testing"
    "time"

    "github.com/sirupsen/logrus/hooks/test"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/movielist/internal/model"
    "github.com/iliyamo/movielist/internal/moviedb"
    "github.com/iliyamo/movielist/internal/repository"
    "github.com/iliyamo/movielist/internal/testutil"
)

func fillTopRated(fake *testutil.FakeTMDB, pages, perPage int) {
    for p := 1; p <= pages; p++ {
        for i := 0; i < perPage; i++ {
            fake.TopRated[p] = append(fake.TopRated[p], testutil.FakeMovie{
                ID:          int64(p*100 + i),
                Title:       fmt.Sprintf("Movie %d-%d", p, i),
                ReleaseDate: "1999-03-31",
                Overview:    "overview",
                VoteAverage: testutil.Rating(8.0),
                PosterPath:  fmt.Sprintf("/p%d-%d.jpg", p, i),
            })
        }
    }
}

func newSeeder(t *testing.T, fake *testutil.FakeTMDB) (*Seeder, *repository.CatalogRepo) {
    t.Helper()
    logger, _ := test.NewNullLogger()
    repo := repository.NewCatalogRepo(testutil.NewStore(t))
    client := moviedb.NewClient(moviedb.Config{
        BaseURL:      fake.URL,
        ImageBaseURL: "https://image.example/w500",
        APIKey:       fake.APIKey,
        Timeout:      time.Second,
    })
    return &Seeder{Source: client, Store: repo, Pages: 5, Log: logger}, repo
}

func TestSeedEmptyCatalogInsertsAllPages(t *testing.T) {
    fake := testutil.NewFakeTMDB(t)
    fillTopRated(fake, 5, 20)
    seeder, repo := newSeeder(t, fake)

    res, err := seeder.Run(context.Background())
    require.NoError(t, err)
    assert.Equal(t, Seeded, res.State)
    assert.Equal(t, 100, res.Inserted)

    movies, err := repo.ListAll(context.Background())
    require.NoError(t, err)
    require.Len(t, movies, 100)
    first := movies[0]
    assert.Equal(t, "Movie 1-0", first.Title)
    assert.Equal(t, 1999, first.Year)
    assert.Equal(t, "https://image.example/w500/p1-0.jpg", first.ImageURL)
    assert.Equal(t, model.CatalogDefaultReview, *first.Review)
    assert.Equal(t, 5, fake.Hits("/movie/top_rated"))
}

func TestSeedSkipsNonEmptyCatalog(t *testing.T) {
    fake := testutil.NewFakeTMDB(t)
    fillTopRated(fake, 5, 2)
    seeder, repo := newSeeder(t, fake)

    _, err := seeder.Run(context.Background())
    require.NoError(t, err)

    res, err := seeder.Run(context.Background())
    require.NoError(t, err)
    assert.Equal(t, Seeded, res.State)
    assert.Zero(t, res.Inserted)
    assert.Equal(t, 5, fake.Hits("/movie/top_rated"), "second run must not call the lookup service")

    n, err := repo.Count(context.Background())
    require.NoError(t, err)
    assert.Equal(t, 10, n)
}

func TestSeedDropsRepeatedTitles(t *testing.T) {
    fake := testutil.NewFakeTMDB(t)
    fillTopRated(fake, 2, 3)
    fake.TopRated[2][0].Title = fake.TopRated[1][0].Title
    seeder, repo := newSeeder(t, fake)
    seeder.Pages = 2

    res, err := seeder.Run(context.Background())
    require.NoError(t, err)
    assert.Equal(t, 5, res.Inserted)
    assert.Equal(t, 1, res.Skipped)

    n, err := repo.Count(context.Background())
    require.NoError(t, err)
    assert.Equal(t, 5, n)
}

// failingSource serves pages until failAt, then errors.
type failingSource struct {
    moviedb.Mapper
    failAt int
}

func (f failingSource) TopRated(_ context.Context, page int) ([]moviedb.Movie, error) {
    if page >= f.failAt {
        return nil, moviedb.ErrUnexpectedResponse
    }
    return []moviedb.Movie{{ID: int64(page), Title: fmt.Sprintf("Page %d", page), ReleaseDate: "2001-01-01", PosterPath: "/x.jpg"}}, nil
}

func TestSeedFailureLeavesCatalogEmpty(t *testing.T) {
    fake := testutil.NewFakeTMDB(t)
    seeder, repo := newSeeder(t, fake)
    seeder.Source = failingSource{Mapper: moviedb.Mapper{ImageBaseURL: "https://image.example"}, failAt: 3}

    res, err := seeder.Run(context.Background())
    require.Error(t, err)
    assert.ErrorIs(t, err, moviedb.ErrUnexpectedResponse)
    assert.Equal(t, Unseeded, res.State)

    n, err := repo.Count(context.Background())
    require.NoError(t, err)
    assert.Zero(t, n)
}

func TestSeedTransientFailureIsRetriedByClient(t *testing.T) {
    fake := testutil.NewFakeTMDB(t)
    fillTopRated(fake, 1, 4)
    seeder, repo := newSeeder(t, fake)
    seeder.Pages = 1
    seeder.Source = moviedb.NewClient(moviedb.Config{
        BaseURL:    fake.URL,
        APIKey:     fake.APIKey,
        Timeout:    time.Second,
        MaxRetries: 1,
    })
    fake.FailNext(http.StatusServiceUnavailable)

    res, err := seeder.Run(context.Background())
    require.NoError(t, err)
    assert.Equal(t, 4, res.Inserted)

    n, err := repo.Count(context.Background())
    require.NoError(t, err)
    assert.Equal(t, 4, n)
}
