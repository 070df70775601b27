package moviedb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movielist/internal/testutil"
)

func newTestClient(t *testing.T, baseURL string, retries int) *Client {
	t.Helper()
	c := NewClient(Config{
		BaseURL:      baseURL,
		ImageBaseURL: "https://image.example/w500",
		APIKey:       "test-key",
		Timeout:      time.Second,
		MaxRetries:   retries,
	})
	c.backoff = time.Millisecond
	return c
}

func TestTopRated(t *testing.T) {
	fake := testutil.NewFakeTMDB(t)
	fake.TopRated[2] = []testutil.FakeMovie{
		{ID: 278, Title: "The Shawshank Redemption", ReleaseDate: "1994-09-23", Overview: "prison", VoteAverage: testutil.Rating(8.7), PosterPath: "/q6y0.jpg"},
		{ID: 238, Title: "The Godfather", ReleaseDate: "1972-03-14", Overview: "family", PosterPath: "/3bhk.jpg"},
	}
	c := newTestClient(t, fake.URL, 0)

	movies, err := c.TopRated(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, int64(278), movies[0].ID)
	assert.Equal(t, "1994-09-23", movies[0].ReleaseDate)
	require.NotNil(t, movies[0].VoteAverage)
	assert.Equal(t, 8.7, *movies[0].VoteAverage)
	assert.Nil(t, movies[1].VoteAverage)
}

func TestSearchAndDetails(t *testing.T) {
	fake := testutil.NewFakeTMDB(t)
	dune := testutil.FakeMovie{ID: 438631, Title: "Dune", ReleaseDate: "2021-09-15", Overview: "spice", VoteAverage: testutil.Rating(7.8), PosterPath: "/d5NX.jpg"}
	fake.Search["Dune"] = []testutil.FakeMovie{dune}
	fake.Details[dune.ID] = dune
	c := newTestClient(t, fake.URL, 0)

	results, err := c.Search(context.Background(), "Dune")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Dune", results[0].Title)

	empty, err := c.Search(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Empty(t, empty)

	got, err := c.Details(context.Background(), dune.ID)
	require.NoError(t, err)
	assert.Equal(t, results[0], got)
}

func TestDetailsNotFoundIsNotRetried(t *testing.T) {
	fake := testutil.NewFakeTMDB(t)
	c := newTestClient(t, fake.URL, 3)

	_, err := c.Details(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUnexpectedResponse)
	assert.Equal(t, 1, fake.Hits("/movie/42"))
}

func TestRetriesTransientStatusOnce(t *testing.T) {
	fake := testutil.NewFakeTMDB(t)
	fake.Search["Heat"] = []testutil.FakeMovie{{ID: 949, Title: "Heat", ReleaseDate: "1995-12-15"}}
	fake.FailNext(http.StatusServiceUnavailable)
	c := newTestClient(t, fake.URL, 1)

	results, err := c.Search(context.Background(), "Heat")
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 2, fake.Hits("/search/movie"))
}

func TestRetryBudgetExhausted(t *testing.T) {
	fake := testutil.NewFakeTMDB(t)
	fake.FailNext(http.StatusBadGateway, http.StatusTooManyRequests)
	c := newTestClient(t, fake.URL, 1)

	_, err := c.TopRated(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnexpectedResponse)
	assert.Equal(t, 2, fake.Hits("/movie/top_rated"))
}

func TestUnauthorizedIsNotRetried(t *testing.T) {
	fake := testutil.NewFakeTMDB(t)
	fake.APIKey = "other"
	c := newTestClient(t, fake.URL, 2)

	_, err := c.TopRated(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnexpectedResponse)
	assert.Equal(t, 1, fake.Hits("/movie/top_rated"))
}

func TestUnexpectedShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/movie":
			_, _ = w.Write([]byte(`{"page":1,"results":"nope"}`))
		case "/movie/1":
			_, _ = w.Write([]byte(`[1,2,3]`))
		default:
			_, _ = w.Write([]byte(`not json`))
		}
	}))
	defer srv.Close()
	c := newTestClient(t, srv.URL, 0)

	_, err := c.Search(context.Background(), "x")
	assert.ErrorIs(t, err, ErrUnexpectedResponse)
	_, err = c.Details(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnexpectedResponse)
	_, err = c.TopRated(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnexpectedResponse)
}

func TestTimeoutIsBounded(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "k", Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := c.Search(context.Background(), "slow")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
