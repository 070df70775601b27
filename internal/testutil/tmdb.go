package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// FakeMovie is one movie as the lookup service reports it.
type FakeMovie struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	ReleaseDate string   `json:"release_date"`
	Overview    string   `json:"overview"`
	VoteAverage *float64 `json:"vote_average,omitempty"`
	PosterPath  string   `json:"poster_path"`
}

// FakeTMDB is an httptest server speaking the subset of the TMDB v3 API the
// lookup client uses.  Routes answer from the exported maps; a missing key
// yields an empty results array (or 404 for details).
type FakeTMDB struct {
	*httptest.Server

	APIKey   string
	TopRated map[int][]FakeMovie
	Search   map[string][]FakeMovie
	Details  map[int64]FakeMovie

	mu       sync.Mutex
	failures []int
	hits     map[string]int
}

// NewFakeTMDB starts the server and stops it when the test ends.
func NewFakeTMDB(t testing.TB) *FakeTMDB {
	t.Helper()
	f := &FakeTMDB{
		APIKey:   "test-key",
		TopRated: map[int][]FakeMovie{},
		Search:   map[string][]FakeMovie{},
		Details:  map[int64]FakeMovie{},
		hits:     map[string]int{},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

// FailNext makes the next len(statuses) requests answer with those codes.
func (f *FakeTMDB) FailNext(statuses ...int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, statuses...)
}

// Hits reports how many requests reached path.
func (f *FakeTMDB) Hits(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *FakeTMDB) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.hits[r.URL.Path]++
	var fail int
	if len(f.failures) > 0 {
		fail, f.failures = f.failures[0], f.failures[1:]
	}
	f.mu.Unlock()

	if fail != 0 {
		http.Error(w, `{"status_message":"injected"}`, fail)
		return
	}
	if r.URL.Query().Get("api_key") != f.APIKey {
		http.Error(w, `{"status_message":"Invalid API key"}`, http.StatusUnauthorized)
		return
	}

	switch {
	case r.URL.Path == "/movie/top_rated":
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		writeResults(w, f.TopRated[page])
	case r.URL.Path == "/search/movie":
		writeResults(w, f.Search[r.URL.Query().Get("query")])
	case strings.HasPrefix(r.URL.Path, "/movie/"):
		id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/movie/"), 10, 64)
		m, ok := f.Details[id]
		if err != nil || !ok {
			http.Error(w, `{"status_message":"not found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(m)
	default:
		http.NotFound(w, r)
	}
}

func writeResults(w http.ResponseWriter, movies []FakeMovie) {
	if movies == nil {
		movies = []FakeMovie{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"page": 1, "results": movies})
}

// Rating returns a pointer for FakeMovie.VoteAverage literals.
func Rating(v float64) *float64 { return &v }
