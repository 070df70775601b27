// Package moviedb is the client for the external movie lookup service (the
// TMDB v3 REST API).  It fetches top-rated pages, title searches and single
// titles, and maps them onto the catalog and personal-list records.
package moviedb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/iliyamo/movielist/internal/metrics"
)

// ErrUnexpectedResponse is returned when the service answers with a non-2xx
// status or a body that does not have the expected shape.
var ErrUnexpectedResponse = errors.New("unexpected lookup response")

// maxBodyBytes bounds how much of a response is read.
const maxBodyBytes = 8 << 20

// Movie is one raw movie record as reported by the lookup service.
type Movie struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	ReleaseDate string   `json:"release_date"`
	Overview    string   `json:"overview"`
	VoteAverage *float64 `json:"vote_average"`
	PosterPath  string   `json:"poster_path"`
}

// Config configures the lookup client.
type Config struct {
	BaseURL      string
	ImageBaseURL string
	APIKey       string
	Timeout    time.Duration
	MaxRetries int
	HTTPClient *http.Client
}

// Client talks to the lookup service.  Every request is bounded by the
// configured timeout and transient failures are retried up to MaxRetries
// times.  The embedded Mapper converts results into store records.
type Client struct {
	Mapper

	httpClient *http.Client
	baseURL    string
	apiKey     string
	maxRetries int
	backoff    time.Duration
}

// NewClient creates a lookup client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		Mapper:     Mapper{ImageBaseURL: cfg.ImageBaseURL},
		httpClient: hc,
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		maxRetries: maxRetries,
		backoff:    200 * time.Millisecond,
	}
}

// TopRated returns one page of the top-rated list.
func (c *Client) TopRated(ctx context.Context, page int) ([]Movie, error) {
	body, err := c.get(ctx, "top_rated", "/movie/top_rated", url.Values{"page": {strconv.Itoa(page)}})
	if err != nil {
		return nil, err
	}
	return parseResults(body)
}

// Search returns every result for a free-text title query.
func (c *Client) Search(ctx context.Context, query string) ([]Movie, error) {
	body, err := c.get(ctx, "search", "/search/movie", url.Values{"query": {query}})
	if err != nil {
		return nil, err
	}
	return parseResults(body)
}

// Details returns the full record of a single title.
func (c *Client) Details(ctx context.Context, id int64) (Movie, error) {
	body, err := c.get(ctx, "details", "/movie/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return Movie{}, err
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return Movie{}, fmt.Errorf("%w: details body is not an object", ErrUnexpectedResponse)
	}
	return movieFrom(doc), nil
}

// get performs a GET with the credential attached and returns the body of
// a 2xx response.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	target := c.baseURL + path + "?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff * time.Duration(attempt)):
			}
		}
		body, retry, err := c.do(ctx, endpoint, target)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry || ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

// do performs one attempt.  retry reports whether the failure is transient.
func (c *Client) do(ctx context.Context, endpoint, target string) (body []byte, retry bool, err error) {
	start := time.Now()
	outcome := "ok"
	defer func() { metrics.RecordLookup(endpoint, outcome, time.Since(start)) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		outcome = "error"
		return nil, false, fmt.Errorf("create %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		outcome = "transport_error"
		return nil, true, fmt.Errorf("%s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		outcome = "transport_error"
		return nil, true, fmt.Errorf("read %s response: %w", endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome = "status_" + strconv.Itoa(resp.StatusCode)
		transient := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, transient, fmt.Errorf("%w: %s returned status %d", ErrUnexpectedResponse, endpoint, resp.StatusCode)
	}
	if !gjson.ValidBytes(body) {
		outcome = "bad_body"
		return nil, false, fmt.Errorf("%w: %s returned invalid JSON", ErrUnexpectedResponse, endpoint)
	}
	return body, false, nil
}

func parseResults(body []byte) ([]Movie, error) {
	results := gjson.GetBytes(body, "results")
	if !results.IsArray() {
		return nil, fmt.Errorf("%w: missing results array", ErrUnexpectedResponse)
	}
	items := results.Array()
	out := make([]Movie, 0, len(items))
	for _, item := range items {
		out = append(out, movieFrom(item))
	}
	return out, nil
}

func movieFrom(r gjson.Result) Movie {
	m := Movie{
		ID:          r.Get("id").Int(),
		Title:       r.Get("title").String(),
		ReleaseDate: r.Get("release_date").String(),
		Overview:    r.Get("overview").String(),
		PosterPath:  r.Get("poster_path").String(),
	}
	if v := r.Get("vote_average"); v.Type == gjson.Number {
		f := v.Float()
		m.VoteAverage = &f
	}
	return m
}
