// Package tmdb is a rate-limited client for The Movie Database API.
// It supplies historical title and box-office data used to enrich
// analysis prompts.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrUnavailable covers network failures, auth rejections and any
	// other provider error that is not a rate-limit condition.
	ErrUnavailable = errors.New("metadata provider unavailable")

	// ErrRateLimited is returned when a request cannot be issued within
	// the provider's documented budget and the bounded wait expired.
	ErrRateLimited = errors.New("metadata provider rate limit exceeded")
)

// Provider-documented budget: 40 requests per 10-second window.
const (
	providerLimit  = 40
	providerWindow = 10 * time.Second

	defaultMaxWait = 5 * time.Second
	maxRetries     = 2
	retryBaseDelay = 500 * time.Millisecond
)

// Record is a single movie result. Ephemeral: fetched on demand and
// never cached across runs.
type Record struct {
	ID         int
	Title      string
	Year       string
	Budget     int64
	Revenue    int64
	Rating     float64
	Popularity float64
}

// ROI returns the return on investment as a percentage, 0 when the
// budget is unknown.
func (r Record) ROI() float64 {
	if r.Budget == 0 {
		return 0
	}
	return float64(r.Revenue-r.Budget) / float64(r.Budget) * 100
}

// Client talks to the TMDB HTTP API. All calls go through the shared
// limiter, which is the only mutable state touched by concurrent
// subagents.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	limiter *Limiter
	logger  *zap.Logger
}

// NewClient builds a client against baseURL with the provider's
// documented rate budget.
func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	return &Client{
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
		limiter: NewLimiter(providerLimit, providerWindow, defaultMaxWait),
		logger:  logger,
	}
}

type searchResponse struct {
	Results []movieJSON `json:"results"`
}

type movieJSON struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	Budget      int64   `json:"budget"`
	Revenue     int64   `json:"revenue"`
	VoteAverage float64 `json:"vote_average"`
	Popularity  float64 `json:"popularity"`
}

func (m movieJSON) record() Record {
	year := ""
	if len(m.ReleaseDate) >= 4 {
		year = m.ReleaseDate[:4]
	}
	return Record{
		ID:         m.ID,
		Title:      m.Title,
		Year:       year,
		Budget:     m.Budget,
		Revenue:    m.Revenue,
		Rating:     m.VoteAverage,
		Popularity: m.Popularity,
	}
}

// SearchMovie looks up movies by title.
func (c *Client) SearchMovie(ctx context.Context, title string) ([]Record, error) {
	endpoint := fmt.Sprintf("%s/search/movie?api_key=%s&query=%s",
		c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(title))

	var resp searchResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(resp.Results))
	for _, m := range resp.Results {
		records = append(records, m.record())
	}
	return records, nil
}

// MovieDetails fetches full details, including budget and revenue, for
// a single movie.
func (c *Client) MovieDetails(ctx context.Context, id int) (Record, error) {
	endpoint := fmt.Sprintf("%s/movie/%s?api_key=%s",
		c.baseURL, strconv.Itoa(id), url.QueryEscape(c.apiKey))

	var m movieJSON
	if err := c.getJSON(ctx, endpoint, &m); err != nil {
		return Record{}, err
	}
	return m.record(), nil
}

// getJSON issues a GET with rate limiting and bounded retries. 4xx
// responses fail immediately; 5xx and transport errors are retried with
// exponential backoff.
func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << (attempt - 1)
			c.logger.Debug("retrying metadata request",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", delay))
			if err := sleepContext(ctx, delay); err != nil {
				return fmt.Errorf("%w: %v", ErrUnavailable, err)
			}
		}

		if err := c.limiter.Acquire(ctx); err != nil {
			if errors.Is(err, ErrRateLimited) {
				return err
			}
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}

		retry, err := c.doOnce(ctx, endpoint, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry {
			return err
		}
	}
	return lastErr
}

func (c *Client) doOnce(ctx context.Context, endpoint string, out interface{}) (retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return true, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return true, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return false, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("%w: failed to decode response: %v", ErrUnavailable, err)
	}
	return false, nil
}
