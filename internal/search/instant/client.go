// Package instant is a thin HTTP client for a DuckDuckGo-style
// instant-answer JSON API. It is one of the two external search
// collaborators the feature suites assert against.
package instant

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client queries the instant-answer API. It handles query encoding,
// JSON decoding, and automatic retry with exponential backoff on
// HTTP 429.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	log        zerolog.Logger
}

// NewClient creates a new instant-answer client. The baseURL should be
// the root URL of the API (e.g., https://api.duckduckgo.com). A zero
// timeout defaults to 30 seconds.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries: 3,
		log:        log.With().Str("component", "instant").Logger(),
	}
}

// Query sends the phrase to the API with format=json and returns the
// parsed answer. Non-2xx statuses other than 429 are returned as an
// Answer carrying the status code, so steps can assert on it.
func (c *Client) Query(ctx context.Context, phrase string) (*Answer, error) {
	params := url.Values{}
	params.Set("q", phrase)
	params.Set("format", "json")
	params.Set("no_redirect", "1")

	endpoint := c.baseURL + "/?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		c.log.Info().Str("phrase", phrase).Msg("querying instant answer API")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("executing query for %q: %w", phrase, err)
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("reading response body: %w", readErr)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			waitDuration := retryAfterDuration(resp, attempt)
			lastErr = fmt.Errorf("rate limited (429) querying %q", phrase)
			c.log.Warn().
				Dur("wait", waitDuration).
				Int("attempt", attempt).
				Msg("rate limited, backing off")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(waitDuration):
				continue
			}
		}

		c.log.Info().
			Int("status", resp.StatusCode).
			Str("phrase", phrase).
			Msg("received instant answer response")

		return parseAnswer(resp.StatusCode, body)
	}

	return nil, fmt.Errorf("max retries (%d) exceeded: %w", c.maxRetries, lastErr)
}

// retryAfterDuration reads the Retry-After header and computes a wait
// duration. Falls back to exponential backoff if the header is missing.
func retryAfterDuration(resp *http.Response, attempt int) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	// Exponential backoff: 1s, 2s, 4s, ...
	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	return backoff
}
