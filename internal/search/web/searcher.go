// Package web defines the web search collaborator. Browser automation
// is out of scope; the contract is a phrase in and a result page out,
// and the HTTP implementation talks to an HTML search endpoint.
package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Searcher is the call/response contract of the web search surface.
type Searcher interface {
	// Search submits the phrase and returns the loaded result page.
	Search(ctx context.Context, phrase string) (*ResultPage, error)

	// Home loads the search homepage.
	Home(ctx context.Context) (*ResultPage, error)
}

// ResultPage is a fetched search page.
type ResultPage struct {
	// Title is the contents of the page's <title> element, or empty
	// when none was found.
	Title string

	// Body is the full page markup.
	Body string
}

// ContainsPhrase reports whether the phrase occurs in the page body,
// case-insensitively.
func (p *ResultPage) ContainsPhrase(phrase string) bool {
	return strings.Contains(strings.ToLower(p.Body), strings.ToLower(phrase))
}

// HTTPSearcher implements Searcher against an HTML search endpoint that
// accepts the query as a q form parameter (html.duckduckgo.com style).
type HTTPSearcher struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewHTTPSearcher creates an HTTPSearcher for the given endpoint. A zero
// timeout defaults to 30 seconds.
func NewHTTPSearcher(baseURL string, timeout time.Duration, log zerolog.Logger) *HTTPSearcher {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &HTTPSearcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log.With().Str("component", "websearch").Logger(),
	}
}

// Home loads the search page without a query.
func (s *HTTPSearcher) Home(ctx context.Context) (*ResultPage, error) {
	return s.fetch(ctx, s.baseURL+"/")
}

// Search submits the phrase as a q parameter and returns the results page.
func (s *HTTPSearcher) Search(ctx context.Context, phrase string) (*ResultPage, error) {
	params := url.Values{}
	params.Set("q", phrase)

	s.log.Info().Str("phrase", phrase).Msg("searching")
	return s.fetch(ctx, s.baseURL+"/?"+params.Encode())
}

// fetch loads a page and extracts its title.
func (s *HTTPSearcher) fetch(ctx context.Context, endpoint string) (*ResultPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, endpoint)
	}

	page := &ResultPage{
		Title: extractTitle(string(body)),
		Body:  string(body),
	}
	return page, nil
}

// extractTitle pulls the first <title> element out of the markup.
func extractTitle(markup string) string {
	lower := strings.ToLower(markup)
	start := strings.Index(lower, "<title>")
	if start < 0 {
		return ""
	}
	start += len("<title>")
	end := strings.Index(lower[start:], "</title>")
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(markup[start : start+end])
}
