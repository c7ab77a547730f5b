package web

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/rs/zerolog"
)

// webScenario holds the shared state for a single scenario run.
type webScenario struct {
	searcher Searcher
	page     *ResultPage
	phrase   string
}

func (s *webScenario) theHomepageIsDisplayed() error {
	page, err := s.searcher.Home(context.Background())
	if err != nil {
		return fmt.Errorf("loading homepage: %w", err)
	}
	if !strings.Contains(page.Title, "DuckDuckGo") {
		return fmt.Errorf("expected DuckDuckGo in page title, got %q", page.Title)
	}
	s.page = page
	return nil
}

func (s *webScenario) theUserSearchesFor(phrase string) error {
	page, err := s.searcher.Search(context.Background(), phrase)
	if err != nil {
		return fmt.Errorf("searching for %q: %w", phrase, err)
	}
	s.page = page
	s.phrase = phrase
	return nil
}

func (s *webScenario) theResultsShouldContain(phrase string) error {
	if !s.page.ContainsPhrase(phrase) {
		return fmt.Errorf("phrase %q not found in search results", phrase)
	}
	return nil
}

func (s *webScenario) oneResultContains(expected string) error {
	if !s.page.ContainsPhrase(expected) {
		return fmt.Errorf("expected text %q not found in search results", expected)
	}
	return nil
}

func initWebSteps(searcher Searcher) func(*godog.ScenarioContext) {
	return func(sc *godog.ScenarioContext) {
		s := &webScenario{searcher: searcher}

		sc.Given(`^the DuckDuckGo homepage is displayed$`, s.theHomepageIsDisplayed)
		sc.When(`^the user searches for "([^"]*)"$`, s.theUserSearchesFor)
		sc.Then(`^the search results should contain "([^"]*)"$`, s.theResultsShouldContain)
		sc.Then(`^one of the results contains "([^"]*)"$`, s.oneResultContains)
	}
}

// TestWebSearchBDD runs the web search scenarios against a local stand-in
// for the search site; the live endpoint is exercised the same way via
// the runner when configured.
func TestWebSearchBDD(t *testing.T) {
	srv := httptest.NewServer(fakeSearchSite())
	t.Cleanup(srv.Close)

	searcher := NewHTTPSearcher(srv.URL, 5*time.Second, zerolog.Nop())

	suite := godog.TestSuite{
		ScenarioInitializer: initWebSteps(searcher),
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../../features/web.feature"},
			TestingT: t,
			Strict:   true,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
