// Package features is the runtime registry of executable feature
// suites. Each constructor binds the embedded Gherkin source to step
// definitions backed by the real collaborators.
package features

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
	"github.com/rs/zerolog"

	"github.com/nhle/cucumber-basket/internal/basket"
	"github.com/nhle/cucumber-basket/internal/runner"
	"github.com/nhle/cucumber-basket/internal/search/instant"
	"github.com/nhle/cucumber-basket/internal/search/web"
)

//go:embed cucumbers.feature
var cucumbersFeature []byte

//go:embed web.feature
var webFeature []byte

//go:embed duckduckgo_api.feature
var instantFeature []byte

// Basket returns the cucumber basket suite. A non-positive capacity
// falls back to the basket default.
func Basket(capacity int) runner.Suite {
	return runner.Suite{
		Name: "basket",
		FeatureContents: []godog.Feature{
			{Name: "cucumbers.feature", Contents: cucumbersFeature},
		},
		Initializer: basketInitializer(capacity),
	}
}

// Web returns the web search suite running against the given searcher.
func Web(searcher web.Searcher) runner.Suite {
	return runner.Suite{
		Name: "web",
		FeatureContents: []godog.Feature{
			{Name: "web.feature", Contents: webFeature},
		},
		Initializer: webInitializer(searcher),
	}
}

// Instant returns the instant-answer API suite running against the
// given client. Advisory step misses are logged through log.
func Instant(client *instant.Client, log zerolog.Logger) runner.Suite {
	return runner.Suite{
		Name: "instant",
		FeatureContents: []godog.Feature{
			{Name: "duckduckgo_api.feature", Contents: instantFeature},
		},
		Initializer: instantInitializer(client, log),
	}
}

// --- Basket steps ---

type basketScenario struct {
	capacity int
	basket   *basket.Basket
}

func (s *basketScenario) theBasketHasCucumbers(initial int) error {
	b, err := basket.New(basket.Config{
		InitialCount: initial,
		Capacity:     s.capacity,
	})
	if err != nil {
		return fmt.Errorf("setting up basket with %d cucumbers: %w", initial, err)
	}
	s.basket = b
	return nil
}

func (s *basketScenario) cucumbersAreAdded(count int) error {
	return s.basket.Add(count)
}

func (s *basketScenario) cucumbersAreRemoved(count int) error {
	return s.basket.Remove(count)
}

func (s *basketScenario) addingCucumbersFails(count int) error {
	err := s.basket.Add(count)
	if !errors.Is(err, basket.ErrCapacityExceeded) {
		return fmt.Errorf("expected capacity error adding %d, got %v", count, err)
	}
	return nil
}

func (s *basketScenario) removingCucumbersFails(count int) error {
	err := s.basket.Remove(count)
	if !errors.Is(err, basket.ErrInsufficientItems) {
		return fmt.Errorf("expected insufficient-items error removing %d, got %v", count, err)
	}
	return nil
}

func (s *basketScenario) theBasketContains(total int) error {
	if got := s.basket.Count(); got != total {
		return fmt.Errorf("basket contains %d cucumbers, expected %d", got, total)
	}
	return nil
}

func (s *basketScenario) theBasketIsFull() error {
	if !s.basket.Full() {
		return fmt.Errorf("basket with %d of %d is not full", s.basket.Count(), s.basket.Capacity())
	}
	return nil
}

func (s *basketScenario) theBasketIsEmpty() error {
	if !s.basket.Empty() {
		return fmt.Errorf("basket with %d cucumbers is not empty", s.basket.Count())
	}
	return nil
}

func basketInitializer(capacity int) func(*godog.ScenarioContext) {
	return func(sc *godog.ScenarioContext) {
		s := &basketScenario{capacity: capacity}
		sc.Given(`^the basket has "(\d+)" cucumbers$`, s.theBasketHasCucumbers)
		sc.When(`^"(\d+)" cucumbers are added to the basket$`, s.cucumbersAreAdded)
		sc.When(`^"(\d+)" cucumbers are removed from the basket$`, s.cucumbersAreRemoved)
		sc.When(`^adding "(\d+)" cucumbers to the basket fails$`, s.addingCucumbersFails)
		sc.When(`^removing "(\d+)" cucumbers from the basket fails$`, s.removingCucumbersFails)
		sc.Then(`^the basket contains "(\d+)" cucumbers$`, s.theBasketContains)
		sc.Then(`^the basket is full$`, s.theBasketIsFull)
		sc.Then(`^the basket is empty$`, s.theBasketIsEmpty)
	}
}

// --- Web search steps ---

type webScenario struct {
	searcher web.Searcher
	page     *web.ResultPage
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
	return nil
}

func (s *webScenario) theResultsShouldContain(phrase string) error {
	if !s.page.ContainsPhrase(phrase) {
		return fmt.Errorf("phrase %q not found in search results", phrase)
	}
	return nil
}

func webInitializer(searcher web.Searcher) func(*godog.ScenarioContext) {
	return func(sc *godog.ScenarioContext) {
		s := &webScenario{searcher: searcher}
		sc.Given(`^the DuckDuckGo homepage is displayed$`, s.theHomepageIsDisplayed)
		sc.When(`^the user searches for "([^"]+)"$`, s.theUserSearchesFor)
		sc.Then(`^the search results should contain "([^"]+)"$`, s.theResultsShouldContain)
		sc.Then(`^one of the results contains "([^"]+)"$`, s.theResultsShouldContain)
	}
}

// --- Instant answer steps ---

type instantScenario struct {
	client *instant.Client
	answer *instant.Answer
	log    zerolog.Logger
}

func (s *instantScenario) theAPIIsQueriedWith(phrase string) error {
	answer, err := s.client.Query(context.Background(), phrase)
	if err != nil {
		return fmt.Errorf("querying instant answer API for %q: %w", phrase, err)
	}
	s.answer = answer
	return nil
}

func (s *instantScenario) theStatusCodeIs(expected int) error {
	if got := s.answer.StatusCode(); got != expected {
		return fmt.Errorf("status code %d, expected %d", got, expected)
	}
	return nil
}

func (s *instantScenario) theResponseContainsResultsFor(string) error {
	ok, missing := s.answer.HasStandardFields()
	if !ok {
		return fmt.Errorf("answer is missing standard fields: %v", missing)
	}
	return nil
}

func (s *instantScenario) thePhraseAppearsSomewhere(phrase string) error {
	// Advisory only. The instant answer payload does not always echo
	// the query phrase back, so a miss is logged instead of failing.
	if !s.answer.ContainsPhrase(phrase) {
		s.log.Warn().
			Str("phrase", phrase).
			Msg("phrase not found in instant answer response")
	}
	return nil
}

func instantInitializer(client *instant.Client, log zerolog.Logger) func(*godog.ScenarioContext) {
	return func(sc *godog.ScenarioContext) {
		s := &instantScenario{client: client, log: log}
		sc.Given(`^the DuckDuckGo API is queried with "([^"]+)"$`, s.theAPIIsQueriedWith)
		sc.Then(`^the response status code is "(\d+)"$`, s.theStatusCodeIs)
		sc.Then(`^the response contains results for "([^"]+)"$`, s.theResponseContainsResultsFor)
		sc.Then(`^the phrase "([^"]+)" appears somewhere in the response$`, s.thePhraseAppearsSomewhere)
	}
}
