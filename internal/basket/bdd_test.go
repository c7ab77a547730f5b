package basket

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
)

// basketScenario holds the shared state for a single scenario run.
type basketScenario struct {
	basket  *Basket
	lastErr error
}

func (s *basketScenario) theBasketHasCucumbers(initial int) error {
	b, err := New(Config{InitialCount: initial})
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
	s.lastErr = s.basket.Add(count)
	if !errors.Is(s.lastErr, ErrCapacityExceeded) {
		return fmt.Errorf("expected capacity error adding %d, got %v", count, s.lastErr)
	}
	return nil
}

func (s *basketScenario) removingCucumbersFails(count int) error {
	s.lastErr = s.basket.Remove(count)
	if !errors.Is(s.lastErr, ErrInsufficientItems) {
		return fmt.Errorf("expected insufficient-items error removing %d, got %v", count, s.lastErr)
	}
	return nil
}

func (s *basketScenario) theBasketContains(total int) error {
	if got := s.basket.Count(); got != total {
		return fmt.Errorf("expected %d cucumbers but found %d", total, got)
	}
	return nil
}

func (s *basketScenario) theBasketIsFull() error {
	if !s.basket.Full() {
		return fmt.Errorf("expected a full basket, count is %d of %d",
			s.basket.Count(), s.basket.Capacity())
	}
	return nil
}

func (s *basketScenario) theBasketIsEmpty() error {
	if !s.basket.Empty() {
		return fmt.Errorf("expected an empty basket, count is %d", s.basket.Count())
	}
	return nil
}

func initBasketSteps(sc *godog.ScenarioContext) {
	s := &basketScenario{}

	sc.Given(`^the basket has "(\d+)" cucumbers$`, s.theBasketHasCucumbers)
	sc.When(`^"(\d+)" cucumbers are added to the basket$`, s.cucumbersAreAdded)
	sc.When(`^"(\d+)" cucumbers are removed from the basket$`, s.cucumbersAreRemoved)
	sc.When(`^adding "(\d+)" cucumbers to the basket fails$`, s.addingCucumbersFails)
	sc.When(`^removing "(\d+)" cucumbers from the basket fails$`, s.removingCucumbersFails)
	sc.Then(`^the basket contains "(\d+)" cucumbers$`, s.theBasketContains)
	sc.Then(`^the basket is full$`, s.theBasketIsFull)
	sc.Then(`^the basket is empty$`, s.theBasketIsEmpty)
}

// TestBasketBDD runs the Gherkin scenarios for the cucumber basket.
func TestBasketBDD(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initBasketSteps,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../features/cucumbers.feature"},
			TestingT: t,
			Strict:   true,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
