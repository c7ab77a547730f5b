// Package basket models a cucumber basket: a counter of items with a
// fixed capacity. Cucumbers can be added to the basket and removed from
// it, and both operations are bounded.
package basket

import (
	"errors"
	"fmt"
)

// DefaultCapacity is used when no capacity is configured.
const DefaultCapacity = 20

// ErrCapacityExceeded is returned by Add when the addition would push
// the count above the basket's capacity.
var ErrCapacityExceeded = errors.New("basket capacity exceeded")

// ErrInsufficientItems is returned by Remove when the removal would
// push the count below zero.
var ErrInsufficientItems = errors.New("not enough cucumbers in basket")

// Config holds the construction parameters for a Basket. Capacity is
// fixed for the lifetime of the basket; separate baskets with different
// capacities can coexist.
type Config struct {
	// InitialCount is the number of cucumbers the basket starts with.
	InitialCount int

	// Capacity is the maximum number of cucumbers the basket can hold.
	// Zero means DefaultCapacity.
	Capacity int
}

// Basket is an in-memory bounded counter. It is not safe for concurrent
// use; callers needing that must synchronize externally.
type Basket struct {
	count    int
	capacity int
}

// New creates a Basket from the given config. It rejects non-positive
// capacities, negative initial counts, and initial counts above the
// capacity.
func New(cfg Config) (*Basket, error) {
	capacity := cfg.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	if capacity < 0 {
		return nil, fmt.Errorf("capacity must be positive, got %d", capacity)
	}
	if cfg.InitialCount < 0 {
		return nil, fmt.Errorf("initial count must not be negative, got %d", cfg.InitialCount)
	}
	if cfg.InitialCount > capacity {
		return nil, fmt.Errorf(
			"initial count %d exceeds capacity %d: %w",
			cfg.InitialCount, capacity, ErrCapacityExceeded,
		)
	}

	return &Basket{count: cfg.InitialCount, capacity: capacity}, nil
}

// Count returns the current number of cucumbers in the basket.
func (b *Basket) Count() int {
	return b.count
}

// Capacity returns the fixed maximum number of cucumbers.
func (b *Basket) Capacity() int {
	return b.capacity
}

// Empty reports whether the basket holds no cucumbers.
func (b *Basket) Empty() bool {
	return b.count == 0
}

// Full reports whether the basket is at capacity.
func (b *Basket) Full() bool {
	return b.count == b.capacity
}

// Add puts n cucumbers into the basket. If the addition would exceed
// the capacity it returns ErrCapacityExceeded and the count is left
// unchanged.
func (b *Basket) Add(n int) error {
	if n < 0 {
		return fmt.Errorf("cannot add a negative number of cucumbers (%d)", n)
	}
	if b.count+n > b.capacity {
		return fmt.Errorf(
			"adding %d to %d would exceed capacity %d: %w",
			n, b.count, b.capacity, ErrCapacityExceeded,
		)
	}
	b.count += n
	return nil
}

// Remove takes n cucumbers out of the basket. If fewer than n cucumbers
// are present it returns ErrInsufficientItems and the count is left
// unchanged.
func (b *Basket) Remove(n int) error {
	if n < 0 {
		return fmt.Errorf("cannot remove a negative number of cucumbers (%d)", n)
	}
	if n > b.count {
		return fmt.Errorf(
			"removing %d from %d: %w",
			n, b.count, ErrInsufficientItems,
		)
	}
	b.count -= n
	return nil
}
