package basket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	b, err := New(Config{})
	require.NoError(t, err)

	assert.Equal(t, 0, b.Count())
	assert.Equal(t, DefaultCapacity, b.Capacity())
	assert.True(t, b.Empty())
	assert.False(t, b.Full())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"negative capacity", Config{Capacity: -1}},
		{"negative initial count", Config{InitialCount: -3}},
		{"initial count above capacity", Config{InitialCount: 21, Capacity: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestAdd(t *testing.T) {
	tests := []struct {
		name    string
		initial int
		n       int
		want    int
	}{
		{"partial basket", 2, 4, 6},
		{"empty basket", 0, 7, 7},
		{"fill to capacity", 15, 5, 20},
		{"add nothing", 5, 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(Config{InitialCount: tt.initial})
			require.NoError(t, err)

			require.NoError(t, b.Add(tt.n))
			assert.Equal(t, tt.want, b.Count())
		})
	}
}

func TestAddBeyondCapacity(t *testing.T) {
	b, err := New(Config{InitialCount: 20, Capacity: 20})
	require.NoError(t, err)
	require.True(t, b.Full())

	err = b.Add(1)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, 20, b.Count(), "count must be unchanged on failure")
}

func TestAddNegative(t *testing.T) {
	b, err := New(Config{InitialCount: 5})
	require.NoError(t, err)

	assert.Error(t, b.Add(-1))
	assert.Equal(t, 5, b.Count())
}

func TestRemove(t *testing.T) {
	tests := []struct {
		name    string
		initial int
		n       int
		want    int
	}{
		{"partial basket", 8, 3, 5},
		{"empty the basket", 8, 8, 0},
		{"remove nothing", 8, 0, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(Config{InitialCount: tt.initial})
			require.NoError(t, err)

			require.NoError(t, b.Remove(tt.n))
			assert.Equal(t, tt.want, b.Count())
		})
	}
}

func TestRemoveBelowZero(t *testing.T) {
	b, err := New(Config{})
	require.NoError(t, err)
	require.True(t, b.Empty())

	err = b.Remove(1)
	assert.ErrorIs(t, err, ErrInsufficientItems)
	assert.Equal(t, 0, b.Count(), "count must be unchanged on failure")
}

func TestRemoveNegative(t *testing.T) {
	b, err := New(Config{InitialCount: 5})
	require.NoError(t, err)

	assert.Error(t, b.Remove(-2))
	assert.Equal(t, 5, b.Count())
}

func TestCountIsIdempotent(t *testing.T) {
	b, err := New(Config{InitialCount: 7})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.Equal(t, 7, b.Count())
	}
}

func TestBoundaryPredicates(t *testing.T) {
	b, err := New(Config{Capacity: 2})
	require.NoError(t, err)

	require.NoError(t, b.Add(2))
	assert.True(t, b.Full())
	assert.False(t, b.Empty())

	require.NoError(t, b.Remove(2))
	assert.True(t, b.Empty())
	assert.False(t, b.Full())
}

func TestBasketIsReusableAfterFailure(t *testing.T) {
	b, err := New(Config{InitialCount: 19, Capacity: 20})
	require.NoError(t, err)

	require.ErrorIs(t, b.Add(2), ErrCapacityExceeded)
	require.NoError(t, b.Add(1))
	assert.Equal(t, 20, b.Count())

	require.ErrorIs(t, b.Add(1), ErrCapacityExceeded)
	require.NoError(t, b.Remove(20))
	assert.True(t, b.Empty())
}
