package ssa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPetriFiresAtQueriedTime(t *testing.T) {
	s := NewPetri[string, float64]()
	rng := &sequenceRand{vals: []float64{0.5}}
	require.NoError(t, s.Enable("a", []Distribution[float64]{expDist{rate: 1}}, 0, 0, rng))
	require.NoError(t, s.Enable("b", []Distribution[float64]{expDist{rate: 1}}, 0, 0, rng))

	sample, ok := s.Next(3.5, rng)
	require.True(t, ok)
	assert.Equal(t, 3.5, sample.Time)
}

func TestPetriNextIsIdempotentUntilMutated(t *testing.T) {
	s := NewPetri[string, float64]()
	rng := NewPCGRand(1, 1)
	require.NoError(t, s.Enable("a", []Distribution[float64]{expDist{rate: 1}}, 0, 0, rng))
	require.NoError(t, s.Enable("b", []Distribution[float64]{expDist{rate: 1}}, 0, 0, rng))

	first, ok1 := s.Next(0, rng)
	second, ok2 := s.Next(0, rng)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, first, second)

	require.NoError(t, s.Jitter(0, rng))
	_, ok3 := s.Next(0, rng)
	assert.True(t, ok3)
}

func TestPetriEmptyReturnsNoSample(t *testing.T) {
	s := NewPetri[string, float64]()
	_, ok := s.Next(0, NewPCGRand(1, 1))
	assert.False(t, ok)
}

func TestPetriDisableUnknownClockErrors(t *testing.T) {
	s := NewPetri[string, float64]()
	err := s.Disable("missing", 0)
	assert.ErrorIs(t, err, ErrUnknownClock)
}

func TestPetriCloneIsIndependent(t *testing.T) {
	s := NewPetri[string, float64]()
	rng := NewPCGRand(2, 2)
	require.NoError(t, s.Enable("a", []Distribution[float64]{expDist{rate: 1}}, 0, 0, rng))

	clone := s.Clone(nil)
	require.NoError(t, s.Disable("a", 0))
	assert.True(t, clone.Contains("a"))
	assert.False(t, s.Contains("a"))
}
