package ssa

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextReactionConsumptionConservation(t *testing.T) {
	d := weibullDist{shape: 1.5, scale: 2}
	rng := &sequenceRand{vals: []float64{0.3}}

	s := NewNextReaction[string, float64]()
	require.NoError(t, s.Enable("a", []Distribution[float64]{d}, 0, 0, rng))

	r := s.core.record["a"]
	s0 := r.s

	require.NoError(t, s.Disable("a", 0.5))
	r = s.core.record["a"]
	expected := s0 / d.CCDF(0.5)
	assert.InDelta(t, expected, r.s, 1e-12)

	require.NoError(t, s.Enable("a", []Distribution[float64]{d}, 0, 0.5, rng))
	expectedT := d.CQuantile(expected)
	_, tm, ok := s.core.heap.Peek()
	require.True(t, ok)
	assert.InDelta(t, expectedT, tm, 1e-9)
}

func TestNextReactionNextIsIdempotent(t *testing.T) {
	s := NewNextReaction[string, float64]()
	rng := NewPCGRand(3, 4)
	require.NoError(t, s.Enable("a", []Distribution[float64]{expDist{rate: 1}}, 0, 0, rng))
	require.NoError(t, s.Enable("b", []Distribution[float64]{expDist{rate: 2}}, 0, 0, rng))

	first, ok1 := s.Next(0, rng)
	second, ok2 := s.Next(0, rng)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, first, second)
}

func TestNextReactionEmptyAfterAllFired(t *testing.T) {
	s := NewNextReaction[string, float64]()
	rng := NewPCGRand(9, 9)
	require.NoError(t, s.Enable("a", []Distribution[float64]{expDist{rate: 1}}, 0, 0, rng))
	require.NoError(t, s.Enable("b", []Distribution[float64]{expDist{rate: 1}}, 0, 0, rng))

	for s.Len() > 0 {
		sample, ok := s.Next(0, rng)
		require.True(t, ok)
		require.NoError(t, s.Fire(sample.Key, sample.Time))
	}
	_, ok := s.Next(0, rng)
	assert.False(t, ok)
}

func TestModifiedNextReactionLogSpaceMatchesLinear(t *testing.T) {
	d := expDist{rate: 2}
	rngLinear := &sequenceRand{vals: []float64{0.4}}
	rngLog := &sequenceRand{vals: []float64{0.4}}

	lin := NewNextReaction[string, float64]()
	require.NoError(t, lin.Enable("a", []Distribution[float64]{d}, 0, 0, rngLinear))
	logS := NewModifiedNextReaction[string, float64]()
	require.NoError(t, logS.Enable("a", []Distribution[float64]{d}, 0, 0, rngLog))

	_, tLin, _ := lin.core.heap.Peek()
	_, tLog, _ := logS.core.heap.Peek()
	assert.InDelta(t, tLin, tLog, 1e-9)
}

func TestCombinedNextReactionUsesRegistry(t *testing.T) {
	registry := NewSpaceRegistry()
	registry.Register(expDist{}, LogSampling)
	s := NewCombinedNextReaction[string, float64](registry)
	rng := NewPCGRand(5, 6)
	require.NoError(t, s.Enable("a", []Distribution[float64]{expDist{rate: 1}}, 0, 0, rng))

	r := s.core.record["a"]
	assert.True(t, math.IsInf(r.space.zero(), -1))
}
