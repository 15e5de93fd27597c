package ssa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelayedReactionsTransitionsPhases(t *testing.T) {
	inner := NewFirstToFire[delayedKey[string], float64]()
	rng := NewPCGRand(4, 5)
	d := NewDelayedReactions[string, float64](inner, rng)

	require.NoError(t, d.Enable("job", []Distribution[float64]{
		expDist{rate: 10},
		expDist{rate: 1},
	}, 0, 0, rng))

	phase, ok := d.PendingPhase("job")
	require.True(t, ok)
	assert.Equal(t, InitiatePhase, phase)

	sample, ok := d.Next(0, rng)
	require.True(t, ok)
	assert.Equal(t, "job", sample.Key)

	require.NoError(t, d.Fire("job", sample.Time))

	phase, ok = d.PendingPhase("job")
	require.True(t, ok)
	assert.Equal(t, CompletePhase, phase)
	assert.True(t, d.Contains("job"))

	sample, ok = d.Next(sample.Time, rng)
	require.True(t, ok)
	require.NoError(t, d.Fire("job", sample.Time))
	assert.False(t, d.Contains("job"))
}

func TestDelayedReactionsRegularPhaseBehavesLikePlainClock(t *testing.T) {
	inner := NewFirstToFire[delayedKey[string], float64]()
	rng := NewPCGRand(1, 2)
	d := NewDelayedReactions[string, float64](inner, rng)

	require.NoError(t, d.Enable("x", []Distribution[float64]{expDist{rate: 1}}, 0, 0, rng))
	phase, ok := d.PendingPhase("x")
	require.True(t, ok)
	assert.Equal(t, RegularPhase, phase)

	sample, ok := d.Next(0, rng)
	require.True(t, ok)
	require.NoError(t, d.Fire("x", sample.Time))
	assert.False(t, d.Contains("x"))
}

func TestDelayedReactionsRejectsBadDistributionCounts(t *testing.T) {
	inner := NewFirstToFire[delayedKey[string], float64]()
	rng := NewPCGRand(1, 1)
	d := NewDelayedReactions[string, float64](inner, rng)

	err := d.Enable("x", nil, 0, 0, rng)
	assert.ErrorIs(t, err, ErrEmptyDistributionList)

	err = d.Enable("x", []Distribution[float64]{
		expDist{rate: 1}, expDist{rate: 1}, expDist{rate: 1},
	}, 0, 0, rng)
	assert.ErrorIs(t, err, ErrDistributionIndex)
}

func TestDelayedReactionsKeysDedupeAcrossPhases(t *testing.T) {
	inner := NewFirstToFire[delayedKey[string], float64]()
	rng := NewPCGRand(8, 9)
	d := NewDelayedReactions[string, float64](inner, rng)

	require.NoError(t, d.Enable("job", []Distribution[float64]{
		expDist{rate: 10},
		expDist{rate: 1},
	}, 0, 0, rng))

	assert.Equal(t, []string{"job"}, d.Keys())
	assert.Equal(t, 1, d.Len())
}
