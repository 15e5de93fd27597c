package ssa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommonRandomReplaysRecordedDraws(t *testing.T) {
	base := NewPCGRand(42, 7)
	inner := NewFirstToFire[string, float64]()
	crn := NewCommonRandom[string, float64](inner, base)

	require.NoError(t, crn.Enable("a", []Distribution[float64]{expDist{rate: 1}}, 0, 0, nil))
	firstSample, ok := crn.Next(0, nil)
	require.True(t, ok)

	crn.FreezeCRN()
	require.NoError(t, crn.Disable("a", 0))
	require.NoError(t, crn.Enable("a", []Distribution[float64]{expDist{rate: 1}}, 0, 0, nil))
	assert.Equal(t, 1, crn.Hits())

	replayedSample, ok := crn.Next(0, nil)
	require.True(t, ok)
	assert.Equal(t, firstSample, replayedSample)
}

func TestCommonRandomCountsMisses(t *testing.T) {
	base := NewPCGRand(1, 1)
	inner := NewFirstToFire[string, float64]()
	crn := NewCommonRandom[string, float64](inner, base)

	crn.FreezeCRN()
	require.NoError(t, crn.Enable("new", []Distribution[float64]{expDist{rate: 1}}, 0, 0, nil))
	assert.Equal(t, 1, crn.Misses())
	assert.Equal(t, 0, crn.Hits())
}

func TestCommonRandomResetClearsCounters(t *testing.T) {
	base := NewPCGRand(3, 3)
	inner := NewFirstToFire[string, float64]()
	crn := NewCommonRandom[string, float64](inner, base)
	crn.FreezeCRN()
	require.NoError(t, crn.Enable("a", []Distribution[float64]{expDist{rate: 1}}, 0, 0, nil))
	crn.ResetCRN()
	assert.Equal(t, 0, crn.Misses())
	assert.Equal(t, 0, crn.Hits())
}
