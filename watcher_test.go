package ssa

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrajectoryWatcherStepLogLikelihoodMatchesClosedForm(t *testing.T) {
	w := NewTrajectoryWatcher[string, float64]()
	a := expDist{rate: 2}
	b := expDist{rate: 1}
	w.OnEnable("a", []Distribution[float64]{a}, 0, 0, 0)
	w.OnEnable("b", []Distribution[float64]{b}, 0, 0, 0)

	ll, err := w.StepLogLikelihood(0, 0.5, "a")
	require.NoError(t, err)

	expected := a.LogPDF(0.5) - a.LogCCDF(0) + b.LogCCDF(0.5) - b.LogCCDF(0)
	assert.InDelta(t, expected, ll, 1e-9)
}

func TestTrajectoryWatcherStepLogLikelihoodUnknownClock(t *testing.T) {
	w := NewTrajectoryWatcher[string, float64]()
	_, err := w.StepLogLikelihood(0, 0.5, "missing")
	assert.ErrorIs(t, err, ErrUnknownClock)
}

func TestTrajectoryWatcherPathLogLikelihoodAccumulatesOverFiring(t *testing.T) {
	w := NewTrajectoryWatcher[string, float64]()
	d := expDist{rate: 3}
	w.OnEnable("a", []Distribution[float64]{d}, 0, 0, 0)
	w.OnFire("a", 0.2)

	expected := d.LogPDF(0.2) - (d.LogCCDF(0.2) - d.LogCCDF(0))
	assert.InDelta(t, expected, w.PathLogLikelihood(), 1e-9)
}

func TestTrajectoryWatcherOnDisableAddsSurvivalOnly(t *testing.T) {
	w := NewTrajectoryWatcher[string, float64]()
	d := expDist{rate: 3}
	w.OnEnable("a", []Distribution[float64]{d}, 0, 0, 0)
	w.OnDisable("a", 0.2)

	expected := d.LogCCDF(0.2) - d.LogCCDF(0)
	assert.InDelta(t, expected, w.PathLogLikelihood(), 1e-9)
	assert.False(t, w.Enabled("a"))
}

func TestTrajectoryWatcherResetZeroesLikelihood(t *testing.T) {
	w := NewTrajectoryWatcher[string, float64]()
	d := expDist{rate: 2}
	w.OnEnable("a", []Distribution[float64]{d}, 0, 0, 0)
	w.OnFire("a", 1)
	require.NotEqual(t, 0.0, w.PathLogLikelihood())

	w.Reset()
	assert.Equal(t, 0.0, w.PathLogLikelihood())
	assert.Equal(t, 0, len(w.Keys()))
}

func TestTrackWatcherEachVisitsEnabledEntries(t *testing.T) {
	w := NewTrackWatcher[string, float64]()
	w.OnEnable("a", []Distribution[float64]{expDist{rate: 1}}, 0, 0, 0)
	w.OnEnable("b", []Distribution[float64]{expDist{rate: 2}}, 0, 1, 1)

	seen := make(map[string]float64)
	w.Each(func(key string, d Distribution[float64], e EnablingEntry[float64]) {
		seen[key] = e.Te
	})
	assert.Equal(t, map[string]float64{"a": 0, "b": 1}, seen)
}

func TestDebugWatcherLogsEventsInOrder(t *testing.T) {
	w := NewDebugWatcher[string, float64]()
	w.OnEnable("a", []Distribution[float64]{expDist{rate: 1}}, 0, 0, 0)
	w.OnFire("a", 1)

	require.Len(t, w.Log, 2)
	assert.Equal(t, EnableEvent, w.Log[0].Kind)
	assert.Equal(t, FireEvent, w.Log[1].Kind)
}

func TestWeibullTruncatedSurvivalIsConsistent(t *testing.T) {
	d := weibullDist{shape: 1.5, scale: 2}
	tr := d.Truncated(1, 0).(weibullTruncated)

	assert.InDelta(t, 1.0, tr.CCDF(1), 1e-12)
	assert.InDelta(t, 0.0, tr.CDF(1), 1e-12)
	assert.Greater(t, tr.CCDF(2), 0.0)
	assert.Less(t, tr.CCDF(2), 1.0)
	assert.InDelta(t, math.Log(tr.CCDF(2)), tr.LogCCDF(2), 1e-9)
}
