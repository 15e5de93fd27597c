// SPDX-License-Identifier: GPL-3.0
// Copyright 2024 Pete Heist

package ssa

// EnablingEntry records the zero-point and enable/modify time of a
// currently-tracked clock; TrackWatcher keeps its distributions
// alongside.
type EnablingEntry[T Time] struct {
	Te   T
	When T
}

// Watcher observes the enabled set alongside a Sampler, without
// participating in firing decisions. SamplingContext forwards
// Enable/Disable/Fire to the watcher (if any) the way it forwards them
// to CRN and the debug log (§4.10).
//
// OnEnable always carries the full distribution vector passed to
// enable!, even when only one of them actually drives sampling: vector
// enables (§4.10, §6) feed every candidate distribution into the
// likelihood, so a watcher needs all of them to evaluate each
// candidate's contribution, not just the selected one. selected is the
// index into dists that SamplingContext's sampler was driven by.
type Watcher[K comparable, T Time] interface {
	OnEnable(key K, dists []Distribution[T], selected int, te, when T)
	OnDisable(key K, when T)
	OnFire(key K, when T)
	Reset()
}

// TrackWatcher keeps a key -> EnablingEntry map of the currently enabled
// set, the leaf dependency every other watcher in this package builds
// on (§2, §4.8). It retains the full distribution vector passed to
// OnEnable (for importance-sampling likelihood evaluation across every
// candidate) plus which index was selected to actually drive sampling.
type TrackWatcher[K comparable, T Time] struct {
	dists    map[K][]Distribution[T]
	selected map[K]int
	entry    map[K]EnablingEntry[T]
}

// NewTrackWatcher returns an empty TrackWatcher.
func NewTrackWatcher[K comparable, T Time]() *TrackWatcher[K, T] {
	return NewTrackWatcherSized[K, T](0)
}

// NewTrackWatcherSized returns an empty TrackWatcher with its maps
// preallocated for n entries, for hosts that know roughly how many
// clocks will be enabled concurrently (Builder.WithLikelihoodCount).
func NewTrackWatcherSized[K comparable, T Time](n int) *TrackWatcher[K, T] {
	return &TrackWatcher[K, T]{
		dists:    make(map[K][]Distribution[T], n),
		selected: make(map[K]int, n),
		entry:    make(map[K]EnablingEntry[T], n),
	}
}

// OnEnable implements Watcher.
func (w *TrackWatcher[K, T]) OnEnable(key K, dists []Distribution[T], selected int, te, when T) {
	w.dists[key] = dists
	w.selected[key] = selected
	w.entry[key] = EnablingEntry[T]{Te: te, When: when}
}

// OnDisable implements Watcher.
func (w *TrackWatcher[K, T]) OnDisable(key K, when T) {
	delete(w.dists, key)
	delete(w.selected, key)
	delete(w.entry, key)
}

// OnFire implements Watcher.
func (w *TrackWatcher[K, T]) OnFire(key K, when T) {
	delete(w.dists, key)
	delete(w.selected, key)
	delete(w.entry, key)
}

// Reset implements Watcher.
func (w *TrackWatcher[K, T]) Reset() {
	w.dists = make(map[K][]Distribution[T])
	w.selected = make(map[K]int)
	w.entry = make(map[K]EnablingEntry[T])
}

// Enabled reports whether key is currently tracked.
func (w *TrackWatcher[K, T]) Enabled(key K) bool {
	_, ok := w.entry[key]
	return ok
}

// Entry returns the EnablingEntry and the selected (sampling-driving)
// distribution for key.
func (w *TrackWatcher[K, T]) Entry(key K) (EnablingEntry[T], Distribution[T], bool) {
	e, ok := w.entry[key]
	if !ok {
		return EnablingEntry[T]{}, nil, false
	}
	dists := w.dists[key]
	sel := w.selected[key]
	if sel < 0 || sel >= len(dists) {
		return e, nil, true
	}
	return e, dists[sel], true
}

// Vector returns the full distribution vector, the selected index, and
// the EnablingEntry for key, for callers that need every candidate
// distribution rather than just the one driving sampling.
func (w *TrackWatcher[K, T]) Vector(key K) ([]Distribution[T], int, EnablingEntry[T], bool) {
	e, ok := w.entry[key]
	if !ok {
		return nil, 0, EnablingEntry[T]{}, false
	}
	return w.dists[key], w.selected[key], e, true
}

// Keys returns the currently tracked clock keys.
func (w *TrackWatcher[K, T]) Keys() []K {
	keys := make([]K, 0, len(w.entry))
	for k := range w.entry {
		keys = append(keys, k)
	}
	return keys
}

// Each calls f for every tracked (key, selected distribution, entry)
// triple.
func (w *TrackWatcher[K, T]) Each(f func(key K, d Distribution[T], e EnablingEntry[T])) {
	for k, e := range w.entry {
		_, d, _ := w.Entry(k)
		f(k, d, e)
	}
}

// EachVector calls f for every tracked (key, distribution vector,
// selected index, entry) quadruple.
func (w *TrackWatcher[K, T]) EachVector(f func(key K, dists []Distribution[T], selected int, e EnablingEntry[T])) {
	for k, e := range w.entry {
		f(k, w.dists[k], w.selected[k], e)
	}
}

// DebugEvent is one entry in a DebugWatcher's append-only log.
type DebugEvent[K comparable, T Time] struct {
	Kind Kind
	Key  K
	When T
}

// Kind enumerates the DebugWatcher event kinds.
type Kind int

const (
	EnableEvent Kind = iota
	DisableEvent
	FireEvent
)

// DebugWatcher keeps append-only enable/disable/fire logs, independent of
// any tracked current-state map (§4.8).
type DebugWatcher[K comparable, T Time] struct {
	Log []DebugEvent[K, T]
}

// NewDebugWatcher returns an empty DebugWatcher.
func NewDebugWatcher[K comparable, T Time]() *DebugWatcher[K, T] {
	return &DebugWatcher[K, T]{}
}

// OnEnable implements Watcher.
func (w *DebugWatcher[K, T]) OnEnable(key K, dists []Distribution[T], selected int, te, when T) {
	w.Log = append(w.Log, DebugEvent[K, T]{Kind: EnableEvent, Key: key, When: when})
}

// OnDisable implements Watcher.
func (w *DebugWatcher[K, T]) OnDisable(key K, when T) {
	w.Log = append(w.Log, DebugEvent[K, T]{Kind: DisableEvent, Key: key, When: when})
}

// OnFire implements Watcher.
func (w *DebugWatcher[K, T]) OnFire(key K, when T) {
	w.Log = append(w.Log, DebugEvent[K, T]{Kind: FireEvent, Key: key, When: when})
}

// Reset implements Watcher.
func (w *DebugWatcher[K, T]) Reset() {
	w.Log = nil
}

// TrajectoryWatcher wraps TrackWatcher and accumulates a running path
// log-likelihood over the trajectory (§4.8). Alongside the scalar
// logL (the selected distribution's contribution, the value every
// caller of PathLogLikelihood wants), it keeps a per-candidate vecLogL
// accumulator so vector enables (§4.10) can later be reweighted by
// importance-sampling ratios across every distribution that was fed in,
// not just the one that drove sampling.
type TrajectoryWatcher[K comparable, T Time] struct {
	*TrackWatcher[K, T]
	logL    float64
	vecLogL []float64
}

// NewTrajectoryWatcher returns a TrajectoryWatcher with zero accumulated
// likelihood.
func NewTrajectoryWatcher[K comparable, T Time]() *TrajectoryWatcher[K, T] {
	return NewTrajectoryWatcherSized[K, T](0)
}

// NewTrajectoryWatcherSized returns a TrajectoryWatcher whose underlying
// TrackWatcher maps, and whose per-candidate likelihood vector, are
// preallocated for n entries (Builder.WithLikelihoodCount).
func NewTrajectoryWatcherSized[K comparable, T Time](n int) *TrajectoryWatcher[K, T] {
	return &TrajectoryWatcher[K, T]{
		TrackWatcher: NewTrackWatcherSized[K, T](n),
		vecLogL:      make([]float64, 0, n),
	}
}

func (w *TrajectoryWatcher[K, T]) growVec(n int) {
	for len(w.vecLogL) < n {
		w.vecLogL = append(w.vecLogL, 0)
	}
}

// OnDisable implements Watcher, adding the survival correction for the
// interval [entry.When, when] before delegating to TrackWatcher. The
// correction is added to logL for the selected distribution and to
// vecLogL for every distribution in the enabled vector.
func (w *TrajectoryWatcher[K, T]) OnDisable(key K, when T) {
	if dists, sel, e, ok := w.TrackWatcher.Vector(key); ok {
		w.growVec(len(dists))
		for i, d := range dists {
			dlogL := d.LogCCDF(when-e.Te) - d.LogCCDF(e.When-e.Te)
			w.vecLogL[i] += dlogL
			if i == sel {
				w.logL += dlogL
			}
		}
	}
	w.TrackWatcher.OnDisable(key, when)
}

// OnFire implements Watcher, adding the event density minus the same
// survival correction before delegating to TrackWatcher, for the
// selected distribution (logL) and every candidate (vecLogL).
func (w *TrajectoryWatcher[K, T]) OnFire(key K, when T) {
	if dists, sel, e, ok := w.TrackWatcher.Vector(key); ok {
		w.growVec(len(dists))
		for i, d := range dists {
			dlogL := d.LogPDF(when-e.Te) - (d.LogCCDF(when-e.Te) - d.LogCCDF(e.When-e.Te))
			w.vecLogL[i] += dlogL
			if i == sel {
				w.logL += dlogL
			}
		}
	}
	w.TrackWatcher.OnFire(key, when)
}

// Reset implements Watcher, also zeroing the accumulated likelihood.
func (w *TrajectoryWatcher[K, T]) Reset() {
	w.TrackWatcher.Reset()
	w.logL = 0
	for i := range w.vecLogL {
		w.vecLogL[i] = 0
	}
}

// PathLogLikelihood returns the log-likelihood accumulated over the
// trajectory so far, for the distribution that actually drove sampling
// at each step.
func (w *TrajectoryWatcher[K, T]) PathLogLikelihood() float64 {
	return w.logL
}

// PathLogLikelihoodVector returns the per-candidate-distribution
// log-likelihood accumulated over the trajectory, indexed the way
// vector enables (§4.10, §6) passed distributions in: vecLogL[i] is
// the log-likelihood the trajectory would have under dists[i] had it
// driven sampling throughout, for importance-sampling reweighting.
func (w *TrajectoryWatcher[K, T]) PathLogLikelihoodVector() []float64 {
	return append([]float64(nil), w.vecLogL...)
}

// StepLogLikelihood returns the log-likelihood of "which" firing at
// "when", given the enabled set observed as of "now", without mutating
// any state (§4.8). now is typically the context's current time and
// when a candidate firing time being evaluated for importance weighting.
func (w *TrajectoryWatcher[K, T]) StepLogLikelihood(now, when T, which K) (float64, error) {
	e, d, ok := w.TrackWatcher.Entry(which)
	if !ok {
		return 0, unknownClockErr(which)
	}
	logL := d.LogPDF(when-e.Te) - d.LogCCDF(now-e.Te)
	var err error
	w.TrackWatcher.Each(func(key K, od Distribution[T], oe EnablingEntry[T]) {
		if err != nil || key == which {
			return
		}
		logL += od.LogCCDF(when-oe.Te) - od.LogCCDF(now-oe.Te)
	})
	return logL, err
}
