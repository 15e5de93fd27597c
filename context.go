// SPDX-License-Identifier: GPL-3.0
// Copyright 2024 Pete Heist

package ssa

import (
	"github.com/rs/zerolog"
)

// SamplingContext is the top-level facade a host drives a simulation
// through: it owns the current sampler, the optional watcher, the RNG,
// and the current time, so a host never has to juggle those four
// things separately the way the lower-level Sampler implementations
// require (§6).
type SamplingContext[K comparable, T Time] struct {
	sampler     Sampler[K, T]
	watcher     Watcher[K, T]
	rng         Rand
	now         T
	startTime   T
	log         zerolog.Logger
	sampleIndex int
}

// Time returns the context's current time.
func (c *SamplingContext[K, T]) Time() T { return c.now }

// Length returns the number of currently enabled clocks.
func (c *SamplingContext[K, T]) Length() int { return c.sampler.Len() }

// IsEnabled reports whether key is currently enabled.
func (c *SamplingContext[K, T]) IsEnabled(key K) bool { return c.sampler.Contains(key) }

// Enabled returns the currently enabled clock keys.
func (c *SamplingContext[K, T]) Enabled() []K { return c.sampler.Keys() }

// Enable enables key at zero-point te, as of the context's current
// time. For samplers that support it (DelayedReactions), passing two
// distributions starts a delayed reaction, and dists is forwarded to
// the sampler unchanged.
//
// Otherwise, passing more than one distribution is the vector form of
// enable! (§4.10, §6): every distribution in dists is fed to the
// watcher for likelihood purposes, but only the one at the context's
// selected-distribution index (see SelectDistribution) actually drives
// the sampler. This lets a host draw the realized firing time from one
// candidate distribution while evaluating what every other candidate
// would have assigned it, for importance-sampling reweighting.
func (c *SamplingContext[K, T]) Enable(key K, te T, dists ...Distribution[T]) error {
	_, delayed := c.sampler.(*DelayedReactions[K, T])
	driving, selected := dists, 0
	if !delayed && len(dists) > 1 {
		selected = c.sampleIndex
		if selected < 0 || selected >= len(dists) {
			selected = 0
		}
		driving = []Distribution[T]{dists[selected]}
	}
	if err := c.sampler.Enable(key, driving, te, c.now, c.rng); err != nil {
		return err
	}
	if c.watcher != nil && len(dists) > 0 {
		c.watcher.OnEnable(key, dists, selected, te, c.now)
	}
	logf(c.log, c.now, key, "enable")
	return nil
}

// SelectDistribution sets the index into a subsequent vector-form
// Enable's distributions that will actually drive sampling (the
// sample_from_distribution! operation, §6); the rest still enter the
// watcher's likelihood. Out-of-range indices are clamped to 0 by
// Enable, so callers need not validate against a particular call's
// vector length up front.
func (c *SamplingContext[K, T]) SelectDistribution(i int) {
	c.sampleIndex = i
}

// Disable disables key as of the context's current time.
func (c *SamplingContext[K, T]) Disable(key K) error {
	if err := c.sampler.Disable(key, c.now); err != nil {
		return err
	}
	if c.watcher != nil {
		c.watcher.OnDisable(key, c.now)
	}
	logf(c.log, c.now, key, "disable")
	return nil
}

// Fire marks key as fired as of the context's current time, removing it.
func (c *SamplingContext[K, T]) Fire(key K) error {
	if err := c.sampler.Fire(key, c.now); err != nil {
		return err
	}
	if c.watcher != nil {
		c.watcher.OnFire(key, c.now)
	}
	logf(c.log, c.now, key, "fire")
	return nil
}

// Next returns the next firing (time, key) across all enabled clocks.
func (c *SamplingContext[K, T]) Next() (OrderedSample[K, T], bool) {
	return c.sampler.Next(c.now, c.rng)
}

// NextDelayed behaves like Next, additionally reporting which phase of
// a delayed reaction the returned sample belongs to. Returns
// ErrNotDelayed if the context was not built with WithDelayedReactions.
func (c *SamplingContext[K, T]) NextDelayed() (OrderedSample[K, T], DelayPhase, bool, error) {
	d, ok := c.sampler.(*DelayedReactions[K, T])
	if !ok {
		return OrderedSample[K, T]{}, RegularPhase, false, ErrNotDelayed
	}
	sample, ok := d.Next(c.now, c.rng)
	if !ok {
		return sample, RegularPhase, false, nil
	}
	phase, _ := d.PendingPhase(sample.Key)
	return sample, phase, true, nil
}

// Advance moves the context's current time forward to t.
func (c *SamplingContext[K, T]) Advance(t T) { c.now = t }

// Reset clears all clocks and watcher state and rewinds time to the
// context's configured start time.
func (c *SamplingContext[K, T]) Reset() {
	c.sampler.Reset()
	if c.watcher != nil {
		c.watcher.Reset()
	}
	c.now = c.startTime
}

// CopyClocksFrom deep-copies src's sampler state into the receiver and
// jitters the result so the two branches diverge statistically — the
// copy_clocks! operation (§4.10, §6). Unlike Clone/Split, it reuses an
// already-existing destination context rather than allocating a new
// one, the shape particle-splitting workflows need when the
// destination's lifetime is managed independently of the source's.
func (c *SamplingContext[K, T]) CopyClocksFrom(src *SamplingContext[K, T]) error {
	return c.sampler.CopyClocksFrom(src.sampler, c.rng)
}

// Clone returns an independent branch of the context: a structural copy
// of the sampler (same scheduled future) with its own RNG lineage. Use
// Split instead to additionally decorrelate the clone's draws.
func (c *SamplingContext[K, T]) Clone(rng Rand) *SamplingContext[K, T] {
	return &SamplingContext[K, T]{
		sampler:     c.sampler.Clone(rng),
		watcher:     cloneWatcher(c.watcher),
		rng:         rng,
		now:         c.now,
		startTime:   c.startTime,
		log:         c.log,
		sampleIndex: c.sampleIndex,
	}
}

// Split returns a branch of the context whose clocks have been
// re-jittered against rng, so its future draws diverge statistically
// from the receiver's (the common-random-numbers counterfactual
// pattern, §5).
func (c *SamplingContext[K, T]) Split(rng Rand) (*SamplingContext[K, T], error) {
	branch := c.Clone(rng)
	if err := branch.sampler.Jitter(branch.now, rng); err != nil {
		return nil, err
	}
	return branch, nil
}

// FreezeCRN switches the context's common-random-numbers middleware
// into replay mode. Returns ErrNotCRN if the context was not built with
// WithCommonRandom.
func (c *SamplingContext[K, T]) FreezeCRN() error {
	crn, ok := c.sampler.(*CommonRandom[K, T])
	if !ok {
		return ErrNotCRN
	}
	crn.FreezeCRN()
	return nil
}

// ResetCRN discards the context's recorded CRN snapshots and resumes
// recording. Returns ErrNotCRN if the context was not built with
// WithCommonRandom.
func (c *SamplingContext[K, T]) ResetCRN() error {
	crn, ok := c.sampler.(*CommonRandom[K, T])
	if !ok {
		return ErrNotCRN
	}
	crn.ResetCRN()
	return nil
}

// StepLogLikelihood returns the log-likelihood of which firing at when,
// given the enabled set as of the context's current time. Returns
// ErrNoLikelihood if the context has no likelihood-capable watcher or
// sampler.
func (c *SamplingContext[K, T]) StepLogLikelihood(when T, which K) (float64, error) {
	if tw, ok := c.watcher.(interface {
		StepLogLikelihood(now, when T, which K) (float64, error)
	}); ok {
		return tw.StepLogLikelihood(c.now, when, which)
	}
	if ls, ok := c.sampler.(LikelihoodSampler[K, T]); ok {
		return ls.StepLogLikelihood(c.now, when, which)
	}
	return 0, ErrNoLikelihood
}

// PathLogLikelihood returns the log-likelihood accumulated over the
// trajectory so far. Returns 0 if the context has no likelihood-capable
// watcher or sampler.
func (c *SamplingContext[K, T]) PathLogLikelihood() float64 {
	if tw, ok := c.watcher.(interface{ PathLogLikelihood() float64 }); ok {
		return tw.PathLogLikelihood()
	}
	if ls, ok := c.sampler.(LikelihoodSampler[K, T]); ok {
		return ls.PathLogLikelihood()
	}
	return 0
}

// cloneWatcher deep-copies w if it is one of this package's watcher
// types, otherwise (a host-supplied Watcher with no exported clone
// hook) returns it unchanged, sharing state across the branch the way
// a watcher with no Clone concept has no better option.
func cloneWatcher[K comparable, T Time](w Watcher[K, T]) Watcher[K, T] {
	switch v := w.(type) {
	case nil:
		return nil
	case *TrackWatcher[K, T]:
		c := NewTrackWatcher[K, T]()
		v.EachVector(func(key K, dists []Distribution[T], selected int, e EnablingEntry[T]) {
			c.OnEnable(key, dists, selected, e.Te, e.When)
		})
		return c
	case *DebugWatcher[K, T]:
		c := NewDebugWatcher[K, T]()
		c.Log = append([]DebugEvent[K, T]{}, v.Log...)
		return c
	case *TrajectoryWatcher[K, T]:
		c := NewTrajectoryWatcher[K, T]()
		v.EachVector(func(key K, dists []Distribution[T], selected int, e EnablingEntry[T]) {
			c.OnEnable(key, dists, selected, e.Te, e.When)
		})
		c.logL = v.logL
		c.vecLogL = append([]float64(nil), v.vecLogL...)
		return c
	default:
		return w
	}
}
