// SPDX-License-Identifier: GPL-3.0
// Copyright 2024 Pete Heist

package ssa

// CommonRandom wraps a Sampler with record/replay of the RNG state seen
// at each clock's Enable call, implementing the common random numbers
// technique (§5): two branches built with CRN and otherwise identical
// parameters draw the same underlying uniforms for the same clocks,
// isolating the effect of whatever differs between them. It owns the
// wrapped Snapshotter outright, ignoring the rng argument every Sampler
// method otherwise takes, since mixing an externally supplied RNG into
// a recorded replay would break the snapshot contract.
type CommonRandom[K comparable, T Time] struct {
	inner  Sampler[K, T]
	rng    Snapshotter
	snap   map[K]Snapshot
	frozen bool
	hits   int
	misses int
}

// NewCommonRandom wraps inner with CRN bookkeeping driven by rng.
func NewCommonRandom[K comparable, T Time](inner Sampler[K, T], rng Snapshotter) *CommonRandom[K, T] {
	return &CommonRandom[K, T]{
		inner: inner,
		rng:   rng,
		snap:  make(map[K]Snapshot),
	}
}

// FreezeCRN switches from recording to replay: subsequent Enable calls
// for a previously seen key restore its recorded snapshot (a hit)
// instead of drawing fresh entropy; a key never seen before still draws
// fresh and is recorded as a miss, extending the recording going
// forward.
func (c *CommonRandom[K, T]) FreezeCRN() { c.frozen = true }

// ResetCRN discards all recorded snapshots and hit/miss counters and
// resumes recording.
func (c *CommonRandom[K, T]) ResetCRN() {
	c.frozen = false
	c.snap = make(map[K]Snapshot)
	c.hits, c.misses = 0, 0
}

// Hits returns the number of replayed Enable calls that found a
// matching recorded snapshot since the last ResetCRN.
func (c *CommonRandom[K, T]) Hits() int { return c.hits }

// Misses returns the number of Enable calls, while frozen, for a key
// with no recorded snapshot.
func (c *CommonRandom[K, T]) Misses() int { return c.misses }

// Enable implements Sampler.
func (c *CommonRandom[K, T]) Enable(key K, dists []Distribution[T], te, when T, rng Rand) error {
	pre := c.rng.Snapshot()
	if c.frozen {
		if s, ok := c.snap[key]; ok {
			c.rng.Restore(s)
			c.hits++
		} else {
			c.snap[key] = pre
			c.misses++
		}
	} else {
		c.snap[key] = pre
	}
	return c.inner.Enable(key, dists, te, when, c.rng)
}

// Disable implements Sampler.
func (c *CommonRandom[K, T]) Disable(key K, when T) error { return c.inner.Disable(key, when) }

// Fire implements Sampler.
func (c *CommonRandom[K, T]) Fire(key K, when T) error {
	return c.inner.Fire(key, when)
}

// Next implements Sampler.
func (c *CommonRandom[K, T]) Next(when T, rng Rand) (OrderedSample[K, T], bool) {
	return c.inner.Next(when, c.rng)
}

// Reset implements Sampler.
func (c *CommonRandom[K, T]) Reset() {
	c.inner.Reset()
	c.snap = make(map[K]Snapshot)
	c.frozen = false
	c.hits, c.misses = 0, 0
}

// Clone implements Sampler. rng must implement Snapshotter; CRN cannot
// meaningfully clone onto a plain Rand.
func (c *CommonRandom[K, T]) Clone(rng Rand) Sampler[K, T] {
	snapshotter, ok := rng.(Snapshotter)
	if !ok {
		panic("ssa: CommonRandom.Clone requires a Snapshotter rng")
	}
	clone := &CommonRandom[K, T]{
		inner:  c.inner.Clone(snapshotter),
		rng:    snapshotter,
		snap:   make(map[K]Snapshot, len(c.snap)),
		frozen: c.frozen,
	}
	for k, s := range c.snap {
		clone.snap[k] = s
	}
	return clone
}

// CopyClocksFrom implements Sampler.
func (c *CommonRandom[K, T]) CopyClocksFrom(src Sampler[K, T], rng Rand) error {
	o, ok := src.(*CommonRandom[K, T])
	if !ok {
		return ErrUnsupportedDistribution
	}
	if err := c.inner.CopyClocksFrom(o.inner, c.rng); err != nil {
		return err
	}
	c.snap = make(map[K]Snapshot, len(o.snap))
	for k, s := range o.snap {
		c.snap[k] = s
	}
	return nil
}

// Jitter implements Sampler.
func (c *CommonRandom[K, T]) Jitter(when T, rng Rand) error {
	return c.inner.Jitter(when, c.rng)
}

// Keys implements Sampler.
func (c *CommonRandom[K, T]) Keys() []K { return c.inner.Keys() }

// Len implements Sampler.
func (c *CommonRandom[K, T]) Len() int { return c.inner.Len() }

// Contains implements Sampler.
func (c *CommonRandom[K, T]) Contains(key K) bool { return c.inner.Contains(key) }

// StepLogLikelihood forwards to inner if it implements LikelihoodSampler.
func (c *CommonRandom[K, T]) StepLogLikelihood(now, when T, which K) (float64, error) {
	ls, ok := c.inner.(LikelihoodSampler[K, T])
	if !ok {
		return 0, ErrNoLikelihood
	}
	return ls.StepLogLikelihood(now, when, which)
}

// PathLogLikelihood forwards to inner if it implements LikelihoodSampler.
func (c *CommonRandom[K, T]) PathLogLikelihood() float64 {
	ls, ok := c.inner.(LikelihoodSampler[K, T])
	if !ok {
		return 0
	}
	return ls.PathLogLikelihood()
}
