// SPDX-License-Identifier: GPL-3.0
// Copyright 2024 Pete Heist

package ssa

// DelayPhase identifies which half of a delayed reaction a clock is
// currently in.
type DelayPhase int

const (
	// RegularPhase is an ordinary, non-delayed clock.
	RegularPhase DelayPhase = iota
	// InitiatePhase is the delay between a delayed reaction's enabling
	// and its initiation firing.
	InitiatePhase
	// CompletePhase is the delay between a delayed reaction's initiation
	// and its completion firing.
	CompletePhase
)

// delayedKey is the internal clock identity DelayedReactions uses with
// its wrapped sampler: the user's key plus which phase of a (possibly
// two-phase) reaction it names.
type delayedKey[K comparable] struct {
	Key   K
	Phase DelayPhase
}

// DelayedReactions wraps a Sampler to support two-phase reactions:
// Enable with two distributions ([initiate, complete]) starts a clock
// that, on firing, automatically re-enables itself in CompletePhase
// with the stored completion distribution rather than disappearing,
// invisibly to the host, which sees one user-level Fire per phase but
// the same key throughout (§4.10, the delayed-reaction scenario in the
// worked examples). Enable with one distribution behaves like any
// other clock (RegularPhase).
type DelayedReactions[K comparable, T Time] struct {
	inner      Sampler[delayedKey[K], T]
	completion map[K]Distribution[T]
	rng        Rand
}

// NewDelayedReactions wraps inner (a sampler over delayedKey[K]) with
// delayed-reaction support, using rng to draw the completion phase's
// enabling (Fire does not take an rng argument, so this middleware must
// own one).
func NewDelayedReactions[K comparable, T Time](inner Sampler[delayedKey[K], T], rng Rand) *DelayedReactions[K, T] {
	return &DelayedReactions[K, T]{
		inner:      inner,
		completion: make(map[K]Distribution[T]),
		rng:        rng,
	}
}

func (d *DelayedReactions[K, T]) phaseOf(key K) (DelayPhase, bool) {
	if d.inner.Contains(delayedKey[K]{Key: key, Phase: InitiatePhase}) {
		return InitiatePhase, true
	}
	if d.inner.Contains(delayedKey[K]{Key: key, Phase: CompletePhase}) {
		return CompletePhase, true
	}
	if d.inner.Contains(delayedKey[K]{Key: key, Phase: RegularPhase}) {
		return RegularPhase, true
	}
	return RegularPhase, false
}

// PendingPhase reports which phase key is currently in, if any.
func (d *DelayedReactions[K, T]) PendingPhase(key K) (DelayPhase, bool) { return d.phaseOf(key) }

// Enable implements Sampler. len(dists) == 1 enables a regular clock;
// len(dists) == 2 enables a delayed reaction with dists[0] the initiate
// distribution and dists[1] the completion distribution.
func (d *DelayedReactions[K, T]) Enable(key K, dists []Distribution[T], te, when T, rng Rand) error {
	switch len(dists) {
	case 1:
		return d.inner.Enable(delayedKey[K]{Key: key, Phase: RegularPhase}, dists, te, when, rng)
	case 2:
		d.completion[key] = dists[1]
		return d.inner.Enable(delayedKey[K]{Key: key, Phase: InitiatePhase}, dists[:1], te, when, rng)
	case 0:
		return ErrEmptyDistributionList
	default:
		return ErrDistributionIndex
	}
}

// Disable implements Sampler.
func (d *DelayedReactions[K, T]) Disable(key K, when T) error {
	phase, ok := d.phaseOf(key)
	if !ok {
		return unknownClockErr(key)
	}
	return d.inner.Disable(delayedKey[K]{Key: key, Phase: phase}, when)
}

// Fire implements Sampler. Firing an InitiatePhase clock transitions it
// into CompletePhase instead of removing it; firing CompletePhase (or a
// RegularPhase clock) removes it as usual.
func (d *DelayedReactions[K, T]) Fire(key K, when T) error {
	phase, ok := d.phaseOf(key)
	if !ok {
		return unknownClockErr(key)
	}
	if err := d.inner.Fire(delayedKey[K]{Key: key, Phase: phase}, when); err != nil {
		return err
	}
	if phase != InitiatePhase {
		delete(d.completion, key)
		return nil
	}
	complete := d.completion[key]
	return d.inner.Enable(delayedKey[K]{Key: key, Phase: CompletePhase}, []Distribution[T]{complete}, when, when, d.rng)
}

// Next implements Sampler.
func (d *DelayedReactions[K, T]) Next(when T, rng Rand) (OrderedSample[K, T], bool) {
	sample, ok := d.inner.Next(when, rng)
	if !ok {
		return NoSample[K, T](), false
	}
	return OrderedSample[K, T]{Key: sample.Key.Key, Time: sample.Time}, true
}

// Reset implements Sampler.
func (d *DelayedReactions[K, T]) Reset() {
	d.inner.Reset()
	d.completion = make(map[K]Distribution[T])
}

// Clone implements Sampler.
func (d *DelayedReactions[K, T]) Clone(rng Rand) Sampler[K, T] {
	completion := make(map[K]Distribution[T], len(d.completion))
	for k, v := range d.completion {
		completion[k] = v
	}
	return &DelayedReactions[K, T]{
		inner:      d.inner.Clone(rng).(Sampler[delayedKey[K], T]),
		completion: completion,
		rng:        rng,
	}
}

// CopyClocksFrom implements Sampler.
func (d *DelayedReactions[K, T]) CopyClocksFrom(src Sampler[K, T], rng Rand) error {
	o, ok := src.(*DelayedReactions[K, T])
	if !ok {
		return ErrUnsupportedDistribution
	}
	if err := d.inner.CopyClocksFrom(o.inner, rng); err != nil {
		return err
	}
	d.completion = make(map[K]Distribution[T], len(o.completion))
	for k, v := range o.completion {
		d.completion[k] = v
	}
	d.rng = rng
	return nil
}

// Jitter implements Sampler.
func (d *DelayedReactions[K, T]) Jitter(when T, rng Rand) error {
	return d.inner.Jitter(when, rng)
}

// Keys implements Sampler, returning each user key once regardless of
// which phase it is currently in.
func (d *DelayedReactions[K, T]) Keys() []K {
	seen := make(map[K]bool)
	var keys []K
	for _, dk := range d.inner.Keys() {
		if !seen[dk.Key] {
			seen[dk.Key] = true
			keys = append(keys, dk.Key)
		}
	}
	return keys
}

// Len implements Sampler.
func (d *DelayedReactions[K, T]) Len() int { return len(d.Keys()) }

// Contains implements Sampler.
func (d *DelayedReactions[K, T]) Contains(key K) bool {
	_, ok := d.phaseOf(key)
	return ok
}
