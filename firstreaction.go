// SPDX-License-Identifier: GPL-3.0
// Copyright 2024 Pete Heist

package ssa

// FirstReaction draws a fresh putative firing time from every enabled
// clock on every call to Next, and returns the minimum: O(N) per step,
// but correct for any distribution including history-dependent ones,
// since nothing is cached across calls. Intended for small N (< 12) or
// as a reference oracle for the other samplers (§4.4).
//
// The spec's Open Questions note that two variants of this algorithm
// circulated: one that left-truncates the putative draw at when-te and
// one that does not. This implementation is the te-aware variant, which
// the spec names canonical.
type FirstReaction[K comparable, T Time] struct {
	dist map[K]Distribution[T]
	te   map[K]T
}

// NewFirstReaction returns an empty FirstReaction sampler.
func NewFirstReaction[K comparable, T Time]() *FirstReaction[K, T] {
	return &FirstReaction[K, T]{
		dist: make(map[K]Distribution[T]),
		te:   make(map[K]T),
	}
}

// Enable implements Sampler.
func (s *FirstReaction[K, T]) Enable(key K, dists []Distribution[T], te, when T, rng Rand) error {
	if len(dists) != 1 {
		return ErrEmptyDistributionList
	}
	s.dist[key] = dists[0]
	s.te[key] = te
	return nil
}

// Disable implements Sampler.
func (s *FirstReaction[K, T]) Disable(key K, when T) error {
	if _, ok := s.dist[key]; !ok {
		return unknownClockErr(key)
	}
	delete(s.dist, key)
	delete(s.te, key)
	return nil
}

// Fire implements Sampler.
func (s *FirstReaction[K, T]) Fire(key K, when T) error {
	return s.Disable(key, when)
}

// Next implements Sampler.
func (s *FirstReaction[K, T]) Next(when T, rng Rand) (OrderedSample[K, T], bool) {
	best := NoSample[K, T]()
	found := false
	for key, d := range s.dist {
		t := drawTruncated(d, s.te[key], when, rng)
		if !found || t < best.Time {
			best = OrderedSample[K, T]{Key: key, Time: t}
			found = true
		}
	}
	return best, found
}

// Reset implements Sampler.
func (s *FirstReaction[K, T]) Reset() {
	s.dist = make(map[K]Distribution[T])
	s.te = make(map[K]T)
}

// Clone implements Sampler.
func (s *FirstReaction[K, T]) Clone(rng Rand) Sampler[K, T] {
	c := NewFirstReaction[K, T]()
	for k, d := range s.dist {
		c.dist[k] = d
		c.te[k] = s.te[k]
	}
	return c
}

// CopyClocksFrom implements Sampler.
func (s *FirstReaction[K, T]) CopyClocksFrom(src Sampler[K, T], rng Rand) error {
	o, ok := src.(*FirstReaction[K, T])
	if !ok {
		return ErrUnsupportedDistribution
	}
	s.Reset()
	for k, d := range o.dist {
		s.dist[k] = d
		s.te[k] = o.te[k]
	}
	return s.Jitter(0, rng)
}

// Jitter implements Sampler. FirstReaction draws fresh every Next call,
// so there is nothing stored to decorrelate; Jitter is a no-op.
func (s *FirstReaction[K, T]) Jitter(when T, rng Rand) error {
	return nil
}

// Keys implements Sampler.
func (s *FirstReaction[K, T]) Keys() []K {
	keys := make([]K, 0, len(s.dist))
	for k := range s.dist {
		keys = append(keys, k)
	}
	return keys
}

// Len implements Sampler.
func (s *FirstReaction[K, T]) Len() int { return len(s.dist) }

// Contains implements Sampler.
func (s *FirstReaction[K, T]) Contains(key K) bool {
	_, ok := s.dist[key]
	return ok
}
