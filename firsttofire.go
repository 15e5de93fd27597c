// SPDX-License-Identifier: GPL-3.0
// Copyright 2024 Pete Heist

package ssa

import "github.com/competingclocks/ssa/internal/fireheap"

// FirstToFire draws one sample per clock at enable time and never
// revisits it; it is the fastest sampler for clocks that fire at most
// once with a fixed distribution, but is incorrect for a non-exponential
// clock disabled and later re-enabled with the expectation that elapsed
// conditional survival carries over (§4.2): re-drawing on re-enable
// biases the master equation. Callers needing that semantic must use a
// NextReaction-family sampler instead.
type FirstToFire[K comparable, T Time] struct {
	heap   *fireheap.Heap[K, T]
	handle map[K]fireheap.Handle[K, T]
	dist   map[K]Distribution[T]
}

// NewFirstToFire returns an empty FirstToFire sampler.
func NewFirstToFire[K comparable, T Time]() *FirstToFire[K, T] {
	return &FirstToFire[K, T]{
		heap:   fireheap.New[K, T](),
		handle: make(map[K]fireheap.Handle[K, T]),
		dist:   make(map[K]Distribution[T]),
	}
}

// Enable implements Sampler.
func (s *FirstToFire[K, T]) Enable(key K, dists []Distribution[T], te, when T, rng Rand) error {
	if len(dists) != 1 {
		return ErrEmptyDistributionList
	}
	d := dists[0]
	t := drawTruncated(d, te, when, rng)
	if h, ok := s.handle[key]; ok {
		s.heap.Update(h, t)
	} else {
		s.handle[key] = s.heap.Push(key, t)
	}
	s.dist[key] = d
	return nil
}

// Disable implements Sampler.
func (s *FirstToFire[K, T]) Disable(key K, when T) error {
	h, ok := s.handle[key]
	if !ok {
		return unknownClockErr(key)
	}
	s.heap.Delete(h)
	delete(s.handle, key)
	delete(s.dist, key)
	return nil
}

// Fire implements Sampler.
func (s *FirstToFire[K, T]) Fire(key K, when T) error {
	return s.Disable(key, when)
}

// Next implements Sampler.
func (s *FirstToFire[K, T]) Next(when T, rng Rand) (OrderedSample[K, T], bool) {
	key, t, ok := s.heap.Peek()
	if !ok {
		return NoSample[K, T](), false
	}
	return OrderedSample[K, T]{Key: key, Time: t}, true
}

// Reset implements Sampler.
func (s *FirstToFire[K, T]) Reset() {
	s.heap.Reset()
	s.handle = make(map[K]fireheap.Handle[K, T])
	s.dist = make(map[K]Distribution[T])
}

// Clone implements Sampler.
func (s *FirstToFire[K, T]) Clone(rng Rand) Sampler[K, T] {
	c := NewFirstToFire[K, T]()
	s.heap.Each(func(key K, t T) {
		c.handle[key] = c.heap.Push(key, t)
		c.dist[key] = s.dist[key]
	})
	return c
}

// CopyClocksFrom implements Sampler.
func (s *FirstToFire[K, T]) CopyClocksFrom(src Sampler[K, T], rng Rand) error {
	o, ok := src.(*FirstToFire[K, T])
	if !ok {
		return ErrUnsupportedDistribution
	}
	s.Reset()
	o.heap.Each(func(key K, t T) {
		s.handle[key] = s.heap.Push(key, t)
		s.dist[key] = o.dist[key]
	})
	return s.Jitter(0, rng)
}

// Jitter implements Sampler: resample every enabled clock from its
// stored distribution, using when as the new te (i.e. continue from
// "now" with a fresh draw), decorrelating the clock from whatever
// branch it was copied from.
func (s *FirstToFire[K, T]) Jitter(when T, rng Rand) error {
	type upd struct {
		key K
		t   T
	}
	var updates []upd
	s.heap.Each(func(key K, t T) {
		d := s.dist[key]
		nt := when + d.Rand(rng)
		updates = append(updates, upd{key, nt})
	})
	for _, u := range updates {
		s.heap.Update(s.handle[u.key], u.t)
	}
	return nil
}

// Keys implements Sampler.
func (s *FirstToFire[K, T]) Keys() []K {
	keys := make([]K, 0, len(s.handle))
	for k := range s.handle {
		keys = append(keys, k)
	}
	return keys
}

// Len implements Sampler.
func (s *FirstToFire[K, T]) Len() int { return s.heap.Len() }

// Contains implements Sampler.
func (s *FirstToFire[K, T]) Contains(key K) bool {
	_, ok := s.handle[key]
	return ok
}

// drawTruncated draws one sample from d, left-truncated at
// max(0, when-te), returning the absolute firing time te+tau.
func drawTruncated[T Time](d Distribution[T], te, when T, rng Rand) T {
	lo := when - te
	if lo < 0 {
		lo = 0
	}
	trunc := d
	if lo > 0 {
		trunc = d.Truncated(lo, Infinity[T]())
	}
	return te + trunc.Rand(rng)
}
