// SPDX-License-Identifier: GPL-3.0
// Copyright 2024 Pete Heist

package ssa

// Petri samples uniformly among the currently enabled clocks, ignoring
// their distributions entirely, firing the chosen clock immediately (at
// the time Next was asked for). It exists purely as a cheap, trivially
// correct-looking baseline for testing the host's event-handling code
// path independent of any real timing model (§4.8 overview, "Petri").
type Petri[K comparable, T Time] struct {
	dist   map[K]Distribution[T]
	order  []K
	idx    map[K]int
	cached *OrderedSample[K, T]
}

// NewPetri returns an empty Petri sampler.
func NewPetri[K comparable, T Time]() *Petri[K, T] {
	return &Petri[K, T]{
		dist: make(map[K]Distribution[T]),
		idx:  make(map[K]int),
	}
}

// Enable implements Sampler.
func (s *Petri[K, T]) Enable(key K, dists []Distribution[T], te, when T, rng Rand) error {
	if len(dists) != 1 {
		return ErrEmptyDistributionList
	}
	if _, ok := s.dist[key]; !ok {
		s.idx[key] = len(s.order)
		s.order = append(s.order, key)
	}
	s.dist[key] = dists[0]
	s.cached = nil
	return nil
}

// Disable implements Sampler.
func (s *Petri[K, T]) Disable(key K, when T) error {
	i, ok := s.idx[key]
	if !ok {
		return unknownClockErr(key)
	}
	last := len(s.order) - 1
	s.order[i] = s.order[last]
	s.idx[s.order[i]] = i
	s.order = s.order[:last]
	delete(s.idx, key)
	delete(s.dist, key)
	s.cached = nil
	return nil
}

// Fire implements Sampler.
func (s *Petri[K, T]) Fire(key K, when T) error {
	return s.Disable(key, when)
}

// Next implements Sampler.
func (s *Petri[K, T]) Next(when T, rng Rand) (OrderedSample[K, T], bool) {
	if s.cached != nil {
		return *s.cached, true
	}
	if len(s.order) == 0 {
		return NoSample[K, T](), false
	}
	i := int(rng.Float64() * float64(len(s.order)))
	if i >= len(s.order) {
		i = len(s.order) - 1
	}
	sample := OrderedSample[K, T]{Key: s.order[i], Time: when}
	s.cached = &sample
	return sample, true
}

// Reset implements Sampler.
func (s *Petri[K, T]) Reset() {
	s.dist = make(map[K]Distribution[T])
	s.idx = make(map[K]int)
	s.order = nil
	s.cached = nil
}

// Clone implements Sampler.
func (s *Petri[K, T]) Clone(rng Rand) Sampler[K, T] {
	c := NewPetri[K, T]()
	for _, k := range s.order {
		c.idx[k] = len(c.order)
		c.order = append(c.order, k)
		c.dist[k] = s.dist[k]
	}
	return c
}

// CopyClocksFrom implements Sampler.
func (s *Petri[K, T]) CopyClocksFrom(src Sampler[K, T], rng Rand) error {
	o, ok := src.(*Petri[K, T])
	if !ok {
		return ErrUnsupportedDistribution
	}
	s.Reset()
	for _, k := range o.order {
		s.idx[k] = len(s.order)
		s.order = append(s.order, k)
		s.dist[k] = o.dist[k]
	}
	return s.Jitter(0, rng)
}

// Jitter implements Sampler: Petri holds no cached draw beyond the
// pending Next result, so jitter just invalidates it.
func (s *Petri[K, T]) Jitter(when T, rng Rand) error {
	s.cached = nil
	return nil
}

// Keys implements Sampler.
func (s *Petri[K, T]) Keys() []K {
	keys := make([]K, len(s.order))
	copy(keys, s.order)
	return keys
}

// Len implements Sampler.
func (s *Petri[K, T]) Len() int { return len(s.order) }

// Contains implements Sampler.
func (s *Petri[K, T]) Contains(key K) bool {
	_, ok := s.idx[key]
	return ok
}
