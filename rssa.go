// SPDX-License-Identifier: GPL-3.0
// Copyright 2024 Pete Heist

package ssa

import (
	"github.com/competingclocks/ssa/internal/prefixsum"
)

// rssaMaxRejections bounds the Poisson-thinning loop in RSSA.Next, so a
// misconfigured bound factor (or a rate that has drifted far below its
// bound) ends the loop instead of spinning; Next then returns NoSample
// with ok=false.
const rssaMaxRejections = 100000

// RSSA is the rejection-based SSA: every clock's true rate is bounded
// above by boundFactor times the rate it was enabled with, and a
// Fenwick tree tracks the bounds rather than the true rates. Next draws
// candidate firing times from the thinned Poisson process defined by
// the bound sum, accepting each candidate with probability
// rate/bound (§4.6). With boundFactor == 1 every candidate is accepted
// and RSSA degenerates to MarkovDirect; boundFactor > 1 only pays off
// when a clock's rate can change without its bound. This implementation
// does not separate the two: every Enable, including a re-enable with a
// new rate, recomputes the bound as rate*boundFactor (keeping the key's
// position in the tree).
type RSSA[K comparable, T Time] struct {
	bounds      *prefixsum.FenwickTree[K]
	dist        map[K]RateDistribution[T]
	boundFactor float64
	cached      *OrderedSample[K, T]
}

// NewRSSA returns an empty RSSA sampler with the given bound factor
// (must be >= 1).
func NewRSSA[K comparable, T Time](boundFactor float64) (*RSSA[K, T], error) {
	if boundFactor < 1 {
		return nil, ErrInvalidBoundFactor
	}
	return &RSSA[K, T]{
		bounds:      prefixsum.NewFenwickTree[K](16),
		dist:        make(map[K]RateDistribution[T]),
		boundFactor: boundFactor,
	}, nil
}

// Enable implements Sampler.
func (s *RSSA[K, T]) Enable(key K, dists []Distribution[T], te, when T, rng Rand) error {
	if len(dists) != 1 {
		return ErrEmptyDistributionList
	}
	rd, err := AsRateDistribution(key, dists[0])
	if err != nil {
		return err
	}
	bound := rd.Rate() * s.boundFactor
	if s.bounds.Contains(key) {
		s.bounds.Update(key, bound)
	} else {
		s.bounds.Insert(key, bound)
	}
	s.dist[key] = rd
	s.cached = nil
	return nil
}

// Disable implements Sampler.
func (s *RSSA[K, T]) Disable(key K, when T) error {
	if !s.bounds.Contains(key) {
		return unknownClockErr(key)
	}
	s.bounds.Remove(key)
	delete(s.dist, key)
	s.cached = nil
	return nil
}

// Fire implements Sampler.
func (s *RSSA[K, T]) Fire(key K, when T) error { return s.Disable(key, when) }

// Next implements Sampler.
func (s *RSSA[K, T]) Next(when T, rng Rand) (OrderedSample[K, T], bool) {
	if s.cached != nil {
		return *s.cached, true
	}
	t := when
	for i := 0; i < rssaMaxRejections; i++ {
		total := s.bounds.Total()
		if s.bounds.Len() == 0 || total <= 0 {
			return NoSample[K, T](), false
		}
		t += T(drawExponential(total, rng))
		key, ok := s.bounds.Find(rng.Float64() * total)
		if !ok {
			return NoSample[K, T](), false
		}
		rd := s.dist[key]
		bound := s.bounds.Weight(key)
		if bound <= 0 || rng.Float64()*bound <= rd.Rate() {
			sample := OrderedSample[K, T]{Key: key, Time: t}
			s.cached = &sample
			return sample, true
		}
	}
	return NoSample[K, T](), false
}

// Reset implements Sampler.
func (s *RSSA[K, T]) Reset() {
	s.bounds = prefixsum.NewFenwickTree[K](16)
	s.dist = make(map[K]RateDistribution[T])
	s.cached = nil
}

// Clone implements Sampler.
func (s *RSSA[K, T]) Clone(rng Rand) Sampler[K, T] {
	c, _ := NewRSSA[K, T](s.boundFactor)
	for key, rd := range s.dist {
		c.bounds.Insert(key, s.bounds.Weight(key))
		c.dist[key] = rd
	}
	return c
}

// CopyClocksFrom implements Sampler.
func (s *RSSA[K, T]) CopyClocksFrom(src Sampler[K, T], rng Rand) error {
	o, ok := src.(*RSSA[K, T])
	if !ok {
		return ErrUnsupportedDistribution
	}
	s.Reset()
	for key, rd := range o.dist {
		s.bounds.Insert(key, o.bounds.Weight(key))
		s.dist[key] = rd
	}
	return s.Jitter(0, rng)
}

// Jitter implements Sampler: exponential clocks are memoryless, so
// Jitter just invalidates any cached pending draw.
func (s *RSSA[K, T]) Jitter(when T, rng Rand) error {
	s.cached = nil
	return nil
}

// Keys implements Sampler.
func (s *RSSA[K, T]) Keys() []K {
	keys := make([]K, 0, s.bounds.Len())
	for k := range s.dist {
		keys = append(keys, k)
	}
	return keys
}

// Len implements Sampler.
func (s *RSSA[K, T]) Len() int { return s.bounds.Len() }

// Contains implements Sampler.
func (s *RSSA[K, T]) Contains(key K) bool { return s.bounds.Contains(key) }
