// SPDX-License-Identifier: GPL-3.0
// Copyright 2024 Pete Heist

package ssa

import (
	"math"

	"github.com/competingclocks/ssa/internal/prefixsum"
)

// MarkovDirect is the classic direct method: for exponential clocks
// only, it samples the next event time from Exponential(Σ λ_i) and the
// firing clock from Categorical(λ_i / Σ λ_i), backed by a
// CumulativeArray of per-clock rates (§4.5).
type MarkovDirect[K comparable, T Time] struct {
	arr    *prefixsum.CumulativeArray[K]
	dist   map[K]RateDistribution[T]
	cached *OrderedSample[K, T]
}

// NewMarkovDirect returns an empty MarkovDirect sampler.
func NewMarkovDirect[K comparable, T Time]() *MarkovDirect[K, T] {
	return &MarkovDirect[K, T]{
		arr:  prefixsum.NewCumulativeArray[K](),
		dist: make(map[K]RateDistribution[T]),
	}
}

// Enable implements Sampler. dists must have length 1 and satisfy
// RateDistribution (constant exponential rate).
func (s *MarkovDirect[K, T]) Enable(key K, dists []Distribution[T], te, when T, rng Rand) error {
	if len(dists) != 1 {
		return ErrEmptyDistributionList
	}
	rd, err := AsRateDistribution(key, dists[0])
	if err != nil {
		return err
	}
	if s.arr.Contains(key) {
		s.arr.Update(key, rd.Rate())
	} else {
		s.arr.Insert(key, rd.Rate())
	}
	s.dist[key] = rd
	s.cached = nil
	return nil
}

// Disable implements Sampler.
func (s *MarkovDirect[K, T]) Disable(key K, when T) error {
	if !s.arr.Contains(key) {
		return unknownClockErr(key)
	}
	s.arr.Remove(key)
	delete(s.dist, key)
	s.cached = nil
	return nil
}

// Fire implements Sampler.
func (s *MarkovDirect[K, T]) Fire(key K, when T) error { return s.Disable(key, when) }

// Next implements Sampler.
func (s *MarkovDirect[K, T]) Next(when T, rng Rand) (OrderedSample[K, T], bool) {
	if s.cached != nil {
		return *s.cached, true
	}
	total := s.arr.Total()
	if s.arr.Len() == 0 || total <= 0 {
		return NoSample[K, T](), false
	}
	dt := drawExponential(total, rng)
	key, ok := s.arr.Find(rng.Float64() * total)
	if !ok {
		return NoSample[K, T](), false
	}
	sample := OrderedSample[K, T]{Key: key, Time: when + T(dt)}
	s.cached = &sample
	return sample, true
}

// Reset implements Sampler.
func (s *MarkovDirect[K, T]) Reset() {
	s.arr = prefixsum.NewCumulativeArray[K]()
	s.dist = make(map[K]RateDistribution[T])
	s.cached = nil
}

// Clone implements Sampler.
func (s *MarkovDirect[K, T]) Clone(rng Rand) Sampler[K, T] {
	c := NewMarkovDirect[K, T]()
	s.arr.Each(func(key K, w float64) {
		c.arr.Insert(key, w)
		c.dist[key] = s.dist[key]
	})
	return c
}

// CopyClocksFrom implements Sampler.
func (s *MarkovDirect[K, T]) CopyClocksFrom(src Sampler[K, T], rng Rand) error {
	o, ok := src.(*MarkovDirect[K, T])
	if !ok {
		return ErrUnsupportedDistribution
	}
	s.Reset()
	o.arr.Each(func(key K, w float64) {
		s.arr.Insert(key, w)
		s.dist[key] = o.dist[key]
	})
	return s.Jitter(0, rng)
}

// Jitter implements Sampler: exponential clocks are memoryless, so
// Jitter just invalidates the cached pending draw, forcing a fresh one
// on the next Next call.
func (s *MarkovDirect[K, T]) Jitter(when T, rng Rand) error {
	s.cached = nil
	return nil
}

// Keys implements Sampler.
func (s *MarkovDirect[K, T]) Keys() []K {
	keys := make([]K, 0, s.arr.Len())
	s.arr.Each(func(key K, _ float64) { keys = append(keys, key) })
	return keys
}

// Len implements Sampler.
func (s *MarkovDirect[K, T]) Len() int { return s.arr.Len() }

// Contains implements Sampler.
func (s *MarkovDirect[K, T]) Contains(key K) bool { return s.arr.Contains(key) }

// drawExponential draws a sample from Exponential(rate) via inversion.
func drawExponential(rate float64, rng Rand) float64 {
	u := rng.Float64()
	return -math.Log(1-u) / rate
}
