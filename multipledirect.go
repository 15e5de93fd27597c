// SPDX-License-Identifier: GPL-3.0
// Copyright 2024 Pete Heist

package ssa

import (
	"github.com/competingclocks/ssa/internal/prefixsum"
)

// MultipleDirect partitions clocks across several independent
// CumulativeArray structures, each holding a roughly equal share of the
// enabled clocks, and samples in two stages: pick a partition
// proportional to its own rate sum, then pick a clock within that
// partition (§4.5). Splitting the search this way keeps each structure
// smaller, which matters when clocks churn fast enough that the O(log N)
// bookkeeping of a single large structure dominates.
type MultipleDirect[K comparable, T Time] struct {
	partitions    []*prefixsum.CumulativeArray[K]
	partitionOf   map[K]int
	dist          map[K]RateDistribution[T]
	numPartitions int
	next          int
	cached        *OrderedSample[K, T]
}

// NewMultipleDirect returns an empty MultipleDirect sampler with the
// given number of partitions (at least 1).
func NewMultipleDirect[K comparable, T Time](numPartitions int) *MultipleDirect[K, T] {
	if numPartitions < 1 {
		numPartitions = 1
	}
	partitions := make([]*prefixsum.CumulativeArray[K], numPartitions)
	for i := range partitions {
		partitions[i] = prefixsum.NewCumulativeArray[K]()
	}
	return &MultipleDirect[K, T]{
		partitions:    partitions,
		partitionOf:   make(map[K]int),
		dist:          make(map[K]RateDistribution[T]),
		numPartitions: numPartitions,
	}
}

// Enable implements Sampler.
func (s *MultipleDirect[K, T]) Enable(key K, dists []Distribution[T], te, when T, rng Rand) error {
	if len(dists) != 1 {
		return ErrEmptyDistributionList
	}
	rd, err := AsRateDistribution(key, dists[0])
	if err != nil {
		return err
	}
	p, ok := s.partitionOf[key]
	if !ok {
		p = s.next % s.numPartitions
		s.next++
		s.partitionOf[key] = p
		s.partitions[p].Insert(key, rd.Rate())
	} else {
		s.partitions[p].Update(key, rd.Rate())
	}
	s.dist[key] = rd
	s.cached = nil
	return nil
}

// Disable implements Sampler.
func (s *MultipleDirect[K, T]) Disable(key K, when T) error {
	p, ok := s.partitionOf[key]
	if !ok {
		return unknownClockErr(key)
	}
	s.partitions[p].Remove(key)
	delete(s.partitionOf, key)
	delete(s.dist, key)
	s.cached = nil
	return nil
}

// Fire implements Sampler.
func (s *MultipleDirect[K, T]) Fire(key K, when T) error { return s.Disable(key, when) }

// Next implements Sampler.
func (s *MultipleDirect[K, T]) Next(when T, rng Rand) (OrderedSample[K, T], bool) {
	if s.cached != nil {
		return *s.cached, true
	}
	sums := make([]float64, s.numPartitions)
	var total float64
	for i, p := range s.partitions {
		sums[i] = p.Total()
		total += sums[i]
	}
	if total <= 0 {
		return NoSample[K, T](), false
	}
	dt := drawExponential(total, rng)
	r := rng.Float64() * total
	var acc float64
	pick := s.numPartitions - 1
	for i, sum := range sums {
		acc += sum
		if acc >= r {
			pick = i
			break
		}
	}
	local := r - (acc - sums[pick])
	key, ok := s.partitions[pick].Find(local)
	if !ok {
		return NoSample[K, T](), false
	}
	sample := OrderedSample[K, T]{Key: key, Time: when + T(dt)}
	s.cached = &sample
	return sample, true
}

// Reset implements Sampler.
func (s *MultipleDirect[K, T]) Reset() {
	for i := range s.partitions {
		s.partitions[i] = prefixsum.NewCumulativeArray[K]()
	}
	s.partitionOf = make(map[K]int)
	s.dist = make(map[K]RateDistribution[T])
	s.next = 0
	s.cached = nil
}

// Clone implements Sampler.
func (s *MultipleDirect[K, T]) Clone(rng Rand) Sampler[K, T] {
	c := NewMultipleDirect[K, T](s.numPartitions)
	for key, p := range s.partitionOf {
		c.partitionOf[key] = p
		c.partitions[p].Insert(key, s.partitions[p].Weight(key))
		c.dist[key] = s.dist[key]
	}
	c.next = s.next
	return c
}

// CopyClocksFrom implements Sampler.
func (s *MultipleDirect[K, T]) CopyClocksFrom(src Sampler[K, T], rng Rand) error {
	o, ok := src.(*MultipleDirect[K, T])
	if !ok || o.numPartitions != s.numPartitions {
		return ErrUnsupportedDistribution
	}
	s.Reset()
	for key, p := range o.partitionOf {
		s.partitionOf[key] = p
		s.partitions[p].Insert(key, o.partitions[p].Weight(key))
		s.dist[key] = o.dist[key]
	}
	s.next = o.next
	return s.Jitter(0, rng)
}

// Jitter implements Sampler: exponential clocks are memoryless, so
// Jitter just invalidates any cached pending draw.
func (s *MultipleDirect[K, T]) Jitter(when T, rng Rand) error {
	s.cached = nil
	return nil
}

// Keys implements Sampler.
func (s *MultipleDirect[K, T]) Keys() []K {
	keys := make([]K, 0, len(s.partitionOf))
	for k := range s.partitionOf {
		keys = append(keys, k)
	}
	return keys
}

// Len implements Sampler.
func (s *MultipleDirect[K, T]) Len() int { return len(s.partitionOf) }

// Contains implements Sampler.
func (s *MultipleDirect[K, T]) Contains(key K) bool {
	_, ok := s.partitionOf[key]
	return ok
}
