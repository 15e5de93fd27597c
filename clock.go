// SPDX-License-Identifier: GPL-3.0
// Copyright 2024 Pete Heist

package ssa

import "math"

// Time is the constraint satisfied by a simulation's time type. A named
// float64, the way the teacher's Clock is a named time.Duration, so hosts
// can give their time axis a domain-specific name while still getting
// ordinary arithmetic and comparison operators for free.
type Time interface {
	~float64
}

// Infinity is returned as a firing time when no clock is enabled.
func Infinity[T Time]() T {
	return T(math.Inf(1))
}

// OrderedSample pairs a clock key with the time it is scheduled, or was
// drawn, to fire. It is totally ordered by Time alone; two samples with
// different keys and the same Time compare equal.
type OrderedSample[K comparable, T Time] struct {
	Key  K
	Time T
}

// Less reports whether s fires strictly before o.
func (s OrderedSample[K, T]) Less(o OrderedSample[K, T]) bool {
	return s.Time < o.Time
}

// NoSample is the sample (zero-value key, Time +Inf) returned alongside
// ok=false by Next when no clock is enabled.
func NoSample[K comparable, T Time]() OrderedSample[K, T] {
	var k K
	return OrderedSample[K, T]{Key: k, Time: Infinity[T]()}
}
