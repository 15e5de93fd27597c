// SPDX-License-Identifier: GPL-3.0
// Copyright 2024 Pete Heist

package ssa

import "reflect"

// SpaceKind selects the sampling space a NextReaction-family record uses
// to track residual survival.
type SpaceKind int

const (
	// LinearSampling tracks survival S in [0, 1].
	LinearSampling SpaceKind = iota
	// LogSampling tracks ln S in [-Inf, 0], numerically stable for
	// tail-heavy distributions.
	LogSampling
)

// LogSpaceHint is implemented by distributions that want to declare
// their canonical sampling space to CombinedNextReaction's default
// registry, instead of being classified Linear by default. Exponential,
// Gamma, Erlang, Weibull and Laplace-shaped distributions typically
// implement this returning true (§4.3's default registry).
type LogSpaceHint interface {
	LogSpace() bool
}

// SpaceRegistry maps distribution types to a SpaceKind, extensible by
// the host the way the spec's compile-time registry is (§9): register a
// sample instance of a concrete distribution type once, and every
// distribution of that Go type is classified accordingly thereafter.
type SpaceRegistry struct {
	overrides map[reflect.Type]SpaceKind
}

// NewSpaceRegistry returns an empty SpaceRegistry. With no registrations,
// Lookup falls back to LogSpaceHint, then to LinearSampling.
func NewSpaceRegistry() *SpaceRegistry {
	return &SpaceRegistry{overrides: make(map[reflect.Type]SpaceKind)}
}

// Register classifies every distribution sharing sample's concrete Go
// type as kind.
func (r *SpaceRegistry) Register(sample any, kind SpaceKind) {
	r.overrides[reflect.TypeOf(sample)] = kind
}

// Lookup returns the SpaceKind for d: an explicit registration if one
// exists, else LogSpaceHint.LogSpace() if d implements it, else
// LinearSampling.
func (r *SpaceRegistry) Lookup(d any) SpaceKind {
	if r != nil {
		if k, ok := r.overrides[reflect.TypeOf(d)]; ok {
			return k
		}
	}
	if h, ok := d.(LogSpaceHint); ok && h.LogSpace() {
		return LogSampling
	}
	return LinearSampling
}

func spaceFor[T Time](kind SpaceKind) nrSpace[T] {
	if kind == LogSampling {
		return logSpace[T]{}
	}
	return linearSpace[T]{}
}

// NextReaction is the linear-space NextReaction sampler: it preserves a
// single residual-survival draw per clock across disable/re-enable, in
// linear survival space (§4.3).
type NextReaction[K comparable, T Time] struct {
	core *nextReactionCore[K, T]
}

// NewNextReaction returns an empty linear-space NextReaction sampler.
func NewNextReaction[K comparable, T Time]() *NextReaction[K, T] {
	pick := func(Distribution[T]) nrSpace[T] { return linearSpace[T]{} }
	return &NextReaction[K, T]{core: newNextReactionCore[K, T](pick)}
}

func (s *NextReaction[K, T]) Enable(key K, dists []Distribution[T], te, when T, rng Rand) error {
	if len(dists) != 1 {
		return ErrEmptyDistributionList
	}
	return s.core.enable(key, dists[0], te, when, rng)
}
func (s *NextReaction[K, T]) Disable(key K, when T) error { return s.core.disable(key, when) }
func (s *NextReaction[K, T]) Fire(key K, when T) error    { return s.core.fire(key, when) }
func (s *NextReaction[K, T]) Next(when T, rng Rand) (OrderedSample[K, T], bool) {
	return s.core.next(when, rng)
}
func (s *NextReaction[K, T]) Reset()               { s.core.reset() }
func (s *NextReaction[K, T]) Keys() []K            { return s.core.keys() }
func (s *NextReaction[K, T]) Len() int             { return s.core.len() }
func (s *NextReaction[K, T]) Contains(key K) bool  { return s.core.contains(key) }
func (s *NextReaction[K, T]) Jitter(when T, rng Rand) error {
	return s.core.jitter(when, rng)
}
func (s *NextReaction[K, T]) Clone(rng Rand) Sampler[K, T] {
	c := NewNextReaction[K, T]()
	s.core.cloneInto(c.core)
	return c
}
func (s *NextReaction[K, T]) CopyClocksFrom(src Sampler[K, T], rng Rand) error {
	o, ok := src.(*NextReaction[K, T])
	if !ok {
		return ErrUnsupportedDistribution
	}
	s.core.reset()
	o.core.cloneInto(s.core)
	return s.Jitter(0, rng)
}

// ModifiedNextReaction is the log-space NextReaction sampler (Anderson's
// variant): it tracks ln S instead of S, numerically stable for
// tail-heavy distributions (§4.3).
type ModifiedNextReaction[K comparable, T Time] struct {
	core *nextReactionCore[K, T]
}

// NewModifiedNextReaction returns an empty log-space NextReaction sampler.
func NewModifiedNextReaction[K comparable, T Time]() *ModifiedNextReaction[K, T] {
	pick := func(Distribution[T]) nrSpace[T] { return logSpace[T]{} }
	return &ModifiedNextReaction[K, T]{core: newNextReactionCore[K, T](pick)}
}

func (s *ModifiedNextReaction[K, T]) Enable(key K, dists []Distribution[T], te, when T, rng Rand) error {
	if len(dists) != 1 {
		return ErrEmptyDistributionList
	}
	return s.core.enable(key, dists[0], te, when, rng)
}
func (s *ModifiedNextReaction[K, T]) Disable(key K, when T) error { return s.core.disable(key, when) }
func (s *ModifiedNextReaction[K, T]) Fire(key K, when T) error    { return s.core.fire(key, when) }
func (s *ModifiedNextReaction[K, T]) Next(when T, rng Rand) (OrderedSample[K, T], bool) {
	return s.core.next(when, rng)
}
func (s *ModifiedNextReaction[K, T]) Reset()              { s.core.reset() }
func (s *ModifiedNextReaction[K, T]) Keys() []K           { return s.core.keys() }
func (s *ModifiedNextReaction[K, T]) Len() int            { return s.core.len() }
func (s *ModifiedNextReaction[K, T]) Contains(key K) bool { return s.core.contains(key) }
func (s *ModifiedNextReaction[K, T]) Jitter(when T, rng Rand) error {
	return s.core.jitter(when, rng)
}
func (s *ModifiedNextReaction[K, T]) Clone(rng Rand) Sampler[K, T] {
	c := NewModifiedNextReaction[K, T]()
	s.core.cloneInto(c.core)
	return c
}
func (s *ModifiedNextReaction[K, T]) CopyClocksFrom(src Sampler[K, T], rng Rand) error {
	o, ok := src.(*ModifiedNextReaction[K, T])
	if !ok {
		return ErrUnsupportedDistribution
	}
	s.core.reset()
	o.core.cloneInto(s.core)
	return s.Jitter(0, rng)
}

// CombinedNextReaction picks Linear or Log space per clock via a
// SpaceRegistry (default: LogSpaceHint-based), otherwise exposing the
// identical NextReaction operations (§4.3).
type CombinedNextReaction[K comparable, T Time] struct {
	core     *nextReactionCore[K, T]
	registry *SpaceRegistry
}

// NewCombinedNextReaction returns an empty CombinedNextReaction sampler
// using registry for space selection (nil uses the default: LogSpaceHint
// if implemented, else Linear).
func NewCombinedNextReaction[K comparable, T Time](registry *SpaceRegistry) *CombinedNextReaction[K, T] {
	c := &CombinedNextReaction[K, T]{registry: registry}
	pick := func(d Distribution[T]) nrSpace[T] {
		return spaceFor[T](c.registry.Lookup(d))
	}
	c.core = newNextReactionCore[K, T](pick)
	return c
}

func (s *CombinedNextReaction[K, T]) Enable(key K, dists []Distribution[T], te, when T, rng Rand) error {
	if len(dists) != 1 {
		return ErrEmptyDistributionList
	}
	return s.core.enable(key, dists[0], te, when, rng)
}
func (s *CombinedNextReaction[K, T]) Disable(key K, when T) error { return s.core.disable(key, when) }
func (s *CombinedNextReaction[K, T]) Fire(key K, when T) error    { return s.core.fire(key, when) }
func (s *CombinedNextReaction[K, T]) Next(when T, rng Rand) (OrderedSample[K, T], bool) {
	return s.core.next(when, rng)
}
func (s *CombinedNextReaction[K, T]) Reset()              { s.core.reset() }
func (s *CombinedNextReaction[K, T]) Keys() []K           { return s.core.keys() }
func (s *CombinedNextReaction[K, T]) Len() int            { return s.core.len() }
func (s *CombinedNextReaction[K, T]) Contains(key K) bool { return s.core.contains(key) }
func (s *CombinedNextReaction[K, T]) Jitter(when T, rng Rand) error {
	return s.core.jitter(when, rng)
}
func (s *CombinedNextReaction[K, T]) Clone(rng Rand) Sampler[K, T] {
	c := NewCombinedNextReaction[K, T](s.registry)
	s.core.cloneInto(c.core)
	return c
}
func (s *CombinedNextReaction[K, T]) CopyClocksFrom(src Sampler[K, T], rng Rand) error {
	o, ok := src.(*CombinedNextReaction[K, T])
	if !ok {
		return ErrUnsupportedDistribution
	}
	s.core.reset()
	o.core.cloneInto(s.core)
	return s.Jitter(0, rng)
}
