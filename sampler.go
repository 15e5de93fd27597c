// SPDX-License-Identifier: GPL-3.0
// Copyright 2024 Pete Heist

package ssa

// Sampler is the shared interface every concrete sampler variant
// implements: FirstToFire, FirstReaction, Petri, the NextReaction
// family, MarkovDirect, MultipleDirect, RSSA, PSSACR, and the MultiSampler
// and CommonRandom middleware that wrap them. It replaces the dynamic
// dispatch over sampler variants in the source with a single Go
// interface backed by concrete types (§9 of the spec).
type Sampler[K comparable, T Time] interface {
	// Enable enables clock at absolute zero-point te, as of absolute
	// time when, drawing from rng as needed. dists has length >= 1; for
	// samplers with no vector-distribution support, len(dists) must be 1.
	Enable(key K, dists []Distribution[T], te, when T, rng Rand) error

	// Disable disables key as of absolute time when. Returns
	// ErrUnknownClock if key is not enabled.
	Disable(key K, when T) error

	// Next returns the next firing (time, key) across all enabled
	// clocks, or NoSample with ok=false if none are enabled. Next is
	// idempotent with respect to repeated calls absent an intervening
	// Enable/Disable/Fire/Jitter.
	Next(when T, rng Rand) (OrderedSample[K, T], bool)

	// Fire marks key as fired as of absolute time when, removing it from
	// the sampler. Returns ErrUnknownClock if key is not enabled.
	Fire(key K, when T) error

	// Reset clears all sampler state.
	Reset()

	// Clone returns a deep copy of the sampler. rng, if non-nil, seeds
	// any sampler-owned randomness in the clone (samplers that draw no
	// randomness of their own besides what's passed to Enable/Next may
	// ignore it).
	Clone(rng Rand) Sampler[K, T]

	// CopyClocksFrom replaces the receiver's state with a deep copy of
	// src's, then jitters (re-draws) every clock so that the two
	// branches diverge statistically.
	CopyClocksFrom(src Sampler[K, T], rng Rand) error

	// Jitter re-draws every enabled clock from its stored distribution,
	// decorrelating previously-shared draws (used after CopyClocksFrom).
	Jitter(when T, rng Rand) error

	// Keys returns the currently enabled clock keys.
	Keys() []K

	// Len returns the number of currently enabled clocks.
	Len() int

	// Contains reports whether key is currently enabled.
	Contains(key K) bool
}

// LikelihoodSampler is implemented by samplers that can report path or
// step log-likelihood (the watcher-backed family). SamplingContext type
// asserts for this rather than requiring every Sampler to implement it.
type LikelihoodSampler[K comparable, T Time] interface {
	Sampler[K, T]
	StepLogLikelihood(now, when T, which K) (float64, error)
	PathLogLikelihood() float64
}
