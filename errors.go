// SPDX-License-Identifier: GPL-3.0
// Copyright 2024 Pete Heist

package ssa

import (
	"errors"
	"fmt"
)

// Sentinel errors, checked with errors.Is, following the pattern the
// retrieved pack's eventloop package uses for its ErrLoopAlreadyRunning
// family rather than the teacher's plain fmt.Errorf (the teacher never
// needed callers to distinguish error kinds programmatically; hosts of
// this library do).
var (
	// ErrUnknownClock is wrapped when disabling, firing, or indexing a
	// clock that is not currently enabled.
	ErrUnknownClock = errors.New("ssa: unknown clock")

	// ErrUnsupportedDistribution is wrapped when a distribution that does
	// not satisfy RateDistribution is enabled on an exponential-only
	// sampler (Direct, MultipleDirect, RSSA, PSSACR).
	ErrUnsupportedDistribution = errors.New("ssa: unsupported distribution for sampler")

	// ErrMissingChooser is returned building a MultiSampler without a
	// chooser function.
	ErrMissingChooser = errors.New("ssa: multisampler has no chooser")

	// ErrNotCRN is returned by FreezeCRN/ResetCRN on a context built
	// without WithCommonRandom.
	ErrNotCRN = errors.New("ssa: context was not built with common random numbers")

	// ErrNoLikelihood is returned by StepLogLikelihood when the context
	// has no likelihood-capable watcher and its sampler does not expose
	// one. PathLogLikelihood returns 0 in that case instead.
	ErrNoLikelihood = errors.New("ssa: sampler does not support likelihood")

	// ErrNotDelayed is returned by the delayed-reaction entry points on a
	// context built without WithDelayedReactions.
	ErrNotDelayed = errors.New("ssa: context was not built with delayed-reaction support")

	// ErrInvalidBoundFactor is returned building an RSSA sampler with a
	// bound factor < 1.
	ErrInvalidBoundFactor = errors.New("ssa: bound factor must be >= 1")

	// ErrInvalidGroupCount is returned building a PSSACR sampler with a
	// non-positive group count.
	ErrInvalidGroupCount = errors.New("ssa: group count must be >= 1")

	// ErrEmptyDistributionList is returned by Enable when given zero
	// distributions; the single-distribution samplers also return it
	// whenever dists does not hold exactly one distribution.
	ErrEmptyDistributionList = errors.New("ssa: distribution list must have length >= 1")

	// ErrDistributionIndex is returned by DelayedReactions.Enable when
	// given more than two distributions. (SamplingContext clamps an
	// out-of-range SelectDistribution index to 0 rather than erroring.)
	ErrDistributionIndex = errors.New("ssa: distribution index out of range")
)

func unknownClockErr[K comparable](key K) error {
	return fmt.Errorf("%w: %v", ErrUnknownClock, key)
}

func unsupportedDistributionErr[K comparable](key K) error {
	return fmt.Errorf("%w: clock %v", ErrUnsupportedDistribution, key)
}
