// SPDX-License-Identifier: GPL-3.0
// Copyright 2024 Pete Heist

package ssa

import "github.com/rs/zerolog"

// SamplerKind selects which concrete Sampler implementation Builder.Build
// constructs.
type SamplerKind int

const (
	// FirstToFireKind builds FirstToFire.
	FirstToFireKind SamplerKind = iota
	// FirstReactionKind builds FirstReaction.
	FirstReactionKind
	// PetriKind builds Petri.
	PetriKind
	// NextReactionKind builds NextReaction.
	NextReactionKind
	// ModifiedNextReactionKind builds ModifiedNextReaction.
	ModifiedNextReactionKind
	// CombinedNextReactionKind builds CombinedNextReaction.
	CombinedNextReactionKind
	// MarkovDirectKind builds MarkovDirect.
	MarkovDirectKind
	// MultipleDirectKind builds MultipleDirect.
	MultipleDirectKind
	// RSSAKind builds RSSA.
	RSSAKind
	// PSSACRKind builds PSSACR.
	PSSACRKind
	// MultiSamplerKind builds a MultiSampler routing across the children
	// given to WithMultiSampler. WithCommonRandom still wraps the
	// resulting MultiSampler as a whole. WithDelayedReactions does not:
	// MultiSampler's children are already concretely Sampler[K, T] and
	// cannot be rebuilt over delayedKey[K], so Build rejects the
	// combination with ErrNotDelayed; a child that itself needs
	// delayed-reaction support should be built as its own
	// SamplingContext's sampler and handed in pre-wrapped.
	MultiSamplerKind
)

// Builder assembles a SamplingContext from a chosen sampler algorithm
// plus the ambient middleware (watchers, common random numbers,
// delayed reactions) a host opts into (§6). Zero value is not usable;
// start from NewBuilder.
type Builder[K comparable, T Time] struct {
	kind     SamplerKind
	registry *SpaceRegistry

	stepLikelihood bool
	pathLikelihood bool
	debug          bool
	recording      bool
	commonRandom   bool
	delayed        bool

	startTime       T
	likelihoodCount int
	rng             Rand

	numPartitions int
	numGroups     int
	boundFactor   float64

	multiChildren map[string]Sampler[K, T]
	multiChooser  Chooser[K]

	logLevel zerolog.Level
}

// NewBuilder returns a Builder defaulting to NextReactionKind, a
// PCGRand seeded from (1, 2), and logging disabled.
func NewBuilder[K comparable, T Time]() *Builder[K, T] {
	return &Builder[K, T]{
		kind:          NextReactionKind,
		rng:           NewPCGRand(1, 2),
		numPartitions: 4,
		numGroups:     64,
		boundFactor:   1,
		logLevel:      zerolog.Disabled,
	}
}

// WithSampler selects the sampler algorithm to build.
func (b *Builder[K, T]) WithSampler(kind SamplerKind) *Builder[K, T] {
	b.kind = kind
	return b
}

// WithSpaceRegistry supplies the SpaceRegistry CombinedNextReactionKind
// uses to classify distributions (ignored by other kinds). Nil uses the
// default LogSpaceHint-based classification.
func (b *Builder[K, T]) WithSpaceRegistry(registry *SpaceRegistry) *Builder[K, T] {
	b.registry = registry
	return b
}

// WithStepLikelihood wraps the built sampler's watcher with step
// log-likelihood support (a TrajectoryWatcher).
func (b *Builder[K, T]) WithStepLikelihood() *Builder[K, T] {
	b.stepLikelihood = true
	return b
}

// WithPathLikelihood wraps the built sampler's watcher with path
// log-likelihood accumulation (a TrajectoryWatcher; implies
// WithStepLikelihood, since both live on the same watcher).
func (b *Builder[K, T]) WithPathLikelihood() *Builder[K, T] {
	b.pathLikelihood = true
	return b
}

// WithDebug attaches a DebugWatcher recording every enable/disable/fire.
func (b *Builder[K, T]) WithDebug() *Builder[K, T] {
	b.debug = true
	return b
}

// WithRecording attaches a TrackWatcher, without likelihood or debug
// logging, for hosts that only need the current enabled-set snapshot.
func (b *Builder[K, T]) WithRecording() *Builder[K, T] {
	b.recording = true
	return b
}

// WithCommonRandom wraps the built sampler with CommonRandom, requiring
// rng to be a Snapshotter.
func (b *Builder[K, T]) WithCommonRandom() *Builder[K, T] {
	b.commonRandom = true
	return b
}

// WithDelayedReactions wraps the built sampler with DelayedReactions.
func (b *Builder[K, T]) WithDelayedReactions() *Builder[K, T] {
	b.delayed = true
	return b
}

// WithStartTime sets the context's initial (and Reset) time.
func (b *Builder[K, T]) WithStartTime(t T) *Builder[K, T] {
	b.startTime = t
	return b
}

// WithLikelihoodCount sizes the built watcher's storage for n
// concurrently enabled clocks, and, for a TrajectoryWatcher, also
// preallocates capacity for n entries in its per-candidate-distribution
// likelihood vector — the likelihood_cnt parameter used by
// vector-distribution importance sampling (§6). The vector itself
// starts empty and grows to the length of the longest distribution
// vector seen at a disable or fire.
func (b *Builder[K, T]) WithLikelihoodCount(n int) *Builder[K, T] {
	b.likelihoodCount = n
	return b
}

// WithRand sets the RNG the context and sampler draw from.
func (b *Builder[K, T]) WithRand(rng Rand) *Builder[K, T] {
	b.rng = rng
	return b
}

// WithPartitions sets MultipleDirectKind's partition count.
func (b *Builder[K, T]) WithPartitions(n int) *Builder[K, T] {
	b.numPartitions = n
	return b
}

// WithGroups sets PSSACRKind's group count (default 64).
func (b *Builder[K, T]) WithGroups(n int) *Builder[K, T] {
	b.numGroups = n
	return b
}

// WithBoundFactor sets RSSAKind's rejection bound factor (default 1).
func (b *Builder[K, T]) WithBoundFactor(factor float64) *Builder[K, T] {
	b.boundFactor = factor
	return b
}

// WithMultiSampler sets MultiSamplerKind's chooser and named children.
func (b *Builder[K, T]) WithMultiSampler(chooser Chooser[K], children map[string]Sampler[K, T]) *Builder[K, T] {
	b.kind = MultiSamplerKind
	b.multiChooser = chooser
	b.multiChildren = children
	return b
}

// WithDebugLevel sets the minimum zerolog level of the context's logger
// (default zerolog.Disabled). The context logs enable/disable/fire
// events at debug level, so they appear only at zerolog.DebugLevel or
// below.
func (b *Builder[K, T]) WithDebugLevel(level zerolog.Level) *Builder[K, T] {
	b.logLevel = level
	return b
}

// buildKindSampler constructs the chosen algorithm over an arbitrary
// comparable key type K2, independent of the Builder's own K. This
// indirection is what lets WithDelayedReactions build the inner
// algorithm over delayedKey[K] instead of K: Go generics have no way to
// go from a Sampler[K, T] value to a Sampler[delayedKey[K], T] one, so
// the underlying sampler must be constructed with the right key type
// from the start.
func buildKindSampler[K2 comparable, T Time](kind SamplerKind, registry *SpaceRegistry, numPartitions, numGroups int, boundFactor float64) (Sampler[K2, T], error) {
	switch kind {
	case FirstToFireKind:
		return NewFirstToFire[K2, T](), nil
	case FirstReactionKind:
		return NewFirstReaction[K2, T](), nil
	case PetriKind:
		return NewPetri[K2, T](), nil
	case NextReactionKind:
		return NewNextReaction[K2, T](), nil
	case ModifiedNextReactionKind:
		return NewModifiedNextReaction[K2, T](), nil
	case CombinedNextReactionKind:
		return NewCombinedNextReaction[K2, T](registry), nil
	case MarkovDirectKind:
		return NewMarkovDirect[K2, T](), nil
	case MultipleDirectKind:
		return NewMultipleDirect[K2, T](numPartitions), nil
	case RSSAKind:
		return NewRSSA[K2, T](boundFactor)
	case PSSACRKind:
		return NewPSSACR[K2, T](numGroups)
	default:
		return NewNextReaction[K2, T](), nil
	}
}

// Build validates the accumulated options and returns a SamplingContext.
func (b *Builder[K, T]) Build() (*SamplingContext[K, T], error) {
	rng := b.rng
	if rng == nil {
		rng = NewPCGRand(1, 2)
	}

	var sampler Sampler[K, T]
	switch {
	case b.kind == MultiSamplerKind:
		if b.delayed {
			return nil, ErrNotDelayed
		}
		ms, err := NewMultiSampler[K, T](b.multiChooser, b.multiChildren)
		if err != nil {
			return nil, err
		}
		sampler = ms
	case b.delayed:
		inner, err := buildKindSampler[delayedKey[K], T](b.kind, b.registry, b.numPartitions, b.numGroups, b.boundFactor)
		if err != nil {
			return nil, err
		}
		sampler = NewDelayedReactions[K, T](inner, rng)
	default:
		s, err := buildKindSampler[K, T](b.kind, b.registry, b.numPartitions, b.numGroups, b.boundFactor)
		if err != nil {
			return nil, err
		}
		sampler = s
	}

	if b.commonRandom {
		snap, ok := rng.(Snapshotter)
		if !ok {
			return nil, ErrNotCRN
		}
		sampler = NewCommonRandom[K, T](sampler, snap)
	}

	var watcher Watcher[K, T]
	switch {
	case b.pathLikelihood || b.stepLikelihood:
		watcher = NewTrajectoryWatcherSized[K, T](b.likelihoodCount)
	case b.debug:
		watcher = NewDebugWatcher[K, T]()
	case b.recording:
		watcher = NewTrackWatcherSized[K, T](b.likelihoodCount)
	}

	log := defaultLogger.Level(b.logLevel)

	return &SamplingContext[K, T]{
		sampler:   sampler,
		watcher:   watcher,
		rng:       rng,
		now:       b.startTime,
		startTime: b.startTime,
		log:       log,
	}, nil
}
