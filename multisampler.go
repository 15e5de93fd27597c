// SPDX-License-Identifier: GPL-3.0
// Copyright 2024 Pete Heist

package ssa

// Chooser assigns a clock key to one of MultiSampler's named child
// samplers. It is consulted once, the first time a key is enabled; the
// assignment then sticks for the key's lifetime (until Fire), so a
// clock never migrates between algorithms mid-flight.
type Chooser[K comparable] func(key K) string

// MultiSampler routes each clock to one of several child samplers keyed
// by name, chosen once via Chooser, and answers Next with the minimum
// across all children (§4.9). This is how a host mixes algorithms in
// one simulation: e.g. NextReaction for slow, history-sensitive clocks
// and MarkovDirect for a large bulk of memoryless ones.
type MultiSampler[K comparable, T Time] struct {
	children map[string]Sampler[K, T]
	chooser  Chooser[K]
	owner    map[K]string
}

// NewMultiSampler returns a MultiSampler routing through chooser to the
// given named children. Returns ErrMissingChooser if chooser is nil.
func NewMultiSampler[K comparable, T Time](chooser Chooser[K], children map[string]Sampler[K, T]) (*MultiSampler[K, T], error) {
	if chooser == nil {
		return nil, ErrMissingChooser
	}
	cp := make(map[string]Sampler[K, T], len(children))
	for id, c := range children {
		cp[id] = c
	}
	return &MultiSampler[K, T]{
		children: cp,
		chooser:  chooser,
		owner:    make(map[K]string),
	}, nil
}

func (s *MultiSampler[K, T]) childFor(key K) (Sampler[K, T], string, bool) {
	id, ok := s.owner[key]
	if !ok {
		id = s.chooser(key)
	}
	c, ok := s.children[id]
	return c, id, ok
}

// Enable implements Sampler.
func (s *MultiSampler[K, T]) Enable(key K, dists []Distribution[T], te, when T, rng Rand) error {
	c, id, ok := s.childFor(key)
	if !ok {
		return unknownClockErr(key)
	}
	if err := c.Enable(key, dists, te, when, rng); err != nil {
		return err
	}
	s.owner[key] = id
	return nil
}

// Disable implements Sampler.
func (s *MultiSampler[K, T]) Disable(key K, when T) error {
	id, ok := s.owner[key]
	if !ok {
		return unknownClockErr(key)
	}
	return s.children[id].Disable(key, when)
}

// Fire implements Sampler.
func (s *MultiSampler[K, T]) Fire(key K, when T) error {
	id, ok := s.owner[key]
	if !ok {
		return unknownClockErr(key)
	}
	if err := s.children[id].Fire(key, when); err != nil {
		return err
	}
	delete(s.owner, key)
	return nil
}

// Next implements Sampler: the minimum sample across all children.
func (s *MultiSampler[K, T]) Next(when T, rng Rand) (OrderedSample[K, T], bool) {
	best := NoSample[K, T]()
	found := false
	for _, c := range s.children {
		sample, ok := c.Next(when, rng)
		if ok && (!found || sample.Less(best)) {
			best, found = sample, true
		}
	}
	return best, found
}

// Reset implements Sampler.
func (s *MultiSampler[K, T]) Reset() {
	for _, c := range s.children {
		c.Reset()
	}
	s.owner = make(map[K]string)
}

// Clone implements Sampler.
func (s *MultiSampler[K, T]) Clone(rng Rand) Sampler[K, T] {
	children := make(map[string]Sampler[K, T], len(s.children))
	for id, c := range s.children {
		children[id] = c.Clone(rng)
	}
	owner := make(map[K]string, len(s.owner))
	for k, id := range s.owner {
		owner[k] = id
	}
	return &MultiSampler[K, T]{children: children, chooser: s.chooser, owner: owner}
}

// CopyClocksFrom implements Sampler.
func (s *MultiSampler[K, T]) CopyClocksFrom(src Sampler[K, T], rng Rand) error {
	o, ok := src.(*MultiSampler[K, T])
	if !ok {
		return ErrUnsupportedDistribution
	}
	for id, c := range s.children {
		oc, ok := o.children[id]
		if !ok {
			continue
		}
		if err := c.CopyClocksFrom(oc, rng); err != nil {
			return err
		}
	}
	s.owner = make(map[K]string, len(o.owner))
	for k, id := range o.owner {
		s.owner[k] = id
	}
	return nil
}

// Jitter implements Sampler, delegating to every child.
func (s *MultiSampler[K, T]) Jitter(when T, rng Rand) error {
	for _, c := range s.children {
		if err := c.Jitter(when, rng); err != nil {
			return err
		}
	}
	return nil
}

// Keys implements Sampler.
func (s *MultiSampler[K, T]) Keys() []K {
	keys := make([]K, 0, len(s.owner))
	for k, id := range s.owner {
		if s.children[id].Contains(k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Len implements Sampler.
func (s *MultiSampler[K, T]) Len() int { return len(s.Keys()) }

// Contains implements Sampler.
func (s *MultiSampler[K, T]) Contains(key K) bool {
	id, ok := s.owner[key]
	return ok && s.children[id].Contains(key)
}
