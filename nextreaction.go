// SPDX-License-Identifier: GPL-3.0
// Copyright 2024 Pete Heist

package ssa

import (
	"math"

	"github.com/competingclocks/ssa/internal/fireheap"
)

// nrSpace abstracts the arithmetic a NextReaction-family sampler performs
// on a clock's residual survival, so the linear- and log-space variants
// (and CombinedNextReaction, which picks one per clock) share one
// implementation of the enable/disable/next state machine (§4.3).
type nrSpace[T Time] interface {
	// init returns the residual survival corresponding to a freshly
	// drawn sample tau from d.
	init(d Distribution[T], tau T) float64
	// consume returns the residual survival remaining after accounting
	// for the interval [te, t0] and [te, tn] having already elapsed
	// under d (the consumption formula of §4.3).
	consume(s float64, d Distribution[T], te, t0, tn T) float64
	// invert converts a residual survival value back into an absolute
	// firing time under d with zero-point te.
	invert(s float64, d Distribution[T], te T) T
	// zero is the sentinel residual survival meaning "consumed; this
	// clock is the designated next to fire."
	zero() float64
	isZero(s float64) bool
}

type linearSpace[T Time] struct{}

func (linearSpace[T]) init(d Distribution[T], tau T) float64 { return d.CCDF(tau) }

func surviveLinear[T Time](d Distribution[T], te, x T) float64 {
	if te >= x {
		return 1
	}
	return d.CCDF(x - te)
}

func (linearSpace[T]) consume(s float64, d Distribution[T], te, t0, tn T) float64 {
	denom := surviveLinear(d, te, t0) * surviveLinear(d, te, tn)
	if denom == 0 {
		return 0
	}
	return s / denom
}

func (linearSpace[T]) invert(s float64, d Distribution[T], te T) T {
	return te + d.CQuantile(s)
}

func (linearSpace[T]) zero() float64      { return 0 }
func (linearSpace[T]) isZero(s float64) bool { return s <= 0 }

type logSpace[T Time] struct{}

func (logSpace[T]) init(d Distribution[T], tau T) float64 { return d.LogCCDF(tau) }

func surviveLog[T Time](d Distribution[T], te, x T) float64 {
	if te >= x {
		return 0
	}
	return d.LogCCDF(x - te)
}

func (logSpace[T]) consume(s float64, d Distribution[T], te, t0, tn T) float64 {
	return s - (surviveLog(d, te, t0) + surviveLog(d, te, tn))
}

func (logSpace[T]) invert(s float64, d Distribution[T], te T) T {
	return te + d.InvLogCCDF(s)
}

func (logSpace[T]) zero() float64         { return math.Inf(-1) }
func (logSpace[T]) isZero(s float64) bool { return math.IsInf(s, -1) }

// nrRecord is one clock's NRTransition record: preserved across disable
// so a later re-enable can reuse its residual survival (§3).
type nrRecord[K comparable, T Time] struct {
	space   nrSpace[T]
	dist    Distribution[T]
	te      T
	when    T // t0: time last enabled/modified
	s       float64
	enabled bool
	handle  fireheap.Handle[K, T]
}

// nextReactionCore implements the shared enable/disable/next/fire/reset
// machinery for NextReaction, ModifiedNextReaction and
// CombinedNextReaction. pickSpace chooses the sampling space for a given
// distribution; NextReaction/ModifiedNextReaction supply constant
// functions, CombinedNextReaction supplies a registry lookup.
type nextReactionCore[K comparable, T Time] struct {
	heap      *fireheap.Heap[K, T]
	record    map[K]*nrRecord[K, T]
	pickSpace func(d Distribution[T]) nrSpace[T]
}

func newNextReactionCore[K comparable, T Time](pick func(d Distribution[T]) nrSpace[T]) *nextReactionCore[K, T] {
	return &nextReactionCore[K, T]{
		heap:      fireheap.New[K, T](),
		record:    make(map[K]*nrRecord[K, T]),
		pickSpace: pick,
	}
}

func (c *nextReactionCore[K, T]) enable(key K, d Distribution[T], te, when T, rng Rand) error {
	space := c.pickSpace(d)
	r, ok := c.record[key]
	switch {
	case !ok:
		// never enabled: draw fresh, compute survival.
		tau := d.Rand(rng)
		s := space.init(d, tau)
		r = &nrRecord[K, T]{space: space, dist: d, te: te, when: when, s: s, enabled: true}
		r.handle = c.heap.Push(key, te+tau)
		c.record[key] = r
	case r.enabled:
		if sameEnabling(r.dist, d) && ulpClose(r.te, te) {
			return nil // unchanged within 2 ulp: no-op
		}
		consumed := r.space.consume(r.s, r.dist, r.te, r.when, when)
		newS := consumed
		nt := space.invert(newS, d, te)
		c.heap.Update(r.handle, nt)
		r.space, r.dist, r.te, r.when, r.s = space, d, te, when, newS
	default:
		// previously disabled: re-invert stored survival at the new
		// distribution/te, no further consumption.
		nt := space.invert(r.s, d, te)
		r.handle = c.heap.Push(key, nt)
		r.space, r.dist, r.te, r.when, r.enabled = space, d, te, when, true
	}
	return nil
}

func (c *nextReactionCore[K, T]) disable(key K, when T) error {
	r, ok := c.record[key]
	if !ok || !r.enabled {
		return unknownClockErr(key)
	}
	r.s = r.space.consume(r.s, r.dist, r.te, r.when, when)
	c.heap.Delete(r.handle)
	r.enabled = false
	r.when = when
	return nil
}

func (c *nextReactionCore[K, T]) fire(key K, when T) error {
	r, ok := c.record[key]
	if !ok || !r.enabled {
		return unknownClockErr(key)
	}
	c.heap.Delete(r.handle)
	delete(c.record, key)
	return nil
}

func (c *nextReactionCore[K, T]) next(when T, rng Rand) (OrderedSample[K, T], bool) {
	key, t, ok := c.heap.Peek()
	if !ok {
		return NoSample[K, T](), false
	}
	if r, ok := c.record[key]; ok {
		r.s = r.space.zero()
	}
	return OrderedSample[K, T]{Key: key, Time: t}, true
}

func (c *nextReactionCore[K, T]) reset() {
	c.heap.Reset()
	c.record = make(map[K]*nrRecord[K, T])
}

func (c *nextReactionCore[K, T]) keys() []K {
	keys := make([]K, 0, len(c.record))
	for k, r := range c.record {
		if r.enabled {
			keys = append(keys, k)
		}
	}
	return keys
}

func (c *nextReactionCore[K, T]) len() int {
	return c.heap.Len()
}

func (c *nextReactionCore[K, T]) contains(key K) bool {
	r, ok := c.record[key]
	return ok && r.enabled
}

func (c *nextReactionCore[K, T]) jitter(when T, rng Rand) error {
	for key, r := range c.record {
		if !r.enabled {
			continue
		}
		tau := r.dist.Rand(rng)
		r.s = r.space.init(r.dist, tau)
		c.heap.Update(r.handle, r.te+tau)
		_ = key
	}
	return nil
}

func (c *nextReactionCore[K, T]) cloneInto(dst *nextReactionCore[K, T]) {
	c.heap.Each(func(k K, t T) {
		r := c.record[k]
		nr := &nrRecord[K, T]{space: r.space, dist: r.dist, te: r.te, when: r.when, s: r.s, enabled: true}
		nr.handle = dst.heap.Push(k, t)
		dst.record[k] = nr
	})
	for k, r := range c.record {
		if !r.enabled {
			dst.record[k] = &nrRecord[K, T]{space: r.space, dist: r.dist, te: r.te, when: r.when, s: r.s, enabled: false}
		}
	}
}

// sameEnabling compares two distributions for the "(te, D) unchanged"
// no-op check. Distribution implementations that are comparable (most
// pointer-backed host types are) compare by == semantics; others are
// always treated as changed, which is conservatively correct (it just
// forgoes the no-op fast path).
func sameEnabling[T Time](a, b Distribution[T]) bool {
	defer func() { recover() }()
	return a == b
}

// ulpClose reports whether a and b are within 2 ULP of each other.
func ulpClose[T Time](a, b T) bool {
	if a == b {
		return true
	}
	af, bf := float64(a), float64(b)
	diff := af - bf
	if diff < 0 {
		diff = -diff
	}
	scale := af
	if scale < 0 {
		scale = -scale
	}
	if bf2 := bf; bf2 < 0 {
		bf2 = -bf2
		if bf2 > scale {
			scale = bf2
		}
	} else if bf > scale {
		scale = bf
	}
	const ulp = 2.220446049250313e-16 // float64 epsilon
	return diff <= 2*ulp*scale || diff <= 2*ulp
}
