// SPDX-License-Identifier: GPL-3.0
// Copyright 2024 Pete Heist

package ssa

import (
	"bytes"
	"math/rand/v2"
)

// Rand is the RNG adapter consumed by samplers. rng(rand) must return a
// value in [0, 1). Like Distribution, it is a collaborator this library
// does not define the source for, only the interface it draws through.
type Rand interface {
	Float64() float64
}

// Snapshot is a copyable, comparable RNG state; Equal reports whether
// two snapshots hold the same state. CommonRandom records one Snapshot
// per clock and restores it on replay, counting a hit when a recorded
// snapshot exists for the clock and a miss when none does.
type Snapshot interface {
	Equal(Snapshot) bool
}

// Snapshotter is implemented by an Rand that supports the CRN middleware:
// Snapshot captures the current state, Restore rewinds to a prior one.
type Snapshotter interface {
	Rand
	Snapshot() Snapshot
	Restore(Snapshot)
}

// byteSnapshot is an opaque, comparable byte-string snapshot.
type byteSnapshot []byte

func (b byteSnapshot) Equal(o Snapshot) bool {
	ob, ok := o.(byteSnapshot)
	if !ok {
		return false
	}
	return bytes.Equal(b, ob)
}

// PCGRand is the default Rand implementation, wrapping math/rand/v2's PCG
// source. PCG.MarshalBinary/UnmarshalBinary give it exactly the portable,
// copyable state the CRN contract needs, without pulling in an external
// RNG dependency the retrieved pack never exercises.
type PCGRand struct {
	src *rand.PCG
	r   *rand.Rand
}

// NewPCGRand returns a PCGRand seeded from two 64-bit seed words.
func NewPCGRand(seed1, seed2 uint64) *PCGRand {
	src := rand.NewPCG(seed1, seed2)
	return &PCGRand{src: src, r: rand.New(src)}
}

// Float64 implements Rand.
func (p *PCGRand) Float64() float64 {
	return p.r.Float64()
}

// Snapshot implements Snapshotter.
func (p *PCGRand) Snapshot() Snapshot {
	b, err := p.src.MarshalBinary()
	if err != nil {
		panic("ssa: PCGRand snapshot: " + err.Error())
	}
	return byteSnapshot(b)
}

// Restore implements Snapshotter.
func (p *PCGRand) Restore(s Snapshot) {
	b, ok := s.(byteSnapshot)
	if !ok {
		panic("ssa: PCGRand restore: snapshot from a different Rand implementation")
	}
	if err := p.src.UnmarshalBinary(b); err != nil {
		panic("ssa: PCGRand restore: " + err.Error())
	}
}

// Clone returns an independent PCGRand with a copy of p's current state,
// for a host that wants to hand a branch (SamplingContext.Clone/Split)
// its own RNG lineage.
func (p *PCGRand) Clone() *PCGRand {
	b, err := p.src.MarshalBinary()
	if err != nil {
		panic("ssa: PCGRand clone: " + err.Error())
	}
	src := new(rand.PCG)
	if err := src.UnmarshalBinary(b); err != nil {
		panic("ssa: PCGRand clone: " + err.Error())
	}
	return &PCGRand{src: src, r: rand.New(src)}
}
