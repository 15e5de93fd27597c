// SPDX-License-Identifier: GPL-3.0
// Copyright 2024 Pete Heist

package prefixsum

import "sort"

// CumulativeArray is a flat, lazily-rebuilt cumulative-weight slice. It
// trades the Fenwick tree's O(log N) update for a simpler O(1) amortized
// insert/remove and an O(log N) weighted search, rebuilding its
// cumulative-sum slice only when queried after a dirtying mutation. It
// is grounded on the teacher's sorted-slice timer queue in sim.go
// (append + lazy re-sort rather than eager tree maintenance), used here
// by MarkovDirect and as one MultipleDirect partition implementation.
type CumulativeArray[K comparable] struct {
	keys   []K
	weight []float64
	cum    []float64 // cum[i] = sum(weight[0..i])
	pos    map[K]int
	dirty  bool
}

// NewCumulativeArray returns an empty CumulativeArray.
func NewCumulativeArray[K comparable]() *CumulativeArray[K] {
	return &CumulativeArray[K]{pos: make(map[K]int)}
}

// Len returns the number of entries.
func (c *CumulativeArray[K]) Len() int { return len(c.keys) }

// Contains reports whether key is present.
func (c *CumulativeArray[K]) Contains(key K) bool {
	_, ok := c.pos[key]
	return ok
}

// Weight returns the current weight of key, or 0 if absent.
func (c *CumulativeArray[K]) Weight(key K) float64 {
	i, ok := c.pos[key]
	if !ok {
		return 0
	}
	return c.weight[i]
}

// Insert adds key with the given weight.
func (c *CumulativeArray[K]) Insert(key K, weight float64) {
	c.pos[key] = len(c.keys)
	c.keys = append(c.keys, key)
	c.weight = append(c.weight, weight)
	c.dirty = true
}

// Update changes the weight of an existing key.
func (c *CumulativeArray[K]) Update(key K, weight float64) {
	i, ok := c.pos[key]
	if !ok {
		return
	}
	c.weight[i] = weight
	c.dirty = true
}

// Remove deletes key via swap-with-last, O(1).
func (c *CumulativeArray[K]) Remove(key K) {
	i, ok := c.pos[key]
	if !ok {
		return
	}
	last := len(c.keys) - 1
	c.keys[i] = c.keys[last]
	c.weight[i] = c.weight[last]
	c.pos[c.keys[i]] = i
	c.keys = c.keys[:last]
	c.weight = c.weight[:last]
	delete(c.pos, key)
	c.dirty = true
}

// Total returns the sum of all weights.
func (c *CumulativeArray[K]) Total() float64 {
	c.rebuild()
	if len(c.cum) == 0 {
		return 0
	}
	return c.cum[len(c.cum)-1]
}

func (c *CumulativeArray[K]) rebuild() {
	if !c.dirty {
		return
	}
	if cap(c.cum) < len(c.weight) {
		c.cum = make([]float64, len(c.weight))
	} else {
		c.cum = c.cum[:len(c.weight)]
	}
	var s float64
	for i, w := range c.weight {
		s += w
		c.cum[i] = s
	}
	c.dirty = false
}

// Find returns the key whose cumulative weight interval contains target,
// target in (0, Total()].
func (c *CumulativeArray[K]) Find(target float64) (key K, ok bool) {
	c.rebuild()
	if len(c.cum) == 0 {
		return key, false
	}
	i := sort.Search(len(c.cum), func(i int) bool {
		return c.cum[i] >= target
	})
	if i >= len(c.cum) {
		i = len(c.cum) - 1
	}
	return c.keys[i], true
}

// Each calls f for every (key, weight) pair, in unspecified order.
func (c *CumulativeArray[K]) Each(f func(key K, weight float64)) {
	for i, k := range c.keys {
		f(k, c.weight[i])
	}
}
