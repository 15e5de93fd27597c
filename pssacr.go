// SPDX-License-Identifier: GPL-3.0
// Copyright 2024 Pete Heist

package ssa

// pssacrMaxRejections bounds the within-group rejection loop in
// PSSACR.Next.
const pssacrMaxRejections = 100000

// pssacrGroup is one bucket of clocks sharing a rejection bound: the
// largest rate currently in the group. Composition picks a group
// proportional to its rate sum; rejection then picks uniformly among
// the group's members and accepts with probability rate/max, so a
// group of n clocks takes n*max/sum expected tries: O(1) when the
// group's rates are of similar size, approaching n when one rate
// dominates the rest.
type pssacrGroup[K comparable] struct {
	keys   []K
	idx    map[K]int
	rate   map[K]float64
	sum    float64
	max    float64
}

func newPssacrGroup[K comparable]() *pssacrGroup[K] {
	return &pssacrGroup[K]{idx: make(map[K]int), rate: make(map[K]float64)}
}

func (g *pssacrGroup[K]) insert(key K, rate float64) {
	g.idx[key] = len(g.keys)
	g.keys = append(g.keys, key)
	g.rate[key] = rate
	g.sum += rate
	if rate > g.max {
		g.max = rate
	}
}

func (g *pssacrGroup[K]) update(key K, rate float64) {
	old := g.rate[key]
	g.rate[key] = rate
	g.sum += rate - old
	if rate > g.max {
		g.max = rate
	} else if old == g.max && rate < old {
		g.rescanMax()
	}
}

func (g *pssacrGroup[K]) remove(key K) {
	i, ok := g.idx[key]
	if !ok {
		return
	}
	wasMax := g.rate[key] == g.max
	g.sum -= g.rate[key]
	last := len(g.keys) - 1
	g.keys[i] = g.keys[last]
	g.idx[g.keys[i]] = i
	g.keys = g.keys[:last]
	delete(g.idx, key)
	delete(g.rate, key)
	if wasMax {
		g.rescanMax()
	}
}

func (g *pssacrGroup[K]) rescanMax() {
	g.max = 0
	for _, k := range g.keys {
		if r := g.rate[k]; r > g.max {
			g.max = r
		}
	}
}

// PSSACR is the partial-propensity composition-rejection sampler: it
// buckets exponential clocks into a fixed number of groups, composes a
// group proportional to its rate sum, and resolves the clock within the
// chosen group by rejection against the group's current maximum rate
// (§4.7).
type PSSACR[K comparable, T Time] struct {
	groups    []*pssacrGroup[K]
	groupOf   map[K]int
	dist      map[K]RateDistribution[T]
	numGroups int
	next      int
	cached    *OrderedSample[K, T]
}

// NewPSSACR returns an empty PSSACR sampler with the given number of
// groups (must be >= 1; the spec's default is 64).
func NewPSSACR[K comparable, T Time](numGroups int) (*PSSACR[K, T], error) {
	if numGroups < 1 {
		return nil, ErrInvalidGroupCount
	}
	groups := make([]*pssacrGroup[K], numGroups)
	for i := range groups {
		groups[i] = newPssacrGroup[K]()
	}
	return &PSSACR[K, T]{
		groups:    groups,
		groupOf:   make(map[K]int),
		dist:      make(map[K]RateDistribution[T]),
		numGroups: numGroups,
	}, nil
}

// Enable implements Sampler.
func (s *PSSACR[K, T]) Enable(key K, dists []Distribution[T], te, when T, rng Rand) error {
	if len(dists) != 1 {
		return ErrEmptyDistributionList
	}
	rd, err := AsRateDistribution(key, dists[0])
	if err != nil {
		return err
	}
	g, ok := s.groupOf[key]
	if !ok {
		g = s.next % s.numGroups
		s.next++
		s.groupOf[key] = g
		s.groups[g].insert(key, rd.Rate())
	} else {
		s.groups[g].update(key, rd.Rate())
	}
	s.dist[key] = rd
	s.cached = nil
	return nil
}

// Disable implements Sampler.
func (s *PSSACR[K, T]) Disable(key K, when T) error {
	g, ok := s.groupOf[key]
	if !ok {
		return unknownClockErr(key)
	}
	s.groups[g].remove(key)
	delete(s.groupOf, key)
	delete(s.dist, key)
	s.cached = nil
	return nil
}

// Fire implements Sampler.
func (s *PSSACR[K, T]) Fire(key K, when T) error { return s.Disable(key, when) }

// Next implements Sampler.
func (s *PSSACR[K, T]) Next(when T, rng Rand) (OrderedSample[K, T], bool) {
	if s.cached != nil {
		return *s.cached, true
	}
	sums := make([]float64, s.numGroups)
	var total float64
	for i, g := range s.groups {
		sums[i] = g.sum
		total += sums[i]
	}
	if total <= 0 {
		return NoSample[K, T](), false
	}
	t := when + T(drawExponential(total, rng))
	r := rng.Float64() * total
	var acc float64
	gi := s.numGroups - 1
	for i, sum := range sums {
		acc += sum
		if acc >= r {
			gi = i
			break
		}
	}
	g := s.groups[gi]
	if len(g.keys) == 0 || g.max <= 0 {
		return NoSample[K, T](), false
	}
	for i := 0; i < pssacrMaxRejections; i++ {
		j := int(rng.Float64() * float64(len(g.keys)))
		if j >= len(g.keys) {
			j = len(g.keys) - 1
		}
		key := g.keys[j]
		if rng.Float64()*g.max <= g.rate[key] {
			sample := OrderedSample[K, T]{Key: key, Time: t}
			s.cached = &sample
			return sample, true
		}
	}
	return NoSample[K, T](), false
}

// Reset implements Sampler.
func (s *PSSACR[K, T]) Reset() {
	for i := range s.groups {
		s.groups[i] = newPssacrGroup[K]()
	}
	s.groupOf = make(map[K]int)
	s.dist = make(map[K]RateDistribution[T])
	s.next = 0
	s.cached = nil
}

// Clone implements Sampler.
func (s *PSSACR[K, T]) Clone(rng Rand) Sampler[K, T] {
	c, _ := NewPSSACR[K, T](s.numGroups)
	for key, g := range s.groupOf {
		c.groupOf[key] = g
		c.groups[g].insert(key, s.groups[g].rate[key])
		c.dist[key] = s.dist[key]
	}
	c.next = s.next
	return c
}

// CopyClocksFrom implements Sampler.
func (s *PSSACR[K, T]) CopyClocksFrom(src Sampler[K, T], rng Rand) error {
	o, ok := src.(*PSSACR[K, T])
	if !ok || o.numGroups != s.numGroups {
		return ErrUnsupportedDistribution
	}
	s.Reset()
	for key, g := range o.groupOf {
		s.groupOf[key] = g
		s.groups[g].insert(key, o.groups[g].rate[key])
		s.dist[key] = o.dist[key]
	}
	s.next = o.next
	return s.Jitter(0, rng)
}

// Jitter implements Sampler: exponential clocks are memoryless, so
// Jitter just invalidates any cached pending draw.
func (s *PSSACR[K, T]) Jitter(when T, rng Rand) error {
	s.cached = nil
	return nil
}

// Keys implements Sampler.
func (s *PSSACR[K, T]) Keys() []K {
	keys := make([]K, 0, len(s.groupOf))
	for k := range s.groupOf {
		keys = append(keys, k)
	}
	return keys
}

// Len implements Sampler.
func (s *PSSACR[K, T]) Len() int { return len(s.groupOf) }

// Contains implements Sampler.
func (s *PSSACR[K, T]) Contains(key K) bool {
	_, ok := s.groupOf[key]
	return ok
}
