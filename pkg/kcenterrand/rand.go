// Package kcenterrand provides the process-wide shuffle source used by every
// engine's center-eviction restart. The original implementation reached for
// global srand48/srand state at process start (main.c); this threads an
// explicit *Source through the call sites that need it instead.
package kcenterrand

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Source is a Fisher-Yates shuffle source. Engines hold one and pass it down
// to every center-eviction restart, so a run built on a fixed-seed Source
// (NewSourceSeeded) is reproducible without process-global RNG state. A single Source may be
// shared across ladder levels running on a worker pool (C10), so access is
// serialized with a mutex the way the original serializes its worker
// threads around the shared RNG state behind the feed/wait barrier.
type Source struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSource creates a Source seeded from the current time.
func NewSource() *Source {
	return NewSourceSeeded(uint64(time.Now().UnixNano()))
}

// NewSourceSeeded creates a Source with a fixed seed, for reproducible runs
// and tests.
func NewSourceSeeded(seed uint64) *Source {
	return &Source{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Shuffle performs an in-place Fisher-Yates shuffle over n elements, calling
// swap(i, j) to exchange positions i and j. Matches the semantics
// math/rand/v2's Rand.Shuffle uses internally, exposed here so callers don't
// need to carry a *rand.Rand themselves.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r.Shuffle(n, swap)
}

// IntN returns a pseudo-random number in [0, n).
func (s *Source) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

// Float64 returns a pseudo-random number in [0.0, 1.0).
func (s *Source) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}
