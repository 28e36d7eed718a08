// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wheel

import (
	"math/rand/v2"
	"sync"
)

// RNG abstracts the uniform random source so draws can be reproduced in
// tests. *rand.Rand from math/rand/v2 satisfies it.
type RNG interface {
	// IntN returns a uniformly random int in [0, n).
	IntN(n int) int
	// Float64 returns a uniformly random float64 in [0.0, 1.0).
	Float64() float64
}

// globalRNG delegates to the auto-seeded top-level math/rand/v2 functions,
// which are safe for concurrent use.
type globalRNG struct{}

func (globalRNG) IntN(n int) int    { return rand.IntN(n) }
func (globalRNG) Float64() float64 { return rand.Float64() }

// NewRNG returns the default random source.
func NewRNG() RNG {
	return globalRNG{}
}

// seededRNG wraps a PCG generator with a mutex so one seeded source can be
// shared by concurrent draws.
type seededRNG struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededRNG returns a reproducible random source for the given seed.
func NewSeededRNG(seed uint64) RNG {
	return &seededRNG{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (s *seededRNG) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

func (s *seededRNG) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}
