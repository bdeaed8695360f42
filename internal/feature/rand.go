// ClipFeed - Self-Hosted Short-Video Feed Server
// Copyright 2026 ClipFeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clipfeed/clipfeed

package feature

import "hash/fnv"

// Seed hashes a string to a 32-bit generator seed using FNV-1a.
// The same string always produces the same seed, on every platform.
func Seed(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s)) //nolint:errcheck // fnv.Write never fails
	return h.Sum32()
}

// Rand is a small deterministic xorshift32 generator.
//
// It is deliberately not math/rand: feature synthesis, clustering
// initialization, and feed sampling all require bit-identical sequences for a
// given seed across rebuilds and processes, so the algorithm is pinned here
// and must not change. Not safe for concurrent use; callers create one per
// draw sequence.
type Rand struct {
	state uint32
}

// NewRand creates a generator from a 32-bit seed.
// A zero seed would make xorshift32 emit zeros forever, so it is remapped to
// a fixed non-zero constant.
func NewRand(seed uint32) *Rand {
	if seed == 0 {
		seed = 0x9e3779b9
	}
	return &Rand{state: seed}
}

// next advances the generator and returns the raw 32-bit state.
func (r *Rand) next() uint32 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

// Float64 returns the next pseudo-random value in [0, 1).
func (r *Rand) Float64() float64 {
	return float64(r.next()) / (1 << 32)
}

// Intn returns a pseudo-random int in [0, n). Panics if n <= 0.
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		panic("feature: Intn called with non-positive n")
	}
	return int(r.next() % uint32(n))
}
