// Package random isolates the pet's stochastic choices behind an injectable
// source so generation and movement are reproducible under a fixed seed.
package random

import (
	"math/rand/v2"
	"time"
)

// Source is the subset of *rand.Rand the engine draws from.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// New returns a PCG-backed source. A zero seed picks one from the clock.
func New(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Pick returns a uniformly chosen element. items must not be empty.
func Pick[T any](r Source, items []T) T {
	return items[r.IntN(len(items))]
}

// Chance reports true with probability p.
func Chance(r Source, p float64) bool {
	return r.Float64() < p
}

// Between returns a uniform value in [lo, hi).
func Between(r Source, lo, hi float64) float64 {
	return r.Float64()*(hi-lo) + lo
}
