// Package rng provides the deterministic seeded PRNG used to shuffle
// the deck, so a recorded seed can replay an identical session.
//
// Uses the same PCG seed-mixing derivation as a session's other
// deterministic-replay needs, under this package's own vocabulary.
package rng

import rand "math/rand/v2"

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from seed.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// Shuffle performs a Fisher-Yates shuffle of deck in place using r.
func Shuffle[T any](r *rand.Rand, deck []T) {
	for i := len(deck) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}
