// Package randutil builds the per-game random sources used for shuffling.
package randutil

import (
	rand "math/rand/v2"

	"github.com/coder/quartz"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Every game owns its own source so that seeds replay identically regardless of
// how many games run alongside it.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// SeedFromClock derives a seed from the clock, for callers that did not ask
// for a reproducible game. The value is logged by callers so the game can be
// replayed later.
func SeedFromClock(clock quartz.Clock) int64 {
	return int64(mix(uint64(clock.Now().UnixNano())) >> 1)
}

// Derive returns the seed for the n-th game in a batch started from base.
func Derive(base int64, n int) int64 {
	return base + int64(n)
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
