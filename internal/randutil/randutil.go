// Package randutil derives reproducible generators from int64 seeds.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a generator seeded from seed. A zero seed draws one from the
// clock, so only non-zero seeds repeat.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Derive returns the seed for member i of a group sharing base. Zero stays
// zero so an unseeded group stays unseeded.
func Derive(base int64, i int) int64 {
	if base == 0 {
		return 0
	}
	if i == 0 {
		return base
	}
	derived := int64(mix(uint64(base) + uint64(i)*goldenRatio64))
	if derived == 0 {
		derived = 1
	}
	return derived
}

// splitmix64 finaliser
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
