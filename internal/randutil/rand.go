package randutil

import rand "math/rand/v2"

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Every shoe in a simulation is shuffled from a source created here so that a
// run seed reproduces the same deal order.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Derive returns an independent seed for a numbered stream (e.g. a simulation
// worker) of the given base seed. Stream 0 returns the base seed unchanged.
func Derive(seed int64, stream int) int64 {
	if stream == 0 {
		return seed
	}
	return int64(mix(uint64(seed) + uint64(stream)*goldenRatio64))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
