package common

import "math/rand/v2"

// RNG is a thin wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Range returns a uniform float in [min, max). Inverted bounds are swapped.
func (r *RNG) Range(min, max float64) float64 {
	if max < min {
		min, max = max, min
	}
	return min + r.r.Float64()*(max-min)
}
