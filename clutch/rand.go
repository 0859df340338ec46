package clutch

import "math/rand"

// RandSource provides the uniform draws used to resample clutch bindings.
type RandSource interface {
	// Float64 returns a uniform number in [0, 1).
	Float64() float64
}

// NewRandSource returns a RandSource seeded for one trial. Two sources with
// the same seed produce the same sequence.
func NewRandSource(seed int64) RandSource {
	return rand.New(rand.NewSource(seed))
}
