package imagegen

import "math/rand/v2"

// MaxSeed is the largest seed drawn when the caller supplies none.
const MaxSeed int64 = 1<<31 - 1

// SeedSource draws a seed in [0, MaxSeed].
type SeedSource func() int64

func randomSeed() int64 { return rand.Int64N(MaxSeed + 1) }

// ResolveSeed returns the supplied seed verbatim, or draws one.
func ResolveSeed(seed *int64, draw SeedSource) int64 {
	if seed != nil {
		return *seed
	}
	if draw == nil {
		draw = randomSeed
	}
	return draw()
}
