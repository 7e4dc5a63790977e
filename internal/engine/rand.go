package engine

import "math/rand"

// engineRng is the package-level random source used when a Context does not
// carry its own. When nil, the helpers delegate to the global math/rand
// default. Use SeedRng to set a deterministic source for reproducible runs.
var engineRng *rand.Rand

// SeedRng sets a deterministic random source for reproducible engine behavior.
func SeedRng(seed int64) {
	engineRng = rand.New(rand.NewSource(seed))
}

// ResetRng reverts to the default (non-deterministic) global random source.
func ResetRng() {
	engineRng = nil
}

func engineFloat64() float64 {
	if engineRng != nil {
		return engineRng.Float64()
	}
	return rand.Float64()
}
