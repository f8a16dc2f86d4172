// Package rng provides the injectable randomness abstraction used by the
// encounter assignment engine and anything else that draws random values.
// Production code uses the crypto-backed source; tests and replays inject a
// seeded source so every shuffle and draw is reproducible.
package rng

// Source is the randomness provider for the simulation core.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int

	// Float64 returns a random float64 in [0, 1).
	Float64() float64
}

// Shuffle applies a uniform random permutation to s in place using src.
//
// Postcondition: s holds the same elements in Fisher-Yates shuffled order.
func Shuffle[T any](s []T, src Source) {
	for i := len(s) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// WeightedIndex selects an index from weights by cumulative-bin weighted draw:
// a uniform value in [0, sum(weights)) selects the first bin whose cumulative
// weight exceeds it. Negative weights are treated as zero.
//
// Postcondition: Returns an index in [0, len(weights)), or -1 when weights is
// empty or sums to zero. A -1 return is the caller's deterministic-fallback
// signal, not an error.
func WeightedIndex(weights []float64, src Source) int {
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}

	draw := src.Float64() * total
	var cum float64
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cum += w
		if draw < cum {
			return i
		}
	}
	// Floating-point edge: draw landed exactly on total.
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return i
		}
	}
	return -1
}
