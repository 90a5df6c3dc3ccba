/*
Package game
File: random.go
Description:
    Randomness helpers shared by the generators and the encounter engine.
    Every draw goes through an injected *rand.Rand so a seeded session
    replays identically.
*/

package game

import "math/rand/v2"

// NewRand builds a seeded PCG source.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed>>8|3))
}

// Weighted pairs an item with its selection weight.
type Weighted[T any] struct {
	Item   T
	Weight int
}

// WeightedPick sums the weights, draws r in [0, total) and walks the list
// subtracting each weight until r falls below the current entry's weight.
// Entries with weight <= 0 are never chosen. ok is false when nothing can be drawn.
func WeightedPick[T any](rng *rand.Rand, options []Weighted[T]) (item T, ok bool) {
	total := 0
	for _, o := range options {
		if o.Weight > 0 {
			total += o.Weight
		}
	}
	if total == 0 {
		return item, false
	}

	r := rng.IntN(total)
	for _, o := range options {
		if o.Weight <= 0 {
			continue
		}
		if r < o.Weight {
			return o.Item, true
		}
		r -= o.Weight
	}
	// Unreachable while total is the sum of positive weights.
	return item, false
}

// randFloat returns a float in [lo, hi).
func randFloat(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// randInt returns an int in [lo, hi], inclusive.
func randInt(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}

// chance reports true with probability p.
func chance(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}
