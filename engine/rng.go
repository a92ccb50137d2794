package engine

import "math/rand"

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position counts the values pulled from the underlying source, enabling
// save/restore. RNG satisfies formula.Roller.
type RNG struct {
	seed int64
	src  *rand.Rand
	cnt  *countingSource
}

// countingSource counts Int63 calls so that rejection sampling inside
// rand.Rand cannot desynchronize a restored generator.
type countingSource struct {
	src rand.Source
	n   int64
}

func (c *countingSource) Int63() int64 {
	c.n++
	return c.src.Int63()
}

func (c *countingSource) Seed(seed int64) {
	c.src.Seed(seed)
	c.n = 0
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	cnt := &countingSource{src: rand.NewSource(seed)}
	return &RNG{
		seed: seed,
		src:  rand.New(cnt),
		cnt:  cnt,
	}
}

// Roll returns a random integer in [1, sides].
func (r *RNG) Roll(sides int) int {
	return r.Range(1, sides)
}

// Range returns a random integer in [lo, hi]. If hi < lo, lo is returned
// without consuming a draw.
func (r *RNG) Range(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.src.Intn(hi-lo+1)
}

// Percent returns a random real in [0, 100).
func (r *RNG) Percent() float64 {
	return r.src.Float64() * 100
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of source values consumed since creation.
func (r *RNG) Position() int64 {
	return r.cnt.n
}

// RestoreRNG creates an RNG and advances it to the given position.
// This reproduces the exact RNG state for save/load.
func RestoreRNG(seed int64, position int64) *RNG {
	rng := NewRNG(seed)
	for rng.cnt.n < position {
		rng.cnt.Int63()
	}
	return rng
}
