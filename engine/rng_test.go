package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNG_Deterministic(t *testing.T) {
	rng1 := NewRNG(42)
	rng2 := NewRNG(42)

	for i := 0; i < 20; i++ {
		require.Equal(t, rng1.Roll(6), rng2.Roll(6), "roll %d", i)
		require.Equal(t, rng1.Percent(), rng2.Percent(), "percent %d", i)
	}
}

func TestRNG_Roll_Range(t *testing.T) {
	rng := NewRNG(99)

	for i := 0; i < 1000; i++ {
		r := rng.Roll(100)
		if r < 1 || r > 100 {
			t.Fatalf("roll out of range [1,100]: got %d", r)
		}
	}
}

func TestRNG_Range_Inclusive(t *testing.T) {
	rng := NewRNG(7)
	seen := map[int]bool{}

	for i := 0; i < 2000; i++ {
		v := rng.Range(10, 20)
		require.GreaterOrEqual(t, v, 10)
		require.LessOrEqual(t, v, 20)
		seen[v] = true
	}
	// Both bounds must be reachable.
	assert.True(t, seen[10], "lower bound never drawn")
	assert.True(t, seen[20], "upper bound never drawn")
}

func TestRNG_Range_Degenerate(t *testing.T) {
	rng := NewRNG(1)

	assert.Equal(t, 10, rng.Range(10, 10))
	assert.Equal(t, 5, rng.Range(5, 3))
	assert.Equal(t, int64(0), rng.Position(), "degenerate ranges must not consume draws")
}

func TestRNG_Percent_Range(t *testing.T) {
	rng := NewRNG(12345)

	for i := 0; i < 1000; i++ {
		p := rng.Percent()
		if p < 0 || p >= 100 {
			t.Fatalf("percent out of range [0,100): got %f", p)
		}
	}
}

func TestRNG_Position_Tracks(t *testing.T) {
	rng := NewRNG(42)
	assert.Equal(t, int64(0), rng.Position())

	rng.Roll(6)
	assert.Equal(t, int64(1), rng.Position())

	rng.Percent()
	assert.Equal(t, int64(2), rng.Position())

	rng.Range(1, 20)
	rng.Range(1, 20)
	assert.Equal(t, int64(4), rng.Position())
}

func TestRNG_Restore_MatchesPosition(t *testing.T) {
	// Advance an RNG to position 10 and record the next 5 draws.
	rng := NewRNG(42)
	for i := 0; i < 10; i++ {
		rng.Percent()
	}

	var expected [5]float64
	for i := range expected {
		expected[i] = rng.Percent()
	}

	restored := RestoreRNG(42, 10)
	require.Equal(t, int64(10), restored.Position())
	assert.Equal(t, int64(42), restored.Seed())

	for i, want := range expected {
		assert.Equal(t, want, restored.Percent(), "draw %d", i)
	}
}

func TestRNG_DifferentSeeds_DifferentResults(t *testing.T) {
	rng1 := NewRNG(1)
	rng2 := NewRNG(2)

	differs := false
	for i := 0; i < 20; i++ {
		if rng1.Roll(100) != rng2.Roll(100) {
			differs = true
			break
		}
	}
	assert.True(t, differs, "expected different seeds to produce different results")
}

func TestRNG_Restore_MixedDraws(t *testing.T) {
	rng := NewRNG(2024)
	for i := 0; i < 50; i++ {
		rng.Range(1, 100)
		rng.Percent()
		rng.Range(3, 7)
	}
	pos := rng.Position()
	want := []int{rng.Range(1, 1000), rng.Range(1, 1000), rng.Range(1, 1000)}

	restored := RestoreRNG(2024, pos)
	got := []int{restored.Range(1, 1000), restored.Range(1, 1000), restored.Range(1, 1000)}
	assert.Equal(t, want, got)
}
