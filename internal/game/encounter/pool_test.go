package encounter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/lantern/internal/game/encounter"
	"github.com/cory-johannsen/lantern/internal/game/rng"
)

func TestDrawFromPool_EmptyPoolReturnsNilSlots(t *testing.T) {
	src := rng.NewSeededSource(1)
	out := encounter.DrawFromPool[string](nil, 3, src)
	require.Len(t, out, 3)
	for _, slot := range out {
		assert.Nil(t, slot)
	}
}

func TestDrawFromPool_ZeroNeeded(t *testing.T) {
	src := rng.NewSeededSource(1)
	assert.Empty(t, encounter.DrawFromPool([]string{"a", "b"}, 0, src))
	assert.Empty(t, encounter.DrawFromPool([]string{"a", "b"}, -2, src))
}

func TestDrawFromPool_UniqueSampleWhenPoolSuffices(t *testing.T) {
	src := rng.NewSeededSource(7)
	pool := []string{"a", "b", "c", "d", "e"}
	out := encounter.DrawFromPool(pool, 3, src)
	require.Len(t, out, 3)

	seen := make(map[string]bool)
	for _, slot := range out {
		require.NotNil(t, slot)
		assert.Contains(t, pool, *slot)
		assert.False(t, seen[*slot], "duplicate %q", *slot)
		seen[*slot] = true
	}
}

func TestDrawFromPool_CoverageWhenPoolExhausted(t *testing.T) {
	src := rng.NewSeededSource(7)
	pool := []string{"a", "b", "c"}
	out := encounter.DrawFromPool(pool, 8, src)
	require.Len(t, out, 8)

	counts := make(map[string]int)
	for _, slot := range out {
		require.NotNil(t, slot)
		assert.Contains(t, pool, *slot)
		counts[*slot]++
	}
	for _, entry := range pool {
		assert.GreaterOrEqual(t, counts[entry], 1, "pool entry %q never drawn", entry)
	}
}

func TestDrawFromPool_CopiesAreIndependent(t *testing.T) {
	src := rng.NewSeededSource(2)
	pool := []string{"a"}
	out := encounter.DrawFromPool(pool, 2, src)
	*out[0] = "mutated"
	assert.Equal(t, "a", pool[0])
	assert.Equal(t, "a", *out[1])
}

func TestDrawFromPool_Property_Invariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		poolSize := rapid.IntRange(0, 10).Draw(rt, "pool_size")
		needed := rapid.IntRange(0, 25).Draw(rt, "needed")
		seed := rapid.Int64().Draw(rt, "seed")

		pool := make([]int, poolSize)
		for i := range pool {
			pool[i] = i
		}
		src := rng.NewSeededSource(seed)
		out := encounter.DrawFromPool(pool, needed, src)

		if needed <= 0 {
			require.Empty(rt, out)
			return
		}
		require.Len(rt, out, needed)

		if poolSize == 0 {
			for _, slot := range out {
				require.Nil(rt, slot)
			}
			return
		}

		counts := make(map[int]int)
		for _, slot := range out {
			require.NotNil(rt, slot)
			require.GreaterOrEqual(rt, *slot, 0)
			require.Less(rt, *slot, poolSize)
			counts[*slot]++
		}
		if needed <= poolSize {
			// Unique no-repeat sample.
			for v, n := range counts {
				require.Equal(rt, 1, n, "entry %d repeated", v)
			}
		} else {
			// Every entry appears at least once.
			for _, v := range pool {
				require.GreaterOrEqual(rt, counts[v], 1, "entry %d missing", v)
			}
		}
	})
}
