package services

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDerangement(t *testing.T, n int, perm []int) {
	t.Helper()
	require.Len(t, perm, n)
	for i, p := range perm {
		assert.NotEqual(t, i, p, "participant %d gives to themselves", i)
	}
	sorted := slices.Clone(perm)
	slices.Sort(sorted)
	for i, p := range sorted {
		require.Equal(t, i, p, "not a permutation: %v", perm)
	}
}

func TestDerange_RandomDraws(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	for n := 2; n <= 12; n++ {
		for range 50 {
			perm, _ := Derange(n, r.Shuffle)
			assertDerangement(t, n, perm)
		}
	}
}

func TestDerange_DefaultRandomness(t *testing.T) {
	perm, _ := Derange(5, nil)
	assertDerangement(t, 5, perm)
}

func TestDerange_FallbackRepairsIdentity(t *testing.T) {
	noShuffle := func(int, func(i, j int)) {}

	for n := 2; n <= 20; n++ {
		perm, fallback := Derange(n, noShuffle)
		assert.True(t, fallback)
		assertDerangement(t, n, perm)
	}
}

func TestDerange_FallbackRepairsPartialFixedPoints(t *testing.T) {
	// Always leaves 0 and the last index in place: never a derangement.
	stuck := func(n int, swap func(i, j int)) {
		for i := 1; i+1 < n-1; i += 2 {
			swap(i, i+1)
		}
	}

	for n := 2; n <= 15; n++ {
		perm, fallback := Derange(n, stuck)
		assert.True(t, fallback)
		assertDerangement(t, n, perm)
	}
}

func TestDerange_TooFewParticipants(t *testing.T) {
	for _, n := range []int{0, 1} {
		perm, fallback := Derange(n, nil)
		assert.Nil(t, perm)
		assert.False(t, fallback)
	}
}
