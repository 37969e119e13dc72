package services

import "math/rand/v2"

// maxShuffleAttempts bounds the random retries before the deterministic fix.
const maxShuffleAttempts = 100

// ShuffleFunc permutes n elements through swap, like rand.Shuffle.
type ShuffleFunc func(n int, swap func(i, j int))

// Derange returns a permutation of 0..n-1 with no fixed points: perm[i] is
// the index of the participant that participant i gives to.
//
// Up to maxShuffleAttempts uniformly random permutations are drawn and the
// first derangement is returned. If none qualifies, the last draw is repaired
// by swapping every fixed point with its right neighbour (wrapping), and
// fallback is true. The repair leaves no fixed points for any n >= 2.
//
// shuffle may be nil, in which case rand.Shuffle is used. For n < 2 no
// derangement exists and nil is returned.
func Derange(n int, shuffle ShuffleFunc) (perm []int, fallback bool) {
	if n < 2 {
		return nil, false
	}
	if shuffle == nil {
		shuffle = rand.Shuffle
	}

	perm = make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	swap := func(i, j int) { perm[i], perm[j] = perm[j], perm[i] }

	for range maxShuffleAttempts {
		shuffle(n, swap)
		if isDerangement(perm) {
			return perm, false
		}
	}

	for i := range perm {
		if perm[i] == i {
			swap(i, (i+1)%n)
		}
	}
	return perm, true
}

func isDerangement(perm []int) bool {
	for i, p := range perm {
		if p == i {
			return false
		}
	}
	return true
}
