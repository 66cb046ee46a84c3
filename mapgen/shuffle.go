package mapgen

import "math/rand"

// Shuffle permutes items in place with a Fisher-Yates pass driven only by seed
// and returns the same slice. Equal seeds give equal permutations
func Shuffle[T any](items []T, seed int64) []T {
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < len(items)-1; i++ {
		j := i + rng.Intn(len(items)-i)
		items[i], items[j] = items[j], items[i]
	}
	return items
}
