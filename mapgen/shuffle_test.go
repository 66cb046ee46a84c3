package mapgen

import (
	"slices"
	"testing"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestShuffle_IsPermutation(t *testing.T) {
	for _, seed := range []int64{0, 1, 7, -3, 1 << 40} {
		got := Shuffle(seq(50), seed)
		if len(got) != 50 {
			t.Fatalf("seed %d: length %d, want 50", seed, len(got))
		}
		sorted := slices.Clone(got)
		slices.Sort(sorted)
		if !slices.Equal(sorted, seq(50)) {
			t.Errorf("seed %d: output is not a permutation of input", seed)
		}
	}
}

func TestShuffle_Deterministic(t *testing.T) {
	a := Shuffle(seq(30), 42)
	b := Shuffle(seq(30), 42)
	if !slices.Equal(a, b) {
		t.Errorf("Same seed produced different orders:\n%v\n%v", a, b)
	}
}

func TestShuffle_SeedsDiffer(t *testing.T) {
	a := Shuffle(seq(30), 1)
	b := Shuffle(seq(30), 2)
	if slices.Equal(a, b) {
		t.Error("Expected different seeds to produce different orders for 30 elements")
	}
}

func TestShuffle_SmallInputs(t *testing.T) {
	if got := Shuffle([]int{}, 5); len(got) != 0 {
		t.Errorf("Empty input returned %v", got)
	}
	if got := Shuffle([]int{9}, 5); len(got) != 1 || got[0] != 9 {
		t.Errorf("Single input returned %v", got)
	}
	if got := Shuffle[int](nil, 5); got != nil {
		t.Errorf("Nil input returned %v", got)
	}
}

func TestShuffle_InPlace(t *testing.T) {
	in := seq(10)
	out := Shuffle(in, 3)
	if &in[0] != &out[0] {
		t.Error("Expected Shuffle to reuse the input backing array")
	}
}
