package kcenterrand

import (
	"testing"
)

func TestSource_ShuffleDeterministicForSameSeed(t *testing.T) {
	n := 20
	run := func() []int {
		s := NewSourceSeeded(42)
		data := make([]int, n)
		for i := range data {
			data[i] = i
		}
		s.Shuffle(len(data), func(i, j int) { data[i], data[j] = data[j], data[i] })
		return data
	}

	a := run()
	b := run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced different shuffles at index %d: %d vs %d", i, a[i], b[i])
		}
	}
}

func TestSource_ShufflePermutesAllElements(t *testing.T) {
	s := NewSourceSeeded(7)
	data := make([]int, 50)
	for i := range data {
		data[i] = i
	}
	s.Shuffle(len(data), func(i, j int) { data[i], data[j] = data[j], data[i] })

	seen := make(map[int]bool, len(data))
	for _, v := range data {
		seen[v] = true
	}
	if len(seen) != len(data) {
		t.Fatalf("shuffle lost elements: got %d distinct values, want %d", len(seen), len(data))
	}
}

func TestSource_IntNBounds(t *testing.T) {
	s := NewSourceSeeded(1)
	for i := 0; i < 1000; i++ {
		v := s.IntN(10)
		if v < 0 || v >= 10 {
			t.Fatalf("IntN(10) returned out-of-range value %d", v)
		}
	}
}
