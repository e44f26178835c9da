package arrays

import (
	"errors"
	"slices"
	"testing"
)

func TestGenerateDeterministic(t *testing.T) {
	cfg := Config{MaxValue: 1000, Seed: 42}

	for _, strategy := range Strategies() {
		t.Run(strategy, func(t *testing.T) {
			a, err := NewGenerator(cfg).Generate(strategy, 200)
			if err != nil {
				t.Fatalf("first generation failed: %v", err)
			}

			b, err := NewGenerator(cfg).Generate(strategy, 200)
			if err != nil {
				t.Fatalf("second generation failed: %v", err)
			}

			if !slices.Equal(a, b) {
				t.Error("arrays are not deterministic for same seed")
			}
		})
	}
}

func TestGenerateSizes(t *testing.T) {
	gen := NewGenerator(Config{MaxValue: 50, Seed: 7})

	for _, strategy := range Strategies() {
		for _, size := range []int{0, 1, 2, 9, 10, 50, 1000} {
			arr, err := gen.Generate(strategy, size)
			if err != nil {
				t.Fatalf("%s/%d: generation failed: %v", strategy, size, err)
			}

			if len(arr) != size {
				t.Errorf("%s/%d: len = %d, want %d",
					strategy, size, len(arr), size)
			}
		}
	}
}

func TestOrdered(t *testing.T) {
	arr, err := NewGenerator(Config{}).Generate("ordered", 5)
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}

	want := []int{1, 2, 3, 4, 5}
	if !slices.Equal(arr, want) {
		t.Errorf("ordered(5) = %v, want %v", arr, want)
	}
}

func TestReversed(t *testing.T) {
	arr, err := NewGenerator(Config{}).Generate("Reversed", 4)
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}

	want := []int{4, 3, 2, 1}
	if !slices.Equal(arr, want) {
		t.Errorf("reversed(4) = %v, want %v", arr, want)
	}
}

func TestOrderedIgnoresMax(t *testing.T) {
	arr, err := NewGenerator(Config{MaxValue: 3}).Generate(Ordered, 10)
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}

	if arr[9] != 10 {
		t.Errorf("last element = %d, want 10", arr[9])
	}
}

func TestRepeating(t *testing.T) {
	const maxValue = 17

	arr, err := NewGenerator(Config{MaxValue: maxValue, Seed: 3}).
		Generate(Repeating, 100)
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}

	for i, v := range arr {
		if v != arr[0] {
			t.Fatalf("arr[%d] = %d, want %d", i, v, arr[0])
		}
		if v < 0 || v >= maxValue {
			t.Fatalf("arr[%d] = %d out of [0, %d)", i, v, maxValue)
		}
	}
}

func TestRandomValuesInRange(t *testing.T) {
	const maxValue = 10

	gen := NewGenerator(Config{MaxValue: maxValue, Seed: 99})

	for _, strategy := range []string{Random, Chunk} {
		arr, err := gen.Generate(strategy, 5000)
		if err != nil {
			t.Fatalf("%s: generation failed: %v", strategy, err)
		}

		for i, v := range arr {
			if v < 0 || v >= maxValue {
				t.Fatalf("%s: arr[%d] = %d out of [0, %d)",
					strategy, i, v, maxValue)
			}
		}
	}
}

func TestChunkHasRepeatedRuns(t *testing.T) {
	// With a huge range, any run of five equal values comes from a
	// repeated chunk rather than chance.
	arr, err := NewGenerator(Config{Seed: 5}).Generate(Chunk, 100)
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}

	found := false
	for start := 0; start+5 <= len(arr); start += 5 {
		run := arr[start : start+5]
		if slices.Min(run) == slices.Max(run) {
			found = true

			break
		}
	}

	if !found {
		t.Errorf("no repeated chunk found in %v", arr)
	}
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"random", Random},
		{"RANDOM", Random},
		{"chunks", Chunk},
		{"sorted", Ordered},
		{"Sorted_Reversed", Reversed},
		{" repeating ", Repeating},
	}

	for _, tt := range tests {
		got, err := Canonical(tt.input)
		if err != nil {
			t.Errorf("Canonical(%q) failed: %v", tt.input, err)

			continue
		}
		if got != tt.want {
			t.Errorf("Canonical(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestUnknownStrategy(t *testing.T) {
	_, err := NewGenerator(Config{}).Generate("zigzag", 10)
	if !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("err = %v, want ErrUnknownStrategy", err)
	}
}

func TestNegativeSize(t *testing.T) {
	if _, err := NewGenerator(Config{}).Generate(Random, -1); err == nil {
		t.Error("expected error for negative size")
	}
}
