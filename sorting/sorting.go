// Package sorting holds the registry of benchmarked sort algorithms and the
// verifier that checks their output.
//
// Every Func may reorder the slice it is given and returns the sorted
// result, which is either that slice or a newly allocated one. Callers that
// need the original order must pass a copy.
package sorting

import (
	"errors"
	"fmt"
	"strings"
)

// Func sorts arr into ascending order.
type Func func(arr []int) []int

// Algorithm names.
const (
	Default   = "default"
	Bubble    = "bubble"
	Insertion = "insertion"
	Selection = "selection"
	Merge     = "merge"
	Quick     = "quick"
	Heap      = "heap"
)

// ErrUnknownAlgorithm is returned when resolving an unregistered name.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

var registry = map[string]Func{
	Default: builtin,
	Bubble: func(arr []int) []int {
		bubble(arr)

		return arr
	},
	Insertion: insertion,
	Selection: selection,
	Merge:     merge,
	Quick:     quick,
	Heap:      heap,
}

// Names returns the registered algorithm names in display order.
func Names() []string {
	return []string{Default, Bubble, Insertion, Selection, Merge, Quick, Heap}
}

// Resolve looks up an algorithm by case-insensitive name.
func Resolve(name string) (Func, error) {
	fn, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownAlgorithm, name)
	}

	return fn, nil
}

// IsSorted reports whether arr is in non-decreasing order. A nil slice is
// reported as not sorted.
func IsSorted(arr []int) bool {
	if arr == nil {
		return false
	}

	for i := 1; i < len(arr); i++ {
		if arr[i] < arr[i-1] {
			return false
		}
	}

	return true
}
