package sorting

import "slices"

func builtin(arr []int) []int {
	slices.Sort(arr)

	return arr
}

// bubble sorts arr in place and returns the number of swaps performed.
// Each pass stops at the last position that needed a swap.
func bubble(arr []int) int {
	swaps := 0
	n := len(arr)

	for n > 1 {
		last := 0
		for i := 1; i < n; i++ {
			if arr[i] < arr[i-1] {
				arr[i], arr[i-1] = arr[i-1], arr[i]
				last = i
				swaps++
			}
		}
		n = last
	}

	return swaps
}

func insertion(arr []int) []int {
	for i := 1; i < len(arr); i++ {
		v := arr[i]
		j := i - 1
		for j >= 0 && arr[j] > v {
			arr[j+1] = arr[j]
			j--
		}
		arr[j+1] = v
	}

	return arr
}

func selection(arr []int) []int {
	for i := 0; i < len(arr)-1; i++ {
		minIdx := i
		for j := i + 1; j < len(arr); j++ {
			if arr[j] < arr[minIdx] {
				minIdx = j
			}
		}
		arr[i], arr[minIdx] = arr[minIdx], arr[i]
	}

	return arr
}

// merge returns a new sorted slice; arr is left untouched.
func merge(arr []int) []int {
	if len(arr) <= 1 {
		return slices.Clone(arr)
	}

	mid := len(arr) / 2
	left := merge(arr[:mid])
	right := merge(arr[mid:])

	out := make([]int, 0, len(arr))
	i, j := 0, 0
	for i < len(left) && j < len(right) {
		if left[i] <= right[j] {
			out = append(out, left[i])
			i++
		} else {
			out = append(out, right[j])
			j++
		}
	}
	out = append(out, left[i:]...)
	out = append(out, right[j:]...)

	return out
}

func quick(arr []int) []int {
	quickRange(arr, 0, len(arr)-1)

	return arr
}

// quickRange sorts arr[lo..hi] using the first element as pivot.
func quickRange(arr []int, lo, hi int) {
	if lo >= hi {
		return
	}

	pivot := arr[lo]
	small := lo
	for i := lo + 1; i <= hi; i++ {
		if arr[i] < pivot {
			small++
			arr[small], arr[i] = arr[i], arr[small]
		}
	}
	arr[lo], arr[small] = arr[small], arr[lo]

	quickRange(arr, lo, small-1)
	quickRange(arr, small+1, hi)
}

func heap(arr []int) []int {
	n := len(arr)
	for i := n/2 - 1; i >= 0; i-- {
		siftDown(arr, i, n)
	}

	for end := n - 1; end > 0; end-- {
		arr[0], arr[end] = arr[end], arr[0]
		siftDown(arr, 0, end)
	}

	return arr
}

// siftDown restores the max-heap property for the subtree at root within
// arr[:n].
func siftDown(arr []int, root, n int) {
	for {
		largest := root
		left := 2*root + 1
		right := left + 1

		if left < n && arr[left] > arr[largest] {
			largest = left
		}
		if right < n && arr[right] > arr[largest] {
			largest = right
		}
		if largest == root {
			return
		}

		arr[root], arr[largest] = arr[largest], arr[root]
		root = largest
	}
}
