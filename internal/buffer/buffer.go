// Package buffer provides the reusable, grow-only arrays that back a cooked frame.
package buffer

// Buffer is a growable array whose capacity only ever increases.
// The logical length is tracked separately so that a frame can shrink
// and grow again without reallocating.
//
// A Buffer is not safe for concurrent mutation; the owning frame serializes
// access by joining any outstanding reader before cooking again.
type Buffer[T any] struct {
	data []T
}

// New creates a buffer with the given initial capacity and zero length.
func New[T any](capacity int) *Buffer[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer[T]{data: make([]T, 0, capacity)}
}

// ResizeDiscard sets the logical length to n.
// Element contents are unspecified afterwards: previously written values may
// remain, and newly exposed slots may hold stale data from earlier frames.
func (b *Buffer[T]) ResizeDiscard(n int) {
	if n < 0 {
		n = 0
	}
	if n > cap(b.data) {
		b.grow(n)
	}
	b.data = b.data[:n]
}

// Resize sets the logical length to n, zeroing any newly exposed slots.
func (b *Buffer[T]) Resize(n int) {
	old := len(b.data)
	b.ResizeDiscard(n)
	if n > old {
		clear(b.data[old:])
	}
}

// Reset sets the logical length to zero and keeps the capacity.
func (b *Buffer[T]) Reset() {
	b.data = b.data[:0]
}

// ZeroClear zeroes every element within the logical length.
func (b *Buffer[T]) ZeroClear() {
	clear(b.data)
}

// Slice returns the live elements. The slice aliases the buffer and is only
// valid until the next resize.
func (b *Buffer[T]) Slice() []T {
	return b.data
}

// Len returns the logical length.
func (b *Buffer[T]) Len() int {
	return len(b.data)
}

// Cap returns the allocated capacity.
func (b *Buffer[T]) Cap() int {
	return cap(b.data)
}

// Empty reports whether the logical length is zero.
func (b *Buffer[T]) Empty() bool {
	return len(b.data) == 0
}

// CopyTo copies the live elements into dst and returns the number copied.
func (b *Buffer[T]) CopyTo(dst []T) int {
	return copy(dst, b.data)
}

// Swap exchanges storage with other without copying elements.
func (b *Buffer[T]) Swap(other *Buffer[T]) {
	b.data, other.data = other.data, b.data
}

// grow reallocates to at least minCapacity, doubling from the current capacity.
// Existing elements are not preserved beyond the current length.
func (b *Buffer[T]) grow(minCapacity int) {
	newCapacity := max(cap(b.data), minInitialCapacity)
	for newCapacity < minCapacity {
		newCapacity *= growthFactor
	}

	newData := make([]T, len(b.data), newCapacity)
	copy(newData, b.data)
	b.data = newData
}
