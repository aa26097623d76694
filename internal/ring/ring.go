// Package ring implements a growable double-ended ring buffer.
package ring

import (
	"errors"
	"fmt"
	"iter"
)

// DefaultCapacity is used by owners that have no better estimate.
const DefaultCapacity = 8

// MaxCapacity bounds growth; Reserve refuses anything larger.
const MaxCapacity = 1 << 30

var (
	ErrInvalidCapacity  = errors.New("ring: capacity must be positive")
	ErrOutOfRange       = errors.New("ring: index out of range")
	ErrCapacityExceeded = errors.New("ring: capacity exceeded")
)

// Buffer is a double-ended sequence with O(1) amortized push/pop at both
// ends. The live window is [start, start+size) modulo len(data). end is the
// slot one past the last element. size is tracked explicitly because
// start == end holds both when empty and when full.
//
// A Buffer is not safe for concurrent use.
type Buffer[T any] struct {
	data  []T
	start int
	end   int
	size  int
}

func New[T any](capacity int) (*Buffer[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	return &Buffer[T]{data: make([]T, capacity)}, nil
}

func (b *Buffer[T]) Len() int    { return b.size }
func (b *Buffer[T]) Cap() int    { return len(b.data) }
func (b *Buffer[T]) Empty() bool { return b.size == 0 }

func (b *Buffer[T]) inc(i int) int {
	i++
	if i == len(b.data) {
		return 0
	}
	return i
}

func (b *Buffer[T]) dec(i int) int {
	if i == 0 {
		return len(b.data) - 1
	}
	return i - 1
}

// phys maps a logical index to a slot, wrapping in both directions.
func (b *Buffer[T]) phys(i int) int {
	n := len(b.data)
	return ((b.start+i)%n + n) % n
}

// growth returns the capacity after one 1.5x step.
func growth(c int) int {
	n := c + c/2
	if n <= c {
		n = c + 1
	}
	return n
}

func (b *Buffer[T]) growIfFull() {
	if b.size < len(b.data) {
		return
	}
	if err := b.Reserve(growth(len(b.data))); err != nil {
		panic(err)
	}
}

func (b *Buffer[T]) PushBack(v T) {
	b.growIfFull()
	b.data[b.end] = v
	b.end = b.inc(b.end)
	b.size++
}

func (b *Buffer[T]) PushFront(v T) {
	b.growIfFull()
	b.start = b.dec(b.start)
	b.data[b.start] = v
	b.size++
}

// PopBack removes and returns the last element. The buffer must not be empty.
func (b *Buffer[T]) PopBack() T {
	if b.size == 0 {
		panic("ring: PopBack on empty buffer")
	}
	var zero T
	b.end = b.dec(b.end)
	v := b.data[b.end]
	b.data[b.end] = zero
	b.size--
	return v
}

// PopFront removes and returns the first element. The buffer must not be empty.
func (b *Buffer[T]) PopFront() T {
	if b.size == 0 {
		panic("ring: PopFront on empty buffer")
	}
	var zero T
	v := b.data[b.start]
	b.data[b.start] = zero
	b.start = b.inc(b.start)
	b.size--
	return v
}

// Front returns the first element. The buffer must not be empty.
func (b *Buffer[T]) Front() T {
	if b.size == 0 {
		panic("ring: Front on empty buffer")
	}
	return b.data[b.start]
}

// Back returns the last element. The buffer must not be empty.
func (b *Buffer[T]) Back() T {
	if b.size == 0 {
		panic("ring: Back on empty buffer")
	}
	return b.data[b.dec(b.end)]
}

// At is the bounds-checked accessor.
func (b *Buffer[T]) At(i int) (T, error) {
	if i < 0 || i >= b.size {
		var zero T
		return zero, fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, i, b.size)
	}
	return b.data[b.phys(i)], nil
}

// Get is unchecked: any index, negative ones included, is taken modulo the
// capacity relative to the front, so out-of-window reads return whatever
// occupies that slot.
func (b *Buffer[T]) Get(i int) T {
	return b.data[b.phys(i)]
}

// Set is unchecked, like Get.
func (b *Buffer[T]) Set(i int, v T) {
	b.data[b.phys(i)] = v
}

// All yields (logical index, element) pairs front to back.
func (b *Buffer[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < b.size; i++ {
			if !yield(i, b.data[b.phys(i)]) {
				return
			}
		}
	}
}

// Values yields elements front to back.
func (b *Buffer[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < b.size; i++ {
			if !yield(b.data[b.phys(i)]) {
				return
			}
		}
	}
}

// Reserve makes room for at least n elements. It never shrinks. The live
// elements are copied in logical order to a fresh backing array starting at
// physical offset newCap/2; the old array is only dropped once the copy is
// complete.
func (b *Buffer[T]) Reserve(n int) error {
	if n <= len(b.data) {
		return nil
	}
	if n > MaxCapacity {
		return fmt.Errorf("%w: requested %d, max %d", ErrCapacityExceeded, n, MaxCapacity)
	}
	newCap := max(n, growth(len(b.data)))
	if newCap > MaxCapacity {
		newCap = MaxCapacity
	}
	data := make([]T, newCap)
	off := newCap / 2
	for i := 0; i < b.size; i++ {
		data[(off+i)%newCap] = b.data[b.phys(i)]
	}
	b.data = data
	b.start = off
	b.end = (off + b.size) % newCap
	return nil
}

// Resize appends copies of val or pops from the back until Len() == n.
// Capacity is never reduced.
func (b *Buffer[T]) Resize(n int, val T) {
	if n < 0 {
		n = 0
	}
	for b.size > n {
		b.PopBack()
	}
	if n > len(b.data) {
		if err := b.Reserve(n); err != nil {
			panic(err)
		}
	}
	for b.size < n {
		b.PushBack(val)
	}
}

// Assign replaces the contents with n copies of val.
func (b *Buffer[T]) Assign(n int, val T) {
	b.Clear()
	b.Resize(n, val)
}

// Clear drops all elements and keeps the capacity.
func (b *Buffer[T]) Clear() {
	var zero T
	for i := 0; i < b.size; i++ {
		b.data[b.phys(i)] = zero
	}
	b.start, b.end, b.size = 0, 0, 0
}
