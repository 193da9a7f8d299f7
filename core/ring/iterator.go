// File: core/ring/iterator.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ring

// Iterator walks a RingBuffer oldest to newest.
//
// The number of steps is fixed when the iterator is created. Pushing or
// popping during a pass shifts the values observed but never indexes
// outside the buffer storage.
type Iterator[T any] struct {
	buf   *RingBuffer[T]
	pos   int // -1 before the first Next
	bound int
}

// Iter starts a new pass at logical position 0.
func (r *RingBuffer[T]) Iter() *Iterator[T] {
	return &Iterator[T]{buf: r, pos: -1, bound: r.count}
}

// End returns the position an Iter pass reaches when exhausted.
func (r *RingBuffer[T]) End() *Iterator[T] {
	return &Iterator[T]{buf: r, pos: r.count, bound: r.count}
}

// Next advances to the following element and reports whether one exists.
func (it *Iterator[T]) Next() bool {
	if it.pos >= it.bound {
		return false
	}
	it.pos++
	return it.pos < it.bound
}

// Value returns the element at the current position.
// Panics if Next has not returned true.
func (it *Iterator[T]) Value() T {
	if it.pos < 0 || it.pos >= it.bound {
		panic("ring: Value called outside an active pass")
	}
	return it.buf.data[it.buf.physical(it.pos)]
}

// Pos returns the logical position of the current element; an exhausted
// pass reports bound.
func (it *Iterator[T]) Pos() int {
	if it.pos < 0 {
		return 0
	}
	return it.pos
}

// Remaining returns how many elements the pass has left to yield.
func (it *Iterator[T]) Remaining() int {
	if it.pos < 0 {
		return it.bound
	}
	if it.pos >= it.bound {
		return 0
	}
	return it.bound - it.pos - 1
}

// Equal compares logical progress only, never the storage slot, so a pass
// matches End exactly after bound steps regardless of wraparound.
func (it *Iterator[T]) Equal(other *Iterator[T]) bool {
	return it.buf == other.buf && it.Pos() == other.Pos()
}
