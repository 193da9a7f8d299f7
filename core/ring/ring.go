// File: core/ring/ring.go
// Package ring implements a fixed-capacity overwrite-on-full circular buffer.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// RingBuffer keeps an owned slot slice plus head, tail and count indices.
// All index arithmetic is reduced modulo capacity before use; count alone
// gates emptiness and fullness. The buffer is single-owner and does no
// locking: callers serialize PushBack/PopFront and must not iterate while
// another goroutine mutates it.

package ring

import (
	"fmt"
	"iter"

	"github.com/momentics/hioload-ring/api"
)

// Ensure compile-time interface compliance.
var _ api.Ring[any] = (*RingBuffer[any])(nil)

// RingBuffer is a fixed-capacity FIFO that overwrites its oldest element once full.
type RingBuffer[T any] struct {
	data  []T
	head  int // oldest element, valid when count > 0
	tail  int // next write position
	count int
}

// New allocates a ring buffer holding at most capacity elements.
func New[T any](capacity int) (*RingBuffer[T], error) {
	if capacity < 1 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "ring capacity must be at least 1").
			WithContext("capacity", capacity)
	}
	return &RingBuffer[T]{data: make([]T, capacity)}, nil
}

// MustNew is like New but panics on invalid capacity.
func MustNew[T any](capacity int) *RingBuffer[T] {
	r, err := New[T](capacity)
	if err != nil {
		panic(err)
	}
	return r
}

// PushBack writes item at the tail. When the buffer is full the oldest
// element is discarded and PushBack reports true.
func (r *RingBuffer[T]) PushBack(item T) bool {
	r.data[r.tail] = item
	r.tail = (r.tail + 1) % len(r.data)
	if r.count < len(r.data) {
		r.count++
		return false
	}
	r.head = (r.head + 1) % len(r.data)
	return true
}

// PopFront removes and returns the oldest element.
// An empty buffer always yields api.ErrUnderflow.
func (r *RingBuffer[T]) PopFront() (T, error) {
	var zero T
	if r.count == 0 {
		return zero, api.ErrUnderflow
	}
	item := r.data[r.head]
	r.data[r.head] = zero
	r.head = (r.head + 1) % len(r.data)
	r.count--
	return item, nil
}

// Front returns the oldest element. Panics when empty.
func (r *RingBuffer[T]) Front() T {
	r.mustNotBeEmpty("Front")
	return r.data[r.head]
}

// Back returns the newest element. Panics when empty.
func (r *RingBuffer[T]) Back() T {
	r.mustNotBeEmpty("Back")
	return r.data[(r.tail+len(r.data)-1)%len(r.data)]
}

// At returns the i-th element in logical order, 0 being the oldest.
func (r *RingBuffer[T]) At(i int) T {
	if i < 0 || i >= r.count {
		panic(api.NewError(api.ErrCodeContractViolation, "ring: index out of range").
			WithContext("index", i).
			WithContext("len", r.count))
	}
	return r.data[r.physical(i)]
}

// Len returns the number of elements held.
func (r *RingBuffer[T]) Len() int { return r.count }

// Cap returns the fixed capacity.
func (r *RingBuffer[T]) Cap() int { return len(r.data) }

// Empty reports whether the buffer holds no element.
func (r *RingBuffer[T]) Empty() bool { return r.count == 0 }

// Full reports whether the next PushBack overwrites.
func (r *RingBuffer[T]) Full() bool { return r.count == len(r.data) }

// Clear drops every element and releases slot references.
func (r *RingBuffer[T]) Clear() {
	clear(r.data)
	r.head, r.tail, r.count = 0, 0, 0
}

// Values returns a copy of the elements, oldest first.
func (r *RingBuffer[T]) Values() []T {
	out := make([]T, 0, r.count)
	for v := range r.All() {
		out = append(out, v)
	}
	return out
}

// Raw returns a copy of the physical storage in slot order,
// including slots not currently holding a logical element.
func (r *RingBuffer[T]) Raw() []T {
	out := make([]T, len(r.data))
	copy(out, r.data)
	return out
}

// All returns a single pass over the elements present when All is called,
// oldest to newest.
func (r *RingBuffer[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for it := r.Iter(); it.Next(); {
			if !yield(it.Value()) {
				return
			}
		}
	}
}

func (r *RingBuffer[T]) String() string {
	return fmt.Sprintf("RingBuffer(len=%d, cap=%d)", r.count, len(r.data))
}

// physical maps a logical position to a slot index.
func (r *RingBuffer[T]) physical(pos int) int {
	return (r.head + pos) % len(r.data)
}

func (r *RingBuffer[T]) mustNotBeEmpty(op string) {
	if r.count == 0 {
		panic(api.NewError(api.ErrCodeContractViolation, "ring: "+op+" called on empty buffer"))
	}
}
