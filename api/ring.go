// Package api
// Author: momentics@gmail.com
//
// Fixed-capacity overwrite-on-full ring buffer contract.

package api

import "iter"

// Ring is a single-owner circular buffer contract.
// Implementations do no internal locking.
type Ring[T any] interface {
	// PushBack appends item, overwriting the oldest one when full.
	// Reports whether an element was overwritten.
	PushBack(item T) bool
	// PopFront removes and returns the oldest item, ErrUnderflow if empty.
	PopFront() (T, error)
	// Front returns the oldest item. Panics when empty.
	Front() T
	// Back returns the newest item. Panics when empty.
	Back() T
	// Len returns current number of items.
	Len() int
	// Cap returns buffer capacity.
	Cap() int
	// Empty reports whether Len() == 0.
	Empty() bool
	// All yields items oldest to newest.
	All() iter.Seq[T]
}
