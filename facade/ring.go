// File: facade/ring.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package facade

import (
	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/core/ring"
)

// Ensure compile-time interface compliance.
var _ api.Ring[any] = (*NamedRing[any])(nil)

// NamedRing is a ring buffer registered with the toolkit's debug probes and
// metrics. Like the buffer it wraps it is single-owner and unlocked: its
// probe reads Len, so DumpState must be serialized with the ring's owner.
type NamedRing[T any] struct {
	*ring.RingBuffer[T]
	name     string
	tk       *Toolkit
	released bool
}

// NewNamedRing allocates a ring buffer exposed as the "ring.<name>" probe
// and counted under the ring_overwrites_total{ring=name} metric. A name stays
// taken until its ring is released; reusing it fails with
// api.ErrInvalidArgument.
func NewNamedRing[T any](tk *Toolkit, name string, capacity int) (*NamedRing[T], error) {
	rb, err := NewRing[T](tk, capacity)
	if err != nil {
		return nil, err
	}
	nr := &NamedRing[T]{RingBuffer: rb, name: name, tk: tk}
	registered := tk.debug.TryRegisterProbe("ring."+name, func() any {
		return map[string]int{"len": rb.Len(), "cap": rb.Cap()}
	})
	if !registered {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "facade: ring name already in use").
			WithContext("name", name)
	}
	return nr, nil
}

// Name returns the registration name.
func (nr *NamedRing[T]) Name() string { return nr.name }

// PushBack appends item and records an overwrite when one happens.
func (nr *NamedRing[T]) PushBack(item T) bool {
	overwrote := nr.RingBuffer.PushBack(item)
	if overwrote && nr.tk.metrics != nil {
		nr.tk.metrics.RingOverwrite(nr.name)
	}
	return overwrote
}

// Release drops the debug probe and frees the name. The buffer stays usable.
// Releasing twice is a no-op, so a later ring reusing the name keeps its probe.
func (nr *NamedRing[T]) Release() {
	if nr.released {
		return
	}
	nr.released = true
	nr.tk.debug.UnregisterProbe("ring." + nr.name)
}
