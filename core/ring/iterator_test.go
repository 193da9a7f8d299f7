// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIterator_WalksLogicalOrderAcrossWrap(t *testing.T) {
	rb := MustNew[int](4)
	for i := 0; i < 6; i++ {
		rb.PushBack(i)
	}

	var got []int
	it := rb.Iter()
	assert.Equal(t, 4, it.Remaining())
	for it.Next() {
		got = append(got, it.Value())
	}
	assert.Equal(t, []int{2, 3, 4, 5}, got)
	assert.True(t, it.Equal(rb.End()))
	assert.Equal(t, 0, it.Remaining())
	assert.False(t, it.Next(), "an exhausted pass stays exhausted")
}

func TestIterator_EmptyBuffer(t *testing.T) {
	rb := MustNew[int](2)
	it := rb.Iter()
	assert.True(t, it.Equal(rb.End()))
	assert.False(t, it.Next())
	assert.Panics(t, func() { it.Value() })

	for range rb.All() {
		t.Fatal("empty buffer must not yield")
	}
}

func TestIterator_ValueBeforeNextPanics(t *testing.T) {
	rb := MustNew[int](2)
	rb.PushBack(1)
	assert.Panics(t, func() { rb.Iter().Value() })
}

func TestIterator_BoundFixedAtCreation(t *testing.T) {
	rb := MustNew[int](3)
	rb.PushBack(1)
	rb.PushBack(2)

	it := rb.Iter()
	steps := 0
	for it.Next() {
		_ = it.Value()
		rb.PushBack(100 + steps)
		steps++
	}
	assert.Equal(t, 2, steps)

	it = rb.Iter()
	steps = 0
	for it.Next() {
		_, err := rb.PopFront()
		require.NoError(t, err)
		_ = it.Value()
		steps++
	}
	assert.Equal(t, 3, steps)
	assert.True(t, rb.Empty())
}

func TestIterator_EqualComparesProgress(t *testing.T) {
	rb := MustNew[int](3)
	for i := 0; i < 5; i++ {
		rb.PushBack(i)
	}
	a, b := rb.Iter(), rb.Iter()
	assert.True(t, a.Equal(b))
	a.Next()
	a.Next()
	assert.False(t, a.Equal(b))
	b.Next()
	b.Next()
	assert.True(t, a.Equal(b))
	assert.Equal(t, 1, a.Pos())

	other := MustNew[int](3)
	assert.False(t, rb.Iter().Equal(other.Iter()))
}

func TestAll_StopsEarly(t *testing.T) {
	rb := MustNew[int](5)
	for i := 0; i < 5; i++ {
		rb.PushBack(i)
	}
	var got []int
	for v := range rb.All() {
		if v == 2 {
			break
		}
		got = append(got, v)
	}
	assert.Equal(t, []int{0, 1}, got)
}
