package book

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderList_AppendPopFront(t *testing.T) {
	r := require.New(t)
	l := newOrderList()

	a := &Order{ID: "a", Size: 3}
	b := &Order{ID: "b", Size: 4}
	l.Append(a)
	l.Append(b)

	r.Equal(2, l.Count())
	r.EqualValues(7, l.TotalSize())
	r.Same(a, l.Head())

	popped := l.PopFront()
	r.Same(a, popped)
	r.Equal(1, l.Count())
	r.EqualValues(4, l.TotalSize())
	r.Nil(a.list)
	r.Same(b, l.Head())
}

func TestOrderList_RemoveMiddle(t *testing.T) {
	r := require.New(t)
	l := newOrderList()

	a := &Order{ID: "a", Size: 1}
	b := &Order{ID: "b", Size: 1}
	c := &Order{ID: "c", Size: 1}
	l.Append(a)
	l.Append(b)
	l.Append(c)

	l.Remove(b)
	r.Equal(2, l.Count())
	r.Same(a, l.Head())
	r.Same(c, a.next)
	r.Same(a, c.prev)
	r.Nil(b.list)
	r.Nil(b.prev)
	r.Nil(b.next)
}

func TestOrderList_IsEmptyAfterDrain(t *testing.T) {
	r := require.New(t)
	l := newOrderList()
	l.Append(&Order{ID: "a", Size: 1})
	r.False(l.IsEmpty())

	l.PopFront()
	r.True(l.IsEmpty())
	r.Nil(l.Head())
}
