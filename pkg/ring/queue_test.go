package ring

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCapacity(t *testing.T) {
	testCases := []struct {
		capacity int
		valid    bool
	}{
		{capacity: 1, valid: true},
		{capacity: 2, valid: true},
		{capacity: 64, valid: true},
		{capacity: 1024, valid: true},
		{capacity: 0},
		{capacity: -4},
		{capacity: 3},
		{capacity: 48},
	}
	for _, tc := range testCases {
		q, err := New[uint8](tc.capacity)
		if tc.valid {
			require.NoError(t, err, "capacity %d", tc.capacity)
			require.Equal(t, tc.capacity, q.Cap())
			require.True(t, q.IsEmpty())
		} else {
			require.Equal(t, ErrCapacity, err, "capacity %d", tc.capacity)
			require.Nil(t, q)
		}
	}
	require.Panics(t, func() { MustNew[int](6) })
}

func TestQueueOperations(t *testing.T) {
	q := MustNew[uint8](4)
	require.True(t, q.IsEmpty())
	require.False(t, q.IsFull())

	for _, v := range []uint8{1, 2, 3, 4} {
		require.True(t, q.Push(v))
	}
	require.True(t, q.IsFull())
	require.Equal(t, 0, q.Free())
	require.False(t, q.Push(5))
	require.Equal(t, 4, q.Len())

	for _, expected := range []uint8{1, 2, 3, 4} {
		v, ok := q.Pop()
		require.True(t, ok)
		require.Equal(t, expected, v)
	}
	require.True(t, q.IsEmpty())
	_, ok := q.Pop()
	require.False(t, ok)

	q.Push(10)
	v, ok := q.Peek()
	require.True(t, ok)
	require.Equal(t, uint8(10), v)
	require.Equal(t, 1, q.Len())
	v, ok = q.Pop()
	require.True(t, ok)
	require.Equal(t, uint8(10), v)

	q.Push(20)
	q.Push(30)
	q.Reset()
	require.True(t, q.IsEmpty())
	_, ok = q.Peek()
	require.False(t, ok)
}

func TestQueueFullPushLeavesContents(t *testing.T) {
	q := MustNew[int](2)
	require.True(t, q.Push(7))
	require.True(t, q.Push(8))
	require.False(t, q.Push(9))
	v, _ := q.Pop()
	require.Equal(t, 7, v)
	v, _ = q.Pop()
	require.Equal(t, 8, v)
	_, ok := q.Pop()
	require.False(t, ok)
}

func TestQueueWraparound(t *testing.T) {
	q := MustNew[uint8](4)
	for _, v := range []uint8{1, 2, 3, 4} {
		require.True(t, q.Push(v))
	}
	v, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, uint8(1), v)
	require.True(t, q.Push(5))

	for _, expected := range []uint8{2, 3, 4, 5} {
		v, ok := q.Pop()
		require.True(t, ok)
		require.Equal(t, expected, v)
	}
	require.True(t, q.IsEmpty())
}

func TestQueueWraparoundFIFO(t *testing.T) {
	const capacity = 8
	rnd := rand.New(rand.NewSource(42))
	q := MustNew[int](capacity)
	var pushed, popped []int
	next := 0
	for i := 0; i < 10000; i++ {
		if q.IsEmpty() || (!q.IsFull() && rnd.Intn(2) == 0) {
			require.True(t, q.Push(next))
			pushed = append(pushed, next)
			next++
		} else {
			v, ok := q.Pop()
			require.True(t, ok)
			popped = append(popped, v)
		}
		require.True(t, q.Len() >= 0 && q.Len() <= capacity)
	}
	for !q.IsEmpty() {
		v, _ := q.Pop()
		popped = append(popped, v)
	}
	require.True(t, len(pushed) > capacity)
	require.Equal(t, pushed, popped)
}

func TestQueueResetIdempotent(t *testing.T) {
	q := MustNew[uint8](4)
	q.Reset()
	require.True(t, q.IsEmpty())
	q.Reset()
	require.True(t, q.IsEmpty())
	require.Equal(t, 4, q.Free())
	require.True(t, q.Push(1))
	v, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, uint8(1), v)
}

func TestQueueElementTypes(t *testing.T) {
	ints := MustNew[int](4)
	for _, v := range []int{100, 200, 300} {
		require.True(t, ints.Push(v))
	}
	for _, expected := range []int{100, 200, 300} {
		v, ok := ints.Pop()
		require.True(t, ok)
		require.Equal(t, expected, v)
	}

	chars := MustNew[rune](2)
	require.True(t, chars.Push('A'))
	require.True(t, chars.Push('B'))
	c, _ := chars.Pop()
	require.Equal(t, 'A', c)
	c, _ = chars.Pop()
	require.Equal(t, 'B', c)
}

func TestQueueSingleSlot(t *testing.T) {
	q := MustNew[uint8](1)
	require.True(t, q.IsEmpty())
	require.False(t, q.IsFull())
	require.True(t, q.Push(42))
	require.True(t, q.IsFull())
	require.False(t, q.IsEmpty())
	require.False(t, q.Push(43))
	v, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, uint8(42), v)
	require.True(t, q.IsEmpty())
	require.False(t, q.IsFull())
}

func TestQueueResetMidStream(t *testing.T) {
	q := MustNew[int](4)
	for i := 1; i <= 3; i++ {
		require.True(t, q.Push(i))
	}
	_, ok := q.Pop()
	require.True(t, ok)
	require.True(t, q.Push(4))
	require.True(t, q.Push(5))
	require.True(t, q.IsFull())

	q.Reset()
	require.True(t, q.IsEmpty())
	_, ok = q.Peek()
	require.False(t, ok)
	_, ok = q.Pop()
	require.False(t, ok)

	// stale slots are overwritten, never read back.
	for i := 10; i < 14; i++ {
		require.True(t, q.Push(i))
	}
	require.False(t, q.Push(99))
	for i := 10; i < 14; i++ {
		v, ok := q.Pop()
		require.True(t, ok)
		require.Equal(t, i, v)
	}
	require.True(t, q.IsEmpty())
}
