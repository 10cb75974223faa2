package ring

import "errors"

// ErrCapacity indicates the requested capacity is not a positive power of two.
var ErrCapacity = errors.New("capacity must be a positive power of two")

// Queue is a fixed-capacity FIFO backed by a circular buffer.
// The capacity is a power of two so positions wrap with a mask.
// A Queue is not safe for concurrent use.
type Queue[T any] struct {
	buf  []T
	mask uint32
	head uint32 // next read position
	tail uint32 // next write position
	size uint32
}

// New creates a Queue holding at most capacity values.
func New[T any](capacity int) (*Queue[T], error) {
	if !IsPowerOfTwo(capacity) {
		return nil, ErrCapacity
	}
	return &Queue[T]{
		buf:  make([]T, capacity),
		mask: uint32(capacity - 1),
	}, nil
}

// MustNew is New but panics on invalid capacity.
func MustNew[T any](capacity int) *Queue[T] {
	q, err := New[T](capacity)
	if err != nil {
		panic(err)
	}
	return q
}

// IsPowerOfTwo checks n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && uint64(n) <= 1<<31 && n&(n-1) == 0
}

// Cap returns the capacity.
func (q *Queue[T]) Cap() int {
	return len(q.buf)
}

// Len returns the number of queued values.
func (q *Queue[T]) Len() int {
	return int(q.size)
}

// Free returns the number of values that can be pushed before it's full.
func (q *Queue[T]) Free() int {
	return len(q.buf) - int(q.size)
}

// IsEmpty indicates nothing is queued.
func (q *Queue[T]) IsEmpty() bool {
	return q.size == 0
}

// IsFull indicates no more values can be pushed.
func (q *Queue[T]) IsFull() bool {
	return int(q.size) == len(q.buf)
}

// Push appends v. It returns false and leaves the queue untouched if full.
func (q *Queue[T]) Push(v T) bool {
	if q.IsFull() {
		return false
	}
	q.buf[q.tail] = v
	q.tail = (q.tail + 1) & q.mask
	q.size++
	return true
}

// Pop removes and returns the oldest value.
func (q *Queue[T]) Pop() (v T, ok bool) {
	if q.size == 0 {
		return
	}
	v, ok = q.buf[q.head], true
	var zero T
	q.buf[q.head] = zero
	q.head = (q.head + 1) & q.mask
	q.size--
	return
}

// Peek returns the oldest value without removing it.
func (q *Queue[T]) Peek() (v T, ok bool) {
	if q.size == 0 {
		return
	}
	return q.buf[q.head], true
}

// Reset drops all queued values in constant time. Dropped values stay in
// their slots until overwritten by Push.
func (q *Queue[T]) Reset() {
	q.head, q.tail, q.size = 0, 0, 0
}
