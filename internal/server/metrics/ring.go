// Package metrics keeps in-process request statistics: bounded sample
// buffers, per-endpoint aggregates, and percentile snapshots. Everything
// lives in memory and resets with the process.
package metrics

// RingBuffer is a fixed-capacity buffer that overwrites its oldest element
// once full. It is not safe for concurrent use; Recorder serializes access.
type RingBuffer[T any] struct {
	buf  []T
	head int
	size int
}

// NewRingBuffer returns a buffer holding at most capacity elements.
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &RingBuffer[T]{buf: make([]T, capacity)}
}

// Push appends v, evicting the oldest element when the buffer is full.
func (r *RingBuffer[T]) Push(v T) {
	r.buf[r.head] = v
	r.head = (r.head + 1) % len(r.buf)
	if r.size < len(r.buf) {
		r.size++
	}
}

// All returns the retained elements in insertion order, oldest first.
func (r *RingBuffer[T]) All() []T {
	out := make([]T, 0, r.size)
	start := r.head - r.size
	if start < 0 {
		start += len(r.buf)
	}
	for i := 0; i < r.size; i++ {
		out = append(out, r.buf[(start+i)%len(r.buf)])
	}
	return out
}

// Len returns how many elements are retained.
func (r *RingBuffer[T]) Len() int { return r.size }

// Cap returns the fixed capacity.
func (r *RingBuffer[T]) Cap() int { return len(r.buf) }

// Reset discards all retained elements.
func (r *RingBuffer[T]) Reset() {
	r.head = 0
	r.size = 0
}
