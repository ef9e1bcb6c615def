package exectrl

import (
	"sync"

	"github.com/kaelbrook/exectrl/internal/klog"
)

// DefaultHighWaterMark is the default StreamBuffer capacity (spec §3).
const DefaultHighWaterMark = 10000

// StreamBuffer is a bounded, append-only chunk buffer with high-water-mark
// backpressure. It is decoupled from Stream: a Task's ctx.Emit writes into
// one of these directly when TaskRunOptions.Streaming is set.
//
// Safe for concurrent use.
type StreamBuffer[T any] struct {
	mu     sync.Mutex
	chunks []T
	closed bool
	hwm    int
	log    klog.Logger
}

// NewStreamBuffer returns a StreamBuffer with the given high-water mark. A
// hwm <= 0 falls back to DefaultHighWaterMark.
func NewStreamBuffer[T any](hwm int) *StreamBuffer[T] {
	if hwm <= 0 {
		hwm = DefaultHighWaterMark
	}
	return &StreamBuffer[T]{hwm: hwm, log: klog.Noop()}
}

// SetLogger swaps in the owning Task's logger. Called once, right after
// construction, so Push's rejection logging isn't silently discarded.
func (b *StreamBuffer[T]) SetLogger(log klog.Logger) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.log = log
}

// Push appends v and returns true, unless the buffer is closed or already
// at its high-water mark, in which case it returns false without inserting,
// logged at Warn so a caller can notice the rejected chunk in logs.
func (b *StreamBuffer[T]) Push(v T) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed || len(b.chunks) >= b.hwm {
		b.log.WithField("closed", b.closed).WithField("size", len(b.chunks)).
			Warn("streambuffer push rejected")
		return false
	}
	b.chunks = append(b.chunks, v)
	return true
}

// Drain returns all buffered chunks and clears the buffer.
func (b *StreamBuffer[T]) Drain() []T {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := b.chunks
	b.chunks = nil
	return out
}

// GetChunks returns a copy of the currently buffered chunks without
// clearing the buffer.
func (b *StreamBuffer[T]) GetChunks() []T {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]T, len(b.chunks))
	copy(out, b.chunks)
	return out
}

// Close marks the buffer closed; further Push calls return false.
// Idempotent.
func (b *StreamBuffer[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}

// Len reports the current number of buffered chunks.
func (b *StreamBuffer[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.chunks)
}
