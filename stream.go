package exectrl

import (
	"sync"

	"github.com/kaelbrook/exectrl/internal/klog"
)

type streamStatus int

const (
	streamOpen streamStatus = iota
	streamClosed
	streamAborted
)

// Stream is a live multicast channel bound to a Task's Ref. It replays its
// full emission history to late subscribers and then delivers subsequent
// live events, in emission order. Emissions to a non-open Stream are
// silently dropped (spec §3/§4.4).
//
// Safe for concurrent use.
type Stream[T any] struct {
	mu          sync.Mutex
	id          StreamID
	ref         Ref
	status      streamStatus
	buffer      []T
	subscribers []*streamSubscriber[T]
	nextSubID   int
	log         klog.Logger
}

type streamSubscriber[T any] struct {
	subID int
	fn    func(T)
}

func newStream[T any](ref Ref) *Stream[T] {
	return &Stream[T]{id: newStreamID(), ref: ref, status: streamOpen, log: klog.Noop()}
}

// setLogger swaps in the owning Task's logger. Called once, right after
// construction, so Emit's dropped-emission logging isn't silently discarded.
func (s *Stream[T]) setLogger(log klog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = log
}

// ID returns the Stream's identifier.
func (s *Stream[T]) ID() StreamID { return s.id }

// Emit appends v to the replay buffer and delivers it to every subscriber
// present at emission time, in subscription order. A no-op if the Stream is
// not open — logged at Warn, since a dropped emission is the kind of silent
// data loss a caller should be able to notice in logs. Subscriber panics
// are recovered and discarded; delivery continues to remaining subscribers.
func (s *Stream[T]) Emit(v T) {
	s.mu.Lock()
	if s.status != streamOpen {
		status := s.status
		log := s.log
		s.mu.Unlock()
		log.WithField("stream_id", string(s.id)).WithField("status", int(status)).
			Warn("emit dropped: stream not open")
		return
	}
	s.buffer = append(s.buffer, v)
	subs := make([]*streamSubscriber[T], len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, sub := range subs {
		deliver(sub.fn, v)
	}
}

func deliver[T any](fn func(T), v T) {
	defer func() { _ = recover() }()
	fn(v)
}

// Subscribe registers fn and synchronously replays the current buffer to it
// in emission order, then continues delivering live events. Returns an
// unsubscribe function. If the Stream is not open, fn is never registered
// and Subscribe returns a no-op unsubscribe.
func (s *Stream[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s.mu.Lock()
	if s.status != streamOpen {
		s.mu.Unlock()
		return func() {}
	}

	replay := make([]T, len(s.buffer))
	copy(replay, s.buffer)

	sub := &streamSubscriber[T]{subID: s.nextSubID, fn: fn}
	s.nextSubID++
	s.subscribers = append(s.subscribers, sub)
	s.mu.Unlock()

	for _, v := range replay {
		deliver(fn, v)
	}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, cur := range s.subscribers {
			if cur.subID == sub.subID {
				s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
				break
			}
		}
	}
}

// Close transitions an open Stream to closed, clearing its subscriber set.
// Idempotent; never downgrades from closed/aborted.
func (s *Stream[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != streamOpen {
		return
	}
	s.status = streamClosed
	s.subscribers = nil
}

// Abort transitions an open Stream to aborted, clearing its subscriber set.
// Idempotent; never downgrades from closed/aborted.
func (s *Stream[T]) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != streamOpen {
		return
	}
	s.status = streamAborted
	s.subscribers = nil
}

// IsOpen reports whether the Stream currently accepts emissions.
func (s *Stream[T]) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status == streamOpen
}
