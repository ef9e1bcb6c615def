package exectrl

import "sync"

// Signal is an AbortSignal-shaped cancellation token (see design notes:
// "model it as an observer pattern with a monotonic aborted flag and a
// callback set; once aborted, callbacks fire exactly once").
//
// A Signal starts un-aborted. Abort is idempotent: only the first call
// raises it and fires registered callbacks; subsequent calls are no-ops.
// Safe for concurrent use.
type Signal struct {
	mu        sync.Mutex
	aborted   bool
	done      chan struct{}
	callbacks []func()
}

// NewSignal returns a fresh, un-aborted Signal.
func NewSignal() *Signal {
	return &Signal{done: make(chan struct{})}
}

// Aborted reports whether the signal has been raised.
func (s *Signal) Aborted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aborted
}

// Done returns a channel that is closed when the signal is aborted,
// for use in select statements alongside context.Context.Done().
func (s *Signal) Done() <-chan struct{} {
	return s.done
}

// Abort raises the signal and fires every registered callback exactly
// once, in registration order. Idempotent.
func (s *Signal) Abort() {
	s.mu.Lock()
	if s.aborted {
		s.mu.Unlock()
		return
	}
	s.aborted = true
	cbs := s.callbacks
	s.callbacks = nil
	close(s.done)
	s.mu.Unlock()

	for _, cb := range cbs {
		cb()
	}
}

// OnAbort registers fn to run when the signal is aborted. If the signal is
// already aborted, fn runs synchronously before OnAbort returns. Returns an
// unsubscribe function that prevents fn from firing if it hasn't yet.
func (s *Signal) OnAbort(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	if s.aborted {
		s.mu.Unlock()
		fn()
		return func() {}
	}

	idx := len(s.callbacks)
	s.callbacks = append(s.callbacks, fn)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if idx < len(s.callbacks) {
			s.callbacks[idx] = func() {}
		}
	}
}
