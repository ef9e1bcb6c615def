package exectrl

import (
	"fmt"
	"sync"
)

// WorkerStatus is one of a Worker's four lifecycle states.
type WorkerStatus int

const (
	WorkerIdle WorkerStatus = iota
	WorkerRunning
	WorkerTerminated
	WorkerFailed
)

// Worker is a task-bound cancelable async unit with its own abort Signal,
// distinct from the kernel-wide WorkerPool's pooled execution slots: a
// Worker is spawned by a Task's run function (ctx.SpawnWorker) and is
// terminated along with that Task.
type Worker struct {
	mu     sync.Mutex
	id     WorkerID
	ref    Ref
	status WorkerStatus
	signal *Signal
	err    error
}

func newWorker(ref Ref) *Worker {
	return &Worker{id: newWorkerID(), ref: ref, status: WorkerIdle, signal: NewSignal()}
}

// ID returns the Worker's identifier.
func (w *Worker) ID() WorkerID { return w.id }

// Status returns the current lifecycle state.
func (w *Worker) Status() WorkerStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Err returns the captured failure, if any.
func (w *Worker) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Signal returns the Worker's own abort Signal, passed to fn in Start.
func (w *Worker) Signal() *Signal { return w.signal }

// IsActive reports whether the Worker is idle or running.
func (w *Worker) IsActive() bool {
	s := w.Status()
	return s == WorkerIdle || s == WorkerRunning
}

// Start requires Status == WorkerIdle. It moves to WorkerRunning and
// synchronously awaits fn(signal), the same fn-returns-error shape Handler
// uses (handler.go's SetFunction/Execute). On normal return (err == nil),
// if still running, it moves to WorkerTerminated. On a returned error: if
// the signal was aborted, the error is treated as an expected consequence
// of cancellation and swallowed, moving to WorkerTerminated; otherwise the
// Worker moves to WorkerFailed and records the error. An unexpected panic
// from fn is still recovered as a backstop: aborted panics are swallowed
// the same way, any other panic moves the Worker to WorkerFailed, records
// it, and re-panics to the caller.
func (w *Worker) Start(fn func(signal *Signal) error) {
	w.mu.Lock()
	if w.status != WorkerIdle {
		w.mu.Unlock()
		panic(ErrWorkerNotIdle)
	}
	w.status = WorkerRunning
	w.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			w.mu.Lock()
			if w.signal.Aborted() {
				w.status = WorkerTerminated
				w.mu.Unlock()
				return
			}
			w.status = WorkerFailed
			w.err = fmt.Errorf("worker execution panicked: %v", r)
			w.mu.Unlock()
			panic(r)
		}
	}()

	err := fn(w.signal)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.status != WorkerRunning {
		return
	}
	switch {
	case err == nil:
		w.status = WorkerTerminated
	case w.signal.Aborted():
		w.status = WorkerTerminated
	default:
		w.status = WorkerFailed
		w.err = err
	}
}

// Terminate raises the Worker's signal and moves it to WorkerTerminated if
// still active. Idempotent; never transitions WorkerFailed -> WorkerTerminated.
func (w *Worker) Terminate() {
	w.mu.Lock()
	active := w.status == WorkerIdle || w.status == WorkerRunning
	w.mu.Unlock()

	if !active {
		return
	}

	w.signal.Abort()

	w.mu.Lock()
	if w.status == WorkerIdle || w.status == WorkerRunning {
		w.status = WorkerTerminated
	}
	w.mu.Unlock()
}
