package exectrl

import (
	"fmt"
	"sync"
	"time"

	"github.com/kaelbrook/exectrl/internal/klog"
	"github.com/kaelbrook/exectrl/workerpool"
)

// TaskStatus is one of a Task's five lifecycle states.
type TaskStatus int

const (
	TaskPending TaskStatus = iota
	TaskRunning
	TaskSuccess
	TaskError
	TaskAborted
)

// Outcome is a Task's final observable result. OutcomeNone means the Task
// is still active.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeSuccess
	OutcomeError
	OutcomeAborted
)

// TaskRunOptions configures a single Task.Run call.
type TaskRunOptions struct {
	// Deferred schedules fn via a zero-delay timer rather than running it
	// inline or on the pool (spec §4.6, §9: Go has no requestIdleCallback,
	// so this always takes the zero-delay-timer fallback path).
	Deferred bool

	// Streaming, when true, populates ctx.Emit with a function that pushes
	// into an internal StreamBuffer associated with the Task.
	Streaming bool
}

// WorkerHandle is returned by TaskContext.SpawnWorker.
type WorkerHandle struct {
	ID        WorkerID
	Terminate func()
}

// HandlerHandle is returned by TaskContext.AddHandler.
type HandlerHandle struct {
	ID      HandlerID
	Execute func() error
	Cancel  func()
}

// StreamHandle is returned by CreateTaskStream.
type StreamHandle[T any] struct {
	ID        StreamID
	Emit      func(T)
	Subscribe func(func(T)) (unsubscribe func())
	Abort     func()
}

// ownedStream is the type-erased shape every *Stream[T] satisfies, used so
// a Task can hold heterogeneous stream types in one map and still cascade
// Abort on teardown.
type ownedStream interface {
	ID() StreamID
	Abort()
}

// TaskContext is passed to a Task's run function. Emit is non-nil only when
// TaskRunOptions.Streaming was set.
type TaskContext struct {
	Ref          Ref
	Signal       *Signal
	Emit         func(v any) bool
	SpawnWorker  func(fn func(*Signal) error) (*WorkerHandle, error)
	AddHandler   func(fn func() error) (*HandlerHandle, error)
	task         *Task
}

// Task is a single execution instance carrying an immutable Ref. It owns
// every Worker, Handler, and Stream created inside its run function.
type Task struct {
	mu       sync.Mutex
	ref      Ref
	scopeID  ScopeID
	status   TaskStatus
	outcome  Outcome
	signal   *Signal
	result   any
	err      error
	ran      bool
	workers  map[WorkerID]*Worker
	handlers map[HandlerID]*Handler
	streams  map[StreamID]ownedStream
	streamBuf *StreamBuffer[any]

	pool *workerpool.Pool
	log  klog.Logger
}

func newTask(scopeID ScopeID, pool *workerpool.Pool, ref Ref) *Task {
	if ref == "" {
		ref = newRef()
	}
	return &Task{
		ref:      ref,
		scopeID:  scopeID,
		status:   TaskPending,
		signal:   NewSignal(),
		workers:  make(map[WorkerID]*Worker),
		handlers: make(map[HandlerID]*Handler),
		streams:  make(map[StreamID]ownedStream),
		pool:     pool,
		log:      klog.Noop(),
	}
}

// setLogger swaps in the owning Scope's logger. Called once, right after
// construction, so every other Task method can log unconditionally without
// a nil check.
func (t *Task) setLogger(log klog.Logger) { t.log = log }

// Ref returns the Task's immutable identity.
func (t *Task) Ref() Ref { return t.ref }

// ScopeID returns the identity of the owning Scope.
func (t *Task) ScopeID() ScopeID { return t.scopeID }

// Status returns the current lifecycle state.
func (t *Task) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Outcome returns the final observable result, or OutcomeNone while active.
func (t *Task) Outcome() Outcome {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.outcome
}

// Result returns the captured result of a successful run.
func (t *Task) Result() any {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result
}

// Err returns the captured failure, if any.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Signal returns the Task's cancellation Signal.
func (t *Task) Signal() *Signal { return t.signal }

// IsActive reports status in {pending, running}.
func (t *Task) IsActive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.isActiveLocked()
}

func (t *Task) isActiveLocked() bool {
	return t.status == TaskPending || t.status == TaskRunning
}

// IsComplete reports the logical negation of IsActive.
func (t *Task) IsComplete() bool { return !t.IsActive() }

// WorkerCount, HandlerCount, StreamCount report the size of each owned map.
func (t *Task) WorkerCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.workers)
}

func (t *Task) HandlerCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.handlers)
}

func (t *Task) StreamCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.streams)
}

// Effect is the fast-path sync execution with zero scheduling overhead. It
// requires IsActive and runs fn directly, with no worker pool and no
// queueing.
func (t *Task) Effect(fn func() (any, error)) (any, error) {
	if !t.IsActive() {
		return nil, ErrTaskNotActive
	}
	return fn()
}

// spawnWorker creates and registers a Worker, requiring IsActive.
func (t *Task) spawnWorker(fn func(*Signal) error) (*WorkerHandle, error) {
	t.mu.Lock()
	if !t.isActiveLocked() {
		t.mu.Unlock()
		return nil, ErrTaskNotActive
	}
	w := newWorker(t.ref)
	t.workers[w.ID()] = w
	t.mu.Unlock()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				t.log.WithField("panic", r).Error("worker panic recovered by task")
			}
		}()
		w.Start(fn)
	}()

	return &WorkerHandle{ID: w.ID(), Terminate: w.Terminate}, nil
}

// addHandler creates and registers a Handler, requiring IsActive.
func (t *Task) addHandler(fn func() error) (*HandlerHandle, error) {
	t.mu.Lock()
	if !t.isActiveLocked() {
		t.mu.Unlock()
		return nil, ErrTaskNotActive
	}
	h := newHandler(t.ref)
	h.SetFunction(fn)
	t.handlers[h.ID()] = h
	t.mu.Unlock()

	return &HandlerHandle{ID: h.ID(), Execute: h.Execute, Cancel: h.Cancel}, nil
}

// CreateTaskStream creates and registers a Stream[T] owned by the task
// behind ctx, requiring the Task to be active. Generic over T; Go does not
// support generic methods, so this is a package-level function rather than
// a TaskContext field (spec's ctx.createStream<T>()).
func CreateTaskStream[T any](ctx *TaskContext) (*StreamHandle[T], error) {
	t := ctx.task
	t.mu.Lock()
	if !t.isActiveLocked() {
		t.mu.Unlock()
		return nil, ErrTaskNotActive
	}
	s := newStream[T](t.ref)
	s.setLogger(t.log)
	t.streams[s.ID()] = s
	t.mu.Unlock()

	return &StreamHandle[T]{
		ID:        s.ID(),
		Emit:      s.Emit,
		Subscribe: s.Subscribe,
		Abort:     s.Abort,
	}, nil
}

// Run requires Status == TaskPending; a second call fails fast. It moves to
// TaskRunning, builds a TaskContext, dispatches fn according to opts, and
// finalizes the Task to success, error, or aborted.
func (t *Task) Run(fn func(*TaskContext) (any, error), opts TaskRunOptions) (any, error) {
	t.mu.Lock()
	if t.ran || t.status != TaskPending {
		t.mu.Unlock()
		return nil, ErrTaskAlreadyRun
	}
	t.ran = true
	t.status = TaskRunning
	if opts.Streaming {
		t.streamBuf = NewStreamBuffer[any](DefaultHighWaterMark)
		t.streamBuf.SetLogger(t.log)
	}
	t.mu.Unlock()
	t.log.WithField("ref", string(t.ref)).Debug("task status -> running")

	ctx := t.newContext(opts)

	if t.signal.Aborted() {
		return nil, t.finalize(nil, nil, true)
	}

	result, taskErr := t.dispatch(fn, ctx, opts)

	aborted := t.signal.Aborted()
	return result, t.finalize(result, taskErr, aborted)
}

func (t *Task) newContext(opts TaskRunOptions) *TaskContext {
	ctx := &TaskContext{
		Ref:         t.ref,
		Signal:      t.signal,
		SpawnWorker: t.spawnWorker,
		AddHandler:  t.addHandler,
		task:        t,
	}
	if opts.Streaming {
		ctx.Emit = func(v any) bool { return t.streamBuf.Push(v) }
	}
	return ctx
}

func (t *Task) dispatch(fn func(*TaskContext) (any, error), ctx *TaskContext, opts TaskRunOptions) (result any, err error) {
	switch {
	case opts.Deferred:
		return t.runDeferred(fn, ctx)
	case t.pool != nil:
		fut := t.pool.Execute(func() (any, error) { return t.runGuarded(fn, ctx) })
		return fut.Await()
	default:
		return t.runGuarded(fn, ctx)
	}
}

func (t *Task) runDeferred(fn func(*TaskContext) (any, error), ctx *TaskContext) (any, error) {
	type settled struct {
		result any
		err    error
	}
	done := make(chan settled, 1)
	time.AfterFunc(0, func() {
		result, err := t.runGuarded(fn, ctx)
		done <- settled{result, err}
	})
	s := <-done
	return s.result, s.err
}

// runGuarded recovers a panic from fn, mirroring the teacher's task.go
// panic-to-error wrapping.
func (t *Task) runGuarded(fn func(*TaskContext) (any, error), ctx *TaskContext) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task execution panicked: %v", r)
			t.log.WithField("panic", r).Error("task panic recovered")
		}
	}()
	return fn(ctx)
}

// finalize transitions the Task to its terminal state exactly once. If the
// Task was already finalized concurrently (by Abort racing Run's
// completion), it is a no-op and returns the appropriate error for the
// caller of Run.
func (t *Task) finalize(result any, taskErr error, aborted bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status != TaskRunning {
		// Already finalized (e.g., a concurrent Abort beat us to it).
		if t.status == TaskAborted {
			return NewRejectionError("task aborted")
		}
		return t.err
	}

	switch {
	case aborted:
		t.status = TaskAborted
		t.outcome = OutcomeAborted
		t.log.WithField("ref", string(t.ref)).Debug("task status -> aborted")
		return NewRejectionError("task aborted")
	case taskErr != nil:
		t.status = TaskError
		t.outcome = OutcomeError
		t.err = taskErr
		t.log.WithField("ref", string(t.ref)).Debug("task status -> error")
		return taskErr
	default:
		t.status = TaskSuccess
		t.outcome = OutcomeSuccess
		t.result = result
		t.log.WithField("ref", string(t.ref)).Debug("task status -> success")
		return nil
	}
}

// Abort is a no-op if the Task is already terminal. Otherwise it raises the
// signal, terminates every owned Worker, cancels every owned Handler,
// aborts every owned Stream, and finalizes the Task as aborted.
func (t *Task) Abort() {
	t.mu.Lock()
	if !t.isActiveLocked() {
		t.mu.Unlock()
		return
	}
	t.status = TaskAborted
	t.outcome = OutcomeAborted
	workers := make([]*Worker, 0, len(t.workers))
	for _, w := range t.workers {
		workers = append(workers, w)
	}
	handlers := make([]*Handler, 0, len(t.handlers))
	for _, h := range t.handlers {
		handlers = append(handlers, h)
	}
	streams := make([]ownedStream, 0, len(t.streams))
	for _, s := range t.streams {
		streams = append(streams, s)
	}
	if t.streamBuf != nil {
		t.streamBuf.Close()
	}
	t.mu.Unlock()

	t.signal.Abort()
	for _, w := range workers {
		w.Terminate()
	}
	for _, h := range handlers {
		h.Cancel()
	}
	for _, s := range streams {
		s.Abort()
	}
}
