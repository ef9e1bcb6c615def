package exectrl

import (
	"sync"

	"github.com/kaelbrook/exectrl/fsm"
	"github.com/kaelbrook/exectrl/internal/klog"
	"github.com/kaelbrook/exectrl/workerpool"
)

// Scope is an FSM-gated execution lane. It owns a private TaskTable and
// mediates every Task created within it (spec §4.8).
type Scope struct {
	mu       sync.Mutex
	id       ScopeID
	name     string
	fsm      *fsm.FSM
	pool     *workerpool.Pool
	tasks    *TaskTable
	disposed sync.Once
	log      klog.Logger
}

func newScope(id ScopeID, name string, pool *workerpool.Pool) *Scope {
	return &Scope{
		id:    id,
		name:  name,
		fsm:   fsm.New(),
		pool:  pool,
		tasks: NewTaskTable(),
		log:   klog.Noop(),
	}
}

// setLogger swaps in the owning Authority's logger. Called once, right
// after construction, so every other Scope method can log unconditionally.
func (s *Scope) setLogger(log klog.Logger) { s.log = log }

// ID returns the Scope's identity.
func (s *Scope) ID() ScopeID { return s.id }

// Name returns the caller-supplied display name.
func (s *Scope) Name() string { return s.name }

// State returns the current FSM state.
func (s *Scope) State() fsm.State { return s.fsm.State() }

// IsAlive reports whether the Scope is outside {DISPOSING, DISPOSED}.
func (s *Scope) IsAlive() bool { return s.fsm.IsAlive() }

// CanExecute reports whether the Scope currently permits Task creation/run.
func (s *Scope) CanExecute() bool { return s.fsm.CanExecute() }

// WorkerCount reports the current size of the Authority-owned pool shared
// by this Scope.
func (s *Scope) WorkerCount() int { return s.pool.Size() }

// TaskCount reports the live size of the Scope's private TaskTable.
func (s *Scope) TaskCount() int { return len(s.tasks.GetByScope(s.id)) }

// Mount requests the FSM's "mounted" transition.
func (s *Scope) Mount() bool { return s.logTransition(fsm.Mounted) }

// Suspend requests the FSM's "suspend" transition.
func (s *Scope) Suspend() bool { return s.logTransition(fsm.Suspend) }

// Resume requests the FSM's "resume" transition.
func (s *Scope) Resume() bool { return s.logTransition(fsm.Resume) }

// logTransition drives the FSM and logs the event and resulting state at
// Debug, matching every other transition call site in this file.
func (s *Scope) logTransition(e fsm.Event) bool {
	ok := s.fsm.Transition(e)
	s.log.WithField("scope_id", string(s.id)).WithField("event", e).
		WithField("state", s.fsm.State()).Debug("fsm transition")
	return ok
}

// CreateTask constructs a Task bound to this Scope and the shared pool,
// registers it, and — if the Scope was only ATTACHED — drives the FSM to
// RUNNING. Fails if the Scope is not alive or cannot execute.
func (s *Scope) CreateTask(ref Ref) (*Task, error) {
	if !s.IsAlive() {
		return nil, newScopedReasonError(ErrScopeInactive, s.id, "disposed")
	}
	if !s.CanExecute() {
		return nil, newScopedReasonError(ErrScopeInactive, s.id, "not ready")
	}

	task := newTask(s.id, s.pool, ref)
	task.setLogger(s.log)
	s.tasks.Register(task)
	s.logTransition(fsm.TaskStarted)
	return task, nil
}

// GetTask returns the Task registered under ref, or nil.
func (s *Scope) GetTask(ref Ref) *Task { return s.tasks.Get(ref) }

// clearTaskTable empties the Scope's TaskTable without aborting (spec
// §4.7: Clear is used only on Authority teardown, after every Scope has
// already been disposed and its Tasks aborted).
func (s *Scope) clearTaskTable() { s.tasks.Clear() }

// Run creates a Task, awaits task.Run(fn, opts), and unregisters the Task
// on settlement regardless of outcome.
func (s *Scope) Run(fn func(*TaskContext) (any, error), opts TaskRunOptions) (any, error) {
	task, err := s.CreateTask("")
	if err != nil {
		return nil, err
	}
	defer s.tasks.Unregister(task.Ref())

	return task.Run(fn, opts)
}

// Effect requires the Scope to be alive and invokes fn directly; no Task is
// created.
func (s *Scope) Effect(fn func() (any, error)) (any, error) {
	if !s.IsAlive() {
		return nil, newScopedReasonError(ErrScopeInactive, s.id, "disposed")
	}
	return fn()
}

// AbortTask looks up ref, aborts it, and unregisters it. Reports whether a
// Task was found.
func (s *Scope) AbortTask(ref Ref) bool {
	task := s.tasks.Get(ref)
	if task == nil {
		return false
	}
	task.Abort()
	s.tasks.Unregister(ref)
	return true
}

// AbortAll aborts every Task currently registered in this Scope.
func (s *Scope) AbortAll() { s.tasks.AbortAll(s.id) }

// Dispose is a no-op if the Scope is not alive. Otherwise it aborts every
// owned Task, then drives the FSM's "dispose" transition twice in
// succession — once to DISPOSING, once (the automatic secondary step) to
// DISPOSED — mirroring the teacher's ordered, sync.Once-guarded shutdown
// coordinator: each dispose step runs exactly once regardless of how many
// goroutines call Dispose concurrently.
func (s *Scope) Dispose() {
	// From INIT the dispose event is a no-op in the FSM; returning here keeps
	// the sync.Once unspent so a later Dispose after Mount still runs.
	if !s.IsAlive() || s.State() == fsm.Init {
		return
	}
	s.disposed.Do(func() {
		s.tasks.AbortAll(s.id)
		s.logTransition(fsm.Dispose)
		s.logTransition(fsm.Dispose)
	})
}
