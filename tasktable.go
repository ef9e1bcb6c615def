package exectrl

import "sync"

// TaskTable is a Ref -> Task registry additionally indexed by owning
// ScopeID, used by a Scope to track every Task it has created and by an
// Authority to cascade aborts across Scopes (spec §4.7).
type TaskTable struct {
	mu      sync.RWMutex
	byRef   map[Ref]*Task
	byScope map[ScopeID]map[Ref]*Task
}

// NewTaskTable returns an empty TaskTable.
func NewTaskTable() *TaskTable {
	return &TaskTable{
		byRef:   make(map[Ref]*Task),
		byScope: make(map[ScopeID]map[Ref]*Task),
	}
}

// Register adds task to the table, indexed by its Ref and ScopeID.
func (tt *TaskTable) Register(task *Task) {
	tt.mu.Lock()
	defer tt.mu.Unlock()

	tt.byRef[task.Ref()] = task
	scope := tt.byScope[task.ScopeID()]
	if scope == nil {
		scope = make(map[Ref]*Task)
		tt.byScope[task.ScopeID()] = scope
	}
	scope[task.Ref()] = task
}

// Unregister removes the Task with ref from the table, if present.
func (tt *TaskTable) Unregister(ref Ref) {
	tt.mu.Lock()
	defer tt.mu.Unlock()

	task, ok := tt.byRef[ref]
	if !ok {
		return
	}
	delete(tt.byRef, ref)
	if scope, ok := tt.byScope[task.ScopeID()]; ok {
		delete(scope, ref)
		if len(scope) == 0 {
			delete(tt.byScope, task.ScopeID())
		}
	}
}

// Get returns the Task registered under ref, or nil if none.
func (tt *TaskTable) Get(ref Ref) *Task {
	tt.mu.RLock()
	defer tt.mu.RUnlock()
	return tt.byRef[ref]
}

// Has reports whether ref is currently registered.
func (tt *TaskTable) Has(ref Ref) bool {
	tt.mu.RLock()
	defer tt.mu.RUnlock()
	_, ok := tt.byRef[ref]
	return ok
}

// GetByScope returns every Task currently registered under scopeID.
func (tt *TaskTable) GetByScope(scopeID ScopeID) []*Task {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	scope := tt.byScope[scopeID]
	out := make([]*Task, 0, len(scope))
	for _, task := range scope {
		out = append(out, task)
	}
	return out
}

// GetActiveCount returns the number of registered Tasks with IsActive true.
func (tt *TaskTable) GetActiveCount() int {
	tt.mu.RLock()
	tasks := make([]*Task, 0, len(tt.byRef))
	for _, task := range tt.byRef {
		tasks = append(tasks, task)
	}
	tt.mu.RUnlock()

	n := 0
	for _, task := range tasks {
		if task.IsActive() {
			n++
		}
	}
	return n
}

// AbortAll aborts every Task currently registered under scopeID.
func (tt *TaskTable) AbortAll(scopeID ScopeID) {
	tt.mu.RLock()
	scope := tt.byScope[scopeID]
	tasks := make([]*Task, 0, len(scope))
	for _, task := range scope {
		tasks = append(tasks, task)
	}
	tt.mu.RUnlock()

	for _, task := range tasks {
		task.Abort()
	}
}

// Clear removes every Task from the table without aborting them.
func (tt *TaskTable) Clear() {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.byRef = make(map[Ref]*Task)
	tt.byScope = make(map[ScopeID]map[Ref]*Task)
}
