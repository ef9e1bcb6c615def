package exectrl

// NewScopeFactory returns a constructor bound to authority, so a caller can
// create many Scopes under one Authority without repeating the reference
// (spec §4.10).
func NewScopeFactory(authority *Authority) func(ScopeConfig) (*Scope, error) {
	return func(cfg ScopeConfig) (*Scope, error) {
		return authority.CreateScope(cfg)
	}
}

// TaskFactory delegates Effect and Run to a bound Scope without leaking the
// Scope's other internal-state-mutating surface.
type TaskFactory struct {
	scope *Scope
}

// NewTaskFactory returns a TaskFactory bound to scope.
func NewTaskFactory(scope *Scope) *TaskFactory {
	return &TaskFactory{scope: scope}
}

// Effect delegates to scope.Effect.
func (tf *TaskFactory) Effect(fn func() (any, error)) (any, error) {
	return tf.scope.Effect(fn)
}

// Run delegates to scope.Run.
func (tf *TaskFactory) Run(fn func(*TaskContext) (any, error), opts TaskRunOptions) (any, error) {
	return tf.scope.Run(fn, opts)
}
