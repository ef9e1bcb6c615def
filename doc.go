// Package exectrl is a deterministic execution-control kernel for client-side
// applications.
//
// It exposes three nested abstractions:
//
//   - Authority: a process-wide registry of Scopes, owner of the shared
//     WorkerPool, and broadcast mediator.
//   - Scope: a named execution lane gated by a finite-state machine. Scopes
//     are created under an Authority and create Tasks.
//   - Task: a single execution instance carrying an immutable Ref. A Task
//     owns every Worker, Handler, and Stream created inside its run
//     function; disposing a Scope cascades synchronously down through its
//     Tasks to every owned unit.
//
// Construction
//
// Use NewAuthority to create the root object, NewScopeFactory to get a
// constructor bound to that Authority, and NewTaskFactory to get a
// constructor bound to a mounted Scope:
//
//	auth := exectrl.NewAuthority(exectrl.WithMaxWorkers(4))
//	newScope := exectrl.NewScopeFactory(auth)
//	sc, _ := newScope(exectrl.ScopeConfig{ID: "d", Name: "D"})
//	sc.Mount()
//	tasks := exectrl.NewTaskFactory(sc)
//	result, err := tasks.Run(func(ctx *exectrl.TaskContext) (any, error) {
//		return 42, nil
//	}, exectrl.TaskRunOptions{})
//
// Cancellation
//
// Every Task owns a Signal (an AbortSignal-shaped cancellation token, see
// signal.go) exposed to user code as ctx.Signal. Task.Abort raises it and
// cascades to every owned Worker/Handler/Stream. Scope.Dispose aborts every
// Task registered in its TaskTable. Authority.Dispose disposes every Scope.
//
// Non-goals
//
// Fairness across Scopes, throughput maximization, persistent storage,
// automatic retry, and domain data modeling/caching are explicitly not
// addressed here; the kernel holds no payload of its own.
package exectrl
