package exectrl

import "github.com/google/uuid"

// ScopeID is a caller-chosen opaque identity for a Scope. At most one live
// Scope may exist for a given ScopeID within an Authority.
type ScopeID string

// Ref is a kernel-generated execution identity for a Task. It is immutable
// for the life of the Task; a retry is a new Task with a fresh Ref, never a
// mutation of an existing one.
type Ref string

// WorkerID identifies a Worker, unique within the Task that spawned it.
type WorkerID string

// HandlerID identifies a Handler, unique within the Task that registered it.
type HandlerID string

// StreamID identifies a Stream, unique within the Task that created it.
type StreamID string

// newRef mints a globally unique Ref for a new Task.
func newRef() Ref {
	return Ref(uuid.NewString())
}

// newWorkerID mints a WorkerID unique within its owning Task.
func newWorkerID() WorkerID {
	return WorkerID(uuid.NewString())
}

// newHandlerID mints a HandlerID unique within its owning Task.
func newHandlerID() HandlerID {
	return HandlerID(uuid.NewString())
}

// newStreamID mints a StreamID unique within its owning Task.
func newStreamID() StreamID {
	return StreamID(uuid.NewString())
}
