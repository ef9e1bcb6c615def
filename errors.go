package exectrl

import "errors"

// Namespace prefixes every sentinel error message emitted by the kernel.
const Namespace = "exectrl"

// Base kernel error. The sentinels below and the structured error types in
// error_tagging.go do not wrap it: each of those unwraps only to its own
// specific sentinel, so errors.Is(err, ErrKernel) matches ErrKernel itself
// and nothing else. Match kernel failures by their specific sentinel.
var ErrKernel = errors.New(Namespace + ": kernel error")

// Sentinel errors for the seven-kind failure taxonomy (see spec §7).
var (
	// ErrScopeNotFound: Scope lookup failed (lifecycle failure).
	ErrScopeNotFound = errors.New(Namespace + ": scope not found")

	// ErrScopeInactive: operation attempted on a Scope that is not alive or
	// cannot currently execute (lifecycle failure).
	ErrScopeInactive = errors.New(Namespace + ": scope inactive")

	// ErrExecutionRejected: a scheduling request was refused by queue or
	// policy limits (scheduling failure).
	ErrExecutionRejected = errors.New(Namespace + ": execution rejected")

	// ErrExecutionTimeout: a caller-imposed policy timeout elapsed (policy
	// failure). The kernel itself does not impose timeouts; callers race
	// against a timer that aborts the Task.
	ErrExecutionTimeout = errors.New(Namespace + ": execution timeout")

	// ErrAuthorityNotInitialized: an operation was attempted against an
	// Authority that is no longer usable; Authority.CreateScope returns it
	// once the Authority has been disposed.
	ErrAuthorityNotInitialized = errors.New(Namespace + ": authority not initialized")

	// ErrAuthorityAlreadyExists: Authority.CreateScope was called with an
	// id that already has a live Scope.
	ErrAuthorityAlreadyExists = errors.New(Namespace + ": scope already exists")

	// ErrTaskNotActive: an operation requiring isActive was attempted on a
	// terminal or not-yet-running Task (developer error).
	ErrTaskNotActive = errors.New(Namespace + ": task not active")

	// ErrTaskAlreadyRun: Task.Run was called a second time on the same Task
	// (developer error).
	ErrTaskAlreadyRun = errors.New(Namespace + ": task already run")

	// ErrHandlerFunctionSet: Handler.SetFunction was called more than once
	// (developer error).
	ErrHandlerFunctionSet = errors.New(Namespace + ": handler function already set")

	// ErrHandlerNotPending: Handler.Execute was called on a handler not in
	// the pending state (developer error).
	ErrHandlerNotPending = errors.New(Namespace + ": handler not pending")

	// ErrWorkerNotIdle: Worker.Start was called on a worker not in the idle
	// state (developer error).
	ErrWorkerNotIdle = errors.New(Namespace + ": worker not idle")
)
