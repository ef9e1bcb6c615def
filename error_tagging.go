package exectrl

import (
	"errors"
	"fmt"
)

// KernelError exposes correlation metadata for a kernel failure, the same
// shape the teacher's TaskMetaError exposes for task index/id correlation
// (error_tagging.go), generalized here to ScopeID correlation.
type KernelError interface {
	error
	Unwrap() error
	ScopeID() (ScopeID, bool)
}

type scopedError struct {
	err     error
	scopeID ScopeID
	reason  string
}

// newScopedReasonError wraps err with the owning ScopeID and a reason,
// used where spec §4.8 distinguishes multiple failure modes behind the
// same sentinel (e.g. CreateTask's "disposed" vs "not ready").
func newScopedReasonError(err error, scope ScopeID, reason string) error {
	if err == nil {
		return nil
	}
	return &scopedError{err: err, scopeID: scope, reason: reason}
}

func (e *scopedError) Error() string {
	if e.reason != "" {
		return e.err.Error() + ": " + e.reason + ": " + string(e.scopeID)
	}
	return e.err.Error() + ": " + string(e.scopeID)
}
func (e *scopedError) Unwrap() error { return e.err }

func (e *scopedError) ScopeID() (ScopeID, bool) {
	if e.scopeID == "" {
		return "", false
	}
	return e.scopeID, true
}

func (e *scopedError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			if e.reason != "" {
				_, _ = fmt.Fprintf(s, "scope(id=%s, reason=%s): %+v", e.scopeID, e.reason, e.err)
				return
			}
			_, _ = fmt.Fprintf(s, "scope(id=%s): %+v", e.scopeID, e.err)
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// ExtractScopeID returns the ScopeID carried by err, if any.
func ExtractScopeID(err error) (ScopeID, bool) {
	var ke KernelError
	if errors.As(err, &ke) {
		return ke.ScopeID()
	}
	return "", false
}

// RejectionError carries the reason an execution request was refused
// (ExecutionRejected(reason) in spec §6).
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	return Namespace + ": execution rejected: " + e.Reason
}

func (e *RejectionError) Unwrap() error { return ErrExecutionRejected }

// NewRejectionError builds an ExecutionRejected error carrying reason.
func NewRejectionError(reason string) error {
	return &RejectionError{Reason: reason}
}

// TimeoutError carries the timeout duration (in milliseconds) that elapsed
// (ExecutionTimeout(ms) in spec §6).
type TimeoutError struct {
	Ms int64
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: execution timed out after %dms", Namespace, e.Ms)
}

func (e *TimeoutError) Unwrap() error { return ErrExecutionTimeout }

// NewTimeoutError builds an ExecutionTimeout error carrying ms.
func NewTimeoutError(ms int64) error {
	return &TimeoutError{Ms: ms}
}
