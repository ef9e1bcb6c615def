package exectrl

import (
	"errors"
	"testing"
)

func TestHandlerHappyPath(t *testing.T) {
	h := newHandler("ref")
	h.SetFunction(func() error { return nil })
	if err := h.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Status() != HandlerCompleted {
		t.Fatalf("status = %v; want HandlerCompleted", h.Status())
	}
}

func TestHandlerSetFunctionTwicePanics(t *testing.T) {
	h := newHandler("ref")
	h.SetFunction(func() error { return nil })
	defer func() {
		if recover() == nil {
			t.Fatal("second SetFunction should panic")
		}
		if h.Status() != HandlerPending {
			t.Fatalf("status after panic = %v; want unchanged HandlerPending", h.Status())
		}
	}()
	h.SetFunction(func() error { return nil })
}

func TestHandlerExecuteFailure(t *testing.T) {
	wantErr := errors.New("boom")
	h := newHandler("ref")
	h.SetFunction(func() error { return wantErr })
	if err := h.Execute(); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v; want %v", err, wantErr)
	}
	if h.Status() != HandlerFailed {
		t.Fatalf("status = %v; want HandlerFailed", h.Status())
	}
}

func TestHandlerCancelWhilePending(t *testing.T) {
	h := newHandler("ref")
	h.Cancel()
	if h.Status() != HandlerCancelled {
		t.Fatalf("status = %v; want HandlerCancelled", h.Status())
	}
}

func TestHandlerCancelWhileRunningSuppressesError(t *testing.T) {
	h := newHandler("ref")
	h.SetFunction(func() error {
		h.Cancel() // observed mid-flight
		return errors.New("would-be error")
	})
	err := h.Execute()
	if err != nil {
		t.Fatalf("cancelled handler must not surface an error, got %v", err)
	}
	if h.Status() != HandlerCancelled {
		t.Fatalf("status = %v; want HandlerCancelled", h.Status())
	}
}

func TestHandlerCancelIgnoredOnceTerminal(t *testing.T) {
	h := newHandler("ref")
	h.SetFunction(func() error { return nil })
	h.Execute()
	h.Cancel()
	if h.Status() != HandlerCompleted {
		t.Fatalf("status = %v; want HandlerCompleted (cancel after terminal ignored)", h.Status())
	}
}

func TestHandlerExecuteNotPendingPanics(t *testing.T) {
	h := newHandler("ref")
	h.SetFunction(func() error { return nil })
	h.Execute()
	defer func() {
		if recover() == nil {
			t.Fatal("Execute on non-pending handler should panic")
		}
	}()
	h.Execute()
}
