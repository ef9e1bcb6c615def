package exectrl

import (
	"errors"
	"testing"
	"time"
)

func TestWorkerHappyPath(t *testing.T) {
	w := newWorker("ref")
	w.Start(func(sig *Signal) error { return nil })
	if w.Status() != WorkerTerminated {
		t.Fatalf("status = %v; want WorkerTerminated", w.Status())
	}
}

func TestWorkerTerminateWhileRunning(t *testing.T) {
	w := newWorker("ref")
	started := make(chan struct{})
	done := make(chan struct{})

	go func() {
		w.Start(func(sig *Signal) error {
			close(started)
			<-sig.Done()
			return nil
		})
		close(done)
	}()

	<-started
	w.Terminate()
	<-done

	if w.Status() != WorkerTerminated {
		t.Fatalf("status = %v; want WorkerTerminated", w.Status())
	}
	if !w.Signal().Aborted() {
		t.Fatal("worker signal should be aborted")
	}
}

func TestWorkerReturnedErrorBecomesFailed(t *testing.T) {
	w := newWorker("ref")
	wantErr := errors.New("boom")
	w.Start(func(sig *Signal) error { return wantErr })
	if w.Status() != WorkerFailed {
		t.Fatalf("status = %v; want WorkerFailed", w.Status())
	}
	if !errors.Is(w.Err(), wantErr) {
		t.Fatalf("err = %v; want %v", w.Err(), wantErr)
	}
}

func TestWorkerReturnedErrorAfterAbortIsSwallowed(t *testing.T) {
	w := newWorker("ref")
	w.Start(func(sig *Signal) error {
		sig.Abort()
		return errors.New("boom, but signal was already aborted")
	})
	if w.Status() != WorkerTerminated {
		t.Fatalf("status = %v; want WorkerTerminated (error after abort swallowed)", w.Status())
	}
	if w.Err() != nil {
		t.Fatalf("err = %v; want nil (swallowed)", w.Err())
	}
}

func TestWorkerPanicNotFromAbortBecomesFailed(t *testing.T) {
	w := newWorker("ref")
	defer func() {
		if recover() == nil {
			t.Fatal("panic should propagate to caller")
		}
		if w.Status() != WorkerFailed {
			t.Fatalf("status = %v; want WorkerFailed", w.Status())
		}
		if w.Err() == nil {
			t.Fatal("expected recorded error")
		}
	}()
	w.Start(func(sig *Signal) error { panic("boom") })
}

func TestWorkerTerminateIdempotent(t *testing.T) {
	w := newWorker("ref")
	w.Start(func(sig *Signal) error { return nil })
	w.Terminate()
	w.Terminate()
	if w.Status() != WorkerTerminated {
		t.Fatalf("status = %v; want WorkerTerminated", w.Status())
	}
}

func TestWorkerTerminateNeverOverridesFailed(t *testing.T) {
	w := newWorker("ref")
	w.Start(func(sig *Signal) error { return errors.New("boom") })
	if w.Status() != WorkerFailed {
		t.Fatalf("precondition: status = %v; want WorkerFailed", w.Status())
	}
	w.Terminate()
	if w.Status() != WorkerFailed {
		t.Fatalf("Terminate must not override WorkerFailed, got %v", w.Status())
	}
}

func TestWorkerStartNotIdlePanics(t *testing.T) {
	w := newWorker("ref")
	w.Start(func(sig *Signal) error { return nil })
	defer func() {
		if recover() == nil {
			t.Fatal("Start on non-idle worker should panic")
		}
	}()
	w.Start(func(sig *Signal) error { return nil })
}

func TestWorkerAbortViaSignalDuringPanicSwallowed(t *testing.T) {
	w := newWorker("ref")
	w.Start(func(sig *Signal) error {
		go func() {
			time.Sleep(5 * time.Millisecond)
		}()
		sig.Abort()
		panic("expected, caused by abort")
	})
	if w.Status() != WorkerTerminated {
		t.Fatalf("status = %v; want WorkerTerminated (abort-caused panic swallowed)", w.Status())
	}
}
