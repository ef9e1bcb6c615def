package fsm

import "testing"

func TestInitialState(t *testing.T) {
	f := New()
	if f.State() != Init {
		t.Fatalf("initial state = %v; want Init", f.State())
	}
	if f.CanExecute() {
		t.Fatal("CanExecute true in Init")
	}
	if !f.IsAlive() {
		t.Fatal("IsAlive false in Init")
	}
}

func TestMountedTransition(t *testing.T) {
	f := New()
	if !f.Transition(Mounted) {
		t.Fatal("Mounted from Init should transition")
	}
	if f.State() != Attached {
		t.Fatalf("state = %v; want Attached", f.State())
	}
	if !f.CanExecute() {
		t.Fatal("CanExecute should be true in Attached")
	}
}

func TestMountedIdempotentAfterAttached(t *testing.T) {
	f := New()
	f.Transition(Mounted)
	if f.Transition(Mounted) {
		t.Fatal("second Mounted should be a no-op")
	}
	if f.State() != Attached {
		t.Fatalf("state = %v; want Attached", f.State())
	}
}

func TestFullHappyPath(t *testing.T) {
	f := New()
	f.Transition(Mounted)
	f.Transition(TaskStarted)
	if f.State() != Running {
		t.Fatalf("state = %v; want Running", f.State())
	}

	if !f.Transition(Suspend) {
		t.Fatal("Suspend should transition from Running")
	}
	if f.State() != Suspended {
		t.Fatalf("state = %v; want Suspended", f.State())
	}

	if !f.Transition(Resume) {
		t.Fatal("Resume should transition from Suspended")
	}
	if f.State() != Running {
		t.Fatalf("state = %v; want Running", f.State())
	}
}

func TestDisposeFromAnyLiveState(t *testing.T) {
	for _, seq := range [][]Event{
		{Mounted, Dispose},
		{Mounted, TaskStarted, Dispose},
		{Mounted, TaskStarted, Suspend, Dispose},
	} {
		f := New()
		for _, e := range seq {
			f.Transition(e)
		}
		if f.State() != Disposing {
			t.Fatalf("sequence %v: state = %v; want Disposing", seq, f.State())
		}
		if f.IsAlive() {
			t.Fatal("IsAlive should be false in Disposing")
		}
	}
}

func TestDisposingAutoAdvancesOnAnyEvent(t *testing.T) {
	f := New()
	f.Transition(Mounted)
	f.Transition(Dispose)
	if !f.Transition(Suspend) {
		t.Fatal("any event in Disposing should auto-advance to Disposed")
	}
	if f.State() != Disposed {
		t.Fatalf("state = %v; want Disposed", f.State())
	}
}

func TestDisposingAutoAdvancesOnTick(t *testing.T) {
	f := New()
	f.Transition(Mounted)
	f.Transition(Dispose)
	if !f.Tick() {
		t.Fatal("Tick in Disposing should advance to Disposed")
	}
	if f.State() != Disposed {
		t.Fatalf("state = %v; want Disposed", f.State())
	}
}

func TestDisposedIsAbsorbing(t *testing.T) {
	f := New()
	f.Transition(Mounted)
	f.Transition(Dispose)
	f.Tick()
	for _, e := range []Event{Mounted, TaskStarted, Suspend, Resume, Dispose} {
		if f.Transition(e) {
			t.Fatalf("event %v should be a no-op in Disposed", e)
		}
	}
	if f.State() != Disposed {
		t.Fatalf("state = %v; want Disposed", f.State())
	}
}

func TestDisposeFromInitIsANoOp(t *testing.T) {
	f := New()
	if f.Transition(Dispose) {
		t.Fatal("Dispose from Init should be a no-op (table lists — for INIT+dispose)")
	}
	if f.State() != Init {
		t.Fatalf("state = %v; want Init", f.State())
	}
}

func TestUnspecifiedTransitionsAreNoOps(t *testing.T) {
	f := New()
	if f.Transition(TaskStarted) {
		t.Fatal("TaskStarted from Init should be a no-op")
	}
	if f.State() != Init {
		t.Fatalf("state = %v; want Init", f.State())
	}
}
