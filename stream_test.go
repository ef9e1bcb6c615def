package exectrl

import "testing"

func TestStreamReplayToLateSubscriber(t *testing.T) {
	s := newStream[int]("ref-1")
	s.Emit(1)
	s.Emit(2)
	s.Emit(3)

	var got []int
	s.Subscribe(func(v int) { got = append(got, v) })

	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("replay = %v; want [1 2 3]", got)
	}

	s.Emit(4)
	if len(got) != 4 || got[3] != 4 {
		t.Fatalf("after live emit = %v; want trailing 4", got)
	}
}

func TestStreamCloseStopsEmissions(t *testing.T) {
	s := newStream[int]("ref-1")
	var got []int
	s.Subscribe(func(v int) { got = append(got, v) })
	s.Emit(1)
	s.Close()
	s.Emit(2)

	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("got = %v; want [1]", got)
	}
	if s.IsOpen() {
		t.Fatal("IsOpen should be false after Close")
	}
}

func TestStreamAbortClearsSubscribers(t *testing.T) {
	s := newStream[int]("ref-1")
	s.Subscribe(func(int) {})
	s.Abort()
	if s.IsOpen() {
		t.Fatal("IsOpen should be false after Abort")
	}
	// Idempotent, does not downgrade to closed.
	s.Close()
	if s.IsOpen() {
		t.Fatal("Close after Abort must not reopen")
	}
}

func TestStreamSubscribeToNonOpenIsNoOp(t *testing.T) {
	s := newStream[int]("ref-1")
	s.Close()
	called := false
	unsub := s.Subscribe(func(int) { called = true })
	s.mu.Lock()
	subscribed := len(s.subscribers) > 0
	s.mu.Unlock()
	if subscribed {
		t.Fatal("subscribe on closed stream must not register")
	}
	unsub() // no-op, must not panic
	_ = called
}

func TestStreamUnsubscribeStopsDelivery(t *testing.T) {
	s := newStream[int]("ref-1")
	var got []int
	unsub := s.Subscribe(func(v int) { got = append(got, v) })
	s.Emit(1)
	unsub()
	s.Emit(2)
	if len(got) != 1 {
		t.Fatalf("got = %v; want single emission before unsubscribe", got)
	}
}

func TestStreamSubscriberPanicDoesNotBlockOthers(t *testing.T) {
	s := newStream[int]("ref-1")
	var secondCalled bool
	s.Subscribe(func(int) { panic("boom") })
	s.Subscribe(func(int) { secondCalled = true })
	s.Emit(1)
	if !secondCalled {
		t.Fatal("second subscriber must still be delivered to after first panics")
	}
}

func TestStreamMultipleSubscribersOrderedDelivery(t *testing.T) {
	s := newStream[int]("ref-1")
	var a, b []int
	s.Subscribe(func(v int) { a = append(a, v) })
	s.Subscribe(func(v int) { b = append(b, v) })
	s.Emit(1)
	s.Emit(2)
	if len(a) != 2 || len(b) != 2 || a[0] != 1 || b[0] != 1 {
		t.Fatalf("both subscribers should see emission order: a=%v b=%v", a, b)
	}
}
