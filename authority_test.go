package exectrl

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuthorityCreateScopeAndLookup(t *testing.T) {
	a := NewAuthority()
	scope, err := a.CreateScope(ScopeConfig{ID: "s1", Name: "first"})
	require.NoError(t, err)
	require.True(t, a.HasScope("s1"))
	require.Same(t, scope, a.GetScope("s1"))
}

func TestAuthorityCreateScopeDuplicateFails(t *testing.T) {
	a := NewAuthority()
	a.CreateScope(ScopeConfig{ID: "s1"})
	_, err := a.CreateScope(ScopeConfig{ID: "s1"})
	require.ErrorIs(t, err, ErrAuthorityAlreadyExists)
}

func TestAuthorityCreateScopeAfterDisposeFails(t *testing.T) {
	a := NewAuthority()
	a.Dispose()
	_, err := a.CreateScope(ScopeConfig{ID: "s1"})
	require.ErrorIs(t, err, ErrAuthorityNotInitialized)
}

func TestAuthorityCreateScopeScalesPoolUp(t *testing.T) {
	a := NewAuthority(WithDefaultWorkers(1), WithMaxWorkers(8))
	require.Equal(t, 1, a.WorkerPoolSize())
	a.CreateScope(ScopeConfig{ID: "s1", Engine: ScopeEngineConfig{Workers: 5}})
	require.Equal(t, 5, a.WorkerPoolSize(), "after scale-up")
}

func TestAuthorityUnregisterScopeDoesNotDispose(t *testing.T) {
	a := NewAuthority()
	scope, _ := a.CreateScope(ScopeConfig{ID: "s1"})
	scope.Mount()

	require.True(t, a.UnregisterScope("s1"), "expected UnregisterScope to find s1")
	require.False(t, a.HasScope("s1"), "expected s1 removed from authority")
	require.True(t, scope.IsAlive(), "unregistering must not dispose the scope")
}

func TestAuthorityGetScopeIds(t *testing.T) {
	a := NewAuthority()
	a.CreateScope(ScopeConfig{ID: "s1"})
	a.CreateScope(ScopeConfig{ID: "s2"})
	require.Len(t, a.GetScopeIds(), 2)
}

func TestAuthoritySubscribeBroadcastOrder(t *testing.T) {
	a := NewAuthority()
	var mu sync.Mutex
	var order []int

	a.Subscribe("chan", func(data any) {
		mu.Lock()
		order = append(order, 1)
		mu.Unlock()
	})
	a.Subscribe("chan", func(data any) {
		mu.Lock()
		order = append(order, 2)
		mu.Unlock()
	})

	a.Broadcast("chan", "payload")

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int{1, 2}, order, "subscription order")
}

func TestAuthorityUnsubscribeStopsDelivery(t *testing.T) {
	a := NewAuthority()
	count := 0
	unsub := a.Subscribe("chan", func(data any) { count++ })
	unsub()
	a.Broadcast("chan", "x")
	require.Zero(t, count, "after unsubscribe")
}

func TestAuthorityBroadcastSurvivesPanickingListener(t *testing.T) {
	a := NewAuthority()
	var secondCalled bool
	a.Subscribe("chan", func(data any) { panic("boom") })
	a.Subscribe("chan", func(data any) { secondCalled = true })
	a.Broadcast("chan", "x")
	require.True(t, secondCalled, "expected delivery to continue past a panicking listener")
}

func TestAuthorityDisposeIsIdempotentAndDisposesScopes(t *testing.T) {
	a := NewAuthority()
	scope, _ := a.CreateScope(ScopeConfig{ID: "s1"})
	scope.Mount()

	a.Dispose()
	a.Dispose()

	require.True(t, a.IsDisposed())
	require.False(t, scope.IsAlive(), "expected owned scope to be disposed")
	require.Zero(t, a.ScopeCount(), "after dispose")
}
