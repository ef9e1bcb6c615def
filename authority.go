package exectrl

import (
	"sync"

	"github.com/kaelbrook/exectrl/internal/klog"
	"github.com/kaelbrook/exectrl/metrics"
	"github.com/kaelbrook/exectrl/workerpool"
)

type listenerEntry struct {
	id int
	fn func(data any)
}

// Authority is the process-wide registry and broadcast mediator: it owns
// one shared WorkerPool and every Scope created against it (spec §4.9).
type Authority struct {
	mu        sync.Mutex
	scopes    map[ScopeID]*Scope
	listeners map[string][]*listenerEntry
	nextSubID int
	pool      *workerpool.Pool
	disposed  bool

	log         klog.Logger
	instruments *metrics.KernelInstruments
	lastIdle    int
	lastBusy    int
}

// NewAuthority constructs an Authority, applying defaultEngineConfig and
// then any supplied AuthorityOption in order.
func NewAuthority(opts ...AuthorityOption) *Authority {
	built := authorityOptions{
		engine:   defaultEngineConfig(),
		logger:   klog.Noop(),
		provider: metrics.NewNoopProvider(),
	}
	for _, opt := range opts {
		opt(&built)
	}
	validateEngineConfig(&built.engine)

	a := &Authority{
		scopes:      make(map[ScopeID]*Scope),
		listeners:   make(map[string][]*listenerEntry),
		pool:        workerpool.New(built.engine.DefaultWorkers, built.engine.MaxWorkers),
		log:         built.logger,
		instruments: metrics.NewKernelInstruments(built.provider),
	}
	a.pool.SetLogger(a.log)
	a.syncPoolGauges()
	return a
}

// syncPoolGauges mirrors the shared WorkerPool's current idle/busy slot
// counts into the configured metrics.Provider. It is called whenever
// Authority itself changes pool shape (construction, CreateScope's
// pool.Scale); it does not track every dispatch inside the pool, since
// UpDownCounter only supports relative Add, not an absolute Set.
func (a *Authority) syncPoolGauges() {
	idle, busy := a.pool.IdleCount(), a.pool.BusyCount()
	a.instruments.WorkerPoolIdle.Add(int64(idle - a.lastIdle))
	a.instruments.WorkerPoolBusy.Add(int64(busy - a.lastBusy))
	a.lastIdle, a.lastBusy = idle, busy
}

// CreateScope fails if the Authority is disposed or a Scope with cfg.ID
// already exists. If cfg.Engine.Workers exceeds the pool's current size,
// the pool is scaled up first.
func (a *Authority) CreateScope(cfg ScopeConfig) (*Scope, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.disposed {
		return nil, ErrAuthorityNotInitialized
	}
	if _, exists := a.scopes[cfg.ID]; exists {
		return nil, ErrAuthorityAlreadyExists
	}

	if cfg.Engine.Workers > a.pool.Size() {
		a.pool.Scale(cfg.Engine.Workers)
		a.syncPoolGauges()
	}

	scope := newScope(cfg.ID, cfg.Name, a.pool)
	scope.setLogger(a.log)
	a.scopes[cfg.ID] = scope
	a.instruments.ScopeCount.Add(1)
	a.log.WithField("scope_id", string(cfg.ID)).Info("scope created")
	return scope, nil
}

// GetScope returns the Scope registered under id, or nil.
func (a *Authority) GetScope(id ScopeID) *Scope {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scopes[id]
}

// HasScope reports whether id is currently registered.
func (a *Authority) HasScope(id ScopeID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.scopes[id]
	return ok
}

// UnregisterScope removes the mapping for id without disposing the Scope.
// Reports whether a mapping was present.
func (a *Authority) UnregisterScope(id ScopeID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.scopes[id]; !ok {
		return false
	}
	delete(a.scopes, id)
	a.instruments.ScopeCount.Add(-1)
	return true
}

// GetScopeIds returns every currently registered ScopeID.
func (a *Authority) GetScopeIds() []ScopeID {
	a.mu.Lock()
	defer a.mu.Unlock()
	ids := make([]ScopeID, 0, len(a.scopes))
	for id := range a.scopes {
		ids = append(ids, id)
	}
	return ids
}

// Subscribe registers listener on channel and returns an unsubscribe
// function. Delivery order within a channel is subscription order.
func (a *Authority) Subscribe(channel string, listener func(data any)) (unsubscribe func()) {
	a.mu.Lock()
	id := a.nextSubID
	a.nextSubID++
	entry := &listenerEntry{id: id, fn: listener}
	a.listeners[channel] = append(a.listeners[channel], entry)
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		entries := a.listeners[channel]
		for i, e := range entries {
			if e.id == id {
				a.listeners[channel] = append(entries[:i], entries[i+1:]...)
				break
			}
		}
	}
}

// Broadcast fans data out synchronously to every listener subscribed to
// channel at call time (a snapshot, so listeners added during delivery do
// not receive this broadcast). A panicking listener is recovered and does
// not prevent delivery to the remaining listeners.
func (a *Authority) Broadcast(channel string, data any) {
	a.mu.Lock()
	entries := make([]*listenerEntry, len(a.listeners[channel]))
	copy(entries, a.listeners[channel])
	a.mu.Unlock()

	for _, e := range entries {
		a.deliverListener(e.fn, data)
	}
}

func (a *Authority) deliverListener(fn func(data any), data any) {
	defer func() {
		if r := recover(); r != nil {
			a.log.WithField("panic", r).Error("broadcast listener panicked")
		}
	}()
	fn(data)
}

// Dispose is idempotent. It disposes every Scope, clears the Scope map and
// listener table, and disposes the shared pool.
func (a *Authority) Dispose() {
	a.mu.Lock()
	if a.disposed {
		a.mu.Unlock()
		return
	}
	a.disposed = true
	scopes := make([]*Scope, 0, len(a.scopes))
	for _, s := range a.scopes {
		scopes = append(scopes, s)
	}
	a.scopes = make(map[ScopeID]*Scope)
	a.instruments.ScopeCount.Add(-int64(len(scopes)))
	a.listeners = make(map[string][]*listenerEntry)
	a.mu.Unlock()

	for _, s := range scopes {
		s.Dispose()
		s.clearTaskTable()
	}
	a.pool.Dispose()
	a.log.Info("authority disposed")
}

// IsDisposed reports whether Dispose has been called.
func (a *Authority) IsDisposed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.disposed
}

// ScopeCount reports the number of currently registered Scopes.
func (a *Authority) ScopeCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.scopes)
}

// WorkerPoolSize reports the shared pool's current logical worker count.
func (a *Authority) WorkerPoolSize() int { return a.pool.Size() }

// IdleWorkerCount reports the shared pool's idle worker count.
func (a *Authority) IdleWorkerCount() int { return a.pool.IdleCount() }

// BusyWorkerCount reports the shared pool's busy worker count.
func (a *Authority) BusyWorkerCount() int { return a.pool.BusyCount() }
