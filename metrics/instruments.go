package metrics

// KernelInstruments is the concrete, kernel-specific vocabulary Authority
// records through a Provider: a live Scope gauge and the shared
// WorkerPool's busy/idle slot gauges. It exists so Authority never touches
// the generic Counter/UpDownCounter surface directly — it reads or bumps
// named fields instead.
type KernelInstruments struct {
	// ScopeCount mirrors Authority.ScopeCount: the number of live Scopes
	// currently registered.
	ScopeCount UpDownCounter

	// WorkerPoolBusy and WorkerPoolIdle hold the shared WorkerPool's
	// BusyCount/IdleCount as of Authority's last resync (at construction and
	// when CreateScope scales the pool up). Dispatches in between are not
	// reflected.
	WorkerPoolBusy UpDownCounter
	WorkerPoolIdle UpDownCounter
}

// NewKernelInstruments builds the kernel's instrument set against p. Safe
// to call with any Provider, including NoopProvider.
func NewKernelInstruments(p Provider) *KernelInstruments {
	return &KernelInstruments{
		ScopeCount: p.UpDownCounter("exectrl.scope_count",
			WithDescription("live scopes registered on this authority")),
		WorkerPoolBusy: p.UpDownCounter("exectrl.worker_pool_busy",
			WithDescription("busy logical workers in the shared pool")),
		WorkerPoolIdle: p.UpDownCounter("exectrl.worker_pool_idle",
			WithDescription("idle logical workers in the shared pool")),
	}
}
