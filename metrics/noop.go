package metrics

// NoopProvider discards every instrument it constructs. It is the default
// Provider an Authority gets when no AuthorityOption supplies one, so the
// Authority's scope and pool bookkeeping can call into metrics
// unconditionally without a caller having to special-case "metrics
// disabled".
type NoopProvider struct{}

// NewNoopProvider constructs a Provider that discards all metrics.
func NewNoopProvider() NoopProvider { return NoopProvider{} }

func (NoopProvider) Counter(_ string, _ ...InstrumentOption) Counter {
	return discardInstrument{}
}

func (NoopProvider) UpDownCounter(_ string, _ ...InstrumentOption) UpDownCounter {
	return discardInstrument{}
}

func (NoopProvider) Histogram(_ string, _ ...InstrumentOption) Histogram {
	return discardInstrument{}
}

// discardInstrument satisfies Counter, UpDownCounter, and Histogram at
// once: none of the three need more than "do nothing".
type discardInstrument struct{}

func (discardInstrument) Add(_ int64)      {}
func (discardInstrument) Record(_ float64) {}
