package metrics

// Provider constructs the instruments the kernel uses to report its own
// lifecycle counters: how many Scopes an Authority currently holds and how
// occupied its shared WorkerPool is. Implementations must be safe for
// concurrent use — Authority calls into a Provider from whatever goroutine
// happens to be mutating kernel state.
//
// Keep this interface minimal and stable. If a new capability is needed
// later, add a separate optional interface rather than widening this one.
type Provider interface {
	Counter(name string, opts ...InstrumentOption) Counter
	UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter
	Histogram(name string, opts ...InstrumentOption) Histogram
}

// Counter records monotonically increasing counts. KernelInstruments
// defines no Counter of its own.
// Methods must be safe for concurrent use.
type Counter interface {
	Add(n int64)
}

// UpDownCounter records a value that moves in both directions, e.g. the
// live Scope count or the WorkerPool's current busy/idle slot counts.
// Methods must be safe for concurrent use.
type UpDownCounter interface {
	Add(n int64)
}

// Histogram records a distribution of float64 measurements, e.g. durations
// in seconds. KernelInstruments defines no Histogram of its own.
// Methods must be safe for concurrent use.
type Histogram interface {
	Record(v float64)
}

// InstrumentConfig carries optional, advisory instrument metadata.
type InstrumentConfig struct {
	Description string
	Unit        string
	// Attributes are static key-value pairs associated with the instrument
	// itself (e.g. {"outcome": "aborted"}). Keep cardinality bounded;
	// implementations may ignore attributes entirely.
	Attributes map[string]string
}

// InstrumentOption mutates an InstrumentConfig at instrument-creation time.
type InstrumentOption func(*InstrumentConfig)

// WithDescription sets an advisory description for the instrument.
func WithDescription(desc string) InstrumentOption {
	return func(c *InstrumentConfig) { c.Description = desc }
}

// WithUnit sets an advisory unit for the instrument (e.g. "1", "seconds").
func WithUnit(unit string) InstrumentOption {
	return func(c *InstrumentConfig) { c.Unit = unit }
}

// WithAttributes attaches static attributes to the instrument. Bounded
// cardinality only — these are meant for a fixed label like an outcome
// name, not per-Task or per-Scope identity.
func WithAttributes(attrs map[string]string) InstrumentOption {
	return func(c *InstrumentConfig) {
		if len(attrs) == 0 {
			return
		}
		if c.Attributes == nil {
			c.Attributes = make(map[string]string, len(attrs))
		}
		for k, v := range attrs {
			c.Attributes[k] = v
		}
	}
}
