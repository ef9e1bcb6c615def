package metrics

import (
	"math"
	"sync"
	"sync/atomic"
)

// BasicProvider is an in-memory Provider suitable for tests and for
// embedders that don't want a scrape endpoint: Authority's scope-count
// gauge and the WorkerPool's busy/idle gauges all read back correctly
// through Snapshot, with no external dependency.
//
// Instruments are created on demand by name and reused for the same name;
// InstrumentConfig (description/unit/attributes) is recorded but purely
// advisory — BasicProvider itself doesn't branch on it.
type BasicProvider struct {
	mu         sync.Mutex
	counters   map[string]*BasicCounter
	updowns    map[string]*BasicUpDownCounter
	histograms map[string]*BasicHistogram
	meta       map[string]InstrumentConfig
}

// NewBasicProvider constructs an empty BasicProvider.
func NewBasicProvider() *BasicProvider {
	return &BasicProvider{
		counters:   make(map[string]*BasicCounter),
		updowns:    make(map[string]*BasicUpDownCounter),
		histograms: make(map[string]*BasicHistogram),
		meta:       make(map[string]InstrumentConfig),
	}
}

// Counter returns the monotonic counter registered under name, creating it
// on first use.
func (p *BasicProvider) Counter(name string, opts ...InstrumentOption) Counter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.counters[name]; ok {
		return c
	}
	p.meta[name] = applyOptions(opts)
	c := &BasicCounter{}
	p.counters[name] = c
	return c
}

// UpDownCounter returns the up/down counter registered under name, creating
// it on first use.
func (p *BasicProvider) UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if u, ok := p.updowns[name]; ok {
		return u
	}
	p.meta[name] = applyOptions(opts)
	u := &BasicUpDownCounter{}
	p.updowns[name] = u
	return u
}

// Histogram returns the histogram registered under name, creating it on
// first use.
func (p *BasicProvider) Histogram(name string, opts ...InstrumentOption) Histogram {
	p.mu.Lock()
	defer p.mu.Unlock()
	if h, ok := p.histograms[name]; ok {
		return h
	}
	p.meta[name] = applyOptions(opts)
	h := &BasicHistogram{min: math.Inf(1), max: math.Inf(-1)}
	p.histograms[name] = h
	return h
}

func applyOptions(opts []InstrumentOption) InstrumentConfig {
	var cfg InstrumentConfig
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	return cfg
}

// BasicCounter is a thread-safe monotonic counter.
type BasicCounter struct {
	val atomic.Int64
}

// Add increments the counter by n.
func (c *BasicCounter) Add(n int64) { c.val.Add(n) }

// Snapshot returns the current value.
func (c *BasicCounter) Snapshot() int64 { return c.val.Load() }

// BasicUpDownCounter is a thread-safe counter that moves in both
// directions, e.g. Authority's live scope-count gauge.
type BasicUpDownCounter struct {
	val atomic.Int64
}

// Add adds n (positive or negative) to the current value.
func (u *BasicUpDownCounter) Add(n int64) { u.val.Add(n) }

// Snapshot returns the current value.
func (u *BasicUpDownCounter) Snapshot() int64 { return u.val.Load() }

// BasicHistogram is a thread-safe histogram tracking count, sum, min, and
// max. It keeps no buckets — a lightweight
// general-purpose aggregator, not a scrape-ready distribution.
type BasicHistogram struct {
	mu    sync.Mutex
	count int64
	sum   float64
	min   float64
	max   float64
}

// Record adds a measurement to the histogram.
func (h *BasicHistogram) Record(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.count == 0 {
		h.min, h.max = v, v
	} else if v < h.min {
		h.min = v
	} else if v > h.max {
		h.max = v
	}
	h.count++
	h.sum += v
}

// HistSnapshot is an immutable snapshot of a BasicHistogram.
type HistSnapshot struct {
	Count int64
	Sum   float64
	Min   float64
	Max   float64
	Mean  float64
}

// Snapshot returns a copy of the histogram's state at the time of call.
func (h *BasicHistogram) Snapshot() HistSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	mean := 0.0
	if h.count > 0 {
		mean = h.sum / float64(h.count)
	}
	return HistSnapshot{Count: h.count, Sum: h.sum, Min: h.min, Max: h.max, Mean: mean}
}
