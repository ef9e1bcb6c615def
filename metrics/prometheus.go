package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusProvider implements Provider by registering instruments against
// a prometheus.Registerer on first use. Instrument names are sanitized to
// Prometheus's snake_case convention.
//
// The get-or-create maps are guarded by mu, the same way BasicProvider
// guards its own maps: Provider's contract requires concurrency safety,
// and nothing stops two goroutines from racing to create the same
// instrument on first use.
type PrometheusProvider struct {
	mu         sync.Mutex
	reg        prometheus.Registerer
	namespace  string
	counters   map[string]*prometheus.CounterVec
	updowns    map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
}

// NewPrometheusProvider constructs a PrometheusProvider that registers every
// instrument it creates against reg, prefixed with namespace.
func NewPrometheusProvider(reg prometheus.Registerer, namespace string) *PrometheusProvider {
	return &PrometheusProvider{
		reg:        reg,
		namespace:  namespace,
		counters:   make(map[string]*prometheus.CounterVec),
		updowns:    make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

func sanitize(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), ".", "_")
}

func (p *PrometheusProvider) Counter(name string, opts ...InstrumentOption) Counter {
	p.mu.Lock()
	defer p.mu.Unlock()
	cfg := applyOptions(opts)
	name = sanitize(name)
	if c, ok := p.counters[name]; ok {
		return &prometheusCounter{vec: c, labels: labelValues(cfg)}
	}
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: p.namespace,
		Name:      name,
		Help:      helpOrDefault(cfg, name),
	}, labelNames(cfg))
	p.reg.MustRegister(vec)
	p.counters[name] = vec
	return &prometheusCounter{vec: vec, labels: labelValues(cfg)}
}

func (p *PrometheusProvider) UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter {
	p.mu.Lock()
	defer p.mu.Unlock()
	cfg := applyOptions(opts)
	name = sanitize(name)
	if g, ok := p.updowns[name]; ok {
		return &prometheusGauge{vec: g, labels: labelValues(cfg)}
	}
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: p.namespace,
		Name:      name,
		Help:      helpOrDefault(cfg, name),
	}, labelNames(cfg))
	p.reg.MustRegister(vec)
	p.updowns[name] = vec
	return &prometheusGauge{vec: vec, labels: labelValues(cfg)}
}

func (p *PrometheusProvider) Histogram(name string, opts ...InstrumentOption) Histogram {
	p.mu.Lock()
	defer p.mu.Unlock()
	cfg := applyOptions(opts)
	name = sanitize(name)
	if h, ok := p.histograms[name]; ok {
		return &prometheusHistogram{vec: h, labels: labelValues(cfg)}
	}
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: p.namespace,
		Name:      name,
		Help:      helpOrDefault(cfg, name),
	}, labelNames(cfg))
	p.reg.MustRegister(vec)
	p.histograms[name] = vec
	return &prometheusHistogram{vec: vec, labels: labelValues(cfg)}
}

func helpOrDefault(cfg InstrumentConfig, name string) string {
	if cfg.Description != "" {
		return cfg.Description
	}
	return name
}

func labelNames(cfg InstrumentConfig) []string {
	names := make([]string, 0, len(cfg.Attributes))
	for k := range cfg.Attributes {
		names = append(names, k)
	}
	return names
}

func labelValues(cfg InstrumentConfig) prometheus.Labels {
	return prometheus.Labels(cfg.Attributes)
}

type prometheusCounter struct {
	vec    *prometheus.CounterVec
	labels prometheus.Labels
}

func (c *prometheusCounter) Add(n int64) { c.vec.With(c.labels).Add(float64(n)) }

type prometheusGauge struct {
	vec    *prometheus.GaugeVec
	labels prometheus.Labels
}

func (g *prometheusGauge) Add(n int64) { g.vec.With(g.labels).Add(float64(n)) }

type prometheusHistogram struct {
	vec    *prometheus.HistogramVec
	labels prometheus.Labels
}

func (h *prometheusHistogram) Record(v float64) { h.vec.With(h.labels).Observe(v) }
