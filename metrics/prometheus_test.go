package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusProviderCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusProvider(reg, "exectrl")

	c := p.Counter("tasks_total", WithDescription("total tasks run"))
	c.Add(3)
	c.Add(2)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather error: %v", err)
	}
	if len(mfs) != 1 {
		t.Fatalf("len(mfs) = %d; want 1", len(mfs))
	}
}

func TestPrometheusProviderReusesInstrumentByName(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusProvider(reg, "exectrl")

	c1 := p.Counter("idle_workers")
	c2 := p.Counter("idle_workers")
	c1.Add(1)
	c2.Add(1)

	mfs, _ := reg.Gather()
	if len(mfs) != 1 {
		t.Fatalf("len(mfs) = %d; want 1 (same instrument reused)", len(mfs))
	}
}

func TestPrometheusProviderHistogramAndGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusProvider(reg, "exectrl")

	h := p.Histogram("run_duration_seconds")
	h.Record(0.25)

	g := p.UpDownCounter("busy_workers")
	g.Add(2)
	g.Add(-1)

	mfs, _ := reg.Gather()
	if len(mfs) != 2 {
		t.Fatalf("len(mfs) = %d; want 2", len(mfs))
	}
}
