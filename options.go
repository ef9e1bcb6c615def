package exectrl

import (
	"time"

	"github.com/kaelbrook/exectrl/internal/klog"
	"github.com/kaelbrook/exectrl/metrics"
)

// authorityOptions is the internal builder state assembled by AuthorityOption
// values before NewAuthority constructs the Authority itself (mirrors the
// teacher's configOptions builder pattern).
type authorityOptions struct {
	engine   EngineConfig
	logger   klog.Logger
	provider metrics.Provider
}

// AuthorityOption configures an Authority at construction. Use NewAuthority
// with zero or more options; an Authority built with no options gets
// defaultEngineConfig, a no-op logger, and a NoopProvider (spec §6:
// Authority accepts "optional engine config").
type AuthorityOption func(*authorityOptions)

// WithDefaultWorkers sets the pool's initial logical worker count.
func WithDefaultWorkers(n int) AuthorityOption {
	return func(o *authorityOptions) { o.engine.DefaultWorkers = n }
}

// WithMaxWorkers sets the pool's capacity ceiling.
func WithMaxWorkers(n int) AuthorityOption {
	return func(o *authorityOptions) { o.engine.MaxWorkers = n }
}

// WithIdleTimeout sets the reserved idle-worker timeout (see EngineConfig).
func WithIdleTimeout(d time.Duration) AuthorityOption {
	return func(o *authorityOptions) { o.engine.IdleTimeout = d }
}

// WithLogger attaches a structured logger; the Authority logs Scope
// creation, disposal, and broadcast-listener panics through it.
func WithLogger(l klog.Logger) AuthorityOption {
	return func(o *authorityOptions) { o.logger = l }
}

// WithMetricsProvider attaches a metrics.Provider; the Authority records
// scope count and idle/busy worker gauges through it.
func WithMetricsProvider(p metrics.Provider) AuthorityOption {
	return func(o *authorityOptions) { o.provider = p }
}
