package exectrl

import "time"

// EngineConfig configures the worker pool an Authority owns (spec §6:
// Authority surface, engine config { defaultWorkers, maxWorkers,
// idleTimeout }).
type EngineConfig struct {
	// DefaultWorkers is the pool's initial logical worker count.
	// Default: 4.
	DefaultWorkers int

	// MaxWorkers caps the pool's size; Scale clamps to this ceiling.
	// Default: 16.
	MaxWorkers int

	// IdleTimeout is reserved for a future idle-worker reaper; the pool
	// itself does not yet act on it (spec §9 carries no resolution for
	// automatic idle shrink, so this is observed but not enforced).
	// Default: 30s.
	IdleTimeout time.Duration
}

// defaultEngineConfig centralizes EngineConfig defaults, applied both when
// NewAuthority receives no options and as the options builder base.
func defaultEngineConfig() EngineConfig {
	return EngineConfig{
		DefaultWorkers: 4,
		MaxWorkers:     16,
		IdleTimeout:    30 * time.Second,
	}
}

func validateEngineConfig(cfg *EngineConfig) error {
	if cfg.DefaultWorkers < 0 {
		cfg.DefaultWorkers = 0
	}
	if cfg.MaxWorkers < cfg.DefaultWorkers {
		cfg.MaxWorkers = cfg.DefaultWorkers
	}
	return nil
}

// ScopeEngineConfig is the per-Scope slice of engine config a caller may
// supply to CreateScope to request additional pool capacity.
type ScopeEngineConfig struct {
	// Workers, if greater than the Authority pool's current size, causes
	// CreateScope to call pool.Scale(Workers) before constructing the Scope.
	Workers int
}

// ScopeConfig is passed to Authority.CreateScope.
type ScopeConfig struct {
	ID     ScopeID
	Name   string
	Engine ScopeEngineConfig
}
