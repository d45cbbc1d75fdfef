package prefs

import "github.com/goliatone/go-prefs/pkg/audit"

// Root provisions accessors against one backing store under an optional key
// prefix. Each Root owns an independent key Registry, so two Roots may use
// overlapping keys without conflict; namespacing across roots is the caller's
// responsibility via the prefix.
type Root struct {
	store    Store
	prefix   string
	registry *Registry
	logger   DiagnosticLogger
	emitter  *audit.Emitter
}

type rootConfig struct {
	prefix  string
	logger  DiagnosticLogger
	emitter *audit.Emitter
}

// Option configures a Root.
type Option func(*rootConfig)

// WithPrefix prepends prefix to every key provisioned from the Root.
func WithPrefix(prefix string) Option {
	return func(cfg *rootConfig) {
		cfg.prefix = prefix
	}
}

// WithAuditEmitter attaches an emitter notified on writes, removals, and
// self-healing repairs.
func WithAuditEmitter(emitter *audit.Emitter) Option {
	return func(cfg *rootConfig) {
		cfg.emitter = emitter
	}
}

// New constructs a Root over store.
func New(store Store, opts ...Option) *Root {
	cfg := applyRootOptions(opts)
	logger := cfg.logger
	if logger == nil {
		logger = noopDiagnosticLogger{}
	}
	return &Root{
		store:    store,
		prefix:   cfg.prefix,
		registry: NewRegistry(),
		logger:   logger,
		emitter:  cfg.emitter,
	}
}

func applyRootOptions(opts []Option) rootConfig {
	cfg := rootConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Registry exposes the Root's key registry.
func (r *Root) Registry() *Registry {
	return r.registry
}
