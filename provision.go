package prefs

import "fmt"

type accessorConfig[T any] struct {
	def        T
	hasDefault bool
	validate   func(T) bool
	schema     Schema
	marshal    func(T) (string, error)
	unmarshal  func(string) (T, error)
	skipClaim  bool
}

// AccessorOption configures a single accessor at provisioning time.
type AccessorOption[T any] func(*accessorConfig[T])

// WithDefault supplies the fallback value returned (and written back) when
// the stored entry is missing or invalid.
func WithDefault[T any](value T) AccessorOption[T] {
	return func(cfg *accessorConfig[T]) {
		cfg.def = value
		cfg.hasDefault = true
	}
}

// WithValidate supplies a validation predicate. It takes precedence over
// WithSchema when both are configured.
func WithValidate[T any](fn func(T) bool) AccessorOption[T] {
	return func(cfg *accessorConfig[T]) {
		cfg.validate = fn
	}
}

// WithSchema supplies a schema-based validator.
func WithSchema[T any](schema Schema) AccessorOption[T] {
	return func(cfg *accessorConfig[T]) {
		cfg.schema = schema
	}
}

// WithCodec supplies both marshal and unmarshal functions.
func WithCodec[T any](codec Codec[T]) AccessorOption[T] {
	return func(cfg *accessorConfig[T]) {
		cfg.marshal = codec.Marshal
		cfg.unmarshal = codec.Unmarshal
	}
}

// WithMarshal supplies the value-to-string conversion.
func WithMarshal[T any](fn func(T) (string, error)) AccessorOption[T] {
	return func(cfg *accessorConfig[T]) {
		cfg.marshal = fn
	}
}

// WithUnmarshal supplies the string-to-value conversion.
func WithUnmarshal[T any](fn func(string) (T, error)) AccessorOption[T] {
	return func(cfg *accessorConfig[T]) {
		cfg.unmarshal = fn
	}
}

// SkipRegistration provisions the accessor without claiming its key, letting
// several accessors share one entry deliberately.
func SkipRegistration[T any]() AccessorOption[T] {
	return func(cfg *accessorConfig[T]) {
		cfg.skipClaim = true
	}
}

// Provision resolves configuration, validates it, claims the key, and
// returns an accessor bound to the resolved key.
//
// Configuration failures are reported before any store interaction:
// InvalidDefaultValueError when the default fails the effective validator,
// MissingMarshalError when a non-string default has no marshal function, and
// DuplicateKeyError when the key is already claimed.
func Provision[T any](root *Root, key string, opts ...AccessorOption[T]) (*Accessor[T], error) {
	if root == nil {
		return nil, fmt.Errorf("prefs: root is required")
	}

	cfg := applyAccessorOptions(opts)
	resolved := root.prefix + key
	validate := cfg.effectiveValidate()

	if cfg.hasDefault && validate != nil && !validate(cfg.def) {
		return nil, &InvalidDefaultValueError{Key: resolved}
	}
	if cfg.hasDefault && cfg.marshal == nil {
		if _, ok := any(cfg.def).(string); !ok {
			return nil, &MissingMarshalError{Key: resolved}
		}
	}
	if !cfg.skipClaim {
		if err := root.registry.Claim(resolved); err != nil {
			return nil, err
		}
	}

	return &Accessor[T]{
		key:        resolved,
		def:        cfg.def,
		hasDefault: cfg.hasDefault,
		validate:   validate,
		marshal:    cfg.marshal,
		unmarshal:  cfg.unmarshal,
		store:      root.store,
		registry:   root.registry,
		logger:     root.logger,
		emitter:    root.emitter,
	}, nil
}

func applyAccessorOptions[T any](opts []AccessorOption[T]) accessorConfig[T] {
	var cfg accessorConfig[T]
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func (cfg accessorConfig[T]) effectiveValidate() func(T) bool {
	if cfg.validate != nil {
		return cfg.validate
	}
	if cfg.schema != nil {
		schema := cfg.schema
		return func(value T) bool {
			return schema.IsValid(value)
		}
	}
	return nil
}
