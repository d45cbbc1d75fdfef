package prefs

type jsSchemaConfig struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// JSSchemaOption configures the JS schema.
type JSSchemaOption func(*jsSchemaConfig)

// JSWithProgramCache wires a ProgramCache into schema compilation.
func JSWithProgramCache(cache ProgramCache) JSSchemaOption {
	return func(cfg *jsSchemaConfig) {
		cfg.cache = cache
	}
}

// JSWithFunctionRegistry exposes registry helpers to rule expressions.
func JSWithFunctionRegistry(registry *FunctionRegistry) JSSchemaOption {
	return func(cfg *jsSchemaConfig) {
		if registry == nil {
			return
		}
		cfg.registry = registry.Clone()
	}
}

func applyJSSchemaOptions(opts []JSSchemaOption) jsSchemaConfig {
	cfg := jsSchemaConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
