package prefs

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// ExprSchemaOption configures an expr-backed schema.
type ExprSchemaOption func(*exprSchema)

// ExprWithProgramCache wires a ProgramCache into schema compilation.
func ExprWithProgramCache(cache ProgramCache) ExprSchemaOption {
	return func(s *exprSchema) {
		s.cache = cache
	}
}

// ExprWithFunctionRegistry exposes registry helpers to rule expressions.
func ExprWithFunctionRegistry(registry *FunctionRegistry) ExprSchemaOption {
	return func(s *exprSchema) {
		if registry == nil {
			return
		}
		s.registry = registry.Clone()
	}
}

// exprSchema validates values by evaluating a rule with expr-lang. The rule
// sees the candidate under "value" and must produce a boolean.
type exprSchema struct {
	rule     string
	cache    ProgramCache
	registry *FunctionRegistry
	program  *exprvm.Program
}

// NewExprSchema compiles rule into a Schema backed by expr-lang/expr.
func NewExprSchema(rule string, opts ...ExprSchemaOption) (Schema, error) {
	if rule == "" {
		return nil, wrapRuleError("expr", rule, fmt.Errorf("rule must not be empty"))
	}
	s := &exprSchema{rule: rule}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	program, err := s.loadOrCompile()
	if err != nil {
		return nil, err
	}
	s.program = program
	return s, nil
}

// IsValid evaluates the compiled rule against value. Evaluation errors and
// non-boolean results count as invalid.
func (s *exprSchema) IsValid(value any) bool {
	result, err := exprlang.Run(s.program, s.environment(value))
	if err != nil {
		return false
	}
	valid, ok := result.(bool)
	return ok && valid
}

func (s *exprSchema) loadOrCompile() (*exprvm.Program, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(s.rule); ok {
			if program, ok := cached.(*exprvm.Program); ok {
				return program, nil
			}
		}
	}
	options := []exprlang.Option{
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	}
	for _, name := range s.registryNames() {
		fn := s.registryFunction(name)
		options = append(options, exprlang.Function(name, fn))
	}
	program, err := exprlang.Compile(s.rule, options...)
	if err != nil {
		return nil, wrapRuleError("expr", s.rule, err)
	}
	if s.cache != nil {
		s.cache.Set(s.rule, program)
	}
	return program, nil
}

func (s *exprSchema) environment(value any) map[string]any {
	env := map[string]any{"value": value}
	if fields, ok := value.(map[string]any); ok {
		for key, field := range fields {
			if key == "value" {
				continue
			}
			env[key] = field
		}
	}
	if s.registry != nil {
		env["call"] = func(name string, arguments ...any) (any, error) {
			return s.registry.Call(name, arguments...)
		}
		for _, name := range s.registry.Names() {
			fn := name
			env[fn] = func(arguments ...any) (any, error) {
				return s.registry.Call(fn, arguments...)
			}
		}
	}
	return env
}

func (s *exprSchema) registryNames() []string {
	if s == nil || s.registry == nil {
		return nil
	}
	return s.registry.Names()
}

func (s *exprSchema) registryFunction(name string) func(...any) (any, error) {
	if s == nil || s.registry == nil {
		return nil
	}
	return func(arguments ...any) (any, error) {
		return s.registry.Call(name, arguments...)
	}
}
