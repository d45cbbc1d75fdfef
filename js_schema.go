//go:build js_eval

package prefs

import (
	"fmt"

	"github.com/dop251/goja"
)

// jsSchema validates values by evaluating a rule with goja. The rule sees
// the candidate under "value" and must produce a boolean.
type jsSchema struct {
	rule     string
	cache    ProgramCache
	registry *FunctionRegistry
	program  *goja.Program
}

// NewJSSchema compiles rule into a Schema backed by goja.
func NewJSSchema(rule string, opts ...JSSchemaOption) (Schema, error) {
	if rule == "" {
		return nil, wrapRuleError("js", rule, fmt.Errorf("rule must not be empty"))
	}
	cfg := applyJSSchemaOptions(opts)
	s := &jsSchema{
		rule:     rule,
		cache:    cfg.cache,
		registry: cfg.registry,
	}
	program, err := s.loadOrCompile()
	if err != nil {
		return nil, err
	}
	s.program = program
	return s, nil
}

// IsValid evaluates the compiled rule against value in a fresh runtime.
// Evaluation errors and non-boolean results count as invalid.
func (s *jsSchema) IsValid(value any) bool {
	vm := goja.New()
	vm.Set("value", value)
	if s.registry != nil {
		vm.Set("call", func(name string, arguments ...any) (any, error) {
			return s.registry.Call(name, arguments...)
		})
		for _, name := range s.registry.Names() {
			fn := name
			vm.Set(fn, func(arguments ...any) (any, error) {
				return s.registry.Call(fn, arguments...)
			})
		}
	}
	result, err := vm.RunProgram(s.program)
	if err != nil {
		return false
	}
	valid, ok := result.Export().(bool)
	return ok && valid
}

func (s *jsSchema) loadOrCompile() (*goja.Program, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(s.rule); ok {
			if program, ok := cached.(*goja.Program); ok {
				return program, nil
			}
		}
	}
	program, err := goja.Compile("", wrapJSRule(s.rule), false)
	if err != nil {
		return nil, wrapRuleError("js", s.rule, err)
	}
	if s.cache != nil {
		s.cache.Set(s.rule, program)
	}
	return program, nil
}

func wrapJSRule(rule string) string {
	return fmt.Sprintf("(function(){ return (%s); })()", rule)
}

func jsSchemaAvailable() bool {
	return true
}
