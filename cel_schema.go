package prefs

import (
	"fmt"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// CELSchemaOption configures a CEL-backed schema.
type CELSchemaOption func(*celSchema)

// CELWithProgramCache wires a ProgramCache into schema compilation.
func CELWithProgramCache(cache ProgramCache) CELSchemaOption {
	return func(s *celSchema) {
		s.cache = cache
	}
}

// CELWithFunctionRegistry exposes registry helpers through the call(name,
// arg) function.
func CELWithFunctionRegistry(registry *FunctionRegistry) CELSchemaOption {
	return func(s *celSchema) {
		if registry == nil {
			return
		}
		s.registry = registry.Clone()
	}
}

// celSchema validates values by evaluating a rule with cel-go. The rule sees
// the candidate under "value" and must produce a boolean.
type celSchema struct {
	rule     string
	cache    ProgramCache
	registry *FunctionRegistry
	program  celgo.Program
}

// NewCELSchema compiles rule into a Schema backed by cel-go.
func NewCELSchema(rule string, opts ...CELSchemaOption) (Schema, error) {
	if rule == "" {
		return nil, wrapRuleError("cel", rule, fmt.Errorf("rule must not be empty"))
	}
	s := &celSchema{rule: rule}
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
func (s *celSchema) IsValid(value any) bool {
	out, _, err := s.program.Eval(s.activation(value))
	if err != nil {
		return false
	}
	valid, ok := out.Value().(bool)
	return ok && valid
}

func (s *celSchema) loadOrCompile() (celgo.Program, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(s.rule); ok {
			if program, ok := cached.(celgo.Program); ok {
				return program, nil
			}
		}
	}

	env, err := s.buildEnv()
	if err != nil {
		return nil, wrapRuleError("cel", s.rule, err)
	}
	ast, issues := env.Parse(s.rule)
	if issues != nil && issues.Err() != nil {
		return nil, wrapRuleError("cel", s.rule, issues.Err())
	}
	checked, issues := env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, wrapRuleError("cel", s.rule, issues.Err())
	}
	program, err := env.Program(checked)
	if err != nil {
		return nil, wrapRuleError("cel", s.rule, err)
	}

	if s.cache != nil {
		s.cache.Set(s.rule, program)
	}
	return program, nil
}

func (s *celSchema) buildEnv() (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("value", celgo.DynType),
	}
	if s.registry != nil {
		opts = append(opts, celgo.Function("call",
			celgo.Overload("call_string_dyn",
				[]*celgo.Type{celgo.StringType, celgo.DynType},
				celgo.DynType,
				celgo.FunctionBinding(s.callBinding()),
			),
		))
	}
	return celgo.NewEnv(opts...)
}

func (s *celSchema) activation(value any) map[string]any {
	return map[string]any{"value": value}
}

func (s *celSchema) callBinding() func(...ref.Val) ref.Val {
	return func(values ...ref.Val) ref.Val {
		if s.registry == nil {
			return types.NewErr("prefs: function registry not configured")
		}
		if len(values) == 0 {
			return types.NewErr("prefs: call requires function name")
		}
		name, ok := values[0].Value().(string)
		if !ok {
			return types.NewErr("prefs: call name must be string")
		}
		args := make([]any, 0, len(values)-1)
		for _, val := range values[1:] {
			args = append(args, val.Value())
		}
		result, err := s.registry.Call(name, args...)
		if err != nil {
			return types.NewErr("%s", err.Error())
		}
		if result == nil {
			return types.NullValue
		}
		return types.DefaultTypeAdapter.NativeToValue(result)
	}
}
