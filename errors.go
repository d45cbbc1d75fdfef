package prefs

import (
	"errors"
	"fmt"
)

// DuplicateKeyError reports a second claim on an already-registered key.
type DuplicateKeyError struct {
	Key string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("prefs: key %q is already registered", e.Key)
}

// InvalidDefaultValueError reports a configured default value rejected by the
// accessor's own validator.
type InvalidDefaultValueError struct {
	Key string
}

func (e *InvalidDefaultValueError) Error() string {
	return fmt.Sprintf("prefs: default value for key %q fails validation", e.Key)
}

// MissingMarshalError reports a non-string default value configured without a
// marshal function; such a default could never be written to the string-only
// store.
type MissingMarshalError struct {
	Key string
}

func (e *MissingMarshalError) Error() string {
	return fmt.Sprintf("prefs: non-string default for key %q requires a marshal function", e.Key)
}

// RuleError captures schema engine metadata alongside the originating error.
type RuleError struct {
	Engine string
	Rule   string
	Err    error
}

func (e *RuleError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("prefs: %s schema %s: %v", e.Engine, describeRule(e.Rule), e.Err)
}

func (e *RuleError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeRule(rule string) string {
	if rule == "" {
		return "rule=<empty>"
	}
	return fmt.Sprintf("rule=%q", rule)
}

func wrapRuleError(engine, rule string, err error) error {
	if err == nil {
		return nil
	}

	var ruleErr *RuleError
	if errors.As(err, &ruleErr) {
		if ruleErr.Engine == "" {
			ruleErr.Engine = engine
		}
		if ruleErr.Rule == "" {
			ruleErr.Rule = rule
		}
		return ruleErr
	}

	return &RuleError{Engine: engine, Rule: rule, Err: err}
}
