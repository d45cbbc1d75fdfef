//go:build !js_eval

package prefs

import "fmt"

// NewJSSchema is unavailable without the js_eval build tag.
func NewJSSchema(rule string, opts ...JSSchemaOption) (Schema, error) {
	_ = applyJSSchemaOptions(opts)
	return nil, wrapRuleError("js", rule, fmt.Errorf("requires the js_eval build tag"))
}

func jsSchemaAvailable() bool {
	return false
}
