// Package schema implements a declarative, rule-set driven validation engine.
//
// Each operation declares an ordered RuleSet; every FieldRule names an input
// field, the primitive model it must satisfy and whether it is required.
// Models live in an open registry so new primitive kinds can be added without
// touching call sites.
package schema

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

// FieldRule declares how a single field of an input payload is checked.
type FieldRule struct {
	Path     string
	Model    string
	Required bool
}

// RuleSet is the ordered list of FieldRules consumed for one operation.
type RuleSet []FieldRule

// ModelFunc reports whether a present value satisfies a named primitive model.
type ModelFunc func(value interface{}) bool

// Validator applies RuleSets to input payloads.
type Validator struct {
	validate *validator.Validate
	models   map[string]ModelFunc
}

// NewValidator returns a Validator with all built-in models registered.
func NewValidator(validate *validator.Validate) *Validator {
	v := &Validator{
		validate: validate,
		models:   make(map[string]ModelFunc),
	}
	v.registerBuiltins()
	return v
}

// Register adds (or replaces) a named model.
func (v *Validator) Register(name string, fn ModelFunc) {
	v.models[name] = fn
}

// Validate checks input against rules. The first failing field short-circuits
// and is returned as a *core.ValidationError; nil means the input is
// structurally valid for the operation.
//
// A rule referencing an unregistered model is a programming error and is
// returned as a plain fault, distinct from a validation failure.
func (v *Validator) Validate(rules RuleSet, input map[string]interface{}) error {
	for _, rule := range rules {
		val, ok := input[rule.Path]
		if !ok || isEmpty(val) {
			if rule.Required {
				return core.NewValidationError(fmt.Errorf("%s is required", rule.Path))
			}
			continue
		}

		fn, ok := v.models[rule.Model]
		if !ok {
			return errors.Errorf("schema: unknown model %q for field %q", rule.Model, rule.Path)
		}
		if !fn(val) {
			return core.NewValidationError(fmt.Errorf("%s is invalid", rule.Path))
		}
	}
	return nil
}

// isEmpty treats zero values as absent: JSON payloads bound onto Go structs
// surface missing fields as "" / nil.
func isEmpty(val interface{}) bool {
	switch v := val.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []string:
		return v == nil
	case []interface{}:
		return v == nil
	}
	return false
}
