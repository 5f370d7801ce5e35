package domain

import (
	"fmt"
	"math"
)

// ParamType enumerates the value types a strategy parameter can take.
type ParamType string

const (
	ParamNumber  ParamType = "number"
	ParamString  ParamType = "string"
	ParamBoolean ParamType = "boolean"
)

// ParamDef declares one strategy parameter: its identity, type, default, and
// the numeric bounds or enumerated options used by the UI surface and the
// grid-search optimizer.
type ParamDef struct {
	Name    string    `json:"name"`
	Label   string    `json:"label"`
	Type    ParamType `json:"type"`
	Default any       `json:"default"`

	// Numeric parameters only. A parameter is optimizable when Min <= Max
	// and Step > 0 and none of them are NaN.
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Step *float64 `json:"step,omitempty"`

	// Enumerated choices for string parameters (optional).
	Options []string `json:"options,omitempty"`
}

// Optimizable reports whether this parameter defines a valid numeric search
// range. Invalid bounds are not an error; the parameter is simply held at
// its default during optimization.
func (d ParamDef) Optimizable() bool {
	if d.Type != ParamNumber || d.Min == nil || d.Max == nil || d.Step == nil {
		return false
	}
	if math.IsNaN(*d.Min) || math.IsNaN(*d.Max) || math.IsNaN(*d.Step) {
		return false
	}
	return *d.Min <= *d.Max && *d.Step > 0
}

// Params is a resolved strategy parameter bag, keyed by ParamDef.Name.
type Params map[string]any

// Number reads a numeric parameter, accepting float64 or int values.
func (p Params) Number(name string, fallback float64) float64 {
	switch v := p[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return fallback
}

// String reads a string parameter.
func (p Params) String(name string, fallback string) string {
	if v, ok := p[name].(string); ok {
		return v
	}
	return fallback
}

// Bool reads a boolean parameter.
func (p Params) Bool(name string, fallback bool) bool {
	if v, ok := p[name].(bool); ok {
		return v
	}
	return fallback
}

// Clone returns a shallow copy of the bag. Values are scalars, so a shallow
// copy is sufficient for isolation.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// DefaultParams builds the all-defaults bag from a parameter definition
// list.
func DefaultParams(defs []ParamDef) Params {
	out := make(Params, len(defs))
	for _, d := range defs {
		out[d.Name] = d.Default
	}
	return out
}

// MergeParams overlays user-supplied values on the defaults from defs.
// User values always win; entries absent from user keep their default.
func MergeParams(defs []ParamDef, user Params) Params {
	out := DefaultParams(defs)
	for k, v := range user {
		out[k] = v
	}
	return out
}

// ValidateParams checks a user-supplied bag against the definition list,
// rejecting unknown keys and type-mismatched values at the boundary rather
// than at arithmetic time. Numeric values may arrive as int or float64 (JSON
// and YAML decoding produce either).
func ValidateParams(defs []ParamDef, user Params) error {
	byName := make(map[string]ParamDef, len(defs))
	for _, d := range defs {
		byName[d.Name] = d
	}
	for k, v := range user {
		d, ok := byName[k]
		if !ok {
			return fmt.Errorf("unknown parameter %q", k)
		}
		switch d.Type {
		case ParamNumber:
			switch v.(type) {
			case float64, int:
			default:
				return fmt.Errorf("parameter %q: expected number, got %T", k, v)
			}
		case ParamString:
			if _, ok := v.(string); !ok {
				return fmt.Errorf("parameter %q: expected string, got %T", k, v)
			}
		case ParamBoolean:
			if _, ok := v.(bool); !ok {
				return fmt.Errorf("parameter %q: expected boolean, got %T", k, v)
			}
		default:
			return fmt.Errorf("parameter %q: unsupported type %q", k, d.Type)
		}
	}
	return nil
}
