package constraint

import (
	"encoding/json"
	"fmt"
)

// Range operators recognized in extracted constraints.
const (
	OpEq  = "$eq"
	OpLt  = "$lt"
	OpGt  = "$gt"
	OpGte = "$gte"
	OpLte = "$lte"
)

// Operators lists the recognized range operators in canonical order.
// The order is fixed so that downstream compilation is deterministic.
var Operators = []string{OpEq, OpLt, OpGt, OpGte, OpLte}

// IsOperator reports whether s is a recognized range operator.
func IsOperator(s string) bool {
	switch s {
	case OpEq, OpLt, OpGt, OpGte, OpLte:
		return true
	}
	return false
}

// Raw is a sparse set of extracted constraints: attribute key to value.
// It is the untrusted output of the LLM extraction step; the filter compiler
// is responsible for dropping anything malformed.
type Raw map[string]Value

// Value is either a scalar (string or number) or a range object holding
// recognized operators. The zero Value is absent.
type Value struct {
	scalar    any
	hasScalar bool
	ranges    map[string]any
}

// Scalar creates a scalar constraint value.
func Scalar(v any) Value {
	return Value{scalar: v, hasScalar: true}
}

// Ranges creates a range constraint value from operator to operand pairs.
// Unrecognized operators are dropped.
func Ranges(ops map[string]any) Value {
	kept := make(map[string]any, len(ops))
	for op, operand := range ops {
		if IsOperator(op) {
			kept[op] = operand
		}
	}
	return Value{ranges: kept}
}

// IsZero reports whether the value is absent (a null or missing constraint).
func (v Value) IsZero() bool {
	return !v.hasScalar && v.ranges == nil
}

// IsScalar reports whether the value is a scalar.
func (v Value) IsScalar() bool { return v.hasScalar }

// ScalarValue returns the scalar payload.
func (v Value) ScalarValue() any { return v.scalar }

// IsRange reports whether the value is a range object.
func (v Value) IsRange() bool { return v.ranges != nil }

// Operand returns the operand for a range operator, if present.
func (v Value) Operand(op string) (any, bool) {
	operand, ok := v.ranges[op]
	return operand, ok
}

// UnmarshalJSON decodes a constraint value. Objects become ranges (keeping
// only recognized operators), everything else becomes a scalar. Explicit
// nulls decode to the zero Value.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode constraint value: %w", err)
	}

	switch t := raw.(type) {
	case nil:
		*v = Value{}
	case map[string]any:
		*v = Ranges(t)
	default:
		*v = Scalar(t)
	}
	return nil
}

// MarshalJSON encodes the value back into its wire shape. Used for logging
// extracted constraints.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.hasScalar {
		return json.Marshal(v.scalar)
	}
	if v.ranges != nil {
		return json.Marshal(v.ranges)
	}
	return []byte("null"), nil
}

// Number coerces a range operand to float64. JSON numbers decode to float64;
// anything else (strings, bools, nulls, nested objects) is not numeric.
func Number(operand any) (float64, bool) {
	switch n := operand.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
