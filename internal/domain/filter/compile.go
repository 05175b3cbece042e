package filter

import (
	"sort"
	"strings"

	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain/constraint"
)

// Product age ranges are stored as a closed [age_min, age_max] interval, so a
// single "age" constraint compiles onto those two underlying numeric fields.
const (
	ageKey      = "age"
	ageMinField = "age_min"
	ageMaxField = "age_max"
)

// Compile converts extracted raw constraints into a backend filter.
//
// Pure and deterministic: keys are processed in sorted order and range
// operators in canonical order, so the same input always yields a
// structurally identical filter. Malformed clauses (null values, non-numeric
// range operands) are dropped silently; compilation never fails.
func Compile(raw constraint.Raw) Filter {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var leaves []Leaf
	for _, key := range keys {
		value := raw[key]
		if value.IsZero() {
			continue
		}

		if key == ageKey {
			leaves = append(leaves, compileAge(value)...)
			continue
		}

		if value.IsRange() {
			leaves = append(leaves, compileRange(key, value)...)
			continue
		}

		leaves = append(leaves, compileScalar(key, value))
	}

	return New(leaves...)
}

// compileAge maps an age constraint onto the age_min/age_max interval fields.
// A point age must fall inside the product's supported interval; a requested
// range must contain the product's interval. Any non-numeric operand for the
// active branch drops the whole clause, never a partial filter.
func compileAge(value constraint.Value) []Leaf {
	if !value.IsRange() {
		return nil
	}

	loRaw, hasLo := value.Operand(constraint.OpGte)
	hiRaw, hasHi := value.Operand(constraint.OpLte)
	if hasLo && hasHi {
		lo, loOK := constraint.Number(loRaw)
		hi, hiOK := constraint.Number(hiRaw)
		if !loOK || !hiOK {
			return nil
		}
		return []Leaf{
			{Field: ageMaxField, Op: constraint.OpLte, Value: hi},
			{Field: ageMinField, Op: constraint.OpGte, Value: lo},
		}
	}

	if raw, ok := value.Operand(constraint.OpEq); ok {
		v, numeric := constraint.Number(raw)
		if !numeric {
			return nil
		}
		return []Leaf{
			{Field: ageMinField, Op: constraint.OpLte, Value: v},
			{Field: ageMaxField, Op: constraint.OpGte, Value: v},
		}
	}

	if raw, ok := value.Operand(constraint.OpLt); ok {
		v, numeric := constraint.Number(raw)
		if !numeric {
			return nil
		}
		return []Leaf{{Field: ageMinField, Op: constraint.OpLt, Value: v}}
	}

	if raw, ok := value.Operand(constraint.OpGt); ok {
		v, numeric := constraint.Number(raw)
		if !numeric {
			return nil
		}
		return []Leaf{{Field: ageMaxField, Op: constraint.OpGt, Value: v}}
	}

	return nil
}

// compileRange emits one leaf per recognized operator with a numeric operand.
func compileRange(key string, value constraint.Value) []Leaf {
	var leaves []Leaf
	for _, op := range constraint.Operators {
		raw, ok := value.Operand(op)
		if !ok {
			continue
		}
		if v, numeric := constraint.Number(raw); numeric {
			leaves = append(leaves, Leaf{Field: key, Op: op, Value: v})
		}
	}
	return leaves
}

// compileScalar emits an equality leaf, case-folding string values to match
// the normalization applied at ingestion.
func compileScalar(key string, value constraint.Value) Leaf {
	v := value.ScalarValue()
	if s, ok := v.(string); ok {
		v = strings.ToLower(strings.TrimSpace(s))
	}
	return Leaf{Field: key, Op: constraint.OpEq, Value: v}
}
