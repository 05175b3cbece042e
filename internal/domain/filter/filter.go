package filter

// Leaf is a single atomic predicate over one catalog attribute.
type Leaf struct {
	Field string
	Op    string // one of constraint.Operators
	Value any    // string for tag equality, float64 for numeric bounds
}

// Filter is a compiled boolean filter: a flat conjunction of leaves.
// Zero leaves is the universal filter, matching every indexed item; callers
// must then pass no where clause to the index, never an empty conjunction.
type Filter struct {
	leaves []Leaf
}

// New creates a filter from leaves.
func New(leaves ...Leaf) Filter {
	return Filter{leaves: leaves}
}

// Universal returns the filter matching every indexed item.
func Universal() Filter { return Filter{} }

// IsUniversal reports whether the filter applies no constraint.
func (f Filter) IsUniversal() bool { return len(f.leaves) == 0 }

// Leaves returns the predicates in compilation order.
func (f Filter) Leaves() []Leaf { return f.leaves }

// WhereClause renders the filter in the index's native where-document shape:
// nil for universal, the bare leaf document when there is exactly one leaf,
// and a $and wrapper otherwise. Vector stores commonly reject a single-element
// boolean combinator, hence the no-wrap-when-singular rule.
func (f Filter) WhereClause() map[string]any {
	switch len(f.leaves) {
	case 0:
		return nil
	case 1:
		return leafClause(f.leaves[0])
	default:
		clauses := make([]map[string]any, 0, len(f.leaves))
		for _, l := range f.leaves {
			clauses = append(clauses, leafClause(l))
		}
		return map[string]any{"$and": clauses}
	}
}

// leafClause renders one predicate. Equality on a scalar keeps the shorthand
// {field: value} form the ingestion side uses; comparisons keep the operator.
func leafClause(l Leaf) map[string]any {
	if l.Op == "$eq" {
		if _, isNumeric := l.Value.(float64); !isNumeric {
			return map[string]any{l.Field: l.Value}
		}
	}
	return map[string]any{l.Field: map[string]any{l.Op: l.Value}}
}
