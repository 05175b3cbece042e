package schema

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"
)

// AttrType classifies a catalog attribute, as produced by the offline CSV profiler.
type AttrType string

const (
	// NumberRange is a numeric attribute filterable with comparison operators.
	NumberRange AttrType = "number_range"
	// Date is a date attribute filterable with comparison operators.
	Date AttrType = "date"
	// Enum is a low-cardinality string attribute with a closed value set.
	Enum AttrType = "enum"
	// String is a free-text attribute.
	String AttrType = "string"
)

// IsValid reports whether the attribute type is one of the profiler outputs.
func (t AttrType) IsValid() bool {
	switch t {
	case NumberRange, Date, Enum, String:
		return true
	}
	return false
}

// Rules holds per-attribute filtering rules from the schema file.
type Rules struct {
	Operators   []string `json:"operators,omitempty"`
	Values      []string `json:"values,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Attribute describes one filterable catalog attribute.
type Attribute struct {
	Type  AttrType `json:"type"`
	Rules Rules    `json:"rules"`
}

// Schema maps attribute names to their definitions for one catalog.
// Attribute names are non-empty lowercase strings.
type Schema map[string]Attribute

// Parse decodes and validates a schema JSON document.
// Enum value lists are normalized: lowercased, deduplicated, sorted.
func Parse(data []byte) (Schema, error) {
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	if _, ok := probe.(map[string]any); !ok {
		return nil, fmt.Errorf("schema root must be a JSON object, got %T", probe)
	}

	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse schema attributes: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	for name, attr := range s {
		if attr.Type == Enum {
			attr.Rules.Values = normalizeEnumValues(attr.Rules.Values)
			s[name] = attr
		}
	}

	return s, nil
}

// Validate checks schema invariants: non-empty lowercase names, known types.
func (s Schema) Validate() error {
	for name, attr := range s {
		if name == "" {
			return fmt.Errorf("empty attribute name")
		}
		if name != strings.ToLower(name) {
			return fmt.Errorf("attribute name %q must be lowercase", name)
		}
		if !attr.Type.IsValid() {
			return fmt.Errorf("attribute %q has unknown type %q", name, attr.Type)
		}
	}
	return nil
}

// Has reports whether the schema declares the attribute.
func (s Schema) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the attribute names in sorted order.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeEnumValues(values []string) []string {
	if len(values) == 0 {
		return values
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToLower(v))
	}
	sort.Strings(out)
	return slices.Compact(out)
}
