package search

// Product is the caller-facing representation of one retrieved catalog item.
// Fields carries the configured document-provenance fields plus every
// schema-declared attribute, present or empty.
type Product struct {
	ID       string         `json:"id"`
	Distance float64        `json:"distance"`
	Fields   map[string]any `json:"fields"`
}
