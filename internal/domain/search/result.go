package search

// Result is one retrieved candidate from the vector index. Owned transiently
// by the search call; never persisted by this core.
type Result struct {
	id       string
	document string
	metadata map[string]any
	distance float64
}

// NewResult creates a search result.
func NewResult(id, document string, metadata map[string]any, distance float64) Result {
	return Result{id: id, document: document, metadata: metadata, distance: distance}
}

// ID returns the product identifier.
func (r *Result) ID() string { return r.id }

// Document returns the structured text blob embedded at ingestion time.
func (r *Result) Document() string { return r.document }

// Metadata returns the structured attribute values.
func (r *Result) Metadata() map[string]any { return r.metadata }

// Distance returns the vector distance to the query (lower = more similar).
func (r *Result) Distance() float64 { return r.distance }
