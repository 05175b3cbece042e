package search

import "fmt"

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 2048
	DefaultTopK    = 5
	MaxTopK        = 50
)

// Request is a validated product search query.
type Request struct {
	query string
	topK  int
}

// NewRequest validates and normalizes search parameters.
// Defaults: topK=5, clamped to 50.
func NewRequest(query string, topK int) (Request, error) {
	if query == "" {
		return Request{}, fmt.Errorf("query is required")
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}
	return Request{query: query, topK: topK}, nil
}

// Query returns the raw user query text.
func (r *Request) Query() string { return r.query }

// TopK returns the number of candidates to retrieve. The index may return
// fewer when the filter is highly selective.
func (r *Request) TopK() int { return r.topK }
