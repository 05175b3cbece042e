package domain

import "context"

// EmbeddingResult holds a computed embedding with provider token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder vectorizes text into embeddings.
//
// The model behind an Embedder must be the same one used at catalog ingestion
// time. A mismatch does not fail: it silently produces meaningless rankings.
// The pairing is a correctness-critical configuration invariant: config
// validation only enforces that a model is set, so keeping query and
// ingestion runs on the same config is on the operator.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker is implemented by providers that can verify upstream availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
