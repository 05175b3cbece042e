package search

import (
	"context"

	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain"
	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain/constraint"
	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain/filter"
	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain/schema"
	domsearch "github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain/search"
)

// Extractor turns a free-text query into sparse raw constraints.
// Fail-open: extraction trouble yields an empty constraint set, never an error.
type Extractor interface {
	Extract(ctx context.Context, query string, sch schema.Schema) constraint.Raw
}

// Embedder vectorizes query text. The model must match the one used at
// catalog ingestion.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Repository runs filtered KNN retrieval against a catalog index.
type Repository interface {
	Query(
		ctx context.Context, catalog string,
		vector []float32, f filter.Filter, topK int,
	) ([]domsearch.Result, error)
}

// SchemaReader resolves the attribute schema for a catalog.
type SchemaReader interface {
	Get(catalog string) (schema.Schema, error)
}
