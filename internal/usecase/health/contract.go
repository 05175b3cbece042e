package health

import (
	"context"

	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain/schema"
)

// DBPinger checks vector store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// SchemaReader resolves the attribute schema for a catalog.
type SchemaReader interface {
	Get(catalog string) (schema.Schema, error)
}
