package db

import (
	"context"
	"time"

	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain/filter"
)

// Store is the vector store facade. Consumers depend on the narrow
// sub-interfaces, not on Store itself.
type Store interface {
	Pinger
	HashStore
	IndexManager
	Searcher
	KV
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// KV provides plain key-value operations, used by the embedding cache.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashSetItem holds a single key+fields pair for pipelined HSET.
type HashSetItem struct {
	Key    string
	Fields map[string]string
}

// HashStore provides hash-based document operations used by ingestion.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []HashSetItem) error
	Del(ctx context.Context, key string) error
}

// IndexManager provides FT index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Searcher provides KNN retrieval over an FT index.
type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*QueryResult, error)
}

// KNNQuery describes a vector similarity search with an optional pre-filter.
type KNNQuery struct {
	IndexName string
	Vector    []float32
	K         int
	Filter    filter.Filter
}

// QueryResult carries search hits as parallel arrays indexed by result
// position, mirroring the vector index wire contract. Callers reassemble
// these into per-candidate records; the arrays are always equal length.
type QueryResult struct {
	IDs       []string
	Documents []string
	Metadatas []map[string]string
	Distances []float64
}

// Index field types.
type IndexFieldType string

const (
	IndexFieldTag     IndexFieldType = "tag"
	IndexFieldText    IndexFieldType = "text"
	IndexFieldNumeric IndexFieldType = "numeric"
	IndexFieldVector  IndexFieldType = "vector"
)

// Vector distance metrics.
type VectorDistance string

const (
	DistanceCosine VectorDistance = "COSINE"
	DistanceL2     VectorDistance = "L2"
)

// IndexField describes one field of an FT index schema.
type IndexField struct {
	Name            string
	Type            IndexFieldType
	VectorDim       int
	VectorDistance  VectorDistance
	HNSWM           int
	HNSWEFConstruct int
}

// IndexDefinition describes an FT index over hash documents.
type IndexDefinition struct {
	Name     string
	Prefixes []string
	Fields   []IndexField
}
