package index

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/db"
	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain"
	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain/filter"
	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain/search"
)

// store is the consumer interface for index queries (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.QueryResult, error)
}

// Repo implements usecase/search.Repository on top of the vector store.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates an index repository. keyPrefix is the hash key namespace,
// e.g. "retail:".
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// IndexName returns the FT index name for a catalog.
func (r *Repo) IndexName(catalog string) string {
	return fmt.Sprintf("%s%s:idx", r.keyPrefix, catalog)
}

// KeyPrefix returns the hash key prefix for a catalog's documents.
func (r *Repo) KeyPrefix(catalog string) string {
	return fmt.Sprintf("%s%s:", r.keyPrefix, catalog)
}

// Query performs a filtered KNN search on a catalog index and returns
// candidates ordered ascending by distance. Store failures surface as
// domain.ErrIndexUnavailable.
func (r *Repo) Query(
	ctx context.Context, catalog string,
	vector []float32, f filter.Filter, topK int,
) ([]search.Result, error) {
	q := &db.KNNQuery{
		IndexName: r.IndexName(catalog),
		Vector:    vector,
		K:         topK,
		Filter:    f,
	}

	qr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %v", domain.ErrIndexUnavailable, catalog, err)
	}

	return assembleResults(qr, r.KeyPrefix(catalog)), nil
}

// assembleResults zips the store's position-parallel arrays into candidate
// records. Hash keys are trimmed back to bare product IDs.
func assembleResults(qr *db.QueryResult, prefix string) []search.Result {
	if qr == nil || len(qr.IDs) == 0 {
		return nil
	}

	results := make([]search.Result, 0, len(qr.IDs))
	for i, key := range qr.IDs {
		var document string
		if i < len(qr.Documents) {
			document = qr.Documents[i]
		}
		var distance float64
		if i < len(qr.Distances) {
			distance = qr.Distances[i]
		}
		var metadata map[string]any
		if i < len(qr.Metadatas) {
			metadata = coerceMetadata(qr.Metadatas[i])
		}

		id := key
		if len(id) > len(prefix) && id[:len(prefix)] == prefix {
			id = id[len(prefix):]
		}

		results = append(results, search.NewResult(id, document, metadata, distance))
	}
	return results
}

// coerceMetadata converts flat hash fields to typed values: anything that
// parses as a number comes back float64, the rest stays string.
func coerceMetadata(fields map[string]string) map[string]any {
	m := make(map[string]any, len(fields))
	for k, v := range fields {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			m[k] = f
		} else {
			m[k] = v
		}
	}
	return m
}
