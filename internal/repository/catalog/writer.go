// Package catalog writes product hashes and manages the vector index for a
// catalog. It is the ingestion-side counterpart of repository/index.
package catalog

import (
	"context"
	"fmt"

	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/db"
	domschema "github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain/schema"
)

// store is the consumer interface for ingestion (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	Del(ctx context.Context, key string) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Product is one catalog row ready for ingestion: a JSON document blob, the
// flat metadata fields the pre-filter matches on, and the embedding vector.
type Product struct {
	ID       string
	Document string
	Metadata map[string]string
	Vector   []float32
}

// Writer ingests products into the vector store.
type Writer struct {
	store     store
	keyPrefix string
}

// New creates a catalog writer. keyPrefix scopes all keys and index names.
func New(s store, keyPrefix string) *Writer {
	return &Writer{store: s, keyPrefix: keyPrefix}
}

// IndexName returns the FT index name for a catalog.
func (w *Writer) IndexName(catalog string) string {
	return fmt.Sprintf("%s%s:idx", w.keyPrefix, catalog)
}

// KeyPrefix returns the document key prefix for a catalog.
func (w *Writer) KeyPrefix(catalog string) string {
	return fmt.Sprintf("%s%s:", w.keyPrefix, catalog)
}

// EnsureIndex creates the catalog's vector index if it does not exist.
// With recreate set, an existing index is dropped first; documents survive,
// only the index is rebuilt.
func (w *Writer) EnsureIndex(
	ctx context.Context, catalog string, sch domschema.Schema, dim int, recreate bool,
) error {
	name := w.IndexName(catalog)

	exists, err := w.store.IndexExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check index %s: %w", name, err)
	}
	if exists {
		if !recreate {
			return nil
		}
		if err := w.store.DropIndex(ctx, name); err != nil {
			return fmt.Errorf("drop index %s: %w", name, err)
		}
	}

	def := &db.IndexDefinition{
		Name:     name,
		Prefixes: []string{w.KeyPrefix(catalog)},
		Fields:   indexFields(sch, dim),
	}
	if err := w.store.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create index %s: %w", name, err)
	}
	return nil
}

// UpsertBatch writes a batch of products in one pipelined round trip.
func (w *Writer) UpsertBatch(ctx context.Context, catalog string, products []Product) error {
	if len(products) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, 0, len(products))
	for i := range products {
		p := &products[i]
		if p.ID == "" {
			return fmt.Errorf("product at position %d has empty id", i)
		}
		items = append(items, db.HashSetItem{
			Key:    w.KeyPrefix(catalog) + p.ID,
			Fields: buildHashFields(p),
		})
	}

	if err := w.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("upsert batch of %d: %w", len(items), err)
	}
	return nil
}

// Delete removes a product hash.
func (w *Writer) Delete(ctx context.Context, catalog, id string) error {
	key := w.KeyPrefix(catalog) + id
	if err := w.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// buildHashFields flattens a product into the hash layout the index reads:
// reserved __document/__vector fields plus one field per metadata attribute.
func buildHashFields(p *Product) map[string]string {
	m := make(map[string]string, 2+len(p.Metadata))
	m["__document"] = p.Document
	m["__vector"] = db.VectorBytes(p.Vector)
	for k, v := range p.Metadata {
		m[k] = v
	}
	return m
}

// indexFields maps schema attribute types onto FT field types: numeric
// attributes become NUMERIC so range filters work, everything else becomes
// TAG so the pre-filter matches values exactly. Dates stay TAG because the
// query side compiles date constraints as string equality.
func indexFields(sch domschema.Schema, dim int) []db.IndexField {
	fields := make([]db.IndexField, 0, len(sch)+1)
	fields = append(fields, db.IndexField{
		Name:           "__vector",
		Type:           db.IndexFieldVector,
		VectorDim:      dim,
		VectorDistance: db.DistanceCosine,
	})

	for _, name := range sch.Names() {
		if sch[name].Type == domschema.NumberRange {
			fields = append(fields, db.IndexField{Name: name, Type: db.IndexFieldNumeric})
			continue
		}
		fields = append(fields, db.IndexField{Name: name, Type: db.IndexFieldTag})
	}
	return fields
}
