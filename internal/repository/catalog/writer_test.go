package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/db"
	domschema "github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain/schema"
)

type mockStore struct {
	hsetMultiFunc   func(ctx context.Context, items []db.HashSetItem) error
	delFunc         func(ctx context.Context, key string) error
	createIndexFunc func(ctx context.Context, def *db.IndexDefinition) error
	dropIndexFunc   func(ctx context.Context, name string) error
	indexExistsFunc func(ctx context.Context, name string) (bool, error)
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	return m.hsetMultiFunc(ctx, items)
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	return m.delFunc(ctx, key)
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	return m.createIndexFunc(ctx, def)
}

func (m *mockStore) DropIndex(ctx context.Context, name string) error {
	return m.dropIndexFunc(ctx, name)
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	return m.indexExistsFunc(ctx, name)
}

func testSchema() domschema.Schema {
	return domschema.Schema{
		"color":   {Type: domschema.Enum, Rules: domschema.Rules{Values: []string{"blue", "red"}}},
		"notes":   {Type: domschema.String},
		"price":   {Type: domschema.NumberRange},
		"release": {Type: domschema.Date},
	}
}

func TestEnsureIndex_CreatesWhenAbsent(t *testing.T) {
	var created *db.IndexDefinition
	m := &mockStore{
		indexExistsFunc: func(_ context.Context, _ string) (bool, error) { return false, nil },
		createIndexFunc: func(_ context.Context, def *db.IndexDefinition) error {
			created = def
			return nil
		},
	}

	w := New(m, "retail:")
	if err := w.EnsureIndex(context.Background(), "product_catalog", testSchema(), 1536, false); err != nil {
		t.Fatalf("EnsureIndex: %v", err)
	}

	if created == nil {
		t.Fatal("expected CreateIndex to be called")
	}
	if created.Name != "retail:product_catalog:idx" {
		t.Errorf("index name: got %s", created.Name)
	}
	if len(created.Prefixes) != 1 || created.Prefixes[0] != "retail:product_catalog:" {
		t.Errorf("prefixes: got %v", created.Prefixes)
	}

	types := make(map[string]db.IndexFieldType, len(created.Fields))
	for _, f := range created.Fields {
		types[f.Name] = f.Type
	}
	if types["__vector"] != db.IndexFieldVector {
		t.Errorf("__vector: got %s", types["__vector"])
	}
	if types["price"] != db.IndexFieldNumeric {
		t.Errorf("price: got %s", types["price"])
	}
	for _, tag := range []string{"color", "notes", "release"} {
		if types[tag] != db.IndexFieldTag {
			t.Errorf("%s: got %s, want tag", tag, types[tag])
		}
	}

	for _, f := range created.Fields {
		if f.Name == "__vector" && f.VectorDim != 1536 {
			t.Errorf("vector dim: got %d", f.VectorDim)
		}
	}
}

func TestEnsureIndex_ExistingIsNoop(t *testing.T) {
	m := &mockStore{
		indexExistsFunc: func(_ context.Context, _ string) (bool, error) { return true, nil },
		createIndexFunc: func(_ context.Context, _ *db.IndexDefinition) error {
			t.Fatal("CreateIndex must not be called")
			return nil
		},
	}

	w := New(m, "retail:")
	if err := w.EnsureIndex(context.Background(), "product_catalog", testSchema(), 1536, false); err != nil {
		t.Fatalf("EnsureIndex: %v", err)
	}
}

func TestEnsureIndex_RecreateDropsFirst(t *testing.T) {
	var dropped string
	var created bool
	m := &mockStore{
		indexExistsFunc: func(_ context.Context, _ string) (bool, error) { return true, nil },
		dropIndexFunc: func(_ context.Context, name string) error {
			dropped = name
			return nil
		},
		createIndexFunc: func(_ context.Context, _ *db.IndexDefinition) error {
			created = true
			return nil
		},
	}

	w := New(m, "retail:")
	if err := w.EnsureIndex(context.Background(), "product_catalog", testSchema(), 1536, true); err != nil {
		t.Fatalf("EnsureIndex: %v", err)
	}
	if dropped != "retail:product_catalog:idx" {
		t.Errorf("dropped: got %s", dropped)
	}
	if !created {
		t.Error("expected CreateIndex after drop")
	}
}

func TestUpsertBatch_BuildsHashItems(t *testing.T) {
	var got []db.HashSetItem
	m := &mockStore{
		hsetMultiFunc: func(_ context.Context, items []db.HashSetItem) error {
			got = items
			return nil
		},
	}

	w := New(m, "retail:")
	err := w.UpsertBatch(context.Background(), "product_catalog", []Product{
		{
			ID:       "PRD1",
			Document: `{"title":"red dress"}`,
			Metadata: map[string]string{"color": "red", "price": "1299"},
			Vector:   []float32{0.1, 0.2},
		},
	})
	if err != nil {
		t.Fatalf("UpsertBatch: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got))
	}
	item := got[0]
	if item.Key != "retail:product_catalog:PRD1" {
		t.Errorf("key: got %s", item.Key)
	}
	if item.Fields["__document"] != `{"title":"red dress"}` {
		t.Errorf("__document: got %s", item.Fields["__document"])
	}
	if item.Fields["color"] != "red" || item.Fields["price"] != "1299" {
		t.Errorf("metadata fields: got %v", item.Fields)
	}
	if len(item.Fields["__vector"]) != 8 {
		t.Errorf("__vector: got %d bytes, want 8", len(item.Fields["__vector"]))
	}
}

func TestUpsertBatch_EmptyIDRejected(t *testing.T) {
	m := &mockStore{
		hsetMultiFunc: func(_ context.Context, _ []db.HashSetItem) error {
			t.Fatal("HSetMulti must not be called")
			return nil
		},
	}

	w := New(m, "retail:")
	err := w.UpsertBatch(context.Background(), "product_catalog", []Product{{ID: ""}})
	if err == nil || !strings.Contains(err.Error(), "empty id") {
		t.Fatalf("expected empty id error, got %v", err)
	}
}

func TestUpsertBatch_EmptyBatchIsNoop(t *testing.T) {
	w := New(&mockStore{}, "retail:")
	if err := w.UpsertBatch(context.Background(), "product_catalog", nil); err != nil {
		t.Fatalf("empty batch: %v", err)
	}
}

func TestUpsertBatch_StoreErrorWrapped(t *testing.T) {
	storeErr := errors.New("connection refused")
	m := &mockStore{
		hsetMultiFunc: func(_ context.Context, _ []db.HashSetItem) error { return storeErr },
	}

	w := New(m, "retail:")
	err := w.UpsertBatch(context.Background(), "product_catalog", []Product{{ID: "PRD1"}})
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	var deleted string
	m := &mockStore{
		delFunc: func(_ context.Context, key string) error {
			deleted = key
			return nil
		},
	}

	w := New(m, "retail:")
	if err := w.Delete(context.Background(), "product_catalog", "PRD1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted != "retail:product_catalog:PRD1" {
		t.Errorf("deleted key: got %s", deleted)
	}
}
