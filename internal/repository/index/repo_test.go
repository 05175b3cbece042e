package index

import (
	"context"
	"errors"
	"testing"

	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/db"
	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain"
	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain/filter"
)

func TestQuery_HappyPath(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.searchKNNFn = func(_ context.Context, q *db.KNNQuery) (*db.QueryResult, error) {
		if q.IndexName != "retail:product_catalog:idx" {
			t.Errorf("unexpected index: %s", q.IndexName)
		}
		if q.K != 5 {
			t.Errorf("unexpected K: %d", q.K)
		}
		return &db.QueryResult{
			IDs:       []string{"retail:product_catalog:PRD1", "retail:product_catalog:PRD2"},
			Documents: []string{`{"title":"red dress"}`, `{"title":"maroon gown"}`},
			Metadatas: []map[string]string{
				{"color": "red", "price": "1999"},
				{"color": "maroon"},
			},
			Distances: []float64{0.12, 0.34},
		}, nil
	}

	results, err := repo.Query(ctx, "product_catalog", testVector(), filter.Universal(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID() != "PRD1" {
		t.Errorf("expected ID PRD1, got %s", results[0].ID())
	}
	if results[0].Distance() != 0.12 {
		t.Errorf("expected distance 0.12, got %f", results[0].Distance())
	}
	if results[0].Document() != `{"title":"red dress"}` {
		t.Errorf("unexpected document: %s", results[0].Document())
	}
}

func TestQuery_CoercesNumericMetadata(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.QueryResult, error) {
		return &db.QueryResult{
			IDs:       []string{"retail:product_catalog:PRD1"},
			Documents: []string{"{}"},
			Metadatas: []map[string]string{{"price": "1999", "color": "red"}},
			Distances: []float64{0.1},
		}, nil
	}

	results, err := repo.Query(context.Background(), "product_catalog", testVector(), filter.Universal(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	meta := results[0].Metadata()
	if price, ok := meta["price"].(float64); !ok || price != 1999 {
		t.Errorf("expected price float64 1999, got %#v", meta["price"])
	}
	if color, ok := meta["color"].(string); !ok || color != "red" {
		t.Errorf("expected color string red, got %#v", meta["color"])
	}
}

func TestQuery_PassesFilterThrough(t *testing.T) {
	repo, ms := newTestRepo(t)

	f := filter.New(filter.Leaf{Field: "color", Op: "$eq", Value: "red"})
	ms.searchKNNFn = func(_ context.Context, q *db.KNNQuery) (*db.QueryResult, error) {
		if q.Filter.IsUniversal() {
			t.Error("expected filter to be forwarded")
		}
		return &db.QueryResult{}, nil
	}

	if _, err := repo.Query(context.Background(), "product_catalog", testVector(), f, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestQuery_Empty(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.QueryResult, error) {
		return &db.QueryResult{}, nil
	}

	results, err := repo.Query(context.Background(), "product_catalog", testVector(), filter.Universal(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results != nil {
		t.Fatalf("expected nil results, got %v", results)
	}
}

func TestQuery_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.QueryResult, error) {
		return nil, errors.New("connection refused")
	}

	_, err := repo.Query(context.Background(), "product_catalog", testVector(), filter.Universal(), 5)
	if !errors.Is(err, domain.ErrIndexUnavailable) {
		t.Fatalf("expected ErrIndexUnavailable, got %v", err)
	}
}
