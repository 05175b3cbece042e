package health

import (
	"context"
	"errors"
	"testing"

	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain"
	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain/schema"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockEmbeddingChecker struct {
	err error
}

func (m *mockEmbeddingChecker) HealthCheck(_ context.Context) error { return m.err }

type mockSchemaReader struct {
	err error
}

func (m *mockSchemaReader) Get(_ string) (schema.Schema, error) {
	if m.err != nil {
		return nil, m.err
	}
	return schema.Schema{"color": {Type: schema.Enum}}, nil
}

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockEmbeddingChecker{}, &mockSchemaReader{}, "product_catalog")
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	for _, name := range []string{"database", "embedding", "schema"} {
		if r.Checks[name] != CheckOK {
			t.Errorf("expected %s %q, got %q", name, CheckOK, r.Checks[name])
		}
	}
}

func TestCheck_DatabaseDown(t *testing.T) {
	svc := New(&mockDBPinger{err: errors.New("connection refused")}, &mockEmbeddingChecker{}, &mockSchemaReader{}, "product_catalog")
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["database"] != CheckError {
		t.Errorf("expected database %q, got %q", CheckError, r.Checks["database"])
	}
}

func TestCheck_SchemaMissing(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockEmbeddingChecker{}, &mockSchemaReader{err: domain.ErrSchemaNotFound}, "product_catalog")
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["schema"] != CheckError {
		t.Errorf("expected schema %q, got %q", CheckError, r.Checks["schema"])
	}
}

func TestCheck_NilOptionalCheckers(t *testing.T) {
	svc := New(&mockDBPinger{}, nil, nil, "")
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["embedding"]; ok {
		t.Error("nil embedding checker must not produce a check entry")
	}
	if _, ok := r.Checks["schema"]; ok {
		t.Error("nil schema reader must not produce a check entry")
	}
}
