// Package schema loads per-catalog attribute schemas produced by the offline
// CSV profiler and caches them for the process lifetime.
package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain"
	domschema "github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain/schema"
)

// Cache resolves catalog names to attribute schemas, reading
// `{catalog}_schema.json` under dir on first access and caching the result.
// Catalogs are assumed static for the process lifetime; Invalidate exists for
// operators to force a reload after regenerating a schema file.
//
// Concurrent first accesses for the same catalog may race; both loads read
// the same deterministic file content, so last write wins without corruption.
type Cache struct {
	dir    string
	logger *zap.Logger

	mu      sync.RWMutex
	schemas map[string]domschema.Schema
}

// NewCache creates a schema cache over the given schema directory.
func NewCache(dir string, logger *zap.Logger) *Cache {
	return &Cache{
		dir:     dir,
		logger:  logger,
		schemas: make(map[string]domschema.Schema),
	}
}

// Get returns the attribute schema for a catalog, loading it on cache miss.
// Misses fail with domain.ErrSchemaNotFound or domain.ErrSchemaInvalid; a
// missing file fails on every call, never a silent empty-schema fallback.
func (c *Cache) Get(catalog string) (domschema.Schema, error) {
	c.mu.RLock()
	s, ok := c.schemas[catalog]
	c.mu.RUnlock()
	if ok {
		return s, nil
	}

	s, err := c.load(catalog)
	if err != nil {
		return nil, err
	}

	c.Put(catalog, s)
	return s, nil
}

// Put stores a schema for a catalog, replacing any cached value.
func (c *Cache) Put(catalog string, s domschema.Schema) {
	c.mu.Lock()
	c.schemas[catalog] = s
	c.mu.Unlock()
}

// Invalidate drops the cached schema for a catalog so the next Get reloads
// from disk.
func (c *Cache) Invalidate(catalog string) {
	c.mu.Lock()
	delete(c.schemas, catalog)
	c.mu.Unlock()
}

// Path returns the schema file path for a catalog by the naming convention.
func (c *Cache) Path(catalog string) string {
	return filepath.Join(c.dir, fmt.Sprintf("%s_schema.json", catalog))
}

func (c *Cache) load(catalog string) (domschema.Schema, error) {
	path := c.Path(catalog)

	start := time.Now()
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("catalog %q (%s): %w", catalog, path, domain.ErrSchemaNotFound)
		}
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}

	s, err := domschema.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %q: %w: %w", catalog, domain.ErrSchemaInvalid, err)
	}

	c.logger.Info("schema loaded",
		zap.String("catalog", catalog),
		zap.String("path", path),
		zap.Int("attributes", len(s)),
		zap.Duration("took", time.Since(start)),
	)
	return s, nil
}
