package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain/filter"
	domsearch "github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain/search"
	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/logger"
)

// Config holds the per-catalog settings injected at construction time.
type Config struct {
	Catalog        string
	DocumentFields []string
}

// Service orchestrates a product search: rewrite, extract attributes,
// compile the filter, embed, query the index, format.
type Service struct {
	extractor Extractor
	embedder  Embedder
	repo      Repository
	schemas   SchemaReader
	cfg       Config
}

// New creates a product search service.
func New(extractor Extractor, embedder Embedder, repo Repository, schemas SchemaReader, cfg Config) *Service {
	return &Service{
		extractor: extractor,
		embedder:  embedder,
		repo:      repo,
		schemas:   schemas,
		cfg:       cfg,
	}
}

// Search runs the full pipeline for one query. Extraction trouble degrades
// to an unfiltered search; schema, embedding, and index failures propagate
// with their sentinels for transport-level status mapping.
func (s *Service) Search(ctx context.Context, req *domsearch.Request) ([]domsearch.Product, error) {
	log := logger.FromContext(ctx)

	sch, err := s.schemas.Get(s.cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("get schema: %w", err)
	}

	// Rewrite is identity/trim today; kept as a named step so a smarter
	// rewriter can slot in without touching callers.
	rewritten := rewriteQuery(req.Query())

	raw := s.extractor.Extract(ctx, req.Query(), sch)
	log.Info("extracted constraints", zap.Any("constraints", raw))

	f := filter.Compile(raw)
	log.Debug("compiled filter",
		zap.Int("leaves", len(f.Leaves())),
		zap.Any("where", f.WhereClause()))

	embResult, err := s.embedder.Embed(ctx, rewritten)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	results, err := s.repo.Query(ctx, s.cfg.Catalog, embResult.Embedding, f, req.TopK())
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	return formatResults(results, sch, s.cfg.DocumentFields, log), nil
}

// rewriteQuery optimizes the query text for semantic search.
// Currently identity with whitespace trim.
func rewriteQuery(q string) string {
	return strings.TrimSpace(q)
}
