// Command ingest loads a catalog CSV into the vector store: each row becomes
// a product hash with a JSON document blob, filterable metadata fields and an
// embedding vector, indexed for KNN search.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/config"
	dbRedis "github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/db/redis"
	domschema "github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain/schema"
	logpkg "github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/logger"
	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/metrics"
	catalogrepo "github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/repository/catalog"
	schemacache "github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/schema"
	openaiTransport "github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/transport/openai"
)

func main() {
	var (
		csvPath   = flag.String("csv", "", "path to the catalog CSV (required)")
		catalog   = flag.String("catalog", "", "catalog name (default: catalog.name from config)")
		idColumn  = flag.String("id-column", "id", "CSV column holding the product id")
		batchSize = flag.Int("batch", 100, "products per pipelined write")
		recreate  = flag.Bool("recreate-index", false, "drop and recreate the vector index before loading")
	)
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	if *catalog == "" {
		*catalog = cfg.Catalog.Name
	}

	logger.Info("Starting catalog ingestion",
		zap.String("csv", *csvPath),
		zap.String("catalog", *catalog),
		zap.Int("batch", *batchSize),
		zap.Bool("recreate_index", *recreate),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create vector store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Vector store not ready", zap.Error(err))
	}

	metrics.RegisterEmbeddingMetrics()

	embedder := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embed.APIKey,
		BaseURL:    cfg.Embed.BaseURL,
		Model:      cfg.Embed.Model,
		Dimensions: cfg.Embed.Dimensions,
		Provider:   "embedding",
		Logger:     logger,
	})

	schemas := schemacache.NewCache(cfg.Catalog.SchemaDir, logger)
	sch, err := schemas.Get(*catalog)
	if err != nil {
		logger.Fatal("Failed to load catalog schema; run schemagen first", zap.Error(err))
	}

	writer := catalogrepo.New(store, cfg.Storage.KeyPrefix)
	if err := writer.EnsureIndex(ctx, *catalog, sch, cfg.Embed.Dimensions, *recreate); err != nil {
		logger.Fatal("Failed to ensure vector index", zap.Error(err))
	}
	logger.Info("Vector index ready", zap.String("index", writer.IndexName(*catalog)))

	ing := &ingester{
		embedder:  embedder,
		writer:    writer,
		schema:    sch,
		catalog:   *catalog,
		idColumn:  strings.ToLower(*idColumn),
		docFields: cfg.Catalog.DocumentFields,
		batchSize: *batchSize,
		logger:    logger,
	}

	f, err := os.Open(filepath.Clean(*csvPath))
	if err != nil {
		logger.Fatal("Failed to open CSV", zap.Error(err))
	}
	defer f.Close()

	start := time.Now()
	loaded, skipped, err := ing.run(ctx, f)
	if err != nil {
		logger.Fatal("Ingestion failed", zap.Error(err))
	}

	logger.Info("Ingestion complete",
		zap.Int("loaded", loaded),
		zap.Int("skipped", skipped),
		zap.Duration("took", time.Since(start)),
	)
}

type ingester struct {
	embedder  *openaiTransport.Embedder
	writer    *catalogrepo.Writer
	schema    domschema.Schema
	catalog   string
	idColumn  string
	docFields []string
	batchSize int
	logger    *zap.Logger
}

// run streams the CSV, embeds each row's document text and flushes batches
// to the store. Rows without an id are skipped, not fatal.
func (g *ingester) run(ctx context.Context, r io.Reader) (loaded, skipped int, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("read csv header: %w", err)
	}
	columns := make([]string, len(header))
	for i, col := range header {
		columns[i] = strings.ToLower(strings.TrimSpace(col))
	}

	batch := make([]catalogrepo.Product, 0, g.batchSize)
	row := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return loaded, skipped, fmt.Errorf("read csv row %d: %w", row+2, err)
		}
		row++

		p, ok := g.buildProduct(ctx, columns, record, row)
		if !ok {
			skipped++
			continue
		}

		batch = append(batch, p)
		if len(batch) >= g.batchSize {
			if err := g.writer.UpsertBatch(ctx, g.catalog, batch); err != nil {
				return loaded, skipped, err
			}
			loaded += len(batch)
			g.logger.Info("Batch loaded", zap.Int("total", loaded))
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := g.writer.UpsertBatch(ctx, g.catalog, batch); err != nil {
			return loaded, skipped, err
		}
		loaded += len(batch)
	}

	return loaded, skipped, nil
}

func (g *ingester) buildProduct(
	ctx context.Context, columns, record []string, row int,
) (catalogrepo.Product, bool) {
	values := make(map[string]string, len(columns))
	for i, col := range columns {
		if i >= len(record) || col == "" {
			continue
		}
		values[col] = strings.TrimSpace(record[i])
	}

	id := values[g.idColumn]
	if id == "" {
		g.logger.Warn("Skipping row without id", zap.Int("row", row))
		return catalogrepo.Product{}, false
	}

	docMap := make(map[string]string, len(g.docFields))
	var textParts []string
	for _, f := range g.docFields {
		if v := values[f]; v != "" {
			docMap[f] = v
			textParts = append(textParts, v)
		}
	}
	document, err := json.Marshal(docMap)
	if err != nil {
		g.logger.Warn("Skipping row with unencodable document", zap.Int("row", row), zap.Error(err))
		return catalogrepo.Product{}, false
	}

	// Metadata carries only schema attributes; tags are stored lowercase to
	// match the lowercased constraint values the extractor produces.
	metadata := make(map[string]string, len(values))
	for col, v := range values {
		if col == g.idColumn || v == "" || !g.schema.Has(col) {
			continue
		}
		if g.schema[col].Type == domschema.NumberRange {
			metadata[col] = v
		} else {
			metadata[col] = strings.ToLower(v)
		}
	}

	res, err := g.embedder.Embed(ctx, strings.Join(textParts, ". "))
	if err != nil {
		g.logger.Warn("Skipping row that failed to embed",
			zap.Int("row", row), zap.String("id", id), zap.Error(err))
		return catalogrepo.Product{}, false
	}

	return catalogrepo.Product{
		ID:       id,
		Document: string(document),
		Metadata: metadata,
		Vector:   res.Embedding,
	}, true
}
