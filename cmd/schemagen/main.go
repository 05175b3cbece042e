// Command schemagen profiles a catalog CSV and writes the attribute schema
// JSON the search API loads at runtime.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/config"
	logpkg "github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/logger"
	schemacache "github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/schema"
)

func main() {
	var (
		csvPath  = flag.String("csv", "", "path to the catalog CSV (required)")
		catalog  = flag.String("catalog", "", "catalog name (default: catalog.name from config)")
		outDir   = flag.String("out", "", "schema output directory (default: catalog.schema_dir from config)")
		enumMax  = flag.Int("enum-max", schemacache.DefaultEnumMaxUnique, "max distinct values for an enum attribute")
		docField = flag.String("document-fields", "", "comma-separated document columns to exclude (default: catalog.document_fields from config)")
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
	if *outDir == "" {
		*outDir = cfg.Catalog.SchemaDir
	}
	docFields := cfg.Catalog.DocumentFields
	if *docField != "" {
		docFields = strings.Split(*docField, ",")
	}

	logger.Info("Profiling catalog CSV",
		zap.String("csv", *csvPath),
		zap.String("catalog", *catalog),
		zap.Strings("document_fields", docFields),
		zap.Int("enum_max", *enumMax),
	)

	f, err := os.Open(filepath.Clean(*csvPath))
	if err != nil {
		logger.Fatal("Failed to open CSV", zap.Error(err))
	}
	defer f.Close()

	sch, err := schemacache.ProfileCSV(f, schemacache.ProfilerConfig{
		DocumentFields: docFields,
		EnumMaxUnique:  *enumMax,
	})
	if err != nil {
		logger.Fatal("Failed to profile CSV", zap.Error(err))
	}
	if len(sch) == 0 {
		logger.Fatal("Profiling produced an empty schema; check document_fields")
	}

	data, err := json.MarshalIndent(sch, "", "  ")
	if err != nil {
		logger.Fatal("Failed to encode schema", zap.Error(err))
	}
	data = append(data, '\n')

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		logger.Fatal("Failed to create schema directory", zap.Error(err))
	}

	outPath := filepath.Join(*outDir, fmt.Sprintf("%s_schema.json", *catalog))
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		logger.Fatal("Failed to write schema", zap.Error(err))
	}

	logger.Info("Schema written",
		zap.String("path", outPath),
		zap.Int("attributes", len(sch)),
		zap.Strings("names", sch.Names()),
	)
}
