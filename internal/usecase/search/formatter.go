package search

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain/schema"
	domsearch "github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain/search"
)

// formatResults shapes raw index candidates into caller-facing products.
// One malformed candidate is skipped and logged; the batch continues.
func formatResults(
	results []domsearch.Result, sch schema.Schema,
	documentFields []string, log *zap.Logger,
) []domsearch.Product {
	products := make([]domsearch.Product, 0, len(results))
	for i := range results {
		p, err := formatResult(&results[i], sch, documentFields)
		if err != nil {
			log.Warn("skipping malformed candidate",
				zap.String("id", results[i].ID()),
				zap.Error(err))
			continue
		}
		products = append(products, p)
	}
	return products
}

// formatResult splits one candidate's fields by provenance: configured
// document fields come from the JSON document blob, everything else comes
// from metadata restricted to schema-declared attributes. Every schema
// attribute is surfaced, present or empty, so callers see a stable shape
// as the catalog schema evolves.
func formatResult(
	r *domsearch.Result, sch schema.Schema, documentFields []string,
) (domsearch.Product, error) {
	blob, err := parseDocument(r.Document())
	if err != nil {
		return domsearch.Product{}, err
	}

	fields := make(map[string]any, len(documentFields)+len(sch))

	for _, name := range documentFields {
		if v, ok := blob[name]; ok {
			fields[name] = v
		} else {
			fields[name] = ""
		}
	}

	metadata := r.Metadata()
	for name := range sch {
		if _, isDoc := fields[name]; isDoc {
			continue
		}
		if v, ok := metadata[name]; ok {
			fields[name] = v
		} else {
			fields[name] = ""
		}
	}

	return domsearch.Product{
		ID:       r.ID(),
		Distance: r.Distance(),
		Fields:   fields,
	}, nil
}

// parseDocument decodes the structured text blob embedded at ingestion time.
func parseDocument(doc string) (map[string]any, error) {
	var blob map[string]any
	if err := json.Unmarshal([]byte(doc), &blob); err != nil {
		return nil, err
	}
	return blob, nil
}
