package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain"
	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain/constraint"
	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain/schema"
	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/logger"
	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/metrics"
)

// Completer is the consumer interface for the chat completion provider.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Extractor turns a free-text product query into sparse raw constraints via
// an LLM. The model output is untrusted: everything is re-validated against
// the catalog schema before it reaches the filter compiler.
type Extractor struct {
	completer Completer
}

// New creates a query attribute extractor.
func New(completer Completer) *Extractor {
	return &Extractor{completer: completer}
}

// Extract runs attribute extraction for a query. Extraction is fail-open:
// provider failure or unparseable model output degrades to an empty
// constraint set, logged, never propagated. A caller is never blocked by
// extraction.
func (e *Extractor) Extract(ctx context.Context, query string, sch schema.Schema) constraint.Raw {
	log := logger.FromContext(ctx)

	raw, reason, err := e.extract(ctx, query, sch)
	if err != nil {
		log.Warn("attribute extraction failed, searching unfiltered",
			zap.String("reason", reason),
			zap.Error(err))
		metrics.ExtractionFallbacksTotal.WithLabelValues(reason).Inc()
		return constraint.Raw{}
	}
	return raw
}

func (e *Extractor) extract(ctx context.Context, query string, sch schema.Schema) (constraint.Raw, string, error) {
	log := logger.FromContext(ctx)

	out, err := e.completer.Complete(ctx, extractionPrompt, query)
	if err != nil {
		return nil, "provider_error", fmt.Errorf("attribute extraction: %v: %w", err, domain.ErrExtractionFailed)
	}

	cleaned := stripFences(out)

	var raw constraint.Raw
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		log.Debug("extraction returned invalid JSON", zap.String("output", out))
		return nil, "invalid_json", fmt.Errorf("parse extraction output: %v: %w", err, domain.ErrExtractionFailed)
	}

	return sanitize(raw, sch, log), "", nil
}

// sanitize enforces the extraction contract on untrusted model output:
// unknown keys and null values are dropped, scalar strings are case-folded,
// and gender collapses into the two catalog buckets or disappears.
func sanitize(raw constraint.Raw, sch schema.Schema, log *zap.Logger) constraint.Raw {
	kept := make(constraint.Raw, len(raw))
	for key, value := range raw {
		key = strings.ToLower(strings.TrimSpace(key))

		if !schemaHasKey(sch, key) {
			log.Debug("dropping extracted key not in schema", zap.String("key", key))
			continue
		}
		if value.IsZero() {
			continue
		}

		if value.IsScalar() {
			if s, ok := value.ScalarValue().(string); ok {
				s = strings.ToLower(strings.TrimSpace(s))
				if key == "gender" {
					bucket, ok := genderBucket(s)
					if !ok {
						log.Debug("dropping non-bucket gender value", zap.String("value", s))
						continue
					}
					s = bucket
				}
				value = constraint.Scalar(s)
			}
		}

		kept[key] = value
	}
	return kept
}

// schemaHasKey checks an extracted key against the catalog schema. "age" is
// virtual: the catalog stores age_min/age_max and the filter compiler splits
// the constraint, so it passes when either bound column exists.
func schemaHasKey(sch schema.Schema, key string) bool {
	if sch.Has(key) {
		return true
	}
	if key == "age" {
		return sch.Has("age_min") || sch.Has("age_max")
	}
	return false
}

// genderBucket collapses gendered words into the catalog's two buckets.
// Age-group words (kids, children, toddler, infant) are not genders and
// never map.
func genderBucket(s string) (string, bool) {
	switch s {
	case "girl", "girls", "female", "women", "woman":
		return "girls", true
	case "boy", "boys", "male", "men", "man":
		return "boys", true
	}
	return "", false
}

// stripFences removes a markdown code fence wrapper if the model added one
// despite the prompt.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
