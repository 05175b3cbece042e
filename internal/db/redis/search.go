package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/db"
	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain/filter"
)

// Reserved hash field names. Everything else on a product hash is metadata.
const (
	fieldDocument = "__document"
	fieldVector   = "__vector"
	fieldScore    = "__score"
)

// SearchKNN runs a KNN vector similarity search via FT.SEARCH.
// Results come back ordered ascending by distance; ties keep the store's
// native order.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.QueryResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if len(q.Vector) == 0 {
		return nil, fmt.Errorf("vector is required")
	}
	if q.K <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	filterStr := buildFilter(q.Filter)

	knnPart := fmt.Sprintf("[KNN %d @%s $BLOB AS %s]", q.K, fieldVector, fieldScore)
	var queryStr string
	if filterStr != "" {
		queryStr = fmt.Sprintf("(%s)=>%s", filterStr, knnPart)
	} else {
		queryStr = fmt.Sprintf("*=>%s", knnPart)
	}

	args := []string{
		q.IndexName, queryStr,
		"SORTBY", fieldScore, "ASC",
		"LIMIT", "0", strconv.Itoa(q.K),
		"PARAMS", "2", "BLOB", db.VectorBytes(q.Vector),
		"DIALECT", "2",
	}

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseKNNResult(raw)
}

// parseKNNResult reshapes the RESP2 reply into position-parallel arrays.
// Reply layout is 2-stride: [total, key1, fields1, key2, fields2, ...].
func parseKNNResult(raw []rueidis.RedisMessage) (*db.QueryResult, error) {
	res := &db.QueryResult{}
	if len(raw) == 0 {
		return res, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return res, nil
	}

	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}
		pairs := parseFieldPairs(fields)

		var distance float64
		if scoreStr, ok := pairs[fieldScore]; ok {
			if d, err := strconv.ParseFloat(scoreStr, 64); err == nil {
				distance = d
			}
		}

		document := pairs[fieldDocument]

		metadata := make(map[string]string, len(pairs))
		for k, v := range pairs {
			switch k {
			case fieldDocument, fieldVector, fieldScore:
			default:
				metadata[k] = v
			}
		}

		res.IDs = append(res.IDs, key)
		res.Documents = append(res.Documents, document)
		res.Metadatas = append(res.Metadatas, metadata)
		res.Distances = append(res.Distances, distance)
	}

	return res, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// --- Filter building ---

// buildFilter translates a compiled filter into an FT.SEARCH pre-filter
// query string. The universal filter renders as "" so the KNN clause runs
// against "*".
func buildFilter(f filter.Filter) string {
	if f.IsUniversal() {
		return ""
	}

	parts := make([]string, 0, len(f.Leaves()))
	for _, leaf := range f.Leaves() {
		if p := buildLeaf(leaf); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func buildLeaf(l filter.Leaf) string {
	switch v := l.Value.(type) {
	case string:
		return buildTagFilter(l.Field, v)
	case float64:
		return buildNumericFilter(l.Field, l.Op, v)
	}
	return ""
}

func buildTagFilter(key, value string) string {
	escaped := tagEscaper.Replace(value)
	return fmt.Sprintf("@%s:{%s}", key, escaped)
}

func buildNumericFilter(key, op string, v float64) string {
	switch op {
	case "$eq":
		return fmt.Sprintf("@%s:[%g %g]", key, v, v)
	case "$lt":
		return fmt.Sprintf("@%s:[-inf (%g]", key, v)
	case "$lte":
		return fmt.Sprintf("@%s:[-inf %g]", key, v)
	case "$gt":
		return fmt.Sprintf("@%s:[(%g +inf]", key, v)
	case "$gte":
		return fmt.Sprintf("@%s:[%g +inf]", key, v)
	}
	return ""
}

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	" ", "\\ ",
)

