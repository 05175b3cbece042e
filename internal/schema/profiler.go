package schema

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	domschema "github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain/schema"
)

// DefaultEnumMaxUnique caps the distinct values a column may have and still
// be classified enum.
const DefaultEnumMaxUnique = 50

// ProfilerConfig controls CSV schema profiling.
type ProfilerConfig struct {
	// DocumentFields are embedded as free text and excluded from the schema.
	DocumentFields []string
	// EnumMaxUnique caps enum cardinality; <= 0 uses DefaultEnumMaxUnique.
	EnumMaxUnique int
}

// rangeOperators is the operator set granted to comparable attribute types.
var rangeOperators = []string{"$eq", "$lt", "$gt", "$gte", "$lte"}

// ProfileCSV classifies each CSV column into an attribute type by scanning
// all values: pure numeric columns become number_range, pure date columns
// become date, low-cardinality strings become enum, the rest free-text
// string. Mixed numeric/string columns fall through to enum or string.
func ProfileCSV(r io.Reader, cfg ProfilerConfig) (domschema.Schema, error) {
	enumMax := cfg.EnumMaxUnique
	if enumMax <= 0 {
		enumMax = DefaultEnumMaxUnique
	}

	docFields := make(map[string]struct{}, len(cfg.DocumentFields))
	for _, f := range cfg.DocumentFields {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" {
			docFields[f] = struct{}{}
		}
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	columns := make([]string, len(header))
	for i, col := range header {
		columns[i] = strings.ToLower(strings.TrimSpace(col))
	}

	numericCount := make(map[string]int)
	dateCount := make(map[string]int)
	stringCount := make(map[string]int)
	values := make(map[string]map[string]struct{})

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		for i, val := range record {
			if i >= len(columns) || columns[i] == "" {
				continue
			}
			col := columns[i]
			if _, skip := docFields[col]; skip {
				continue
			}

			val = strings.TrimSpace(val)
			if val == "" {
				continue
			}

			switch {
			case isNumber(val):
				numericCount[col]++
			case isDate(val):
				dateCount[col]++
			default:
				stringCount[col]++
				if values[col] == nil {
					values[col] = make(map[string]struct{})
				}
				values[col][strings.ToLower(val)] = struct{}{}
			}
		}
	}

	sch := make(domschema.Schema)
	for _, col := range columns {
		if col == "" {
			continue
		}
		if _, skip := docFields[col]; skip {
			continue
		}
		if numericCount[col] == 0 && dateCount[col] == 0 && stringCount[col] == 0 {
			continue
		}
		sch[col] = classify(col, numericCount, dateCount, stringCount, values, enumMax)
	}

	return sch, nil
}

func classify(
	col string,
	numericCount, dateCount, stringCount map[string]int,
	values map[string]map[string]struct{},
	enumMax int,
) domschema.Attribute {
	// Pure numeric
	if numericCount[col] > 0 && stringCount[col] == 0 {
		return domschema.Attribute{
			Type:  domschema.NumberRange,
			Rules: domschema.Rules{Operators: rangeOperators},
		}
	}

	// Pure date
	if dateCount[col] > 0 && numericCount[col] == 0 && stringCount[col] == 0 {
		return domschema.Attribute{
			Type:  domschema.Date,
			Rules: domschema.Rules{Operators: rangeOperators},
		}
	}

	// Low-cardinality strings
	if n := len(values[col]); n > 0 && n <= enumMax {
		vals := make([]string, 0, n)
		for v := range values[col] {
			vals = append(vals, v)
		}
		sort.Strings(vals)
		return domschema.Attribute{
			Type:  domschema.Enum,
			Rules: domschema.Rules{Values: vals},
		}
	}

	return domschema.Attribute{
		Type:  domschema.String,
		Rules: domschema.Rules{Description: "free text attribute"},
	}
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

var dateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

func isDate(s string) bool {
	for _, layout := range dateFormats {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
