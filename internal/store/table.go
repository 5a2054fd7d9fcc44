package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	apperrors "github.com/trogers1052/stock-sentiment-service/internal/errors"
)

// table is a CSV reader that resolves columns by name
type table struct {
	source  string
	reader  *csv.Reader
	columns map[string]int
}

// openTable reads the header row and checks that every required column is
// present. aliases maps alternative header names to canonical ones.
func openTable(source string, r io.Reader, required []string, aliases map[string]string) (*table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.NewSchemaError(source, required)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", source, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if canonical, ok := aliases[key]; ok {
			key = canonical
		}
		if _, exists := columns[key]; !exists {
			columns[key] = i
		}
	}

	var missing []string
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewSchemaError(source, missing)
	}

	return &table{source: source, reader: reader, columns: columns}, nil
}

// next returns the next record, or io.EOF
func (t *table) next() ([]string, error) {
	return t.reader.Read()
}

// get returns the named field of record, or "" when absent
func (t *table) get(record []string, name string) string {
	i, ok := t.columns[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTimestamp accepts the date and timestamp layouts written by this
// package and by common data tools
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
