// Package table holds the in-memory row model handed to the profiler and the
// file readers that produce it.
package table

import (
	"sort"
	"strings"
	"time"
)

// Row maps a column name to a scalar cell. Cells are nil, float64 (or another
// Go number), string, bool or time.Time.
type Row map[string]any

// Table is a row set plus its canonical column order.
type Table struct {
	Name    string
	Kind    string // csv|tsv|xlsx|json
	Columns []string
	Rows    []Row
}

// Meta summarizes a table for answer templates. It is produced at ingestion.
type Meta struct {
	RowCount     int    `json:"rowCount" yaml:"row_count"`
	ColumnCount  int    `json:"columnCount" yaml:"column_count"`
	MissingCount int    `json:"missingCount" yaml:"missing_count"`
	FileKind     string `json:"fileKind" yaml:"file_kind"`
}

// FromRows builds a Table whose columns are the union of row keys. Keys are
// ordered by first appearance; keys first seen in the same row are sorted.
func FromRows(rows []Row) Table {
	return Table{Columns: ColumnNames(rows), Rows: rows}
}

// ColumnNames returns the union of keys across rows in a deterministic order.
func ColumnNames(rows []Row) []string {
	seen := map[string]struct{}{}
	var cols []string
	for _, r := range rows {
		var fresh []string
		for k := range r {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			fresh = append(fresh, k)
		}
		sort.Strings(fresh)
		cols = append(cols, fresh...)
	}
	return cols
}

// IsMissing reports whether a cell counts as missing: nil or blank after trim.
func IsMissing(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case time.Time:
		return x.IsZero()
	}
	return false
}

// Meta computes the row/column/missing counts for the table.
func (t Table) Meta() Meta {
	m := Meta{RowCount: len(t.Rows), ColumnCount: len(t.Columns), FileKind: t.Kind}
	for _, r := range t.Rows {
		for _, c := range t.Columns {
			if IsMissing(r[c]) {
				m.MissingCount++
			}
		}
	}
	return m
}

// Values returns the cells of one column in row order (missing keys yield nil).
func (t Table) Values(col string) []any {
	out := make([]any, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[col]
	}
	return out
}

// Head returns a copy of t limited to the first n rows; n <= 0 keeps all.
func (t Table) Head(n int) Table {
	if n <= 0 || n >= len(t.Rows) {
		return t
	}
	t.Rows = t.Rows[:n]
	return t
}
