package dataset

import "strings"

// Table is the raw record set: trimmed header names plus data rows, after the
// ingestor has dropped all-empty columns and exact-duplicate rows.
type Table struct {
	Columns []string
	Rows    [][]string
}

// EqualCol compares column names the way the schema check does: trimmed,
// case-insensitive.
func EqualCol(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Col resolves a canonical column name to its index in the table.
func (t Table) Col(name string) (int, bool) {
	for i, c := range t.Columns {
		if EqualCol(c, name) {
			return i, true
		}
	}
	return 0, false
}

// HasCol reports whether the table carries the named column.
func (t Table) HasCol(name string) bool {
	_, ok := t.Col(name)
	return ok
}
