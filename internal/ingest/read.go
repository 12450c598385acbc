package ingest

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"joblens-engine/internal/dataset"
)

// Read parses delimited tabular bytes into the raw record set.
//
// Cleanup order mirrors the source system: trim header names, drop columns
// that are empty in every data row, drop exact-duplicate rows, then check the
// profile's required columns. A required column that only existed as an
// all-empty column is gone by the time the schema check runs, so it counts
// as missing.
func Read(r io.Reader, profile dataset.Profile) (dataset.Table, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return dataset.Table{}, &ParseError{Err: err}
	}
	if len(rows) == 0 {
		return dataset.Table{}, &ParseError{Err: errors.New("no header row")}
	}

	header := rows[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	data := rows[1:]

	// Drop all-empty columns.
	keep := make([]int, 0, len(header))
	for c := range header {
		empty := true
		for _, row := range data {
			if c < len(row) && row[c] != "" {
				empty = false
				break
			}
		}
		if !empty {
			keep = append(keep, c)
		}
	}

	t := dataset.Table{Columns: make([]string, 0, len(keep))}
	for _, c := range keep {
		t.Columns = append(t.Columns, header[c])
	}

	// Project rows onto the kept columns, dropping exact duplicates.
	seen := make(map[string]bool, len(data))
	for _, row := range data {
		proj := make([]string, len(keep))
		for i, c := range keep {
			if c < len(row) {
				proj[i] = row[c]
			}
		}
		key := strings.Join(proj, "\x1f")
		if seen[key] {
			continue
		}
		seen[key] = true
		t.Rows = append(t.Rows, proj)
	}

	var missing []string
	for _, req := range profile.Required() {
		if !t.HasCol(req) {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return dataset.Table{}, &SchemaError{Missing: missing}
	}

	return t, nil
}
