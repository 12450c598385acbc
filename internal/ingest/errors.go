package ingest

import (
	"fmt"
	"strings"
)

// ParseError means the upload could not be read as delimited tabular data.
// Terminal for the upload; the user has to supply a corrected file.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse input: %v", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError means required columns are missing after header trimming and
// the all-empty column drop. Missing lists the canonical names.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}
