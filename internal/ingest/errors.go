package ingest

import (
	"fmt"
	"strings"
)

// EmptyInputError is returned when a sheet yields zero usable rows: either
// the grid itself is empty or nothing remains after the header row. Callers
// must treat it as a hard stop for the batch.
type EmptyInputError struct {
	Rows      int // total rows in the grid
	HeaderRow int // detected header row index
}

func (e *EmptyInputError) Error() string {
	if e.Rows == 0 {
		return "empty input: sheet contains no rows"
	}
	return fmt.Sprintf("empty input: no data rows after header row %d (%d rows total)", e.HeaderRow, e.Rows)
}

// MissingRequiredColumnsError is returned when header normalization cannot
// locate columns the payment computation treats as mandatory. It carries the
// detected header row and the normalized header text so an operator can fix
// the source sheet.
type MissingRequiredColumnsError struct {
	Missing   []string
	HeaderRow int
	Headers   []string
}

func (e *MissingRequiredColumnsError) Error() string {
	return fmt.Sprintf("missing required columns %v in header row %d (found: %s)",
		e.Missing, e.HeaderRow, strings.Join(e.Headers, ", "))
}
