// Package ingest turns raw spreadsheet grids into clean posting records.
//
// Posting sheets arrive with the header row buried under letterhead, with
// header bands repeated mid-sheet, and with inconsistent column naming. The
// ingestor locates the true header heuristically, normalizes the header names,
// drops noise rows, and derives the posting destination from the state→capital
// mapping. It is a pure function of its inputs: same grid, same map, same
// config, same output.
package ingest

import (
	"log"
	"strings"

	"github.com/thomasakiou/neco-pay/internal/domain"
)

// Result is the output of one Clean run. OriginalRows counts the data rows
// between the header and the end of the sheet; CleanedRows counts the rows
// that survived filtering. Both are surfaced so operators can audit how much
// of a sheet was discarded.
type Result struct {
	Postings     []domain.Posting
	Headers      []string
	HeaderRow    int
	HeaderScore  int
	OriginalRows int
	CleanedRows  int
}

// Clean runs the full ingestion pipeline over a raw grid: header detection,
// header normalization, row filtering, and posting derivation. stateMap maps
// lowercased state names to their capitals and may be nil.
//
// It fails with *EmptyInputError when the grid has no usable rows and with
// *MissingRequiredColumnsError when the File No or Name column cannot be
// located after normalization.
func Clean(grid Grid, stateMap map[string]string, cfg Config) (*Result, error) {
	if len(grid) == 0 {
		return nil, &EmptyInputError{}
	}

	headerRow, score := DetectHeaderRow(grid, cfg)
	headers := NormalizeHeaders(grid[headerRow], cfg)

	fileIdx := findColumnContaining(headers, "File No")
	nameIdx := findColumnContaining(headers, "Name")

	var missing []string
	if fileIdx < 0 {
		missing = append(missing, "File No")
	}
	if nameIdx < 0 {
		missing = append(missing, "Name")
	}
	if len(missing) > 0 {
		return nil, &MissingRequiredColumnsError{
			Missing:   missing,
			HeaderRow: headerRow,
			Headers:   headers,
		}
	}

	originalRows := len(grid) - headerRow - 1
	if originalRows <= 0 {
		return nil, &EmptyInputError{Rows: len(grid), HeaderRow: headerRow}
	}

	stateIdx := findColumn(headers, "State")
	postingIdx := findColumn(headers, "Posting")
	conraissIdx := findColumn(headers, "Conraiss")
	stationIdx := findColumn(headers, "Station")
	categoryIdx := findColumn(headers, "Category")
	rankIdx := findColumn(headers, "Rank")
	mandateIdx := findColumnContaining(headers, "Mandate")

	keyIdx := make([]int, 0, len(cfg.KeyColumns))
	for _, key := range cfg.KeyColumns {
		keyIdx = append(keyIdx, findColumnContaining(headers, key))
	}

	var postings []domain.Posting
	for i := headerRow + 1; i < len(grid); i++ {
		values := trimRow(grid[i])

		if isJunkRow(values, cfg.JunkPhrases) {
			continue
		}
		if isRepeatedHeader(values, headers, keyIdx) {
			continue
		}
		if isMostlyHeader(values, headers) {
			continue
		}
		if cell(values, nameIdx) == "" && cell(values, fileIdx) == "" {
			continue
		}

		postings = append(postings, domain.Posting{
			State:    cell(values, stateIdx),
			FileNo:   cell(values, fileIdx),
			Name:     cell(values, nameIdx),
			Conraiss: cell(values, conraissIdx),
			Station:  cell(values, stationIdx),
			Posting:  derivePosting(values, stateIdx, postingIdx, stateMap),
			Category: cell(values, categoryIdx),
			Rank:     cell(values, rankIdx),
			Mandate:  cell(values, mandateIdx),
			Active:   true,
		})
	}

	if len(postings) == 0 {
		return nil, &EmptyInputError{Rows: len(grid), HeaderRow: headerRow}
	}

	log.Printf("[ingest] header row %d (score %d): %d rows in, %d kept",
		headerRow, score, originalRows, len(postings))

	return &Result{
		Postings:     postings,
		Headers:      headers,
		HeaderRow:    headerRow,
		HeaderScore:  score,
		OriginalRows: originalRows,
		CleanedRows:  len(postings),
	}, nil
}

// cleanedColumns is the column order of a cleaned sheet, the shape the
// downstream staging and payment steps consume.
var cleanedColumns = []string{"State", "File No", "Name", "Conraiss", "Station", "Posting"}

// Grid renders the cleaned result back into tabular form: one header row in
// canonical column order followed by one row per posting. Feeding this grid
// back through Clean yields the same postings.
func (r *Result) Grid() Grid {
	grid := make(Grid, 0, len(r.Postings)+1)
	grid = append(grid, cleanedColumns)
	for _, p := range r.Postings {
		grid = append(grid, []string{p.State, p.FileNo, p.Name, p.Conraiss, p.Station, p.Posting})
	}
	return grid
}

func trimRow(row []string) []string {
	values := make([]string, len(row))
	for i, c := range row {
		values[i] = strings.TrimSpace(c)
	}
	return values
}

func cell(values []string, idx int) string {
	if idx < 0 || idx >= len(values) {
		return ""
	}
	return values[idx]
}

// isJunkRow drops rows carrying boilerplate phrases (letterheads, batch
// labels) that appear embedded mid-sheet.
func isJunkRow(values []string, junkPhrases []string) bool {
	rowText := strings.ToLower(strings.Join(values, " "))
	for _, phrase := range junkPhrases {
		if strings.Contains(rowText, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}

// isRepeatedHeader detects duplicated header bands: at least two of the key
// columns contain a value equal to that column's own header label.
func isRepeatedHeader(values, headers []string, keyIdx []int) bool {
	matches := 0
	for _, idx := range keyIdx {
		if idx < 0 || idx >= len(values) {
			continue
		}
		if strings.EqualFold(values[idx], headers[idx]) {
			matches++
		}
	}
	return matches >= 2
}

// isMostlyHeader is the fallback duplicate check: more than half of all cells
// equal their respective header label.
func isMostlyHeader(values, headers []string) bool {
	matches := 0
	for i, v := range values {
		if i >= len(headers) || headers[i] == "" {
			continue
		}
		if strings.EqualFold(v, headers[i]) {
			matches++
		}
	}
	return matches*2 > len(headers)
}

// derivePosting resolves the destination for a row from the state→capital
// mapping, preferring the state column over the posting column. Rows whose
// values map to no known state keep whatever the posting column held, which
// also makes re-ingesting cleaned output a fixed point.
func derivePosting(values []string, stateIdx, postingIdx int, stateMap map[string]string) string {
	if v := cell(values, stateIdx); v != "" {
		if capital, ok := stateMap[strings.ToLower(v)]; ok {
			return capital
		}
	}
	if v := cell(values, postingIdx); v != "" {
		if capital, ok := stateMap[strings.ToLower(v)]; ok {
			return capital
		}
	}
	return cell(values, postingIdx)
}
