package ingest

import "strings"

// DetectHeaderRow scores the first MaxHeaderScan rows by how many known
// header tokens appear (case-insensitively, as substrings) in the joined row
// text, and returns the index of the best-scoring row. Ties resolve to the
// earliest row. A grid where no row scores returns (0, 0): downstream
// required-column checks will reject such a sheet loudly.
func DetectHeaderRow(grid Grid, cfg Config) (index, score int) {
	limit := len(grid)
	if cfg.MaxHeaderScan > 0 && limit > cfg.MaxHeaderScan {
		limit = cfg.MaxHeaderScan
	}

	for i := 0; i < limit; i++ {
		rowText := strings.ToLower(strings.Join(grid[i], " "))
		matches := 0
		for _, token := range cfg.HeaderTokens {
			if strings.Contains(rowText, strings.ToLower(token)) {
				matches++
			}
		}
		if matches > score {
			score = matches
			index = i
		}
	}
	return index, score
}

// NormalizeHeaders trims each header cell, strips stray periods, and maps
// known synonyms to their canonical names. Unrecognized headers pass through
// trimmed but otherwise unchanged.
func NormalizeHeaders(row []string, cfg Config) []string {
	headers := make([]string, len(row))
	for i, cell := range row {
		h := strings.ReplaceAll(strings.TrimSpace(cell), ".", "")
		if canonical, ok := cfg.Synonyms[synonymKey(h)]; ok {
			h = canonical
		}
		headers[i] = h
	}
	return headers
}

// synonymKey folds a header to the form used for synonym lookup: lowercase
// with spaces and underscores removed, so "Net Pay", "netpay" and
// "Total_Netpay" all collide onto their canonical entry.
func synonymKey(h string) string {
	k := strings.ToLower(h)
	k = strings.ReplaceAll(k, " ", "")
	k = strings.ReplaceAll(k, "_", "")
	return k
}

// findColumn returns the index of the first header equal to name,
// case-insensitively, or -1.
func findColumn(headers []string, name string) int {
	for i, h := range headers {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

// findColumnContaining returns the index of the first header containing name,
// case-insensitively, or -1. The repeated-header filter uses the looser match
// because band rows often carry decorated labels ("File No.", "Staff Name").
func findColumnContaining(headers []string, name string) int {
	lower := strings.ToLower(name)
	for i, h := range headers {
		if strings.Contains(strings.ToLower(h), lower) {
			return i
		}
	}
	return -1
}
