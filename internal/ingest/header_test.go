package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectHeaderRow(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("buried_header", func(t *testing.T) {
		grid := Grid{
			{"NATIONAL EXAMINATIONS COUNCIL"},
			{"2025 PAYMENT SCHEDULE"},
			{"Station"},
			{"S/N", "File No", "Name", "Conraiss", "Station"},
			{"1", "0347", "ADAMU MUSA", "08", "Minna"},
		}
		idx, score := DetectHeaderRow(grid, cfg)
		assert.Equal(t, 3, idx)
		assert.Equal(t, 5, score)
	})

	t.Run("tie_resolves_to_earliest", func(t *testing.T) {
		grid := Grid{
			{"File No", "Name"},
			{"File No", "Name"},
		}
		idx, _ := DetectHeaderRow(grid, cfg)
		assert.Equal(t, 0, idx)
	})

	t.Run("no_tokens_defaults_to_row_zero", func(t *testing.T) {
		grid := Grid{
			{"alpha", "beta"},
			{"gamma", "delta"},
		}
		idx, score := DetectHeaderRow(grid, cfg)
		assert.Equal(t, 0, idx)
		assert.Equal(t, 0, score)
	})

	t.Run("scan_depth_is_bounded", func(t *testing.T) {
		grid := make(Grid, 40)
		for i := range grid {
			grid[i] = []string{"noise"}
		}
		grid[35] = []string{"S/N", "File No", "Name"}
		idx, score := DetectHeaderRow(grid, cfg)
		assert.Equal(t, 0, idx)
		assert.Equal(t, 0, score)
	})

	t.Run("case_insensitive", func(t *testing.T) {
		grid := Grid{
			{"x"},
			{"FILE NO", "NAME", "STATION"},
		}
		idx, score := DetectHeaderRow(grid, cfg)
		assert.Equal(t, 1, idx)
		assert.Equal(t, 3, score)
	})
}

func TestNormalizeHeaders(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("trims_and_strips_periods", func(t *testing.T) {
		got := NormalizeHeaders([]string{"  Station  ", "Mandate No."}, cfg)
		assert.Equal(t, []string{"Station", "Mandate No"}, got)
	})

	t.Run("synonyms_collapse", func(t *testing.T) {
		got := NormalizeHeaders([]string{"FILE NO", "FileNo", "Per No", "Net Pay", "Total_Netpay", "Posted To"}, cfg)
		assert.Equal(t, []string{"File No", "File No", "File No", "Netpay", "Netpay", "Posting"}, got)
	})

	t.Run("unknown_headers_pass_through", func(t *testing.T) {
		got := NormalizeHeaders([]string{"Remarks"}, cfg)
		assert.Equal(t, []string{"Remarks"}, got)
	})
}

func TestFindColumn(t *testing.T) {
	headers := []string{"S/N", "File No", "Name of Staff", "Station"}

	assert.Equal(t, 1, findColumn(headers, "file no"))
	assert.Equal(t, -1, findColumn(headers, "Name"))
	assert.Equal(t, 2, findColumnContaining(headers, "Name"))
	assert.Equal(t, -1, findColumnContaining(headers, "Mandate"))
}
