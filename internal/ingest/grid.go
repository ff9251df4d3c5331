package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Grid is a raw spreadsheet: rows of cells, already stringified. Cells may be
// empty and rows may have different lengths.
type Grid [][]string

// ReadGrid parses raw file bytes into a Grid. The format is chosen from the
// file name extension: .xlsx/.xlsm go through excelize (first sheet only),
// anything else is treated as CSV.
func ReadGrid(data []byte, fileName string) (Grid, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx", ".xlsm":
		return readXLSX(data)
	default:
		return readCSV(data)
	}
}

func readXLSX(data []byte) (Grid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return Grid(rows), nil
}

func readCSV(data []byte) (Grid, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var grid Grid
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", len(grid)+1, err)
		}
		grid = append(grid, row)
	}
	return grid, nil
}
