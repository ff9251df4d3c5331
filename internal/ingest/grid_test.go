package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadGridCSV(t *testing.T) {
	t.Run("ragged_rows", func(t *testing.T) {
		data := []byte("S/N,File No,Name\n1,0347,ADAMU MUSA\n2,0512\n")
		grid, err := ReadGrid(data, "postings.csv")
		require.NoError(t, err)
		require.Len(t, grid, 3)
		assert.Equal(t, []string{"S/N", "File No", "Name"}, grid[0])
		assert.Equal(t, []string{"2", "0512"}, grid[2])
	})

	t.Run("leading_space_trimmed", func(t *testing.T) {
		grid, err := ReadGrid([]byte("a, b\n"), "x.csv")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, grid[0])
	})

	t.Run("empty_file", func(t *testing.T) {
		grid, err := ReadGrid(nil, "empty.csv")
		require.NoError(t, err)
		assert.Empty(t, grid)
	})

	t.Run("unknown_extension_is_csv", func(t *testing.T) {
		grid, err := ReadGrid([]byte("a,b\n"), "sheet.txt")
		require.NoError(t, err)
		require.Len(t, grid, 1)
	})
}

func TestReadGridXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "S/N"))
	require.NoError(t, f.SetCellValue(sheet, "B1", "File No"))
	require.NoError(t, f.SetCellValue(sheet, "C1", "Name"))
	require.NoError(t, f.SetCellValue(sheet, "A2", 1))
	require.NoError(t, f.SetCellValue(sheet, "B2", "0347"))
	require.NoError(t, f.SetCellValue(sheet, "C2", "ADAMU MUSA"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	grid, err := ReadGrid(buf.Bytes(), "postings.xlsx")
	require.NoError(t, err)
	require.Len(t, grid, 2)
	assert.Equal(t, []string{"S/N", "File No", "Name"}, grid[0])
	assert.Equal(t, []string{"1", "0347", "ADAMU MUSA"}, grid[1])
}

func TestReadGridXLSXBadBytes(t *testing.T) {
	_, err := ReadGrid([]byte("not a workbook"), "postings.xlsx")
	assert.Error(t, err)
}
