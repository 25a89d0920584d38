/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: xlsx_test.go
Description: Tests for the spreadsheet conversion driver. Workbooks are built
with excelize in a temp dir, then streamed to NDJSON. Covers sheet selection,
cell stringification and re-inference, whole-float normalization, empty cells,
blank header cells, corrupted sheet data, and the missing-sheet error path.
*/

package parsers_test

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/kleascm/tabjson/pkg/interfaces"
	"github.com/kleascm/tabjson/pkg/parsers"
)

// buildWorkbook writes rows to the default sheet of a fresh workbook
func buildWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		for j, cell := range row {
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", name, cell))
		}
	}
	path := filepath.Join(t.TempDir(), "test.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func convertXLSX(t *testing.T, path string, opts interfaces.Options) ([]string, interfaces.Report) {
	t.Helper()
	var buf bytes.Buffer
	report, err := parsers.NewXLSXParser(nil).ConvertToNDJSON(path, &buf, opts)
	require.NoError(t, err)
	out := strings.TrimSuffix(buf.String(), "\n")
	if out == "" {
		return nil, report
	}
	return strings.Split(out, "\n"), report
}

func TestXLSXBasicConversion(t *testing.T) {
	path := buildWorkbook(t, [][]interface{}{
		{"name", "age"},
		{"Alice", 30},
		{"Bob", 25},
	})

	lines, report := convertXLSX(t, path, interfaces.Options{})
	require.Len(t, lines, 2)
	assert.Equal(t, `{"name":"Alice","age":30}`, lines[0])
	assert.Equal(t, `{"name":"Bob","age":25}`, lines[1])
	assert.Equal(t, int64(2), report.Records)
	assert.Equal(t, "Sheet1", report.Sheet)
}

func TestXLSXWholeFloatBecomesInteger(t *testing.T) {
	path := buildWorkbook(t, [][]interface{}{
		{"amount"},
		{42.0},
	})

	lines, _ := convertXLSX(t, path, interfaces.Options{})
	require.Len(t, lines, 1)
	assert.Equal(t, `{"amount":42}`, lines[0])
}

func TestXLSXFractionalFloatStaysFloat(t *testing.T) {
	path := buildWorkbook(t, [][]interface{}{
		{"score"},
		{0.5},
	})

	lines, _ := convertXLSX(t, path, interfaces.Options{})
	require.Len(t, lines, 1)
	assert.Equal(t, `{"score":0.5}`, lines[0])
}

func TestXLSXBooleanCells(t *testing.T) {
	path := buildWorkbook(t, [][]interface{}{
		{"active"},
		{true},
		{false},
	})

	lines, _ := convertXLSX(t, path, interfaces.Options{})
	require.Len(t, lines, 2)
	assert.Equal(t, `{"active":true}`, lines[0])
	assert.Equal(t, `{"active":false}`, lines[1])
}

func TestXLSXEmptyCellsBecomeNull(t *testing.T) {
	path := buildWorkbook(t, [][]interface{}{
		{"a", "b", "c"},
		{1, "", "x"},
	})

	lines, _ := convertXLSX(t, path, interfaces.Options{})
	require.Len(t, lines, 1)
	assert.Equal(t, `{"a":1,"b":null,"c":"x"}`, lines[0])
}

func TestXLSXStringFieldsOverride(t *testing.T) {
	path := buildWorkbook(t, [][]interface{}{
		{"zipcode"},
		{12345},
	})

	lines, _ := convertXLSX(t, path, interfaces.Options{StringFields: []string{"zipcode"}})
	require.Len(t, lines, 1)
	assert.Equal(t, `{"zipcode":"12345"}`, lines[0])
}

func TestXLSXExplicitSheetSelection(t *testing.T) {
	f := excelize.NewFile()
	_, err := f.NewSheet("Data")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Data", "A1", "x"))
	require.NoError(t, f.SetCellValue("Data", "A2", 7))
	path := filepath.Join(t.TempDir(), "multi.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	lines, report := convertXLSX(t, path, interfaces.Options{SheetName: "Data"})
	require.Len(t, lines, 1)
	assert.Equal(t, `{"x":7}`, lines[0])
	assert.Equal(t, "Data", report.Sheet)
}

func TestXLSXUnknownSheetIsFatal(t *testing.T) {
	path := buildWorkbook(t, [][]interface{}{{"a"}, {1}})

	var buf bytes.Buffer
	_, err := parsers.NewXLSXParser(nil).ConvertToNDJSON(path, &buf, interfaces.Options{SheetName: "Nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Nope")
}

func TestXLSXHeaderOnlySheet(t *testing.T) {
	path := buildWorkbook(t, [][]interface{}{{"a", "b"}})

	lines, report := convertXLSX(t, path, interfaces.Options{})
	assert.Nil(t, lines)
	assert.Equal(t, int64(0), report.Records)
}

func TestXLSXBlankHeaderCellKeepsEmptyKey(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "a"))
	require.NoError(t, f.SetCellValue("Sheet1", "C1", "c"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", 1))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 2))
	require.NoError(t, f.SetCellValue("Sheet1", "C2", 3))
	path := filepath.Join(t.TempDir(), "blankheader.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	lines, _ := convertXLSX(t, path, interfaces.Options{})
	require.Len(t, lines, 1)
	assert.Equal(t, `{"a":1,"":2,"c":3}`, lines[0])
}

func TestXLSXRowWiderThanHeader(t *testing.T) {
	path := buildWorkbook(t, [][]interface{}{
		{"a"},
		{1, 2},
	})

	lines, _ := convertXLSX(t, path, interfaces.Options{})
	require.Len(t, lines, 1)
	assert.Equal(t, `{"a":1,"column_1":2}`, lines[0])
}

// truncateSheetPart rewrites the workbook archive with the named part cut
// off after its nth closing row tag, leaving the rest of the archive intact.
func truncateSheetPart(t *testing.T, path, partName string, keepRows int) {
	t.Helper()
	reader, err := zip.OpenReader(path)
	require.NoError(t, err)

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for _, part := range reader.File {
		rc, err := part.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())

		if part.Name == partName {
			cut := 0
			for i := 0; i < keepRows; i++ {
				next := strings.Index(string(data[cut:]), "</row>")
				require.NotEqual(t, -1, next, "expected at least %d rows in %s", keepRows, partName)
				cut += next + len("</row>")
			}
			data = data[:cut]
		}

		w, err := writer.Create(part.Name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, reader.Close())
	require.NoError(t, writer.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestXLSXCorruptedSheetIsFatal(t *testing.T) {
	path := buildWorkbook(t, [][]interface{}{
		{"id", "name"},
		{1, "Alice"},
		{2, "Bob"},
		{3, "Carol"},
		{4, "Dave"},
	})
	// Cut the sheet XML off after the header and first data row. The row
	// iterator would end cleanly at the break, reporting one record and no
	// error, so the conversion has to refuse the workbook outright.
	truncateSheetPart(t, path, "xl/worksheets/sheet1.xml", 2)

	var buf bytes.Buffer
	_, err := parsers.NewXLSXParser(nil).ConvertToNDJSON(path, &buf, interfaces.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupted")
	assert.Zero(t, buf.Len())
}

func TestXLSXMissingWorkbook(t *testing.T) {
	var buf bytes.Buffer
	_, err := parsers.NewXLSXParser(nil).ConvertToNDJSON(filepath.Join(t.TempDir(), "missing.xlsx"), &buf, interfaces.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open workbook")
}
