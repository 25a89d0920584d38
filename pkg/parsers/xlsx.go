/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: xlsx.go
Description: Spreadsheet conversion driver for the tabjson converter. Reads a
selected worksheet through excelize's row iterator, stringifies each cell, and
routes the text through the same type inferencer as the CSV path so the
leading-zero and boolean rules apply uniformly across both source formats.
Worksheet parts are integrity-checked up front so corrupted sheet data fails
the run instead of silently truncating the output.
*/

package parsers

import (
	"archive/zip"
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kleascm/tabjson/pkg/conversion"
	"github.com/kleascm/tabjson/pkg/interfaces"
	"github.com/kleascm/tabjson/pkg/logging"
)

// XLSXParser streams a workbook sheet to NDJSON
type XLSXParser struct {
	logger *logging.Logger
}

// NewXLSXParser creates a workbook driver
func NewXLSXParser(logger *logging.Logger) *XLSXParser {
	return &XLSXParser{logger: logger}
}

// ConvertToNDJSON streams every data row of the selected sheet to output as
// one JSON object per line. The sheet is opts.SheetName when supplied,
// otherwise the first sheet in workbook order; an unknown requested name is
// fatal. The first row is the header; empty cells map directly to null.
// Either every row streams through or the run fails; a workbook with
// corrupted sheet data is rejected before any output is written.
func (p *XLSXParser) ConvertToNDJSON(inputPath string, output io.Writer, opts interfaces.Options) (interfaces.Report, error) {
	start := time.Now()

	if err := validateSheetData(inputPath); err != nil {
		return interfaces.Report{}, err
	}

	workbook, err := excelize.OpenFile(inputPath)
	if err != nil {
		return interfaces.Report{}, fmt.Errorf("failed to open workbook %s: %w", inputPath, err)
	}
	defer workbook.Close()

	sheet, err := p.resolveSheet(workbook, opts.SheetName)
	if err != nil {
		return interfaces.Report{}, err
	}

	if p.logger != nil {
		p.logger.Info("Reading worksheet", map[string]interface{}{"sheet": sheet})
	}

	rows, err := workbook.Rows(sheet)
	if err != nil {
		return interfaces.Report{}, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	report, err := p.streamRows(rows, output, sheet, opts, start)
	if closeErr := rows.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close sheet %s: %w", sheet, closeErr)
	}
	return report, err
}

// streamRows drains the row iterator into NDJSON lines
func (p *XLSXParser) streamRows(rows *excelize.Rows, output io.Writer, sheet string, opts interfaces.Options, start time.Time) (interfaces.Report, error) {
	writer := bufio.NewWriterSize(output, 32*1024)

	var header []string
	headerRead := false
	var count int64

	for rows.Next() {
		cells, err := rows.Columns()
		if err != nil {
			return interfaces.Report{}, fmt.Errorf("failed to read row from sheet %s: %w", sheet, err)
		}

		if !headerRead {
			// Header cells are kept verbatim; only indexes past the header
			// ever synthesize a column_<i> name.
			header = cells
			headerRead = true
			continue
		}

		record := conversion.NewRecord(len(cells))
		for i, cell := range cells {
			name := columnName(header, i)
			if cell == "" {
				// Empty cells bypass inference entirely.
				record.Set(name, nil)
				continue
			}
			record.Set(name, conversion.ConvertFieldValue(normalizeCell(cell), name, opts))
		}

		if err := record.WriteLine(writer); err != nil {
			return interfaces.Report{}, fmt.Errorf("failed to write output: %w", err)
		}

		count++
		if count%progressInterval == 0 && p.logger != nil {
			p.logger.LogProgress(count)
		}
	}

	if err := rows.Error(); err != nil {
		return interfaces.Report{}, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	if err := writer.Flush(); err != nil {
		return interfaces.Report{}, fmt.Errorf("failed to flush output: %w", err)
	}

	return interfaces.Report{Records: count, Sheet: sheet, Duration: time.Since(start)}, nil
}

// resolveSheet picks the worksheet to stream from
func (p *XLSXParser) resolveSheet(workbook *excelize.File, requested string) (string, error) {
	if requested != "" {
		index, err := workbook.GetSheetIndex(requested)
		if err != nil {
			return "", fmt.Errorf("failed to look up sheet %s: %w", requested, err)
		}
		if index < 0 {
			return "", fmt.Errorf("sheet %q not found in workbook", requested)
		}
		return requested, nil
	}

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("no sheets found in workbook")
	}
	return sheets[0], nil
}

// validateSheetData scans the worksheet parts of the workbook archive for
// XML well-formedness. The row iterator ends silently when sheet data breaks
// off mid-stream, which would truncate the output without an error, so
// corruption has to be caught before streaming begins.
func validateSheetData(path string) error {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer archive.Close()

	for _, part := range archive.File {
		if !strings.HasPrefix(part.Name, "xl/worksheets/") || !strings.HasSuffix(part.Name, ".xml") {
			continue
		}
		if err := validateXMLPart(part); err != nil {
			return fmt.Errorf("workbook %s: worksheet part %s is corrupted: %w", path, part.Name, err)
		}
	}
	return nil
}

// validateXMLPart decodes one archive part to its end, surfacing truncation
// and syntax errors the decoder would otherwise swallow downstream.
func validateXMLPart(part *zip.File) error {
	rc, err := part.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	for {
		_, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// normalizeCell renders a numeric cell that carries a zero fractional part
// without its decimal point, so a stored 42.0 re-infers to integer 42.
// Non-numeric text passes through untouched.
func normalizeCell(cell string) string {
	if !strings.ContainsAny(cell, ".eE") {
		return cell
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return cell
	}
	if f == math.Trunc(f) && math.Abs(f) < float64(math.MaxInt64) {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return cell
}
