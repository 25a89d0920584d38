/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: csv.go
Description: CSV conversion driver for the tabjson converter. Streams records
from a delimited text file under a fixed dialect, converts each field through
the type inferencer, and emits one compact JSON object per line in header order.
*/

package parsers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kleascm/tabjson/pkg/conversion"
	"github.com/kleascm/tabjson/pkg/interfaces"
	"github.com/kleascm/tabjson/pkg/logging"
)

// progressInterval is the streaming progress cadence in records.
const progressInterval = 10000

// CSVParser streams delimited text to NDJSON under a fixed dialect
type CSVParser struct {
	dialect interfaces.Dialect
	logger  *logging.Logger
}

// NewCSVParser creates a CSV driver for the given dialect
func NewCSVParser(dialect interfaces.Dialect, logger *logging.Logger) *CSVParser {
	return &CSVParser{dialect: dialect, logger: logger}
}

// Dialect returns the dialect the driver tokenizes under
func (p *CSVParser) Dialect() interfaces.Dialect {
	return p.dialect
}

// ConvertToNDJSON streams every data row of the input file to output as one
// JSON object per line. The first record is the header; a malformed record
// aborts the stream rather than skipping, so downstream row counts stay
// trustworthy. Memory use is one record at a time.
func (p *CSVParser) ConvertToNDJSON(inputPath string, output io.Writer, opts interfaces.Options) (interfaces.Report, error) {
	start := time.Now()

	file, err := os.Open(inputPath)
	if err != nil {
		return interfaces.Report{}, fmt.Errorf("failed to open input file %s: %w", inputPath, err)
	}
	defer file.Close()

	tokenizer := NewTokenizer(file, p.dialect)

	header, err := tokenizer.Read()
	if err == io.EOF {
		// No header row means no records.
		return interfaces.Report{Duration: time.Since(start)}, nil
	}
	if err != nil {
		return interfaces.Report{}, fmt.Errorf("failed to read header row from %s: %w", inputPath, err)
	}

	writer := bufio.NewWriterSize(output, 32*1024)
	var count int64

	for {
		row, err := tokenizer.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return interfaces.Report{}, fmt.Errorf("failed to read record from %s: %w", inputPath, err)
		}

		record := buildRecord(header, row, opts)
		if err := record.WriteLine(writer); err != nil {
			return interfaces.Report{}, fmt.Errorf("failed to write output: %w", err)
		}

		count++
		if count%progressInterval == 0 && p.logger != nil {
			p.logger.LogProgress(count)
		}
	}

	if err := writer.Flush(); err != nil {
		return interfaces.Report{}, fmt.Errorf("failed to flush output: %w", err)
	}

	return interfaces.Report{Records: count, Duration: time.Since(start)}, nil
}

// buildRecord pairs row fields with header names, inferring each value.
// A row longer than the header synthesizes column_<index> names; a shorter
// row simply leaves the trailing keys absent.
func buildRecord(header, row []string, opts interfaces.Options) *conversion.Record {
	record := conversion.NewRecord(len(row))
	for i, field := range row {
		name := columnName(header, i)
		record.Set(name, conversion.ConvertFieldValue(field, name, opts))
	}
	return record
}

// columnName returns the header name for index i or the synthesized default
func columnName(header []string, i int) string {
	if i < len(header) {
		return header[i]
	}
	return fmt.Sprintf("column_%d", i)
}
