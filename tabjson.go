/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: tabjson.go
Description: High-level facade for the tabjson converter. Classifies an input
file, sniffs the CSV dialect when applicable, and streams it to newline
delimited JSON through the matching driver in one call.
*/

package tabjson

import (
	"fmt"
	"io"
	"os"

	"github.com/kleascm/tabjson/pkg/detection"
	"github.com/kleascm/tabjson/pkg/interfaces"
	"github.com/kleascm/tabjson/pkg/logging"
	"github.com/kleascm/tabjson/pkg/parsers"
)

// ConvertToNDJSON converts any supported tabular file to NDJSON. The input
// format is classified by extension and magic bytes; delimited text gets its
// dialect sniffed from the file head. An empty outputPath writes to stdout.
// The logger may be nil to suppress diagnostics.
func ConvertToNDJSON(inputPath, outputPath string, opts interfaces.Options, logger *logging.Logger) (interfaces.Report, error) {
	format, err := detection.DetectFileFormat(inputPath)
	if err != nil {
		return interfaces.Report{}, err
	}

	var parser interfaces.Parser
	switch format {
	case interfaces.FormatSpreadsheet:
		parser = parsers.NewXLSXParser(logger)
	default:
		dialect, err := detection.DetectDialect(inputPath)
		if err != nil {
			return interfaces.Report{}, err
		}
		if logger != nil {
			logger.LogDialect(inputPath, dialect)
		}
		parser = parsers.NewCSVParser(dialect, logger)
	}

	output, closeOutput, err := openOutput(outputPath)
	if err != nil {
		return interfaces.Report{}, err
	}

	report, err := parser.ConvertToNDJSON(inputPath, output, opts)
	if closeErr := closeOutput(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close output %s: %w", outputPath, closeErr)
	}
	return report, err
}

// ConvertCSVToNDJSON converts delimited text under an explicit dialect,
// bypassing classification and detection.
func ConvertCSVToNDJSON(inputPath, outputPath string, dialect interfaces.Dialect, opts interfaces.Options, logger *logging.Logger) (interfaces.Report, error) {
	parser := parsers.NewCSVParser(dialect, logger)
	return convertWith(parser, inputPath, outputPath, opts)
}

// ConvertXLSXToNDJSON converts a workbook, selecting opts.SheetName or the
// first sheet in workbook order.
func ConvertXLSXToNDJSON(inputPath, outputPath string, opts interfaces.Options, logger *logging.Logger) (interfaces.Report, error) {
	parser := parsers.NewXLSXParser(logger)
	return convertWith(parser, inputPath, outputPath, opts)
}

func convertWith(parser interfaces.Parser, inputPath, outputPath string, opts interfaces.Options) (interfaces.Report, error) {
	output, closeOutput, err := openOutput(outputPath)
	if err != nil {
		return interfaces.Report{}, err
	}

	report, err := parser.ConvertToNDJSON(inputPath, output, opts)
	if closeErr := closeOutput(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close output %s: %w", outputPath, closeErr)
	}
	return report, err
}

// openOutput opens the output sink: a created file, or stdout when path is empty
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	return file, file.Close, nil
}
