/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: convert.go
Description: Convert command implementation for the tabjson converter. Resolves
the input format and CSV dialect from flags and detection, opens the output
sink, and streams the conversion through the appropriate driver.
*/

package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kleascm/tabjson/pkg/detection"
	"github.com/kleascm/tabjson/pkg/interfaces"
	"github.com/kleascm/tabjson/pkg/parsers"
)

// RunConvert executes the conversion process
func RunConvert(cmd *cobra.Command, args []string) error {
	// Load configuration first
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup logging
	logger, err := SetupLogging()
	if err != nil {
		return err
	}

	inputPath, err := cmd.Flags().GetString("input")
	if err != nil {
		return err
	}

	opts := interfaces.Options{
		NoTypeConversion: viper.GetBool("no_type_conversion"),
		StringFields:     viper.GetStringSlice("string_fields"),
		SheetName:        viper.GetString("sheet"),
	}

	format, err := resolveFormat(inputPath)
	if err != nil {
		return err
	}

	var parser interfaces.Parser
	switch format {
	case interfaces.FormatSpreadsheet:
		parser = parsers.NewXLSXParser(logger)
	default:
		dialect, err := resolveDialect(inputPath)
		if err != nil {
			return err
		}
		logger.LogDialect(inputPath, dialect)
		parser = parsers.NewCSVParser(dialect, logger)
	}

	outputPath := viper.GetString("output")
	output, closeOutput, err := openOutput(outputPath)
	if err != nil {
		return err
	}

	report, err := parser.ConvertToNDJSON(inputPath, output, opts)
	if err = closeSink(err, outputPath, closeOutput); err != nil {
		return err
	}

	logger.LogReport(report)
	return nil
}

// closeSink closes the output sink and folds its error into the conversion
// result. A close failure on an otherwise clean run means the records may
// never have reached disk, so it has to surface.
func closeSink(err error, path string, close func() error) error {
	if closeErr := close(); err == nil && closeErr != nil {
		return fmt.Errorf("failed to close output %s: %w", path, closeErr)
	}
	return err
}

// resolveFormat applies the forced-format override or runs classification
func resolveFormat(inputPath string) (interfaces.FileFormat, error) {
	switch forced := viper.GetString("format"); forced {
	case "":
		return detection.DetectFileFormat(inputPath)
	case "csv":
		return interfaces.FormatDelimitedText, nil
	case "xlsx":
		return interfaces.FormatSpreadsheet, nil
	default:
		return 0, fmt.Errorf("unsupported format %q (expected csv or xlsx)", forced)
	}
}

// resolveDialect combines detection with the manual flag overrides.
// With --no-auto-detect the defaults apply unless overridden; otherwise the
// sniffer runs first and explicit flags beat its findings.
func resolveDialect(inputPath string) (interfaces.Dialect, error) {
	dialect := interfaces.DefaultDialect()
	if !viper.GetBool("no_auto_detect") {
		detected, err := detection.DetectDialect(inputPath)
		if err != nil {
			return interfaces.Dialect{}, err
		}
		dialect = detected
	}

	if value := viper.GetString("delimiter"); value != "" {
		b, err := parseByteFlag("delimiter", value)
		if err != nil {
			return interfaces.Dialect{}, err
		}
		dialect.Delimiter = b
	}
	if value := viper.GetString("quote"); value != "" {
		b, err := parseByteFlag("quote", value)
		if err != nil {
			return interfaces.Dialect{}, err
		}
		dialect.Quote = b
	}
	if value := viper.GetString("escape"); value != "" {
		b, err := parseByteFlag("escape", value)
		if err != nil {
			return interfaces.Dialect{}, err
		}
		dialect.Escape = b
	}

	return dialect, nil
}

// openOutput opens the output sink: a created file, or stdout when path is
// empty. The returned closer flushes file sinks to disk.
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
