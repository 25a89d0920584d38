/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Main command-line interface for the tabjson converter. Provides the
convert and detect commands with comprehensive flag handling and configuration
management backed by viper.
*/

package main

import (
	"fmt"
	"os"

	"github.com/kleascm/tabjson/cmd/tabjson/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Configuration
	configFile string
	logLevel   string
	jsonLogs   bool

	// Input/output configuration
	inputPath  string
	outputPath string

	// Dialect overrides
	delimiter    string
	quoteChar    string
	escapeChar   string
	noAutoDetect bool

	// Conversion configuration
	noTypeConversion bool
	stringFields     []string
	sheetName        string
	forcedFormat     string
)

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:   "tabjson",
		Short: "tabjson - Tabular files to newline-delimited JSON",
		Long: `tabjson converts delimited text files and spreadsheet workbooks to
newline-delimited JSON. The CSV dialect (delimiter, quote, and escape
convention) is detected automatically from a content sample, and every field
is type-inferred into null, boolean, integer, float, or string.`,
		Version: "1.0.0",
	}

	// Add persistent flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Use JSON log format")

	// Bind persistent flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("json_logs", rootCmd.PersistentFlags().Lookup("json-logs"))

	// Add convert command
	convertCmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a tabular file to NDJSON",
		Long: `Convert a delimited text file or spreadsheet workbook to newline-delimited
JSON, one compact JSON object per data row. The input format is classified by
extension and magic bytes; the CSV dialect is sniffed from the file head
unless overridden or disabled.`,
		RunE: commands.RunConvert,
	}

	// Add convert command flags
	convertCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input file path (required)")
	convertCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output NDJSON file path (default: stdout)")

	convertCmd.Flags().StringVarP(&delimiter, "delimiter", "d", "", "Override delimiter detection (e.g. ',', ';', '\\t')")
	convertCmd.Flags().StringVarP(&quoteChar, "quote", "q", "", "Override quote character detection (default: '\"')")
	convertCmd.Flags().StringVarP(&escapeChar, "escape", "e", "", "Override escape character detection (e.g. '\\\\'; default: \"\" doubling)")
	convertCmd.Flags().BoolVar(&noAutoDetect, "no-auto-detect", false, "Disable dialect detection and use the standard CSV format")

	convertCmd.Flags().BoolVar(&noTypeConversion, "no-type-conversion", false, "Keep all values as strings (disable type conversion)")
	convertCmd.Flags().StringSliceVar(&stringFields, "string-fields", []string{}, "Column names to keep as strings (comma-separated, e.g. \"zipcode,phone\")")
	convertCmd.Flags().StringVar(&sheetName, "sheet", "", "Worksheet name to read (spreadsheet only; default: first sheet)")
	convertCmd.Flags().StringVar(&forcedFormat, "format", "", "Force input format (csv, xlsx) bypassing classification")

	// Mark required flags
	convertCmd.MarkFlagRequired("input")

	// Bind flags to viper
	viper.BindPFlag("input", convertCmd.Flags().Lookup("input"))
	viper.BindPFlag("output", convertCmd.Flags().Lookup("output"))
	viper.BindPFlag("delimiter", convertCmd.Flags().Lookup("delimiter"))
	viper.BindPFlag("quote", convertCmd.Flags().Lookup("quote"))
	viper.BindPFlag("escape", convertCmd.Flags().Lookup("escape"))
	viper.BindPFlag("no_auto_detect", convertCmd.Flags().Lookup("no-auto-detect"))
	viper.BindPFlag("no_type_conversion", convertCmd.Flags().Lookup("no-type-conversion"))
	viper.BindPFlag("string_fields", convertCmd.Flags().Lookup("string-fields"))
	viper.BindPFlag("sheet", convertCmd.Flags().Lookup("sheet"))
	viper.BindPFlag("format", convertCmd.Flags().Lookup("format"))

	rootCmd.AddCommand(convertCmd)

	// Add detect command for dialect inspection
	detectCmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect and print the format and dialect of a file",
		Long: `Run format classification and dialect detection on a file without
converting it. Prints the resolved format, delimiter, quote, and escape
convention. Useful for verifying what a conversion would run under.`,
		RunE: commands.RunDetect,
	}

	detectCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input file path (required)")
	detectCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(detectCmd)

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
