/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: interfaces.go
Description: Shared interfaces and types for the tabjson converter. Defines the
dialect model, format classification results, conversion options, and the parser
contract implemented by the CSV and workbook drivers.
*/

package interfaces

import (
	"fmt"
	"io"
	"time"
)

// Terminator identifies the record terminator convention of an input file.
// The tokenizer accepts CRLF and LF transparently, so this is informational.
type Terminator int

const (
	TerminatorCRLF Terminator = iota
	TerminatorLF
)

// String returns a human-readable name for the terminator
func (t Terminator) String() string {
	if t == TerminatorLF {
		return "LF"
	}
	return "CRLF"
}

// Dialect describes the resolved low-level format of one delimited text file.
// It is produced once by detection (or assembled from flag overrides) before
// any record is parsed, and never changes mid-stream.
type Dialect struct {
	Delimiter  byte
	Quote      byte
	Escape     byte // 0 means RFC 4180 double-quote escaping
	Terminator Terminator
}

// DefaultDialect returns the conventional CSV dialect: comma-delimited,
// double-quoted, RFC 4180 escaping, CRLF terminated.
func DefaultDialect() Dialect {
	return Dialect{Delimiter: ',', Quote: '"', Terminator: TerminatorCRLF}
}

// String renders the dialect for diagnostics
func (d Dialect) String() string {
	escape := "double-quote (\"\")"
	if d.Escape != 0 {
		escape = fmt.Sprintf("%q", d.Escape)
	}
	return fmt.Sprintf("delimiter: %q, quote: %q, escape: %s, terminator: %s",
		d.Delimiter, d.Quote, escape, d.Terminator)
}

// FileFormat classifies an input file into one of the supported source kinds
type FileFormat int

const (
	FormatDelimitedText FileFormat = iota
	FormatSpreadsheet
)

// String returns a human-readable name for the format
func (f FileFormat) String() string {
	if f == FormatSpreadsheet {
		return "spreadsheet"
	}
	return "delimited text"
}

// Options holds the run-scoped conversion configuration. Immutable once
// assembled; passed explicitly into the drivers and the field inferencer
// rather than held as global state.
type Options struct {
	// NoTypeConversion keeps every non-empty field a string (empty fields
	// still become null).
	NoTypeConversion bool

	// StringFields lists column names whose values are never type-inferred.
	StringFields []string

	// SheetName selects a worksheet by name (spreadsheet path only).
	// Empty selects the first sheet in workbook order.
	SheetName string
}

// StringField reports whether name is in the StringFields list
func (o Options) StringField(name string) bool {
	for _, field := range o.StringFields {
		if field == name {
			return true
		}
	}
	return false
}

// Report summarizes a completed conversion run
type Report struct {
	Records  int64
	Sheet    string
	Duration time.Duration
}

// Parser is the shared contract implemented by the conversion drivers.
// Implementations stream every data row of the input file to the output
// writer as one compact JSON object per line, preserving header order as
// object key order.
type Parser interface {
	ConvertToNDJSON(inputPath string, output io.Writer, opts Options) (Report, error)
}
