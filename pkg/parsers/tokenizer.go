/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: tokenizer.go
Description: Dialect-configurable CSV tokenizer for the tabjson converter.
Splits a delimited text stream into records under an arbitrary delimiter and
quote byte with either RFC 4180 double-quote escaping or backslash escaping.
Quoted fields may contain delimiters and newlines; LF and CRLF terminators are
both accepted.
*/

package parsers

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/kleascm/tabjson/pkg/interfaces"
)

var (
	// ErrBareQuote is returned when a quote appears inside an unquoted field.
	ErrBareQuote = errors.New("tabjson: bare quote in non-quoted field")
	// ErrUnterminatedQuote is returned when a quoted field is not closed before EOF.
	ErrUnterminatedQuote = errors.New("tabjson: unterminated quoted field")
)

// ParseError carries location information for tokenizer errors.
type ParseError struct {
	Line   int
	Column int
	Err    error
}

// Error formats the parse error with the stored line, column, and Err values.
func (e *ParseError) Error() string {
	return fmt.Sprintf("tabjson: parse error on line %d, column %d: %v", e.Line, e.Column, e.Err)
}

// Unwrap returns the underlying Err so ParseError participates in errors.Is.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Tokenizer reads records from a delimited text stream under a fixed dialect.
// The dialect never changes mid-stream. Field counts are not enforced; the
// drivers tolerate short and long rows.
type Tokenizer struct {
	r       *bufio.Reader
	dialect interfaces.Dialect
	line    int
	done    bool
}

// NewTokenizer creates a Tokenizer reading from r under the given dialect.
// A zero delimiter or quote byte falls back to the conventional default.
func NewTokenizer(r io.Reader, dialect interfaces.Dialect) *Tokenizer {
	if dialect.Delimiter == 0 {
		dialect.Delimiter = ','
	}
	if dialect.Quote == 0 {
		dialect.Quote = '"'
	}
	return &Tokenizer{
		r:       bufio.NewReaderSize(r, 32*1024),
		dialect: dialect,
		line:    1,
	}
}

// Read parses the next record from the stream. Blank lines are skipped.
// io.EOF signals that no more records remain; a final line without a
// terminator still yields a record.
func (t *Tokenizer) Read() ([]string, error) {
	if t.done {
		return nil, io.EOF
	}

	delim := t.dialect.Delimiter
	quote := t.dialect.Quote
	escape := t.dialect.Escape

	var record []string
	field := make([]byte, 0, 64)
	inQuotes := false
	quoted := false // current field opened with a quote
	column := 1

	for {
		b, err := t.r.ReadByte()
		if err != nil {
			if err != io.EOF {
				return nil, err
			}
			t.done = true
			if inQuotes {
				return nil, &ParseError{Line: t.line, Column: column, Err: ErrUnterminatedQuote}
			}
			if len(field) > 0 || len(record) > 0 || quoted {
				return append(record, string(field)), nil
			}
			return nil, io.EOF
		}

		if inQuotes {
			switch {
			case escape != 0 && b == escape:
				// Backslash mode: the next byte is literal.
				next, err := t.r.ReadByte()
				if err == io.EOF {
					t.done = true
					return nil, &ParseError{Line: t.line, Column: column, Err: ErrUnterminatedQuote}
				}
				if err != nil {
					return nil, err
				}
				field = append(field, next)
				column += 2
			case b == quote:
				if escape == 0 {
					// RFC 4180: a doubled quote is a literal quote.
					next, err := t.r.Peek(1)
					if err == nil && next[0] == quote {
						t.r.Discard(1)
						field = append(field, quote)
						column += 2
						continue
					}
					if err != nil && err != io.EOF {
						return nil, err
					}
				}
				inQuotes = false
				column++
			case b == '\n':
				field = append(field, b)
				t.line++
				column = 1
			default:
				field = append(field, b)
				column++
			}
			continue
		}

		switch b {
		case delim:
			record = append(record, string(field))
			field = field[:0]
			quoted = false
			column++
		case '\r', '\n':
			if b == '\r' {
				next, err := t.r.Peek(1)
				if err == nil && next[0] == '\n' {
					t.r.Discard(1)
				} else if err != nil && err != io.EOF {
					return nil, err
				}
			}
			t.line++
			column = 1
			if len(field) == 0 && len(record) == 0 && !quoted {
				// Blank line, not a record.
				continue
			}
			return append(record, string(field)), nil
		case quote:
			if len(field) == 0 && !quoted {
				inQuotes = true
				quoted = true
				column++
				continue
			}
			return nil, &ParseError{Line: t.line, Column: column, Err: ErrBareQuote}
		default:
			field = append(field, b)
			column++
		}
	}
}

// ReadAll exhausts the tokenizer, collecting records until io.EOF.
func (t *Tokenizer) ReadAll() ([][]string, error) {
	var records [][]string
	for {
		record, err := t.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}
