/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: convert_test.go
Description: Tests for the convert command helpers. Covers output sink close
handling, forced-format resolution, and manual dialect flag parsing.
*/

package commands

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloseSinkSurfacesCloseError(t *testing.T) {
	closeErr := errors.New("disk full")
	err := closeSink(nil, "out.ndjson", func() error { return closeErr })
	require.Error(t, err)
	assert.ErrorIs(t, err, closeErr)
	assert.Contains(t, err.Error(), "out.ndjson")
}

func TestCloseSinkKeepsConversionError(t *testing.T) {
	convErr := errors.New("bad input")
	err := closeSink(convErr, "out.ndjson", func() error { return errors.New("close failed") })
	assert.Equal(t, convErr, err)
}

func TestCloseSinkCleanRun(t *testing.T) {
	assert.NoError(t, closeSink(nil, "out.ndjson", func() error { return nil }))
}

func TestParseByteFlagTabSequence(t *testing.T) {
	b, err := parseByteFlag("delimiter", `\t`)
	require.NoError(t, err)
	assert.Equal(t, byte('\t'), b)
}

func TestParseByteFlagSingleChar(t *testing.T) {
	b, err := parseByteFlag("delimiter", ";")
	require.NoError(t, err)
	assert.Equal(t, byte(';'), b)
}

func TestParseByteFlagRejectsMultiChar(t *testing.T) {
	_, err := parseByteFlag("quote", "ab")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quote")
}
