/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: format.go
Description: File format classification for the tabjson converter. Decides whether
an input file is delimited text or a spreadsheet workbook using the file extension
first and magic bytes as a fallback.
*/

package detection

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kleascm/tabjson/pkg/interfaces"
)

// DetectFileFormat classifies the file at path as delimited text or a
// spreadsheet workbook. The extension is checked first (case-insensitive);
// when it is absent or unrecognized the first bytes are inspected for the
// ZIP and OLE2 container magics. Anything else defaults to delimited text.
func DetectFileFormat(path string) (interfaces.FileFormat, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "xlsx", "xlsm", "xlsb", "xls":
		return interfaces.FormatSpreadsheet, nil
	case "csv", "tsv", "txt":
		return interfaces.FormatDelimitedText, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return interfaces.FormatDelimitedText, fmt.Errorf("failed to open %s for format detection: %w", path, err)
	}
	defer file.Close()

	magic := make([]byte, 4)
	if _, err := io.ReadFull(file, magic); err == nil {
		// XLSX workbooks are ZIP archives; legacy XLS uses the OLE2 container.
		if magic[0] == 0x50 && magic[1] == 0x4B {
			return interfaces.FormatSpreadsheet, nil
		}
		if magic[0] == 0xD0 && magic[1] == 0xCF {
			return interfaces.FormatSpreadsheet, nil
		}
	}

	return interfaces.FormatDelimitedText, nil
}
