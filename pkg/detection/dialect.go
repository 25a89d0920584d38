/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: dialect.go
Description: CSV dialect sniffer for the tabjson converter. Analyzes a bounded
sample of lines from the start of a file to infer the field delimiter and escape
convention without any format header or user hint. The quote character is fixed
to the double quote and the terminator is informational CRLF.
*/

package detection

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/kleascm/tabjson/pkg/interfaces"
)

// sampleLineLimit bounds how many lines the sniffer reads. Detection stays
// cheap regardless of file size; lines past the cap are invisible to it.
const sampleLineLimit = 250

// delimiterCandidates is the fixed candidate set, in tie-break order.
var delimiterCandidates = []byte{',', ';', '\t', '|'}

// delimiterScore ranks one candidate delimiter during detection
type delimiterScore struct {
	delim byte
	score float64
}

// DetectDialect infers the dialect of the delimited text file at path from a
// sample of at most 250 lines. It never fails on well-formed or empty input;
// an empty file yields the conventional comma/double-quote/CRLF default.
// The result is a pure function of the file prefix: detecting twice on an
// unchanged file yields an identical dialect.
func DetectDialect(path string) (interfaces.Dialect, error) {
	file, err := os.Open(path)
	if err != nil {
		return interfaces.Dialect{}, fmt.Errorf("failed to open %s for dialect detection: %w", path, err)
	}
	defer file.Close()

	lines, err := sampleLines(file)
	if err != nil {
		return interfaces.Dialect{}, fmt.Errorf("failed to sample %s: %w", path, err)
	}

	dialect := interfaces.DefaultDialect()
	if len(lines) == 0 {
		return dialect, nil
	}

	dialect.Delimiter = detectDelimiter(lines)
	dialect.Escape = detectEscape(lines)
	return dialect, nil
}

// sampleLines reads at most sampleLineLimit raw lines from r
func sampleLines(file *os.File) ([]string, error) {
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for len(lines) < sampleLineLimit && scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// detectDelimiter scores each candidate over the non-empty sampled lines and
// returns the best one. The score blends mean occurrence count with how
// consistent that count is across lines:
//
//	score = average_count * (0.7 + 0.3 * consistency_ratio)
//
// Pure frequency favors high-cardinality noise such as commas inside free
// text; pure consistency favors rare-but-uniform delimiters; the blend
// balances both. Ties keep the earlier candidate in delimiterCandidates.
// A sample where no candidate ever appears falls back to the comma.
func detectDelimiter(lines []string) byte {
	best := delimiterScore{delim: ','}

	for _, delim := range delimiterCandidates {
		var counts []int
		total := 0
		for _, line := range lines {
			if line == "" {
				continue
			}
			n := strings.Count(line, string(delim))
			counts = append(counts, n)
			total += n
		}
		if total == 0 || len(counts) == 0 {
			continue
		}

		average := float64(total) / float64(len(counts))
		consistency := modalShare(counts)
		score := average * (0.7 + 0.3*consistency)
		if score > best.score {
			best = delimiterScore{delim: delim, score: score}
		}
	}

	return best.delim
}

// modalShare returns the fraction of counts equal to the single most
// frequent occurrence-count value.
func modalShare(counts []int) float64 {
	freq := make(map[int]int, len(counts))
	mode := 0
	for _, count := range counts {
		freq[count]++
		if freq[count] > mode {
			mode = freq[count]
		}
	}
	return float64(mode) / float64(len(counts))
}

// detectEscape scans the sample for backslash-escaped quotes versus doubled
// quotes. Backslash escaping is selected only when its evidence is
// unambiguous: the \" pattern appears and the "" pattern does not. Every
// other case, including mixed evidence, resolves to 0 (RFC 4180 doubling),
// the standards-default that is never ambiguous with itself.
func detectEscape(lines []string) byte {
	hasBackslashEscape := false
	hasDoubleQuoteEscape := false

	for _, line := range lines {
		if strings.Contains(line, `\"`) {
			hasBackslashEscape = true
		}
		if strings.Contains(line, `""`) {
			hasDoubleQuoteEscape = true
		}
	}

	if hasBackslashEscape && !hasDoubleQuoteEscape {
		return '\\'
	}
	return 0
}
