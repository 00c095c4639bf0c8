package tracker

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
)

// This file holds the numeric and text normalization helpers shared by the
// three ingestion parsers, plus the extension-based dispatch.

// ErrUnsupportedFormat is returned by ParseFile for file extensions none of
// the parsers handle.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// SkippedRow records one input row a parser rejected, so the caller can
// report every skip instead of silently shrinking the result.
type SkippedRow struct {
	Line   int // 1-based row or line number in the source
	Reason string
}

// ParseNumber parses a number out of the loosely formatted strings found in
// broker exports: thousands separators, dashes for missing values, and the
// occasional currency letter glued to the digits ("C31.86"). It never fails;
// anything unparseable is 0.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)

	// Currency prefix as produced by some export formats, e.g. 'C31.86'.
	if len(s) > 1 && s[0] == 'C' {
		s = s[1:]
	}

	switch s {
	case "—", "-", "--", "":
		return 0
	}

	s = strings.ReplaceAll(s, ",", "")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

// ParsePercentage parses a percentage cell. A trailing '%' divides by 100; a
// bare numeric string is taken at face value ("5" is 5.0, not 0.05 — the
// sources that feed this are inconsistent and the caller is expected to know
// which convention a column uses). It never fails; unparseable input is 0.
func ParsePercentage(s string) float64 {
	s = strings.TrimSpace(s)

	switch s {
	case "—", "-", "--", "":
		return 0
	}

	if strings.HasSuffix(s, "%") {
		d, err := decimal.NewFromString(strings.TrimSuffix(s, "%"))
		if err != nil {
			return 0
		}
		return d.Div(decimal.NewFromInt(100)).InexactFloat64()
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

// CleanInstrumentName normalizes an instrument cell: trims whitespace and
// strips the non-breaking spaces spreadsheet exports like to leave behind.
func CleanInstrumentName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\u00a0", "")
	return strings.TrimSpace(name)
}

// isSummaryRow reports whether a cleaned instrument cell is a summary or
// footer row ("Total", "Sum", "Pending orders") rather than a position.
func isSummaryRow(instrument string) bool {
	lower := strings.ToLower(instrument)
	for _, kw := range []string{"total", "sum", "pending"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ParseFile parses a spreadsheet or delimited text file into holdings,
// dispatching on the file extension. Images are not handled here: the caller
// routes them through the vision collaborator and then ParseRecognizedText.
func ParseFile(path string) ([]Holding, []SkippedRow, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return ParseSpreadsheet(path)
	case ".csv":
		return ParseDelimitedFile(path)
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}
