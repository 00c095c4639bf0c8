package tracker

import (
	"fmt"
	"regexp"
	"strings"
)

// The OCR parser turns the plain text produced by a recognition engine back
// into holdings. The engine itself is an external collaborator (see the
// vision package); its only contract with this core is "image in,
// recognized plain text out".

// ocrMinTokens is the minimum number of whitespace-separated tokens a line
// needs before it can be a data row.
const ocrMinTokens = 5

// ocrValues is how many numeric values a data row carries after the
// instrument token; short rows are right-padded with zeros.
const ocrValues = 8

// ocrStoplist rejects lines whose first token is a stray repeated header or
// a footer rather than an instrument.
var ocrStoplist = []string{"instrument", "position", "total", "sum", "pending", "last", "change"}

var ocrSplit = regexp.MustCompile(`\s{2,}|\t+`)

// ParseRecognizedText parses OCR output into holdings. It locates a header
// line mentioning INSTRUMENT or POSITION to find where the data starts, then
// parses each following non-blank line as a positional row:
// position, last price, change %, cost basis, market value, avg price,
// daily P&L, unrealized P&L.
func ParseRecognizedText(text string) ([]Holding, []SkippedRow) {
	lines := strings.Split(strings.TrimSpace(text), "\n")

	start := 0
	for i, line := range lines {
		upper := strings.ToUpper(line)
		if strings.Contains(upper, "INSTRUMENT") || strings.Contains(upper, "POSITION") {
			start = i + 1
			break
		}
	}

	var holdings []Holding
	var skipped []SkippedRow
	for i := start; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		h, reason := parseRecognizedLine(line)
		if reason != "" {
			skipped = append(skipped, SkippedRow{Line: i + 1, Reason: reason})
			continue
		}
		holdings = append(holdings, h)
	}
	return holdings, skipped
}

// parseRecognizedLine parses one recognized line. It returns a non-empty
// reason instead of a holding when the line cannot be a data row.
func parseRecognizedLine(line string) (Holding, string) {
	parts := ocrSplit.Split(line, -1)
	// Recognition output is erratic about column gaps; retry on single
	// spaces when runs of whitespace did not yield enough tokens.
	if len(parts) < ocrMinTokens {
		parts = strings.Fields(line)
	}
	if len(parts) < ocrMinTokens {
		return Holding{}, fmt.Sprintf("only %d tokens", len(parts))
	}

	instrument := CleanInstrumentName(parts[0])
	if instrument == "" {
		return Holding{}, "empty instrument"
	}
	if isNumericToken(instrument) {
		return Holding{}, fmt.Sprintf("numeric instrument %q", instrument)
	}
	lower := strings.ToLower(instrument)
	for _, kw := range ocrStoplist {
		if strings.Contains(lower, kw) {
			return Holding{}, fmt.Sprintf("header or summary token %q", instrument)
		}
	}

	numbers := make([]float64, 0, len(parts)-1)
	for _, part := range parts[1:] {
		tok := strings.TrimSpace(part)
		if strings.Contains(tok, "%") {
			numbers = append(numbers, ParsePercentage(strings.ReplaceAll(tok, "%", "")))
		} else {
			numbers = append(numbers, ParseNumber(tok))
		}
	}
	for len(numbers) < ocrValues {
		numbers = append(numbers, 0)
	}

	h := NewHolding(instrument)
	h.Position = numbers[0]
	h.LastPrice = numbers[1]
	h.ChangePct = numbers[2]
	h.CostBasis = numbers[3]
	h.MarketValue = numbers[4]
	h.AvgPrice = numbers[5]
	h.DailyPnL = numbers[6]
	h.UnrealizedPnL = numbers[7]
	return h, ""
}

// isNumericToken reports whether a token is purely numeric once dots and
// minus signs are ignored, meaning it cannot be an instrument name.
func isNumericToken(s string) bool {
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, "-", "")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
