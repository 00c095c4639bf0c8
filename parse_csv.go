package tracker

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// csvSynonyms maps each field to the exact lower-cased header names the
// delimited parser accepts, in lookup order. Unlike the spreadsheet parser
// there is no fuzzy matching: delimited exports are machine-written and
// their headers are stable.
var csvSynonyms = map[column][]string{
	colInstrument:    {"instrument", "ticker", "symbol"},
	colPosition:      {"position", "qty"},
	colLastPrice:     {"last", "price"},
	colChangePct:     {"change %", "change"},
	colCostBasis:     {"cost basis", "cost"},
	colMarketValue:   {"market value", "value"},
	colAvgPrice:      {"avg price", "average"},
	colDailyPnL:      {"daily p&l", "daily pnl"},
	colUnrealizedPnL: {"unrealized p&l", "unrealized"},
}

// ParseDelimitedFile parses a .csv file into holdings.
func ParseDelimitedFile(path string) ([]Holding, []SkippedRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open %q: %w", path, err)
	}
	defer f.Close()
	return ParseDelimited(f)
}

// ParseDelimited parses delimited text into holdings. The first record is
// the header; fields are resolved by exact lower-cased name with a short
// synonym list per field. Records that fail to parse are skipped with a
// reason, never fatal.
func ParseDelimited(r io.Reader) ([]Holding, []SkippedRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read header: %w", err)
	}

	byName := make(map[string]int, len(header))
	for i, name := range header {
		byName[strings.ToLower(strings.TrimSpace(name))] = i
	}
	lookup := func(record []string, col column) string {
		for _, name := range csvSynonyms[col] {
			if i, ok := byName[name]; ok && i < len(record) {
				return record[i]
			}
		}
		return ""
	}

	var holdings []Holding
	var skipped []SkippedRow
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// One malformed record should not sink the batch.
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				skipped = append(skipped, SkippedRow{Line: line, Reason: err.Error()})
				continue
			}
			return holdings, skipped, fmt.Errorf("cannot read record: %w", err)
		}

		instrument := CleanInstrumentName(lookup(record, colInstrument))
		if instrument == "" {
			continue
		}

		h := NewHolding(instrument)
		h.Position = ParseNumber(lookup(record, colPosition))
		h.LastPrice = ParseNumber(lookup(record, colLastPrice))
		h.ChangePct = ParsePercentage(lookup(record, colChangePct))
		h.CostBasis = ParseNumber(lookup(record, colCostBasis))
		h.MarketValue = ParseNumber(lookup(record, colMarketValue))
		h.AvgPrice = ParseNumber(lookup(record, colAvgPrice))
		h.DailyPnL = ParseNumber(lookup(record, colDailyPnL))
		h.UnrealizedPnL = ParseNumber(lookup(record, colUnrealizedPnL))
		holdings = append(holdings, h)
	}
	return holdings, skipped, nil
}
