package tracker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNoHeaderRow is returned when no row within the search window claims
// enough fields to be the header.
var ErrNoHeaderRow = errors.New("could not find a header row")

// column identifies one of the fields a tabular import can carry.
type column int

const (
	colInstrument column = iota
	colPosition
	colAvgPrice
	colLastPrice
	colChangePct
	colCostBasis
	colMarketValue
	colDailyPnL
	colUnrealizedPnL
)

// columnAliases is the heuristic table driving header detection. Matching is
// by substring, longest alias wins, and a field already claimed by another
// cell is out of the running. Order matters for equal-length ties: the
// avg-price aliases are evaluated ahead of the last-price ones so that
// "avg price" never resolves to the generic price field.
var columnAliases = []struct {
	col     column
	aliases []string
}{
	{colInstrument, []string{"instrument", "ticker", "symbol", "name"}},
	{colPosition, []string{"position", "qty", "quantity", "shares", "units"}},
	{colAvgPrice, []string{"avg price", "average price", "avgprice"}},
	{colLastPrice, []string{"last", "last price", "current price", "lastprice"}},
	{colChangePct, []string{"change %", "change", "chg %", "daily change"}},
	{colCostBasis, []string{"cost basis", "cost", "total cost", "basis"}},
	{colMarketValue, []string{"market value", "value", "mkt value", "current value"}},
	{colDailyPnL, []string{"daily p&l", "daily pnl", "day p&l", "daily gain"}},
	{colUnrealizedPnL, []string{"unrealized p&l", "unrealized pnl", "unrealized", "total p&l", "gain/loss"}},
}

// fallbackIndex gives each field a hardcoded column when the header row did
// not claim one, matching the canonical broker export layout.
var fallbackIndex = map[column]int{
	colInstrument:    0,
	colPosition:      1,
	colLastPrice:     2,
	colChangePct:     3,
	colCostBasis:     4,
	colMarketValue:   5,
	colAvgPrice:      6,
	colDailyPnL:      7,
	colUnrealizedPnL: 8,
}

// headerSearchRows bounds how deep in the sheet the header may sit.
const headerSearchRows = 10

// headerMatchThreshold is the minimum number of distinct fields a row must
// claim to qualify as the header.
const headerMatchThreshold = 3

// matchHeaderRow tries to interpret a row as the header, returning the
// column index claimed per field. A field is claimed by the cell holding its
// longest alias substring, each field at most once.
func matchHeaderRow(cells []string) map[column]int {
	claimed := make(map[column]int)
	for i, raw := range cells {
		val := strings.TrimSpace(strings.ToLower(strings.ReplaceAll(raw, "\u00a0", " ")))
		if val == "" {
			continue
		}
		best := column(-1)
		bestLen := 0
		for _, ca := range columnAliases {
			if _, ok := claimed[ca.col]; ok {
				continue
			}
			for _, alias := range ca.aliases {
				if len(alias) > bestLen && strings.Contains(val, alias) {
					best = ca.col
					bestLen = len(alias)
				}
			}
		}
		if best >= 0 {
			claimed[best] = i
		}
	}
	return claimed
}

// cellAt returns the cell for a field, honoring the discovered header map
// first and the hardcoded fallback index second. Rows shorter than the index
// read as empty.
func cellAt(row []string, m map[column]int, col column) string {
	i, ok := m[col]
	if !ok {
		i = fallbackIndex[col]
	}
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// holdingFromRow builds a holding from one data row using the discovered
// column mapping. Numeric cells degrade to 0, never to an error.
func holdingFromRow(instrument string, row []string, m map[column]int) Holding {
	h := NewHolding(instrument)
	h.Position = ParseNumber(cellAt(row, m, colPosition))
	h.LastPrice = ParseNumber(cellAt(row, m, colLastPrice))
	h.ChangePct = ParsePercentage(cellAt(row, m, colChangePct))
	h.CostBasis = ParseNumber(cellAt(row, m, colCostBasis))
	h.MarketValue = ParseNumber(cellAt(row, m, colMarketValue))
	h.AvgPrice = ParseNumber(cellAt(row, m, colAvgPrice))
	h.DailyPnL = ParseNumber(cellAt(row, m, colDailyPnL))
	h.UnrealizedPnL = ParseNumber(cellAt(row, m, colUnrealizedPnL))
	return h
}

// ParseSpreadsheet parses the first sheet of an .xlsx/.xls workbook into
// holdings. The header row is discovered by fuzzy alias matching within the
// first rows of the sheet; every row below it becomes a holding unless it is
// blank or a summary row.
func ParseSpreadsheet(path string) ([]Holding, []SkippedRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open workbook %q: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read workbook %q: %w", path, err)
	}

	headerRow := -1
	var columns map[column]int
	for i, row := range rows {
		if i >= headerSearchRows {
			break
		}
		if m := matchHeaderRow(row); len(m) >= headerMatchThreshold {
			headerRow = i
			columns = m
			break
		}
	}
	if headerRow < 0 {
		return nil, nil, fmt.Errorf("%w in %q", ErrNoHeaderRow, path)
	}

	var holdings []Holding
	var skipped []SkippedRow
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		instrument := CleanInstrumentName(cellAt(row, columns, colInstrument))
		if instrument == "" {
			continue
		}
		if isSummaryRow(instrument) {
			skipped = append(skipped, SkippedRow{Line: i + 1, Reason: fmt.Sprintf("summary row %q", instrument)})
			continue
		}
		holdings = append(holdings, holdingFromRow(instrument, row, columns))
	}
	return holdings, skipped, nil
}
