package tracker

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// this file contains functions to handle the import/export formats: the
// versioned full snapshot (JSON, round-trippable) and the two write-only
// report formats (CSV and spreadsheet).

// SnapshotVersion is the current full-snapshot format version.
const SnapshotVersion = "1.0"

type jsnapshotSettings struct {
	Currencies    []string           `json:"currencies"`
	ExchangeRates map[string]float64 `json:"exchange_rates"`
}

type jsnapshot struct {
	Version    string              `json:"version"`
	ExportedAt string              `json:"exported_at"`
	Portfolio  jportfolio          `json:"portfolio"`
	Settings   jsnapshotSettings   `json:"settings"`
	Mappings   map[string]jmapping `json:"mappings"`
}

// SnapshotData is the result of loading a full snapshot.
type SnapshotData struct {
	Portfolio  *Portfolio
	Currencies []string
	Rates      map[string]float64
	Mappings   map[string]Classification
}

// ExportSnapshot writes the full application state to w in the versioned
// snapshot format.
func ExportSnapshot(w io.Writer, p *Portfolio, rates *RateTable, mappings *MappingsStore) error {
	js := jsnapshot{
		Version:    SnapshotVersion,
		ExportedAt: time.Now().Format(time.RFC3339),
		Portfolio:  encodePortfolio(p),
		Settings: jsnapshotSettings{
			Currencies:    rates.Currencies(),
			ExchangeRates: rates.Rates(),
		},
		Mappings: make(map[string]jmapping, mappings.Len()),
	}
	for instrument, jm := range mappings.mappings {
		js.Mappings[instrument] = jm
	}

	content, err := json.MarshalIndent(js, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(content)
	return err
}

// ImportSnapshot reads a full snapshot from r. A version mismatch is a
// logged warning, not a failure; malformed classification entries are
// dropped per instrument with a warning. Structural problems (not JSON, no
// snapshot shape) are errors.
func ImportSnapshot(r io.Reader) (*SnapshotData, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read snapshot: %w", err)
	}
	var js jsnapshot
	if err := json.Unmarshal(content, &js); err != nil {
		return nil, fmt.Errorf("cannot parse snapshot: %w", err)
	}
	if js.Version != SnapshotVersion {
		log.Printf("warning: snapshot version %q differs from %q, loading anyway", js.Version, SnapshotVersion)
	}

	data := &SnapshotData{
		Portfolio:  decodePortfolio(js.Portfolio),
		Currencies: js.Settings.Currencies,
		Rates:      js.Settings.ExchangeRates,
		Mappings:   make(map[string]Classification, len(js.Mappings)),
	}
	for instrument, jm := range js.Mappings {
		c, err := decodeMapping(jm)
		if err != nil {
			log.Printf("warning: dropping snapshot classification for %q: %v", instrument, err)
			continue
		}
		data.Mappings[instrument] = c
	}
	return data, nil
}

// exportHeader is the fixed 13-column layout of the report exports.
var exportHeader = []string{
	"Instrument", "Position", "Last Price", "Currency", "Market Value",
	"Market Value (EUR)", "Cost Basis", "Target %", "Allocation %",
	"Asset Type", "Region", "Unrealized P&L", "Daily P&L",
}

// exportRows builds the report rows: one per holding, holding order,
// percentages rendered as percent values with two decimals and money with
// two decimals.
func exportRows(p *Portfolio, convert ConvertFunc) [][]string {
	results := Allocations(p, convert)
	rows := make([][]string, 0, len(p.Holdings))
	for i, h := range p.Holdings {
		res := results[i]
		rows = append(rows, []string{
			h.Instrument,
			strconv.FormatFloat(h.Position, 'f', -1, 64),
			strconv.FormatFloat(h.LastPrice, 'f', 2, 64),
			h.Currency,
			strconv.FormatFloat(h.MarketValue, 'f', 2, 64),
			strconv.FormatFloat(res.MarketValueEUR, 'f', 2, 64),
			strconv.FormatFloat(h.CostBasis, 'f', 2, 64),
			strconv.FormatFloat(h.TargetAllocation*100, 'f', 2, 64),
			strconv.FormatFloat(res.AllocationPct*100, 'f', 2, 64),
			h.AssetType.String(),
			h.Region.String(),
			strconv.FormatFloat(h.UnrealizedPnL, 'f', 2, 64),
			strconv.FormatFloat(h.DailyPnL, 'f', 2, 64),
		})
	}
	return rows
}

// ExportCSV writes the report export to w as CSV.
func ExportCSV(w io.Writer, p *Portfolio, convert ConvertFunc) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, row := range exportRows(p, convert) {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportSpreadsheet writes the report export to path as an .xlsx workbook.
func ExportSpreadsheet(path string, p *Portfolio, convert ConvertFunc) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for col, name := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}
	for i, row := range exportRows(p, convert) {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("cannot write workbook %q: %w", path, err)
	}
	return nil
}
