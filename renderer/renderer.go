// Package renderer turns calculator output into markdown reports for the
// terminal. It owns all formatting decisions; the core only ever produces
// plain fractions and raw floats.
package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/etnz/tracker"
)

func pct(v float64) string {
	return tracker.Percent(v).String()
}

func signedPct(v float64) string {
	return tracker.Percent(v).SignedString()
}

func amount(v float64, currency string) string {
	return fmt.Sprintf("%s%.2f", tracker.CurrencySymbol(currency), v)
}

// HoldingsMarkdown renders the portfolio with per-holding allocations.
func HoldingsMarkdown(holdings []tracker.Holding, results []tracker.AllocationResult, s tracker.Summary) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Portfolio")

	rows := make([][]string, 0, len(results))
	for i, r := range results {
		h := holdings[i]
		rows = append(rows, []string{
			r.Instrument,
			fmt.Sprintf("%g", h.Position),
			amount(h.LastPrice, h.Currency),
			amount(r.MarketValueEUR, "EUR"),
			pct(r.AllocationPct),
			pct(r.AllocationWithCash),
			pct(r.TargetAllocation),
			signedPct(r.DiffWithTarget),
			h.AssetType.String(),
			h.Region.String(),
		})
	}
	doc.Table(md.TableSet{
		Header: []string{"Instrument", "Position", "Last", "Value (EUR)", "Alloc", "Alloc+Cash", "Target", "Diff", "Type", "Region"},
		Rows:   rows,
	})

	doc.PlainText(fmt.Sprintf("Holdings: %d | Invested: %s | Free cash: %s | Total: %s",
		s.NumHoldings,
		amount(s.TotalInvestedEUR, "EUR"),
		amount(s.FreeCash, "EUR"),
		amount(s.TotalEUR, "EUR")))

	return doc.String()
}

// StatsMarkdown renders one single-dimension stats grouping under the given
// title.
func StatsMarkdown(title string, stats []tracker.StatsBasic) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2(title)

	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{
			s.Category,
			pct(s.Current),
			pct(s.CurrentAll),
			pct(s.Target),
			signedPct(s.Target - s.CurrentAll),
		})
	}
	doc.Table(md.TableSet{
		Header: []string{"Category", "Current", "With Cash", "Target", "Diff"},
		Rows:   rows,
	})

	return doc.String()
}

// DetailedStatsMarkdown renders the asset type × region breakdown.
func DetailedStatsMarkdown(stats []tracker.StatsDetailed) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2("By Type and Region")

	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{
			s.AssetType,
			s.Region,
			pct(s.Current),
			pct(s.CurrentAll),
			pct(s.Target),
		})
	}
	doc.Table(md.TableSet{
		Header: []string{"Type", "Region", "Current", "With Cash", "Target"},
		Rows:   rows,
	})

	return doc.String()
}

// RatesMarkdown renders the exchange rate table.
func RatesMarkdown(t *tracker.RateTable) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2("Exchange Rates")

	rates := t.Rates()
	rows := make([][]string, 0, len(rates))
	for _, code := range t.Currencies() {
		rows = append(rows, []string{
			code,
			tracker.CurrencySymbol(code),
			fmt.Sprintf("%.4f", rates[code]),
		})
	}
	doc.Table(md.TableSet{
		Header: []string{"Currency", "Symbol", "Units per EUR"},
		Rows:   rows,
	})

	if updated := t.Updated(); updated != "" {
		doc.PlainText("Reference rates as of " + updated + ".")
	}

	return doc.String()
}

// ReviewMarkdown renders freshly parsed holdings for the pre-import human
// review, including every row the parser skipped and why.
func ReviewMarkdown(holdings []tracker.Holding, skipped []tracker.SkippedRow) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Review: %d holdings parsed", len(holdings)))

	rows := make([][]string, 0, len(holdings))
	for _, h := range holdings {
		rows = append(rows, []string{
			h.Instrument,
			fmt.Sprintf("%g", h.Position),
			fmt.Sprintf("%.2f", h.LastPrice),
			signedPct(h.ChangePct),
			fmt.Sprintf("%.2f", h.CostBasis),
			fmt.Sprintf("%.2f", h.MarketValue),
			fmt.Sprintf("%.2f", h.AvgPrice),
			fmt.Sprintf("%.2f", h.DailyPnL),
			fmt.Sprintf("%.2f", h.UnrealizedPnL),
		})
	}
	doc.Table(md.TableSet{
		Header: []string{"Instrument", "Position", "Last", "Change", "Cost", "Value", "Avg", "Daily P&L", "Unrealized"},
		Rows:   rows,
	})

	if len(skipped) > 0 {
		doc.H2(fmt.Sprintf("%d rows skipped", len(skipped)))
		var items []string
		for _, s := range skipped {
			items = append(items, fmt.Sprintf("line %d: %s", s.Line, s.Reason))
		}
		doc.BulletList(items...)
	}

	return doc.String()
}
