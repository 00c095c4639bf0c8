package renderer

import (
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/etnz/tracker"
)

// headings parses markdown and returns the text of every heading, so tests
// assert document structure instead of byte-exact output.
func headings(t *testing.T, doc string) []string {
	t.Helper()
	source := []byte(doc)
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	var out []string
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering {
			var b strings.Builder
			for c := h.FirstChild(); c != nil; c = c.NextSibling() {
				if txt, ok := c.(*ast.Text); ok {
					b.Write(txt.Segment.Value(source))
				}
			}
			out = append(out, b.String())
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("walking markdown: %v", err)
	}
	return out
}

func testHoldings() ([]tracker.Holding, *tracker.Portfolio) {
	a := tracker.NewHolding("MSCI World")
	a.SetLastPrice(100)
	a.SetPosition(10)
	a.AssetType = tracker.Equity
	a.Region = tracker.Global
	a.TargetAllocation = 0.6

	b := tracker.NewHolding("EM Bonds")
	b.SetLastPrice(50)
	b.SetPosition(5)
	b.AssetType = tracker.Bonds
	b.Region = tracker.EM

	p := tracker.NewPortfolio()
	p.Holdings = []tracker.Holding{a, b}
	p.FreeCash = 100
	return p.Holdings, p
}

func TestHoldingsMarkdown(t *testing.T) {
	holdings, p := testHoldings()
	calc := tracker.NewCalculator(p, nil)

	doc := HoldingsMarkdown(holdings, calc.Allocations(), calc.Summary())

	got := headings(t, doc)
	if len(got) != 1 || got[0] != "Portfolio" {
		t.Errorf("headings = %v, want [Portfolio]", got)
	}
	for _, want := range []string{"MSCI World", "EM Bonds", "Equity", "Global", "€1000.00", "Free cash: €100.00"} {
		if !strings.Contains(doc, want) {
			t.Errorf("document does not contain %q:\n%s", want, doc)
		}
	}
}

func TestStatsMarkdown(t *testing.T) {
	_, p := testHoldings()
	calc := tracker.NewCalculator(p, nil)

	doc := StatsMarkdown("By Asset Type", calc.StatsByType())
	if got := headings(t, doc); len(got) != 1 || got[0] != "By Asset Type" {
		t.Errorf("headings = %v, want [By Asset Type]", got)
	}
	// Invested total is 1250, 1350 with cash: Equity is 80% and 74.07%.
	for _, want := range []string{"Equity", "80.00%", "74.07%", "60.00%"} {
		if !strings.Contains(doc, want) {
			t.Errorf("document does not contain %q:\n%s", want, doc)
		}
	}
	// Empty categories keep their row.
	if !strings.Contains(doc, "REIT") {
		t.Errorf("document does not list the empty REIT category:\n%s", doc)
	}
}

func TestDetailedStatsMarkdown(t *testing.T) {
	_, p := testHoldings()
	calc := tracker.NewCalculator(p, nil)

	doc := DetailedStatsMarkdown(calc.DetailedStats())
	if got := headings(t, doc); len(got) != 1 || got[0] != "By Type and Region" {
		t.Errorf("headings = %v, want [By Type and Region]", got)
	}
	if !strings.Contains(doc, "Equity") || !strings.Contains(doc, "EM") {
		t.Errorf("document misses populated combos:\n%s", doc)
	}
}

func TestRatesMarkdown(t *testing.T) {
	table := tracker.NewRateTableFrom([]string{"EUR", "USD"}, map[string]float64{"USD": 1.16}, "2026-08-21")

	doc := RatesMarkdown(table)
	for _, want := range []string{"EUR", "USD", "1.1600", "€", "$", "2026-08-21"} {
		if !strings.Contains(doc, want) {
			t.Errorf("document does not contain %q:\n%s", want, doc)
		}
	}
}

func TestReviewMarkdown(t *testing.T) {
	holdings, _ := testHoldings()
	skipped := []tracker.SkippedRow{{Line: 7, Reason: `summary row "Total"`}}

	doc := ReviewMarkdown(holdings, skipped)
	got := headings(t, doc)
	if len(got) != 2 {
		t.Fatalf("headings = %v, want the review title and the skipped section", got)
	}
	if !strings.Contains(got[0], "2 holdings") {
		t.Errorf("title = %q, want the holding count", got[0])
	}
	if !strings.Contains(doc, "line 7") {
		t.Errorf("document does not list the skipped row:\n%s", doc)
	}
}
