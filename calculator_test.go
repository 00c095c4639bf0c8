package tracker

import (
	"testing"
)

// passthrough is the identity conversion used when currency is irrelevant.
func passthrough(amount float64, currency string) float64 { return amount }

func testPortfolio() *Portfolio {
	a := NewHolding("A")
	a.MarketValue = 100
	a.AssetType = Equity
	a.Region = US
	a.TargetAllocation = 0.60

	b := NewHolding("B")
	b.MarketValue = 50
	b.AssetType = Bonds
	b.Region = EU
	b.TargetAllocation = 0.40

	p := NewPortfolio()
	p.Holdings = []Holding{a, b}
	p.FreeCash = 50
	return p
}

func TestAllocations(t *testing.T) {
	p := testPortfolio()
	results := Allocations(p, passthrough)
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}

	// Invested total is 150, with cash 200.
	if !almostEqual(results[0].AllocationPct, 100.0/150.0) {
		t.Errorf("A AllocationPct = %v, want %v", results[0].AllocationPct, 100.0/150.0)
	}
	if !almostEqual(results[1].AllocationPct, 50.0/150.0) {
		t.Errorf("B AllocationPct = %v, want %v", results[1].AllocationPct, 50.0/150.0)
	}
	if !almostEqual(results[0].AllocationWithCash, 0.5) {
		t.Errorf("A AllocationWithCash = %v, want 0.5", results[0].AllocationWithCash)
	}
	if !almostEqual(results[0].DiffWithTarget, 0.60-0.5) {
		t.Errorf("A DiffWithTarget = %v, want 0.10", results[0].DiffWithTarget)
	}

	// Shares including the cash one must close to 1.
	sum := p.FreeCash / 200.0
	for _, r := range results {
		sum += r.AllocationWithCash
	}
	if !almostEqual(sum, 1.0) {
		t.Errorf("allocations with cash sum to %v, want 1.0", sum)
	}
}

func TestAllocationsEmptyPortfolio(t *testing.T) {
	results := Allocations(NewPortfolio(), passthrough)
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0", len(results))
	}

	p := NewPortfolio()
	p.Holdings = []Holding{NewHolding("ZERO")}
	results = Allocations(p, passthrough)
	if !almostEqual(results[0].AllocationPct, 0) {
		t.Errorf("AllocationPct = %v, want 0 on a zero total", results[0].AllocationPct)
	}
}

func TestStatsByType(t *testing.T) {
	p := testPortfolio()
	stats := StatsByType(p, passthrough)

	// Every defined type gets a row, populated or not.
	if len(stats) != len(AssetTypes()) {
		t.Fatalf("len(stats) = %d, want %d", len(stats), len(AssetTypes()))
	}

	byCategory := make(map[string]StatsBasic, len(stats))
	var current, currentAll float64
	for _, s := range stats {
		byCategory[s.Category] = s
		current += s.Current
		currentAll += s.CurrentAll
	}
	if !almostEqual(current, 1.0) {
		t.Errorf("sum of Current = %v, want 1.0", current)
	}
	if !almostEqual(currentAll, 150.0/200.0) {
		t.Errorf("sum of CurrentAll = %v, want 0.75", currentAll)
	}

	eq := byCategory[Equity.String()]
	if !almostEqual(eq.Current, 100.0/150.0) || !almostEqual(eq.Target, 0.60) {
		t.Errorf("Equity = %+v, want Current 2/3, Target 0.60", eq)
	}
	if reit := byCategory[REIT.String()]; !almostEqual(reit.Current, 0) {
		t.Errorf("REIT = %+v, want an empty row", reit)
	}
}

func TestStatsByRegion(t *testing.T) {
	stats := StatsByRegion(testPortfolio(), passthrough)
	if len(stats) != len(Regions()) {
		t.Fatalf("len(stats) = %d, want %d", len(stats), len(Regions()))
	}
	var current float64
	for _, s := range stats {
		current += s.Current
	}
	if !almostEqual(current, 1.0) {
		t.Errorf("sum of Current = %v, want 1.0", current)
	}
}

func TestDetailedStats(t *testing.T) {
	p := testPortfolio()
	// An unclassified holding must not produce the Unassigned × Unassigned
	// row.
	p.Holdings = append(p.Holdings, NewHolding("RAW"))
	p.Holdings[2].MarketValue = 25

	stats := DetailedStats(p, passthrough)
	if len(stats) != 2 {
		t.Fatalf("len(stats) = %d, want 2 (empty combos and Unassigned×Unassigned omitted)", len(stats))
	}
	for _, s := range stats {
		if s.AssetType == UnassignedType.String() && s.Region == UnassignedRegion.String() {
			t.Errorf("Unassigned × Unassigned row present: %+v", s)
		}
	}
	if stats[0].AssetType != Equity.String() || stats[0].Region != US.String() {
		t.Errorf("stats[0] = %+v, want Equity × US first", stats[0])
	}
	if !almostEqual(stats[0].Current, 100.0/175.0) {
		t.Errorf("Equity×US Current = %v, want %v", stats[0].Current, 100.0/175.0)
	}
}

func TestCalculatorConvert(t *testing.T) {
	rates := NewRateTable()
	if err := rates.SetRate("USD", 1.25); err != nil {
		t.Fatalf("SetRate() error = %v", err)
	}

	p := NewPortfolio()
	h := NewHolding("US STOCK")
	h.MarketValue = 125
	h.Currency = "USD"
	p.Holdings = []Holding{h}

	c := NewCalculator(p, rates)
	if got := c.TotalInvestedEUR(); !almostEqual(got, 100) {
		t.Errorf("TotalInvestedEUR() = %v, want 100", got)
	}

	// Without a rate table amounts pass through unchanged.
	c = NewCalculator(p, nil)
	if got := c.TotalInvestedEUR(); !almostEqual(got, 125) {
		t.Errorf("TotalInvestedEUR() without rates = %v, want 125", got)
	}
}

func TestCalculatorSummary(t *testing.T) {
	c := NewCalculator(testPortfolio(), nil)
	s := c.Summary()
	if s.NumHoldings != 2 {
		t.Errorf("NumHoldings = %d, want 2", s.NumHoldings)
	}
	if !almostEqual(s.TotalInvestedEUR, 150) || !almostEqual(s.TotalEUR, 200) {
		t.Errorf("totals = %v, %v, want 150, 200", s.TotalInvestedEUR, s.TotalEUR)
	}
	if !almostEqual(s.FreeCash, 50) {
		t.Errorf("FreeCash = %v, want 50", s.FreeCash)
	}
}
