package tracker

// The allocation calculator is a set of pure functions over a portfolio and
// a conversion function. Every percentage it returns is a plain fraction
// (0.25, not 25); formatting is a caller concern. Division by zero never
// happens: an empty denominator degrades the result to 0.

// ConvertFunc converts an amount in the given currency to EUR.
type ConvertFunc func(amount float64, currency string) float64

// AllocationResult is the computed allocation for a single holding.
type AllocationResult struct {
	Instrument         string
	MarketValue        float64 // in the holding's currency
	MarketValueEUR     float64
	AllocationPct      float64 // share of the invested-only EUR total
	AllocationWithCash float64 // share of the invested-plus-cash EUR total
	TargetAllocation   float64
	DiffWithTarget     float64 // target − allocation with cash
}

// StatsBasic aggregates allocations over a single dimension (asset type or
// region).
type StatsBasic struct {
	Category   string
	Current    float64 // fraction of the invested-only EUR total
	CurrentAll float64 // fraction including free cash
	Target     float64 // summed target fractions
}

// StatsDetailed aggregates allocations over the asset type × region cross
// product.
type StatsDetailed struct {
	AssetType  string
	Region     string
	Current    float64
	CurrentAll float64
	Target     float64
}

// totalsEUR computes the two denominators: invested-only and invested plus
// free cash, both in EUR.
func totalsEUR(p *Portfolio, convert ConvertFunc) (invested, withCash float64) {
	for _, h := range p.Holdings {
		invested += convert(h.MarketValue, h.Currency)
	}
	return invested, invested + p.FreeCash
}

// share divides value by total, degrading to 0 on an empty denominator.
func share(value, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return value / total
}

// Allocations computes per-holding allocation percentages, in holding order.
func Allocations(p *Portfolio, convert ConvertFunc) []AllocationResult {
	invested, withCash := totalsEUR(p, convert)

	results := make([]AllocationResult, 0, len(p.Holdings))
	for _, h := range p.Holdings {
		eur := convert(h.MarketValue, h.Currency)
		withCashPct := share(eur, withCash)
		results = append(results, AllocationResult{
			Instrument:         h.Instrument,
			MarketValue:        h.MarketValue,
			MarketValueEUR:     eur,
			AllocationPct:      share(eur, invested),
			AllocationWithCash: withCashPct,
			TargetAllocation:   h.TargetAllocation,
			DiffWithTarget:     h.TargetAllocation - withCashPct,
		})
	}
	return results
}

// StatsByType aggregates allocations by asset type. Every defined type gets
// a row, populated or not, so targets remain visible for empty categories.
func StatsByType(p *Portfolio, convert ConvertFunc) []StatsBasic {
	invested, withCash := totalsEUR(p, convert)

	valueEUR := make(map[AssetType]float64)
	target := make(map[AssetType]float64)
	for _, h := range p.Holdings {
		valueEUR[h.AssetType] += convert(h.MarketValue, h.Currency)
		target[h.AssetType] += h.TargetAllocation
	}

	stats := make([]StatsBasic, 0, len(AssetTypes()))
	for _, t := range AssetTypes() {
		stats = append(stats, StatsBasic{
			Category:   t.String(),
			Current:    share(valueEUR[t], invested),
			CurrentAll: share(valueEUR[t], withCash),
			Target:     target[t],
		})
	}
	return stats
}

// StatsByRegion aggregates allocations by region, one row per defined
// region.
func StatsByRegion(p *Portfolio, convert ConvertFunc) []StatsBasic {
	invested, withCash := totalsEUR(p, convert)

	valueEUR := make(map[Region]float64)
	target := make(map[Region]float64)
	for _, h := range p.Holdings {
		valueEUR[h.Region] += convert(h.MarketValue, h.Currency)
		target[h.Region] += h.TargetAllocation
	}

	stats := make([]StatsBasic, 0, len(Regions()))
	for _, r := range Regions() {
		stats = append(stats, StatsBasic{
			Category:   r.String(),
			Current:    share(valueEUR[r], invested),
			CurrentAll: share(valueEUR[r], withCash),
			Target:     target[r],
		})
	}
	return stats
}

// DetailedStats aggregates allocations over the type × region cross product.
// Combinations with no contributing holdings are omitted to keep the grid
// from exploding with empty rows, and the Unassigned × Unassigned cell is
// always omitted.
func DetailedStats(p *Portfolio, convert ConvertFunc) []StatsDetailed {
	invested, withCash := totalsEUR(p, convert)

	type combo struct {
		t AssetType
		r Region
	}
	valueEUR := make(map[combo]float64)
	target := make(map[combo]float64)
	count := make(map[combo]int)
	for _, h := range p.Holdings {
		k := combo{h.AssetType, h.Region}
		valueEUR[k] += convert(h.MarketValue, h.Currency)
		target[k] += h.TargetAllocation
		count[k]++
	}

	var stats []StatsDetailed
	for _, t := range AssetTypes() {
		for _, r := range Regions() {
			if t == UnassignedType && r == UnassignedRegion {
				continue
			}
			k := combo{t, r}
			if count[k] == 0 {
				continue
			}
			stats = append(stats, StatsDetailed{
				AssetType:  t.String(),
				Region:     r.String(),
				Current:    share(valueEUR[k], invested),
				CurrentAll: share(valueEUR[k], withCash),
				Target:     target[k],
			})
		}
	}
	return stats
}

// Summary is the one-line portfolio overview shown after most operations.
type Summary struct {
	NumHoldings      int
	TotalInvested    float64 // native currencies, informational only
	TotalInvestedEUR float64
	FreeCash         float64
	TotalEUR         float64
}

// Calculator ties a portfolio to a rate table. It is constructed once at
// startup and passed around explicitly; there is no ambient state.
type Calculator struct {
	Portfolio *Portfolio
	Rates     *RateTable
}

// NewCalculator returns a calculator over the given portfolio and rates.
// Both may be shared with the caller; the calculator never mutates them.
func NewCalculator(p *Portfolio, rates *RateTable) *Calculator {
	return &Calculator{Portfolio: p, Rates: rates}
}

// Convert converts an amount to EUR through the rate table. Without a table
// every amount passes through unchanged.
func (c *Calculator) Convert(amount float64, currency string) float64 {
	if c.Rates == nil {
		return amount
	}
	return c.Rates.ConvertToEUR(amount, currency)
}

// TotalInvestedEUR returns the invested-only EUR total.
func (c *Calculator) TotalInvestedEUR() float64 {
	invested, _ := totalsEUR(c.Portfolio, c.Convert)
	return invested
}

// TotalEUR returns the EUR total including free cash.
func (c *Calculator) TotalEUR() float64 {
	_, withCash := totalsEUR(c.Portfolio, c.Convert)
	return withCash
}

func (c *Calculator) Allocations() []AllocationResult { return Allocations(c.Portfolio, c.Convert) }
func (c *Calculator) StatsByType() []StatsBasic       { return StatsByType(c.Portfolio, c.Convert) }
func (c *Calculator) StatsByRegion() []StatsBasic     { return StatsByRegion(c.Portfolio, c.Convert) }
func (c *Calculator) DetailedStats() []StatsDetailed  { return DetailedStats(c.Portfolio, c.Convert) }

// Summary returns the portfolio overview.
func (c *Calculator) Summary() Summary {
	invested, withCash := totalsEUR(c.Portfolio, c.Convert)
	return Summary{
		NumHoldings:      len(c.Portfolio.Holdings),
		TotalInvested:    c.Portfolio.TotalInvested(),
		TotalInvestedEUR: invested,
		FreeCash:         c.Portfolio.FreeCash,
		TotalEUR:         withCash,
	}
}
