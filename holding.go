package tracker

// Holding represents a single tradable position in the portfolio.
//
// All monetary amounts are expressed in the holding's Currency; EUR
// normalization happens in the calculator, never here.
type Holding struct {
	Instrument    string  // unique key within a portfolio
	Position      float64 // number of shares/units
	LastPrice     float64
	ChangePct     float64 // fractional daily change
	CostBasis     float64 // total cost
	MarketValue   float64 // current value, Position × LastPrice
	AvgPrice      float64 // average purchase price
	DailyPnL      float64
	UnrealizedPnL float64

	// User-editable classification fields.
	AssetType        AssetType
	Region           Region
	TargetAllocation float64 // desired fraction of the portfolio, 0-1
	Currency         string  // e.g. "EUR", "USD"
}

// NewHolding returns an unclassified holding for the given instrument,
// denominated in EUR.
func NewHolding(instrument string) Holding {
	return Holding{Instrument: instrument, Currency: "EUR"}
}

// SetPosition updates the share count and keeps MarketValue consistent.
func (h *Holding) SetPosition(position float64) {
	h.Position = position
	h.MarketValue = h.Position * h.LastPrice
}

// SetLastPrice updates the unit price and keeps MarketValue consistent.
func (h *Holding) SetLastPrice(price float64) {
	h.LastPrice = price
	h.MarketValue = h.Position * h.LastPrice
}

// Classification is the tuple of user decisions remembered per instrument.
type Classification struct {
	AssetType        AssetType
	Region           Region
	TargetAllocation float64
	Currency         string
}

// Portfolio is the current snapshot: the holding set plus uninvested capital.
//
// Holdings keep their insertion order, which is the default display order.
// Instrument names are expected to be unique but this is not enforced at the
// type level.
type Portfolio struct {
	Holdings []Holding
	FreeCash float64 // EUR-denominated
}

// NewPortfolio returns an empty portfolio.
func NewPortfolio() *Portfolio {
	return &Portfolio{}
}

// TotalInvested sums market values in their native currencies. The sum is
// rarely meaningful on its own when currencies differ; EUR totals come from
// the calculator.
func (p *Portfolio) TotalInvested() float64 {
	var total float64
	for _, h := range p.Holdings {
		total += h.MarketValue
	}
	return total
}

// Total is TotalInvested plus free cash, with the same currency caveat.
func (p *Portfolio) Total() float64 {
	return p.TotalInvested() + p.FreeCash
}

// Find returns a pointer to the holding with the given instrument name.
func (p *Portfolio) Find(instrument string) (*Holding, bool) {
	for i := range p.Holdings {
		if p.Holdings[i].Instrument == instrument {
			return &p.Holdings[i], true
		}
	}
	return nil, false
}

// Delete removes the holding with the given instrument name. It reports
// whether a holding was removed.
func (p *Portfolio) Delete(instrument string) bool {
	for i := range p.Holdings {
		if p.Holdings[i].Instrument == instrument {
			p.Holdings = append(p.Holdings[:i], p.Holdings[i+1:]...)
			return true
		}
	}
	return false
}

// AddOrUpdateHoldings reconciles freshly imported holdings with the
// portfolio. Incoming records win for all freshly parsed numeric fields;
// user-curated fields of an existing record survive the update so that
// re-importing a daily snapshot does not clobber manual work. Genuinely new
// instruments are appended as-is.
func (p *Portfolio) AddOrUpdateHoldings(incoming []Holding) {
	index := make(map[string]int, len(p.Holdings))
	for i, h := range p.Holdings {
		index[h.Instrument] = i
	}

	for _, in := range incoming {
		i, ok := index[in.Instrument]
		if !ok {
			index[in.Instrument] = len(p.Holdings)
			p.Holdings = append(p.Holdings, in)
			continue
		}
		p.Holdings[i] = mergeHolding(p.Holdings[i], in)
	}
}

// mergeHolding merges an incoming record into an old one, field by field.
// The incoming record carries fresh market data; the old record carries the
// user's decisions.
func mergeHolding(old, in Holding) Holding {
	merged := in
	// Currency is always preserved: a newly imported row never resets it.
	merged.Currency = old.Currency
	if old.AssetType != UnassignedType {
		merged.AssetType = old.AssetType
	}
	if old.Region != UnassignedRegion {
		merged.Region = old.Region
	}
	if old.TargetAllocation > 0 {
		merged.TargetAllocation = old.TargetAllocation
	}
	return merged
}
