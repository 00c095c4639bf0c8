package tracker

import (
	"fmt"
	"log"
	"sort"
	"sync"
)

// RateTable holds exchange rates against EUR. A rate is "units of currency
// per 1 EUR": 1 EUR = 1.09 USD is stored as {"USD": 1.09}. EUR itself is
// pinned to 1.0 and rejects modification.
//
// The table is owned by a single session and mutated synchronously, except
// for the asynchronous refresh which is serialized by an internal lock.
type RateTable struct {
	mu         sync.Mutex
	rates      map[string]float64
	order      []string // display order, EUR first
	updated    string   // as-of date of the last successful refresh
	refreshing bool
}

// defaultRates seeds a fresh table; these are editable starting points, not
// live quotes.
var defaultRates = map[string]float64{
	"EUR": 1.0,
	"USD": 1.09,
	"GBP": 0.85,
	"CNH": 7.69,
}

var defaultCurrencies = []string{"EUR", "USD", "GBP", "CNH"}

// NewRateTable returns a table seeded with the default currency set.
func NewRateTable() *RateTable {
	t := &RateTable{rates: make(map[string]float64)}
	for _, c := range defaultCurrencies {
		t.order = append(t.order, c)
		t.rates[c] = defaultRates[c]
	}
	return t
}

// NewRateTableFrom rebuilds a table from persisted settings. EUR is forced
// present and pinned regardless of what was stored.
func NewRateTableFrom(currencies []string, rates map[string]float64, updated string) *RateTable {
	t := &RateTable{rates: make(map[string]float64), updated: updated}
	t.order = append(t.order, "EUR")
	t.rates["EUR"] = 1.0
	for _, c := range currencies {
		if c == "EUR" {
			continue
		}
		r, ok := rates[c]
		if !ok {
			r = 1.0
		}
		t.order = append(t.order, c)
		t.rates[c] = r
	}
	return t
}

// Currencies returns the tracked currency codes in display order.
func (t *RateTable) Currencies() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Rates returns a copy of the rate map.
func (t *RateTable) Rates() map[string]float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]float64, len(t.rates))
	for k, v := range t.rates {
		out[k] = v
	}
	return out
}

// Updated returns the as-of date of the last successful refresh, or "".
func (t *RateTable) Updated() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.updated
}

// Rate returns the stored rate for a currency. EUR is always 1.0; unknown
// currencies read as 1.0 as well, which makes conversion a no-op for them.
func (t *RateTable) Rate(code string) float64 {
	if code == "EUR" {
		return 1.0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.rates[code]
	if !ok {
		return 1.0
	}
	return r
}

// SetRate stores a manual rate for a currency, adding the currency to the
// tracked set if needed. EUR rejects modification.
func (t *RateTable) SetRate(code string, rate float64) error {
	if code == "EUR" {
		return fmt.Errorf("the EUR rate is fixed at 1.0")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rates[code]; !ok {
		t.order = append(t.order, code)
	}
	t.rates[code] = rate
	return nil
}

// AddCurrency starts tracking a currency with a neutral 1.0 rate. Codes
// missing from the ISO table are accepted with a logged warning: brokers
// trade in codes the standard never blessed.
func (t *RateTable) AddCurrency(code string) error {
	if code == "" {
		return fmt.Errorf("empty currency code")
	}
	if code == "EUR" {
		return nil
	}
	if !KnownCurrency(code) {
		log.Printf("warning: currency %q is not in the ISO table, tracking it anyway", code)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rates[code]; ok {
		return nil
	}
	t.order = append(t.order, code)
	t.rates[code] = 1.0
	return nil
}

// RemoveCurrency stops tracking a currency. EUR cannot be removed.
func (t *RateTable) RemoveCurrency(code string) error {
	if code == "EUR" {
		return fmt.Errorf("EUR cannot be removed")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rates[code]; !ok {
		return fmt.Errorf("currency %q is not tracked", code)
	}
	delete(t.rates, code)
	for i, c := range t.order {
		if c == code {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

// ConvertToEUR converts an amount from the given currency to EUR. A stored
// rate of exactly zero is a data-integrity failure, not a crash: the amount
// passes through unconverted rather than dividing by zero.
func (t *RateTable) ConvertToEUR(amount float64, currency string) float64 {
	if currency == "EUR" {
		return amount
	}
	rate := t.Rate(currency)
	if rate == 0 {
		return amount
	}
	return amount / rate
}

// merge folds a refreshed subset into the table. Currencies absent from the
// subset keep their previous value.
func (t *RateTable) merge(rates map[string]float64, date string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for code, rate := range rates {
		if code == "EUR" {
			continue
		}
		if _, ok := t.rates[code]; ok {
			t.rates[code] = rate
		}
	}
	t.updated = date
}

// symbols returns the tracked non-EUR codes, sorted for a stable query
// string.
func (t *RateTable) symbols() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []string
	for _, c := range t.order {
		if c != "EUR" {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}
