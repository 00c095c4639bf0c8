package tracker

import "github.com/Rhymond/go-money"

// CurrencySymbol returns the display symbol for a currency code ("€" for
// EUR, "$" for USD). Codes missing from the ISO table fall back to the code
// itself followed by a space, so formatted amounts stay readable.
func CurrencySymbol(code string) string {
	if c := money.GetCurrency(code); c != nil && c.Grapheme != "" {
		return c.Grapheme
	}
	return code + " "
}

// KnownCurrency reports whether the code appears in the ISO currency table.
// The rate table accepts unknown codes (brokers invent them, CNH being the
// classic case) but callers may want to warn.
func KnownCurrency(code string) bool {
	return money.GetCurrency(code) != nil
}
