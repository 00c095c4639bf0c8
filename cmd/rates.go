package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/renderer"
	"github.com/google/subcommands"
)

// ratesCmd holds the flags for the 'rates' subcommand.
type ratesCmd struct {
	set     string
	add     string
	remove  string
	refresh bool
}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "display or manage exchange rates" }
func (*ratesCmd) Usage() string {
	return `pat rates [-set CODE=RATE | -add CODE | -remove CODE | -refresh]

  Without flags, displays the tracked currencies and their rates, expressed
  as units of the currency per 1 EUR. -refresh fetches the latest reference
  rates from the Frankfurter API.
`
}

func (c *ratesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.set, "set", "", "Set a rate manually, e.g. USD=1.0850")
	f.StringVar(&c.add, "add", "", "Track a new currency (seeded at 1.0)")
	f.StringVar(&c.remove, "remove", "", "Stop tracking a currency")
	f.BoolVar(&c.refresh, "refresh", false, "Fetch the latest reference rates")
}

func (c *ratesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	changed := false
	if c.set != "" {
		code, rate, err := parseRateAssignment(c.set)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		if err := s.rates.SetRate(code, rate); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		changed = true
	}
	if c.add != "" {
		if err := s.rates.AddCurrency(strings.ToUpper(c.add)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		changed = true
	}
	if c.remove != "" {
		if err := s.rates.RemoveCurrency(strings.ToUpper(c.remove)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		changed = true
	}
	if c.refresh {
		done := make(chan tracker.RefreshResult, 1)
		err := s.rates.RefreshAsync(func(r tracker.RefreshResult) { done <- r })
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		result := <-done
		if result.Err != nil {
			fmt.Fprintf(os.Stderr, "Error refreshing rates: %v\n", result.Err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Rates refreshed as of %s.\n", result.Date)
		changed = true
	}

	if changed {
		s.saveAll()
	}
	printMarkdown(renderer.RatesMarkdown(s.rates))
	return subcommands.ExitSuccess
}

func parseRateAssignment(assignment string) (code string, rate float64, err error) {
	code, value, ok := strings.Cut(assignment, "=")
	if !ok {
		return "", 0, fmt.Errorf("invalid rate assignment %q (want CODE=RATE)", assignment)
	}
	rate, err = strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid rate in %q: %w", assignment, err)
	}
	return strings.ToUpper(strings.TrimSpace(code)), rate, nil
}
