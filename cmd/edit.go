package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// editCmd holds the flags for the 'edit' subcommand.
type editCmd struct {
	position float64
	price    float64
	value    float64
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "edit the position, price, or market value of a holding" }
func (*editCmd) Usage() string {
	return `pat edit [-position <qty>] [-price <price>] [-value <value>] <instrument>

  Edits a holding in place. Changing the position or the last price keeps
  the market value consistent (value = position × price); -value overrides
  the market value directly.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.position, "position", -1, "New position (number of units)")
	f.Float64Var(&c.price, "price", -1, "New last price, in the holding's currency")
	f.Float64Var(&c.value, "value", -1, "New market value, overriding position × price")
}

func (c *editCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: edit takes exactly one instrument argument")
		return subcommands.ExitUsageError
	}

	s, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	h, ok := s.portfolio.Find(f.Arg(0))
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: no holding named %q\n", f.Arg(0))
		return subcommands.ExitFailure
	}

	if c.position >= 0 {
		h.SetPosition(c.position)
	}
	if c.price >= 0 {
		h.SetLastPrice(c.price)
	}
	if c.value >= 0 {
		h.MarketValue = c.value
	}

	s.saveAll()
	fmt.Printf("%s: position=%g price=%.2f value=%.2f\n", h.Instrument, h.Position, h.LastPrice, h.MarketValue)
	return subcommands.ExitSuccess
}
