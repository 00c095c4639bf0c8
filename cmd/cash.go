package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/google/subcommands"
)

type cashCmd struct{}

func (*cashCmd) Name() string     { return "cash" }
func (*cashCmd) Synopsis() string { return "display or set the free cash amount" }
func (*cashCmd) Usage() string {
	return `pat cash [<amount>]

  Without an argument, displays the free cash. With an amount (in EUR),
  sets it. Free cash counts toward the total but carries no allocation.
`
}

func (*cashCmd) SetFlags(f *flag.FlagSet) {}

func (c *cashCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	if f.NArg() == 0 {
		fmt.Printf("Free cash: €%.2f\n", s.portfolio.FreeCash)
		return subcommands.ExitSuccess
	}

	amount, err := strconv.ParseFloat(f.Arg(0), 64)
	if err != nil || amount < 0 {
		fmt.Fprintf(os.Stderr, "Error: invalid cash amount %q\n", f.Arg(0))
		return subcommands.ExitUsageError
	}

	s.portfolio.FreeCash = amount
	s.saveAll()
	fmt.Printf("Free cash set to €%.2f.\n", amount)
	return subcommands.ExitSuccess
}
