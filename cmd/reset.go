package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tracker"
	"github.com/google/subcommands"
)

type resetCmd struct {
	yes bool
}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "remove all holdings and reset the free cash" }
func (*resetCmd) Usage() string {
	return `pat reset [-y]

  Empties the portfolio and resets the free cash to zero. Saved
  classifications and exchange rates are kept.
`
}

func (c *resetCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "reset without asking for confirmation")
}

func (c *resetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	if !c.yes && !confirm(fmt.Sprintf("Remove all %d holdings?", len(s.portfolio.Holdings))) {
		fmt.Println("Reset cancelled.")
		return subcommands.ExitSuccess
	}

	s.portfolio = tracker.NewPortfolio()
	s.saveAll()
	fmt.Println("Portfolio reset.")
	return subcommands.ExitSuccess
}
