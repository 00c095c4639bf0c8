package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tracker"
	"github.com/google/subcommands"
)

type loadCmd struct {
	yes bool
}

func (*loadCmd) Name() string { return "load" }
func (*loadCmd) Synopsis() string {
	return "replace the whole state with a previously exported snapshot"
}
func (*loadCmd) Usage() string {
	return `pat load [-y] <snapshot.json>

  Loads a snapshot created by 'pat export'. The current holdings,
  classifications, currencies and rates are replaced wholesale.
`
}

func (c *loadCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "load without asking for confirmation")
}

func (c *loadCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: load takes exactly one snapshot file argument")
		return subcommands.ExitUsageError
	}

	file, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	data, err := tracker.ImportSnapshot(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading snapshot: %v\n", err)
		return subcommands.ExitFailure
	}

	s, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	if !c.yes && !confirm(fmt.Sprintf("Replace the current portfolio with %d holdings from the snapshot?", len(data.Portfolio.Holdings))) {
		fmt.Println("Load cancelled.")
		return subcommands.ExitSuccess
	}

	s.portfolio = data.Portfolio
	s.mappings.Replace(data.Mappings)
	s.rates = tracker.NewRateTableFrom(data.Currencies, data.Rates, "")
	s.saveAll()

	fmt.Printf("Loaded %d holdings from %s.\n", len(data.Portfolio.Holdings), f.Arg(0))
	return subcommands.ExitSuccess
}
