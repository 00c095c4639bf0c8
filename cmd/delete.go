package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type deleteCmd struct {
	yes bool
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete a holding from the portfolio" }
func (*deleteCmd) Usage() string {
	return `pat delete [-y] <instrument>

  Removes a holding. Its saved classification is kept, so a later import
  of the same instrument is classified again automatically.
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "delete without asking for confirmation")
}

func (c *deleteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: delete takes exactly one instrument argument")
		return subcommands.ExitUsageError
	}

	s, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	instrument := f.Arg(0)
	if _, ok := s.portfolio.Find(instrument); !ok {
		fmt.Fprintf(os.Stderr, "Error: no holding named %q\n", instrument)
		return subcommands.ExitFailure
	}
	if !c.yes && !confirm(fmt.Sprintf("Delete %q?", instrument)) {
		fmt.Println("Delete cancelled.")
		return subcommands.ExitSuccess
	}

	s.portfolio.Delete(instrument)
	s.saveAll()
	fmt.Printf("Deleted %q.\n", instrument)
	return subcommands.ExitSuccess
}
