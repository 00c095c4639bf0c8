package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tracker"
	"github.com/google/subcommands"
)

// exportCmd holds the flags for the 'export' subcommand.
type exportCmd struct {
	format string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the portfolio as a snapshot, CSV, or spreadsheet" }
func (*exportCmd) Usage() string {
	return `pat export [-format snapshot|csv|xlsx] [-o <file>]

  Exports the portfolio. The snapshot format is a versioned JSON file that
  carries the full state (holdings, classifications, currencies, rates) and
  can be loaded back with 'pat load'. The csv and xlsx formats are
  write-only reports with computed EUR values and allocations.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "snapshot", "Export format: snapshot, csv, or xlsx")
	f.StringVar(&c.output, "o", "", "Output file (defaults to stdout; required for xlsx)")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.format == "xlsx" {
		if c.output == "" {
			fmt.Fprintln(os.Stderr, "Error: -o is required for xlsx export")
			return subcommands.ExitUsageError
		}
		if err := tracker.ExportSpreadsheet(c.output, s.portfolio, s.calc.Convert); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Exported %d holdings to %s.\n", len(s.portfolio.Holdings), c.output)
		return subcommands.ExitSuccess
	}

	out := os.Stdout
	if c.output != "" {
		out, err = os.Create(c.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.output, err)
			return subcommands.ExitFailure
		}
		defer out.Close()
	}

	switch c.format {
	case "snapshot":
		err = tracker.ExportSnapshot(out, s.portfolio, s.rates, s.mappings)
	case "csv":
		err = tracker.ExportCSV(out, s.portfolio, s.calc.Convert)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q (want snapshot, csv, or xlsx)\n", c.format)
		return subcommands.ExitUsageError
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.output != "" {
		fmt.Printf("Exported %d holdings to %s.\n", len(s.portfolio.Holdings), c.output)
	}
	return subcommands.ExitSuccess
}
