package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/tracker/renderer"
	"github.com/google/subcommands"
)

// statsCmd holds the flags for the 'stats' subcommand.
type statsCmd struct {
	by string
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "display allocation statistics by asset type and region" }
func (*statsCmd) Usage() string {
	return `pat stats [-by type|region|detailed|all]

  Displays allocation breakdowns: share of invested value, share including
  free cash, and target, grouped by asset type, region, or both.
`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.by, "by", "all", "Grouping: type, region, detailed, or all")
}

func (c *statsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	var out strings.Builder
	switch c.by {
	case "type":
		out.WriteString(renderer.StatsMarkdown("By Asset Type", s.calc.StatsByType()))
	case "region":
		out.WriteString(renderer.StatsMarkdown("By Region", s.calc.StatsByRegion()))
	case "detailed":
		out.WriteString(renderer.DetailedStatsMarkdown(s.calc.DetailedStats()))
	case "all":
		out.WriteString(renderer.StatsMarkdown("By Asset Type", s.calc.StatsByType()))
		out.WriteString(renderer.StatsMarkdown("By Region", s.calc.StatsByRegion()))
		out.WriteString(renderer.DetailedStatsMarkdown(s.calc.DetailedStats()))
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown grouping %q (want type, region, detailed, or all)\n", c.by)
		return subcommands.ExitUsageError
	}

	printMarkdown(out.String())
	return subcommands.ExitSuccess
}
