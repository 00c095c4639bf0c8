package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/tracker"
	"github.com/google/subcommands"
)

// classifyCmd holds the flags for the 'classify' subcommand.
type classifyCmd struct {
	assetType string
	region    string
	target    string
	currency  string
}

func (*classifyCmd) Name() string { return "classify" }
func (*classifyCmd) Synopsis() string {
	return "set asset type, region, target, or currency of a holding"
}
func (*classifyCmd) Usage() string {
	return `pat classify [-type <type>] [-region <region>] [-target <fraction>] [-currency <code>] <instrument>

  Classifies a holding. Classifications are remembered and reapplied on
  every later import of the same instrument. The target is a fraction of
  the invested total, e.g. 0.25 for 25%.
`
}

func (c *classifyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.assetType, "type", "", "Asset type: Equity, Bonds, Commodity, Thematic, REIT, or Unassigned")
	f.StringVar(&c.region, "region", "", "Region: US, EU, EM, Global, Non, or Unassigned")
	f.StringVar(&c.target, "target", "", "Target allocation as a fraction of the invested total")
	f.StringVar(&c.currency, "currency", "", "ISO currency code the holding is quoted in")
}

func (c *classifyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: classify takes exactly one instrument argument")
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

	if c.assetType != "" {
		t, err := tracker.ParseAssetType(c.assetType)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		h.AssetType = t
	}
	if c.region != "" {
		r, err := tracker.ParseRegion(c.region)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		h.Region = r
	}
	if c.target != "" {
		target, err := strconv.ParseFloat(c.target, 64)
		if err != nil || target < 0 || target > 1 {
			fmt.Fprintf(os.Stderr, "Error: invalid target %q (want a fraction between 0 and 1)\n", c.target)
			return subcommands.ExitUsageError
		}
		h.TargetAllocation = target
	}
	if c.currency != "" {
		code := strings.ToUpper(c.currency)
		if !tracker.KnownCurrency(code) {
			fmt.Fprintf(os.Stderr, "Error: unknown currency code %q\n", c.currency)
			return subcommands.ExitUsageError
		}
		h.Currency = code
	}

	s.saveAll()
	fmt.Printf("%s: type=%s region=%s target=%s currency=%s\n",
		h.Instrument, h.AssetType, h.Region, tracker.Percent(h.TargetAllocation), h.Currency)
	return subcommands.ExitSuccess
}
