package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/renderer"
	"github.com/etnz/tracker/vision"
	"github.com/google/subcommands"
)

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	yes   bool
	model string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import holdings from a spreadsheet, CSV, or screenshot" }
func (*importCmd) Usage() string {
	return `pat import [-y] [-model <model>] <file>

  Parses holdings from an .xlsx, .csv, .png or .jpg file, shows them for
  review, and merges them into the portfolio. Your saved classifications
  (asset type, region, target, currency) are preserved across imports.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "skip the review confirmation for file imports (screenshots are always reviewed)")
	f.StringVar(&c.model, "model", vision.DefaultModel, "Gemini model used for screenshot recognition")
}

// isImage reports whether path is one of the supported screenshot formats.
func isImage(path string) bool {
	_, err := vision.MIMEType(path)
	return err == nil
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: import takes exactly one file argument")
		return subcommands.ExitUsageError
	}
	path := f.Arg(0)

	s, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	var holdings []tracker.Holding
	var skipped []tracker.SkippedRow
	fromImage := isImage(path)

	if fromImage {
		recognizer, err := vision.NewGeminiRecognizer(ctx, c.model)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		text, err := vision.RecognizeFile(ctx, recognizer, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error recognizing %q: %v\n", path, err)
			return subcommands.ExitFailure
		}
		holdings, skipped = tracker.ParseRecognizedText(text)
	} else {
		holdings, skipped, err = tracker.ParseFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing %q: %v\n", path, err)
			return subcommands.ExitFailure
		}
	}

	for _, row := range skipped {
		log.Printf("skipped line %d: %s", row.Line, row.Reason)
	}
	if len(holdings) == 0 {
		fmt.Printf("No holdings found in %q.\n", path)
		return subcommands.ExitSuccess
	}

	// Recognized text is best-effort, so screenshots are always reviewed.
	if !c.yes || fromImage {
		printMarkdown(renderer.ReviewMarkdown(holdings, skipped))
		if !confirm(fmt.Sprintf("Import these %d holdings?", len(holdings))) {
			fmt.Println("Import cancelled.")
			return subcommands.ExitSuccess
		}
	}

	s.mappings.ApplyMappings(holdings)
	s.portfolio.AddOrUpdateHoldings(holdings)
	if abs, err := filepath.Abs(path); err == nil {
		s.settings.Settings.LastImportPath = abs
	}
	s.saveAll()

	fmt.Printf("Imported %d holdings from %s.\n", len(holdings), filepath.Base(path))
	if len(skipped) > 0 {
		fmt.Printf("%d rows were skipped (%s).\n", len(skipped), skippedSummary(skipped))
	}
	return subcommands.ExitSuccess
}

func skippedSummary(skipped []tracker.SkippedRow) string {
	reasons := make([]string, 0, len(skipped))
	for _, s := range skipped {
		reasons = append(reasons, fmt.Sprintf("line %d: %s", s.Line, s.Reason))
	}
	return strings.Join(reasons, "; ")
}
