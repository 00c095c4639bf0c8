// Package cmd implements the CLI application to manage a tracked portfolio.
package cmd

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/etnz/tracker"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on
// the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&importCmd{}, "portfolio")
	c.Register(&holdingsCmd{}, "portfolio")
	c.Register(&editCmd{}, "portfolio")
	c.Register(&classifyCmd{}, "portfolio")
	c.Register(&deleteCmd{}, "portfolio")
	c.Register(&cashCmd{}, "portfolio")
	c.Register(&resetCmd{}, "portfolio")

	c.Register(&statsCmd{}, "reports")
	c.Register(&exportCmd{}, "reports")
	c.Register(&loadCmd{}, "reports")

	c.Register(&ratesCmd{}, "currencies")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to
// use global variables.

var dataDirFlag = flag.String("data-dir", "", "Path to the data directory (defaults to ~/.tracker)")

// session is the application state for one command invocation: the three
// stores plus the live portfolio and rate table, wired together once and
// passed around explicitly.
type session struct {
	store     *tracker.PortfolioStore
	mappings  *tracker.MappingsStore
	settings  *tracker.SettingsStore
	portfolio *tracker.Portfolio
	rates     *tracker.RateTable
	calc      *tracker.Calculator
}

// openSession loads all persisted state. A missing portfolio file starts an
// empty portfolio; a corrupt one is an error the user must resolve.
func openSession() (*session, error) {
	dir := *dataDirFlag
	if dir == "" {
		var err error
		if dir, err = tracker.DefaultDataDir(); err != nil {
			return nil, err
		}
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create data directory %q: %w", dir, err)
	}

	s := &session{
		store:    tracker.NewPortfolioStore(dir),
		mappings: tracker.NewMappingsStore(dir),
		settings: tracker.NewSettingsStore(dir),
	}

	p, err := s.store.Load()
	if errors.Is(err, fs.ErrNotExist) {
		p = tracker.NewPortfolio()
	} else if err != nil {
		return nil, err
	}
	s.portfolio = p

	// Saved classifications win over whatever the portfolio file carries.
	s.mappings.ApplyMappings(s.portfolio.Holdings)
	s.portfolio.FreeCash = s.settings.Settings.FreeCash

	s.rates = s.settings.RateTable()
	s.calc = tracker.NewCalculator(s.portfolio, s.rates)
	return s, nil
}

// saveAll persists the session after a confirmed mutation. Persistence
// failures are logged and the command continues: losing one save must never
// crash the application.
func (s *session) saveAll() {
	if err := s.store.Save(s.portfolio); err != nil {
		log.Printf("warning: could not save portfolio: %v", err)
	}
	s.mappings.UpdateFromHoldings(s.portfolio.Holdings)
	if err := s.mappings.Save(); err != nil {
		log.Printf("warning: could not save mappings: %v", err)
	}
	s.settings.Settings.FreeCash = s.portfolio.FreeCash
	s.settings.SetRateTable(s.rates)
	if err := s.settings.Save(); err != nil {
		log.Printf("warning: could not save settings: %v", err)
	}
}

// printMarkdown renders markdown to the terminal, falling back to the raw
// text when the terminal renderer is unavailable.
func printMarkdown(content string) {
	out, err := glamour.Render(content, "auto")
	if err != nil {
		fmt.Print(content)
		return
	}
	fmt.Print(out)
}

// confirm asks a yes/no question on the terminal and defaults to no.
func confirm(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
