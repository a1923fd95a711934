// Package cmd implements the CLI application to manage a ledger.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"k8s.io/klog"

	"github.com/mlvd/ledger"
	"github.com/mlvd/ledger/store"
	"github.com/mlvd/ledger/yahoo"
)

// Commands lists every subcommand the main package registers.
var Commands = []subcommands.Command{
	&initCmd{},
	&addCommodityCmd{},
	&addAccountCmd{},
	&txCmd{},
	&balanceCmd{},
	&networthCmd{},
	&positionsCmd{},
	&updateCmd{},
}

// As a CLI application it has a very short lived lifecycle, so it is ok
// to use global variables.
var configFile = flag.String("config", "ledger.yaml", "Path to the configuration file")

// app bundles everything a subcommand needs: the open store and the
// in-memory engine state loaded from it.
type app struct {
	cfg          *Config
	store        *store.Store
	book         *ledger.Book
	prices       *ledger.PriceDB
	mainCurrency string
}

// loadApp opens the database and loads the whole book into memory.
func loadApp(ctx context.Context) (*app, error) {
	cfg, err := LoadConfig(*configFile)
	if err != nil {
		return nil, err
	}

	s, err := store.Open(cfg.DBFile)
	if err != nil {
		return nil, err
	}

	book, err := s.LoadBook(ctx)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("loading book: %w", err)
	}
	rows, err := s.LoadPrices(ctx)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("loading prices: %w", err)
	}
	klog.V(1).Infof("loaded %d accounts, %d transactions, %d prices",
		len(book.Accounts()), len(book.Transactions()), len(rows))

	mainCurrency := cfg.MainCurrency
	if mainCurrency == "" {
		if mainCurrency, err = book.MainCurrency(); err != nil {
			klog.V(1).Infof("no main currency yet: %v", err)
		}
	}

	return &app{
		cfg:          cfg,
		store:        s,
		book:         book,
		prices:       ledger.NewPriceDB(rows),
		mainCurrency: mainCurrency,
	}, nil
}

func (a *app) Close() error { return a.store.Close() }

// balancer wires the single writer for the loaded book.
func (a *app) balancer() *ledger.Balancer {
	b := ledger.NewBalancer(a.book, a.prices, a.store, yahoo.New(), a.mainCurrency)
	b.SetQuoteTimeout(a.cfg.QuoteTimeout)
	return b
}

func (a *app) costBasisMethod() (ledger.CostBasisMethod, error) {
	return ledger.ParseCostBasisMethod(a.cfg.CostBasis)
}

// parseDateFlag parses a -d flag value, defaulting to today.
func parseDateFlag(s string) (ledger.Date, error) {
	if s == "" {
		return ledger.Today(), nil
	}
	return ledger.ParseDate(s)
}

// printMarkdown renders a markdown document to the terminal.
func printMarkdown(source string) {
	out, err := glamour.Render(source, "auto")
	if err != nil {
		// Fall back to the raw document.
		fmt.Print(source)
		return
	}
	fmt.Print(out)
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}

// commandContext bounds a whole subcommand run.
func commandContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, 2*time.Minute)
}
