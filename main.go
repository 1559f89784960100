package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gigurra/finance-tracker/internal"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	internal.SetupLogger(os.Stderr)

	root := &cobra.Command{
		Use:   "finance-tracker",
		Short: "Track budgets, spending and net worth from bank statements",
		Long: "Imports bank statement files into a local SQLite database, categorizing each transaction " +
			"in an interactive review, and reports monthly budget breakdowns, net worth and spending trends.",
		SilenceUsage: true,
	}
	root.AddCommand(
		importCmd(),
		breakdownCmd(),
		networthCmd(),
		snapshotCmd(),
		trendsCmd(),
		categoriesCmd(),
		suggestRulesCmd(),
		initConfigCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds what every command needs: the config, the store and the currency
type app struct {
	cfg      *internal.Config
	store    *internal.Store
	currency internal.Currency
}

// loadConfig loads the config and resolves the currency
func loadConfig(configPath string) (*internal.Config, internal.Currency, error) {
	cfg, err := internal.LoadConfigOrDefault(configPath)
	if err != nil {
		return nil, internal.Currency{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, internal.ResolveCurrency(cfg.Currency), nil
}

// openApp loads the config and opens the store. databasePath overrides the config.
func openApp(configPath, databasePath string) (*app, error) {
	cfg, currency, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return newApp(cfg, currency, databasePath)
}

func newApp(cfg *internal.Config, currency internal.Currency, databasePath string) (*app, error) {
	if databasePath != "" {
		cfg.Database = databasePath
	}

	store, err := internal.OpenStore(cfg.DatabasePath(), cfg.SeedCategories())
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, store: store, currency: currency}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		log.Warn().Err(err).Msg("closing database")
	}
}

// exitOnError reports err on stderr and exits with status 1. Input the user
// can correct is reported as a warning. Run funcs return their errors here
// so their deferred cleanup has already run.
func exitOnError(err error) {
	if err == nil {
		return
	}
	switch {
	case internal.IsUserError(err):
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	case errors.Is(err, internal.ErrStore):
		fmt.Fprintf(os.Stderr, "Error: %v (run with LOG_LEVEL=debug for details)\n", internal.ErrStore)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}

// writeChart writes the chart and opens it unless noOpen is set
func (a *app) writeChart(name, title string, fig internal.Figure, noOpen bool) error {
	path, err := internal.WriteChart(a.cfg.ChartDirectory(), name, title, fig)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Chart written to %s\n", path)

	if noOpen {
		return nil
	}
	if err := internal.OpenChart(path); err != nil {
		log.Warn().Err(err).Msg("could not open chart")
	}
	return nil
}

// period returns month and year, defaulting to the current ones
func period(month, year int) (int, int) {
	now := time.Now()
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	return month, year
}
