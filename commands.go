package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/finance-tracker/internal"
	"github.com/spf13/cobra"
)

type ImportParams struct {
	File     string `descr:"Statement file, optionally prefixed with its format (e.g. xlsx:statement.xlsx)" positional:"true"`
	Format   string `descr:"Statement format, detected from the file extension when empty" optional:"true"`
	Config   string `descr:"Config file path (default ~/.finance-tracker/config.yaml)" optional:"true"`
	Database string `descr:"Database file path, overrides the config" optional:"true"`
	DryRun   bool   `descr:"Only parse and validate the statement" optional:"true"`
}

func importCmd() *cobra.Command {
	return boa.NewCmdT[ImportParams]("import").
		WithShort("Import a bank statement, categorizing each transaction").
		WithLong("Reads a statement file and walks its rows one at a time. Each row is saved under a category, " +
			"or deleted. Rows are validated before the review starts. Quitting loses the rows not yet reviewed.").
		WithRunFunc(func(params *ImportParams) {
			exitOnError(runImport(params))
		}).
		ToCobra()
}

func runImport(params *ImportParams) error {
	cfg, currency, err := loadConfig(params.Config)
	if err != nil {
		return err
	}

	rows, err := internal.LoadStatement(params.File, params.Format, cfg.Statement)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", params.File, err)
	}

	dateRange, months := internal.StatementCoverage(rows)
	internal.PrintCoverage(os.Stdout, len(rows), dateRange, months)
	if params.DryRun || len(rows) == 0 {
		return nil
	}

	a, err := newApp(cfg, currency, params.Database)
	if err != nil {
		return err
	}
	defer a.close()

	session, err := internal.NewReviewSession(a.store, cfg.Statement.DecimalComma)
	if err != nil {
		return err
	}
	if err := session.Load(rows); err != nil {
		return err
	}

	summary, err := internal.RunReview(session, os.Stdin, os.Stdout, internal.ReviewOptions{
		Currency:  currency,
		Suggester: internal.NewSuggester(a.cfg, a.store),
		Ignore:    a.cfg.ShouldIgnore,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d transaction(s), deleted %d, ignored %d.\n", summary.Saved, summary.Deleted, summary.Ignored)
	return nil
}

type BreakdownParams struct {
	Month    int    `descr:"Month (1-12), defaults to the current month" optional:"true"`
	Year     int    `descr:"Year, defaults to the current year" optional:"true"`
	Output   string `descr:"Output format" default:"table" alts:"table,json,xlsx" strict:"true"`
	OutFile  string `descr:"File written by --output xlsx" default:"monthly_breakdown.xlsx"`
	Chart    bool   `descr:"Write the distribution chart as HTML" optional:"true"`
	NoOpen   bool   `descr:"Do not open the chart in the browser" optional:"true"`
	Config   string `descr:"Config file path (default ~/.finance-tracker/config.yaml)" optional:"true"`
	Database string `descr:"Database file path, overrides the config" optional:"true"`
}

func breakdownCmd() *cobra.Command {
	return boa.NewCmdT[BreakdownParams]("breakdown").
		WithShort("Show budget vs actual per category for a month").
		WithRunFunc(func(params *BreakdownParams) {
			exitOnError(runBreakdown(params))
		}).
		ToCobra()
}

func runBreakdown(params *BreakdownParams) error {
	a, err := openApp(params.Config, params.Database)
	if err != nil {
		return err
	}
	defer a.close()

	month, year := period(params.Month, params.Year)
	b, err := internal.MonthlyBreakdown(a.store, month, year)
	if err != nil {
		return err
	}

	switch params.Output {
	case "json":
		if err := internal.PrintBreakdownJSON(os.Stdout, b, a.currency); err != nil {
			return err
		}
	case "xlsx":
		if err := internal.ExportBreakdownXLSX(params.OutFile, b); err != nil {
			return err
		}
		fmt.Printf("Breakdown written to %s\n", params.OutFile)
	default:
		internal.PrintBreakdownTable(os.Stdout, b, a.currency)
	}

	if params.Chart {
		return a.writeChart(internal.BreakdownChartFile, "Monthly breakdown "+b.Period(), internal.BreakdownChart(b), params.NoOpen)
	}
	return nil
}

type NetWorthParams struct {
	Output   string `descr:"Output format" default:"table" alts:"table,json" strict:"true"`
	Chart    bool   `descr:"Write the net worth history chart as HTML" optional:"true"`
	NoOpen   bool   `descr:"Do not open the chart in the browser" optional:"true"`
	Config   string `descr:"Config file path (default ~/.finance-tracker/config.yaml)" optional:"true"`
	Database string `descr:"Database file path, overrides the config" optional:"true"`
}

func networthCmd() *cobra.Command {
	return boa.NewCmdT[NetWorthParams]("networth").
		WithShort("Show the latest net worth snapshot and its history").
		WithRunFunc(func(params *NetWorthParams) {
			exitOnError(runNetWorth(params))
		}).
		ToCobra()
}

func runNetWorth(params *NetWorthParams) error {
	a, err := openApp(params.Config, params.Database)
	if err != nil {
		return err
	}
	defer a.close()

	report, err := internal.NetWorthSummary(a.store)
	if errors.Is(err, internal.ErrNoNetWorthData) {
		fmt.Println("No net worth data available. Record a snapshot with 'finance-tracker snapshot'.")
		return nil
	}
	if err != nil {
		return err
	}

	if params.Output == "json" {
		if err := internal.PrintNetWorthJSON(os.Stdout, report, a.currency); err != nil {
			return err
		}
	} else {
		internal.PrintNetWorthTable(os.Stdout, report, a.currency)
	}

	if params.Chart {
		return a.writeChart(internal.NetWorthChartFile, "Net worth", internal.NetWorthChart(report.History), params.NoOpen)
	}
	return nil
}

type SnapshotParams struct {
	Asset     []string `descr:"Asset value as NAME=AMOUNT, repeatable. Prompts for all values when no asset or liability is given" optional:"true"`
	Liability []string `descr:"Liability value as NAME=AMOUNT, repeatable" optional:"true"`
	Date      string   `descr:"Snapshot date (YYYY-MM-DD), defaults to today" optional:"true"`
	Config    string   `descr:"Config file path (default ~/.finance-tracker/config.yaml)" optional:"true"`
	Database  string   `descr:"Database file path, overrides the config" optional:"true"`
}

func snapshotCmd() *cobra.Command {
	return boa.NewCmdT[SnapshotParams]("snapshot").
		WithShort("Record the current value of assets and liabilities").
		WithRunFunc(func(params *SnapshotParams) {
			exitOnError(runSnapshot(params))
		}).
		ToCobra()
}

func runSnapshot(params *SnapshotParams) error {
	day := internal.Today()
	if params.Date != "" {
		parsed, err := internal.ParseDay(params.Date)
		if err != nil {
			return fmt.Errorf("%w: date %q", internal.ErrInvalidPeriod, params.Date)
		}
		day = parsed
	}

	a, err := openApp(params.Config, params.Database)
	if err != nil {
		return err
	}
	defer a.close()

	var assets, liabilities map[string]string
	if len(params.Asset) == 0 && len(params.Liability) == 0 {
		knownAssets, knownLiabilities, err := internal.KnownNetWorthNames(a.store)
		if err != nil {
			return err
		}
		assets, liabilities, err = internal.PromptSnapshot(os.Stdin, os.Stdout, knownAssets, knownLiabilities)
		if err != nil {
			return err
		}
	} else {
		if assets, err = internal.ParseNamedValues(params.Asset); err != nil {
			return err
		}
		if liabilities, err = internal.ParseNamedValues(params.Liability); err != nil {
			return err
		}
	}

	entries, err := internal.ParseSnapshot(assets, liabilities)
	if err != nil {
		return err
	}
	if err := internal.RecordSnapshot(a.store, entries, day); err != nil {
		return err
	}
	fmt.Printf("Recorded %d entries for %s\n", len(entries), day)
	return nil
}

type TrendsParams struct {
	Categories []string `descr:"Categories to include" positional:"true" optional:"true"`
	Year       int      `descr:"Year, defaults to the current year" optional:"true"`
	Output     string   `descr:"Output format" default:"table" alts:"table,json" strict:"true"`
	Chart      bool     `descr:"Write the trends chart as HTML" optional:"true"`
	Kind       string   `descr:"Chart kind" default:"line" alts:"line,bar,scatter" strict:"true"`
	NoZeroFill bool     `descr:"Leave out months without transactions instead of showing zero" optional:"true"`
	NoOpen     bool     `descr:"Do not open the chart in the browser" optional:"true"`
	Config     string   `descr:"Config file path (default ~/.finance-tracker/config.yaml)" optional:"true"`
	Database   string   `descr:"Database file path, overrides the config" optional:"true"`
}

func trendsCmd() *cobra.Command {
	return boa.NewCmdT[TrendsParams]("trends").
		WithShort("Show monthly spending per category for a year").
		WithRunFunc(func(params *TrendsParams) {
			exitOnError(runTrends(params))
		}).
		ToCobra()
}

func runTrends(params *TrendsParams) error {
	if len(params.Categories) == 0 {
		return fmt.Errorf("%w: pass one or more category names", internal.ErrNoCategorySelected)
	}

	a, err := openApp(params.Config, params.Database)
	if err != nil {
		return err
	}
	defer a.close()

	_, year := period(0, params.Year)
	opts := internal.TrendOptions{ZeroFill: a.cfg.TrendsZeroFill() && !params.NoZeroFill}
	series, err := internal.SpendingTrends(a.store, year, params.Categories, opts)
	if err != nil {
		return err
	}

	if params.Output == "json" {
		if err := internal.PrintTrendsJSON(os.Stdout, year, series, a.currency); err != nil {
			return err
		}
	} else {
		internal.PrintTrendsTable(os.Stdout, year, series, a.currency)
	}

	if params.Chart {
		fig, err := internal.TrendsChart(series, params.Kind)
		if err != nil {
			return err
		}
		return a.writeChart(internal.TrendsChartFile, fmt.Sprintf("Spending trends %d", year), fig, params.NoOpen)
	}
	return nil
}

type CategoriesParams struct {
	Output   string `descr:"Output format" default:"table" alts:"table,json" strict:"true"`
	Config   string `descr:"Config file path (default ~/.finance-tracker/config.yaml)" optional:"true"`
	Database string `descr:"Database file path, overrides the config" optional:"true"`
}

func categoriesCmd() *cobra.Command {
	return boa.NewCmdT[CategoriesParams]("categories").
		WithShort("List categories and their monthly budgets").
		WithRunFunc(func(params *CategoriesParams) {
			exitOnError(runCategories(params))
		}).
		ToCobra()
}

func runCategories(params *CategoriesParams) error {
	a, err := openApp(params.Config, params.Database)
	if err != nil {
		return err
	}
	defer a.close()

	categories, err := a.store.Categories()
	if err != nil {
		return err
	}

	if params.Output == "json" {
		return internal.PrintCategoriesJSON(os.Stdout, categories)
	}
	internal.PrintCategoriesTable(os.Stdout, categories, a.currency)
	return nil
}

type SuggestRulesParams struct {
	Config   string `descr:"Config file path (default ~/.finance-tracker/config.yaml)" optional:"true"`
	Database string `descr:"Database file path, overrides the config" optional:"true"`
}

func suggestRulesCmd() *cobra.Command {
	return boa.NewCmdT[SuggestRulesParams]("suggest-rules").
		WithShort("Suggest category rules from how payees were categorized before").
		WithRunFunc(func(params *SuggestRulesParams) {
			exitOnError(runSuggestRules(params))
		}).
		ToCobra()
}

func runSuggestRules(params *SuggestRulesParams) error {
	a, err := openApp(params.Config, params.Database)
	if err != nil {
		return err
	}
	defer a.close()

	txs, err := a.store.Transactions()
	if err != nil {
		return err
	}
	internal.PrintRuleSuggestions(os.Stdout, internal.SuggestRules(txs, a.cfg))
	return nil
}

type InitConfigParams struct {
	Path  string `descr:"Where to write the config (default ~/.finance-tracker/config.yaml)" optional:"true"`
	Force bool   `descr:"Overwrite an existing file" optional:"true"`
}

func initConfigCmd() *cobra.Command {
	return boa.NewCmdT[InitConfigParams]("init-config").
		WithShort("Write a starter config file").
		WithRunFunc(func(params *InitConfigParams) {
			exitOnError(runInitConfig(params))
		}).
		ToCobra()
}

func runInitConfig(params *InitConfigParams) error {
	path := params.Path
	if path == "" {
		path = internal.DefaultConfigPath()
	}
	if _, err := os.Stat(path); err == nil && !params.Force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}

	currency, _ := internal.DetectSystemCurrency()
	cfg := internal.GenerateConfigTemplate(internal.DefaultCategories, currency)
	if err := cfg.Save(path); err != nil {
		return err
	}
	fmt.Printf("Config written to %s\n", path)
	return nil
}
