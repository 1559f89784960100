package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"
)

// OutputFormats are the values accepted by --output
var OutputFormats = []string{"table", "json"}

// JSONBreakdown is the JSON output format of a monthly breakdown
type JSONBreakdown struct {
	Month        int              `json:"month"`
	Year         int              `json:"year"`
	Currency     string           `json:"currency"`
	Sections     []JSONSection    `json:"sections"`
	Distribution JSONDistribution `json:"distribution"`
}

type JSONSection struct {
	Type  string             `json:"type"`
	Rows  []JSONBreakdownRow `json:"rows"`
	Total JSONBreakdownRow   `json:"total"`
}

type JSONBreakdownRow struct {
	Category          string  `json:"category"`
	Budget            float64 `json:"budget"`
	Actual            float64 `json:"actual"`
	PercentDifference float64 `json:"percent_difference"`
}

type JSONDistribution struct {
	Spending float64 `json:"spending"`
	Expenses float64 `json:"expenses"`
	Assets   float64 `json:"assets"`
}

// JSONNetWorth is the JSON output format of a net worth report
type JSONNetWorth struct {
	Date             string              `json:"date"`
	Currency         string              `json:"currency"`
	Assets           []JSONNetWorthLine  `json:"assets"`
	Liabilities      []JSONNetWorthLine  `json:"liabilities"`
	TotalAssets      float64             `json:"total_assets"`
	TotalLiabilities float64             `json:"total_liabilities"`
	NetWorth         float64             `json:"net_worth"`
	History          []JSONNetWorthPoint `json:"history"`
}

type JSONNetWorthLine struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type JSONNetWorthPoint struct {
	Date        string  `json:"date"`
	Assets      float64 `json:"assets"`
	Liabilities float64 `json:"liabilities"`
	NetWorth    float64 `json:"net_worth"`
}

// JSONTrends is the JSON output format of spending trends
type JSONTrends struct {
	Year     int               `json:"year"`
	Currency string            `json:"currency"`
	Series   []JSONTrendSeries `json:"series"`
}

type JSONTrendSeries struct {
	Category string           `json:"category"`
	Points   []JSONTrendPoint `json:"points"`
	Total    float64          `json:"total"`
}

type JSONTrendPoint struct {
	Month  int     `json:"month"`
	Amount float64 `json:"amount"`
}

type JSONCategory struct {
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Budget float64 `json:"budget"`
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func toJSONRow(r BreakdownRow) JSONBreakdownRow {
	return JSONBreakdownRow{
		Category:          r.Category,
		Budget:            r.Budget.InexactFloat64(),
		Actual:            r.Actual.InexactFloat64(),
		PercentDifference: r.PercentDifference.Round(2).InexactFloat64(),
	}
}

// PrintBreakdownJSON outputs a monthly breakdown in JSON format
func PrintBreakdownJSON(w io.Writer, b Breakdown, currency Currency) error {
	out := JSONBreakdown{
		Month:    b.Month,
		Year:     b.Year,
		Currency: currency.Code,
		Sections: []JSONSection{},
	}
	for _, s := range b.Sections {
		section := JSONSection{Type: string(s.Type), Total: toJSONRow(s.Total)}
		for _, r := range s.Rows {
			section.Rows = append(section.Rows, toJSONRow(r))
		}
		out.Sections = append(out.Sections, section)
	}
	d := b.Distribution()
	out.Distribution = JSONDistribution{
		Spending: d.Spending.InexactFloat64(),
		Expenses: d.Expenses.InexactFloat64(),
		Assets:   d.Assets.InexactFloat64(),
	}
	return writeJSON(w, out)
}

// PrintBreakdownTable outputs a monthly breakdown as a formatted table, one
// block per section followed by its total
func PrintBreakdownTable(w io.Writer, b Breakdown, currency Currency) {
	fmt.Fprintf(w, "Budget breakdown for %s\n\n", b.Period())

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Category", "Budget", "Actual", "Difference"})

	for i, s := range b.Sections {
		if i > 0 {
			t.AppendSeparator()
		}
		t.AppendRow(table.Row{text.Bold.Sprint(string(s.Type)), "", "", ""})
		for _, r := range s.Rows {
			t.AppendRow(table.Row{
				"  " + r.Category,
				currency.Format(r.Budget),
				currency.Format(r.Actual),
				differenceColor(s.Type, r.PercentDifference).Sprint(currency.FormatPercent(r.PercentDifference)),
			})
		}
		t.AppendRow(table.Row{
			text.Bold.Sprint("  Total " + string(s.Type)),
			text.Bold.Sprint(currency.Format(s.Total.Budget)),
			text.Bold.Sprint(currency.Format(s.Total.Actual)),
			differenceColor(s.Type, s.Total.PercentDifference).Sprint(currency.FormatPercent(s.Total.PercentDifference)),
		})
	}

	d := b.Distribution()
	t.AppendFooter(table.Row{
		"Distribution",
		"Spending " + currency.Format(d.Spending),
		"Expenses " + currency.Format(d.Expenses),
		"Assets " + currency.Format(d.Assets),
	})

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	t.Render()
}

// differenceColor highlights going over budget on money going out, and
// falling short on income and savings
func differenceColor(t CategoryType, pct decimal.Decimal) text.Colors {
	switch {
	case pct.IsZero():
		return text.Colors{}
	case t == CategoryExpenses || t == CategorySpending:
		if pct.IsPositive() {
			return text.Colors{text.FgRed}
		}
		return text.Colors{text.FgGreen}
	default:
		if pct.IsNegative() {
			return text.Colors{text.FgRed}
		}
		return text.Colors{text.FgGreen}
	}
}

// PrintNetWorthJSON outputs a net worth report in JSON format
func PrintNetWorthJSON(w io.Writer, r NetWorthReport, currency Currency) error {
	lines := func(in []NetWorthLine) []JSONNetWorthLine {
		out := []JSONNetWorthLine{}
		for _, l := range in {
			out = append(out, JSONNetWorthLine{Name: l.Name, Amount: l.Total.InexactFloat64()})
		}
		return out
	}

	out := JSONNetWorth{
		Date:             r.Date.String(),
		Currency:         currency.Code,
		Assets:           lines(r.Assets),
		Liabilities:      lines(r.Liabilities),
		TotalAssets:      r.TotalAssets.InexactFloat64(),
		TotalLiabilities: r.TotalLiabilities.InexactFloat64(),
		NetWorth:         r.NetWorth.InexactFloat64(),
		History:          []JSONNetWorthPoint{},
	}
	for _, p := range r.History {
		out.History = append(out.History, JSONNetWorthPoint{
			Date:        p.Date.String(),
			Assets:      p.Assets.InexactFloat64(),
			Liabilities: p.Liabilities.InexactFloat64(),
			NetWorth:    p.NetWorth.InexactFloat64(),
		})
	}
	return writeJSON(w, out)
}

// PrintNetWorthTable outputs the latest snapshot and the history as tables
func PrintNetWorthTable(w io.Writer, r NetWorthReport, currency Currency) {
	fmt.Fprintf(w, "Net worth on %s\n\n", r.Date)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Name", "Type", "Amount"})
	for _, l := range r.Assets {
		t.AppendRow(table.Row{l.Name, text.FgGreen.Sprint("asset"), currency.Format(l.Total)})
	}
	for _, l := range r.Liabilities {
		t.AppendRow(table.Row{l.Name, text.FgRed.Sprint("liability"), currency.Format(l.Total)})
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{"Total assets", "", currency.Format(r.TotalAssets)})
	t.AppendRow(table.Row{"Total liabilities", "", currency.Format(r.TotalLiabilities)})
	t.AppendFooter(table.Row{"", text.Bold.Sprint("Net worth"), text.Bold.Sprint(currency.Format(r.NetWorth))})

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
	})
	t.Render()

	if len(r.History) == 0 {
		return
	}

	fmt.Fprintln(w)
	h := table.NewWriter()
	h.SetOutputMirror(w)
	h.AppendHeader(table.Row{"Date", "Assets", "Liabilities", "Net worth"})
	for _, p := range r.History {
		h.AppendRow(table.Row{
			p.Date.String(),
			currency.Format(p.Assets),
			currency.Format(p.Liabilities),
			text.Bold.Sprint(currency.Format(p.NetWorth)),
		})
	}
	h.SetStyle(table.StyleRounded)
	h.Style().Format.Header = text.FormatDefault
	h.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	h.Render()
}

// PrintTrendsJSON outputs spending trends in JSON format
func PrintTrendsJSON(w io.Writer, year int, series []TrendSeries, currency Currency) error {
	out := JSONTrends{Year: year, Currency: currency.Code, Series: []JSONTrendSeries{}}
	for _, s := range series {
		js := JSONTrendSeries{Category: s.Category, Points: []JSONTrendPoint{}, Total: s.Total().InexactFloat64()}
		for _, p := range s.Points {
			js.Points = append(js.Points, JSONTrendPoint{Month: p.Month, Amount: p.Amount.InexactFloat64()})
		}
		out.Series = append(out.Series, js)
	}
	return writeJSON(w, out)
}

// PrintTrendsTable outputs one row per category and one column per month.
// Months without a point are shown as "-".
func PrintTrendsTable(w io.Writer, year int, series []TrendSeries, currency Currency) {
	fmt.Fprintf(w, "Spending trends for %d\n\n", year)

	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := table.Row{"Category"}
	for m := time.January; m <= time.December; m++ {
		header = append(header, m.String()[:3])
	}
	header = append(header, "Total")
	t.AppendHeader(header)

	for _, s := range series {
		present := make(map[int]bool, len(s.Points))
		for _, p := range s.Points {
			present[p.Month] = true
		}

		row := table.Row{s.Category}
		for month := 1; month <= 12; month++ {
			if !present[month] {
				row = append(row, text.FgHiBlack.Sprint("-"))
				continue
			}
			row = append(row, currency.Format(s.Amount(month)))
		}
		row = append(row, text.Bold.Sprint(currency.Format(s.Total())))
		t.AppendRow(row)
	}

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	configs := make([]table.ColumnConfig, 0, 13)
	for col := 2; col <= 14; col++ {
		configs = append(configs, table.ColumnConfig{Number: col, Align: text.AlignRight})
	}
	t.SetColumnConfigs(configs)
	t.Render()
}

// PrintCategoriesJSON outputs the categories in JSON format
func PrintCategoriesJSON(w io.Writer, categories []Category) error {
	out := []JSONCategory{}
	for _, c := range categories {
		out = append(out, JSONCategory{Name: c.Name, Type: string(c.Type), Budget: c.Budget.InexactFloat64()})
	}
	return writeJSON(w, out)
}

// PrintCategoriesTable outputs the categories with their monthly budget
func PrintCategoriesTable(w io.Writer, categories []Category, currency Currency) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Name", "Type", "Budget"})

	total := decimal.Zero
	for _, c := range categories {
		t.AppendRow(table.Row{c.Name, string(c.Type), currency.Format(c.Budget)})
		if c.Type != CategoryIncome {
			total = total.Add(c.Budget)
		}
	}
	t.AppendFooter(table.Row{"", text.Bold.Sprint("Budgeted (excl. income)"), text.Bold.Sprint(currency.Format(total))})

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
	})
	t.Render()
}

// PrintCoverage summarizes which months a statement covers
func PrintCoverage(w io.Writer, rows int, dateRange DateRange, months []MonthCoverage) {
	fmt.Fprintf(w, "Loaded %d transactions\n", rows)
	if rows == 0 {
		return
	}
	fmt.Fprintf(w, "Data range: %s to %s\n", dateRange.Start.Format(DayLayout), dateRange.End.Format(DayLayout))
	for _, m := range months {
		status := ""
		if !m.Complete {
			status = text.FgYellow.Sprint(" (partial month)")
		}
		fmt.Fprintf(w, "  %s: %d transactions%s\n", m.Month, m.Rows, status)
	}
}
