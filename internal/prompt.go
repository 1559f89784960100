package internal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// ReviewOptions controls the interactive import review
type ReviewOptions struct {
	Currency  Currency
	Suggester *Suggester
	// Ignore drops matching rows without asking
	Ignore func(StatementRow) bool
}

// ReviewSummary is the outcome of RunReview
type ReviewSummary struct {
	Saved     int
	Deleted   int
	Ignored   int
	Remaining int  // Rows left unreviewed when aborted
	Aborted   bool // The user quit, or input ended, before the last row
}

// RunReview drives a loaded session from line based input. For each row the
// user picks a category (by number or name, enter accepts the suggestion,
// "-" deletes the row, "?" lists categories, "q" quits) and then confirms or
// edits the amount. Invalid input is reported and the same row asked again.
func RunReview(session *ReviewSession, in io.Reader, out io.Writer, opts ReviewOptions) (ReviewSummary, error) {
	var summary ReviewSummary
	scanner := bufio.NewScanner(in)
	names := sortedCategoryNames(session.Categories())

	readLine := func(prompt string) (string, bool) {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return "", false
		}
		return strings.TrimSpace(scanner.Text()), true
	}

	if session.State() == AwaitingCategorization {
		printCategoryList(out, names, session.Categories())
	}

	for session.State() == AwaitingCategorization {
		row, err := session.Current()
		if err != nil {
			return summary, err
		}

		if opts.Ignore != nil && opts.Ignore(row) {
			fmt.Fprintf(out, "Ignoring %s %s\n", row.Date.Format(DayLayout), row.Payee)
			if err := session.Delete(); err != nil {
				return summary, err
			}
			summary.Ignored++
			continue
		}

		printRow(out, row, session.Index()+1, session.Len(), opts.Currency)

		suggestion, source := opts.Suggester.Suggest(row)
		prompt := "Category: "
		if suggestion != "" {
			prompt = fmt.Sprintf("Category [%s, from %s]: ", suggestion, source)
		}

		input, ok := readLine(prompt)
		if !ok || strings.EqualFold(input, "q") {
			summary.Aborted = true
			break
		}

		switch input {
		case "-":
			if err := session.Delete(); err != nil {
				return summary, err
			}
			fmt.Fprintln(out, text.FgYellow.Sprint("Deleted"))
			continue
		case "?":
			printCategoryList(out, names, session.Categories())
			continue
		case "":
			input = suggestion
		}
		category := resolveCategory(input, names)

		amountText, ok := readLine(fmt.Sprintf("Amount [%s]: ", formatAmountInput(row.Amount, session.decimalComma)))
		if !ok {
			summary.Aborted = true
			break
		}

		var tx Transaction
		if amountText == "" {
			tx, err = session.SaveAmount(row.Amount, category)
		} else {
			tx, err = session.Save(amountText, category)
		}
		if err != nil {
			if IsUserError(err) {
				fmt.Fprintf(out, "%s %v\n", text.FgYellow.Sprint("Warning:"), err)
				continue
			}
			return summary, err
		}
		fmt.Fprintf(out, "%s %s as %s\n", text.FgGreen.Sprint("Saved"), opts.Currency.Format(tx.Amount), tx.Category)
	}

	summary.Saved = session.Saved()
	summary.Deleted = session.Deleted() - summary.Ignored
	if summary.Aborted {
		summary.Remaining = session.Remaining()
		fmt.Fprintf(out, "Review aborted, %d transaction(s) not imported.\n", summary.Remaining)
	} else {
		fmt.Fprintln(out, "All transactions have been processed.")
	}
	return summary, nil
}

// formatAmountInput shows an amount the way the user would type it back
func formatAmountInput(amount decimal.Decimal, decimalComma bool) string {
	s := amount.String()
	if decimalComma {
		s = strings.Replace(s, ".", ",", 1)
	}
	return s
}

func printRow(out io.Writer, row StatementRow, position, total int, currency Currency) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s %s  %s  %s\n",
		text.Colors{text.BgBlue, text.FgWhite}.Sprintf(" [%2d of %2d] ", position, total),
		row.Date.Format(DayLayout),
		row.Payee,
		amountColor(row.Amount.IsNegative()).Sprint(currency.Format(row.Amount)),
	)
	if row.Description != "" {
		fmt.Fprintf(out, "  %s\n", row.Description)
	}
	if row.Duplicate {
		fmt.Fprintln(out, text.FgYellow.Sprint("  Possible duplicate: this row was imported before"))
	}
}

func amountColor(negative bool) text.Colors {
	if negative {
		return text.Colors{text.FgRed}
	}
	return text.Colors{text.FgGreen}
}

func printCategoryList(out io.Writer, names []string, categories map[string]Category) {
	fmt.Fprintln(out, "Categories:")
	for i, name := range names {
		fmt.Fprintf(out, "  %2d) %s (%s)\n", i+1, name, categories[name].Type)
	}
	fmt.Fprintln(out, `Enter a number or name. Enter accepts the suggestion, "-" deletes the row, "?" lists categories, "q" quits.`)
}

// sortedCategoryNames orders categories by section, then by name
func sortedCategoryNames(categories map[string]Category) []string {
	rank := make(map[CategoryType]int, len(SectionOrder))
	for i, t := range SectionOrder {
		rank[t] = i
	}

	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, rj := rank[categories[names[i]].Type], rank[categories[names[j]].Type]
		if ri != rj {
			return ri < rj
		}
		return names[i] < names[j]
	})
	return names
}

// resolveCategory maps a list number or a case-insensitive name to a category
// name. Anything else is returned unchanged for the session to reject.
func resolveCategory(input string, names []string) string {
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(names) {
		return names[n-1]
	}
	fold := cases.Fold()
	folded := fold.String(input)
	for _, name := range names {
		if fold.String(name) == folded {
			return name
		}
	}
	return input
}

// PromptSnapshot asks for the current value of every known asset and
// liability, then for new ones. Blank answers skip an entry. The raw answers
// are returned for ParseSnapshot to validate.
func PromptSnapshot(in io.Reader, out io.Writer, knownAssets, knownLiabilities []string) (assets, liabilities map[string]string, err error) {
	scanner := bufio.NewScanner(in)
	readLine := func(prompt string) (string, error) {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		return strings.TrimSpace(scanner.Text()), nil
	}

	collect := func(kind string, known []string) (map[string]string, error) {
		values := make(map[string]string)
		for _, name := range known {
			value, err := readLine(fmt.Sprintf("%s %q: ", kind, name))
			if err != nil {
				return values, err
			}
			if value != "" {
				values[name] = value
			}
		}
		for {
			name, err := readLine(fmt.Sprintf("New %s name (enter to finish): ", strings.ToLower(kind)))
			if err != nil || name == "" {
				return values, err
			}
			value, err := readLine(fmt.Sprintf("%s %q: ", kind, name))
			if err != nil {
				return values, err
			}
			if value != "" {
				values[name] = value
			}
		}
	}

	assets, err = collect("Asset", knownAssets)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, err
	}
	if err == nil {
		liabilities, err = collect("Liability", knownLiabilities)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, nil, err
		}
	}
	if liabilities == nil {
		liabilities = map[string]string{}
	}
	return assets, liabilities, nil
}
