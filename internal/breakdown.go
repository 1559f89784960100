package internal

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// BreakdownRow compares what was spent in a category with its budget
type BreakdownRow struct {
	Category          string
	Budget            decimal.Decimal
	Actual            decimal.Decimal // Magnitude of the summed transaction amounts
	PercentDifference decimal.Decimal
}

// Section groups the rows of one category type and their total
type Section struct {
	Type  CategoryType
	Rows  []BreakdownRow
	Total BreakdownRow
}

// Breakdown is the budget-vs-actual report of one month
type Breakdown struct {
	Month    int
	Year     int
	Sections []Section
}

// Distribution is the split of a month's outgoing money across sections
type Distribution struct {
	Spending decimal.Decimal
	Expenses decimal.Decimal
	Assets   decimal.Decimal
}

// PercentDifference returns how far actual is over (positive) or under
// (negative) budget, in percent. A zero budget yields zero.
func PercentDifference(actual, budget decimal.Decimal) decimal.Decimal {
	if budget.IsZero() {
		return decimal.Zero
	}
	return actual.Sub(budget).Div(budget).Mul(hundred)
}

// MonthlyBreakdown builds the breakdown of every category for the month.
// Categories without transactions are included with an actual of zero.
// Sections follow SectionOrder; sections without categories are left out.
func MonthlyBreakdown(reader BudgetReader, month, year int) (Breakdown, error) {
	if month < 1 || month > 12 || year < 1 {
		return Breakdown{}, fmt.Errorf("%w: %d-%02d", ErrInvalidPeriod, year, month)
	}

	categories, err := reader.Categories()
	if err != nil {
		return Breakdown{}, err
	}

	byType := make(map[CategoryType][]BreakdownRow)
	var extraTypes []CategoryType
	for _, cat := range categories {
		total, err := reader.CategoryTotal(cat.Name, month, year)
		if err != nil {
			return Breakdown{}, err
		}

		actual := total.Abs()
		if !cat.Type.Valid() {
			if _, seen := byType[cat.Type]; !seen {
				log.Warn().Str("category", cat.Name).Str("type", string(cat.Type)).Msg("category has an unknown type")
				extraTypes = append(extraTypes, cat.Type)
			}
		}
		byType[cat.Type] = append(byType[cat.Type], BreakdownRow{
			Category:          cat.Name,
			Budget:            cat.Budget,
			Actual:            actual,
			PercentDifference: PercentDifference(actual, cat.Budget),
		})
	}

	b := Breakdown{Month: month, Year: year}
	for _, t := range append(append([]CategoryType{}, SectionOrder...), extraTypes...) {
		rows, ok := byType[t]
		if !ok {
			continue
		}
		b.Sections = append(b.Sections, newSection(t, rows))
	}
	return b, nil
}

func newSection(t CategoryType, rows []BreakdownRow) Section {
	total := BreakdownRow{Category: "Total", Budget: decimal.Zero, Actual: decimal.Zero}
	for _, r := range rows {
		total.Budget = total.Budget.Add(r.Budget)
		total.Actual = total.Actual.Add(r.Actual)
	}
	total.PercentDifference = PercentDifference(total.Actual, total.Budget)
	return Section{Type: t, Rows: rows, Total: total}
}

// Section returns the section of the given type
func (b Breakdown) Section(t CategoryType) (Section, bool) {
	for _, s := range b.Sections {
		if s.Type == t {
			return s, true
		}
	}
	return Section{}, false
}

// Distribution returns the section totals shown in the distribution chart.
// Income is not part of it. Missing sections count as zero.
func (b Breakdown) Distribution() Distribution {
	actual := func(t CategoryType) decimal.Decimal {
		if s, ok := b.Section(t); ok {
			return s.Total.Actual
		}
		return decimal.Zero
	}
	return Distribution{
		Spending: actual(CategorySpending),
		Expenses: actual(CategoryExpenses),
		Assets:   actual(CategoryAssets),
	}
}

// Period returns the month as "January 2024"
func (b Breakdown) Period() string {
	return fmt.Sprintf("%s %d", time.Month(b.Month), b.Year)
}
