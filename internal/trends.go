package internal

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TrendPoint is the spending magnitude of one month
type TrendPoint struct {
	Month  int // 1-12
	Amount decimal.Decimal
}

// TrendSeries is the monthly spending of one category over a year
type TrendSeries struct {
	Category string
	Year     int
	Points   []TrendPoint // Ascending by month
}

type TrendOptions struct {
	// ZeroFill adds zero points for months without transactions, so every
	// series has twelve points.
	ZeroFill bool
}

// SpendingTrends returns one series per selected category, in the order
// given. Amounts are magnitudes of the monthly sums, like in MonthlyBreakdown.
func SpendingTrends(reader BudgetReader, year int, categories []string, opts TrendOptions) ([]TrendSeries, error) {
	selected := uniqueStrings(trimAll(categories))
	if len(selected) == 0 {
		return nil, ErrNoCategorySelected
	}
	if year < 1 {
		return nil, fmt.Errorf("%w: year %d", ErrInvalidPeriod, year)
	}

	known, err := reader.Categories()
	if err != nil {
		return nil, err
	}
	names := make(map[string]bool, len(known))
	for _, cat := range known {
		names[cat.Name] = true
	}

	var unknown []string
	for _, name := range selected {
		if !names[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, strings.Join(unknown, ", "))
	}

	series := make([]TrendSeries, 0, len(selected))
	for _, name := range selected {
		totals, err := reader.MonthlyTotals(name, year)
		if err != nil {
			return nil, err
		}

		s := TrendSeries{Category: name, Year: year}
		for month := 1; month <= 12; month++ {
			total, ok := totals[month]
			if !ok && !opts.ZeroFill {
				continue
			}
			s.Points = append(s.Points, TrendPoint{Month: month, Amount: total.Abs()})
		}
		series = append(series, s)
	}
	return series, nil
}

// Amount returns the amount of the month, zero when the month has no point
func (s TrendSeries) Amount(month int) decimal.Decimal {
	for _, p := range s.Points {
		if p.Month == month {
			return p.Amount
		}
	}
	return decimal.Zero
}

// Total returns the sum of all points
func (s TrendSeries) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Points {
		total = total.Add(p.Amount)
	}
	return total
}

func trimAll(strs []string) []string {
	var result []string
	for _, s := range strs {
		if s = strings.TrimSpace(s); s != "" {
			result = append(result, s)
		}
	}
	return result
}
