package internal

import "time"

// StatementCoverage returns the date range of the rows and the months they
// touch, marking which of those months the statement covers completely.
// A month is complete if a later month is present, or if the last row falls
// on the month's last day.
func StatementCoverage(rows []StatementRow) (DateRange, []MonthCoverage) {
	if len(rows) == 0 {
		return DateRange{}, nil
	}

	minDate := rows[0].Date
	maxDate := rows[0].Date
	counts := make(map[string]int)
	for _, row := range rows {
		if row.Date.Before(minDate) {
			minDate = row.Date
		}
		if row.Date.After(maxDate) {
			maxDate = row.Date
		}
		counts[row.Date.Format("2006-01")]++
	}

	var months []MonthCoverage
	current := time.Date(minDate.Year(), minDate.Month(), 1, 0, 0, 0, 0, time.UTC)
	endMonth := time.Date(maxDate.Year(), maxDate.Month(), 1, 0, 0, 0, 0, time.UTC)

	for !current.After(endMonth) {
		key := current.Format("2006-01")
		lastDayOfMonth := current.AddDate(0, 1, -1).Day()

		months = append(months, MonthCoverage{
			Month:    key,
			Rows:     counts[key],
			Complete: current.Before(endMonth) || maxDate.Day() == lastDayOfMonth,
		})
		current = current.AddDate(0, 1, 0)
	}

	return DateRange{Start: minDate, End: maxDate}, months
}

// MonthCoverage is the number of statement rows in one calendar month
type MonthCoverage struct {
	Month    string // YYYY-MM
	Rows     int
	Complete bool
}
