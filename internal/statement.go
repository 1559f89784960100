package internal

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ColumnLayout maps statement columns to transaction fields by position.
type ColumnLayout struct {
	SkipRows     int    `yaml:"skip_rows"`     // Leading lines that are never data
	Date         int    `yaml:"date"`          // Column index of the booking date
	Payee        int    `yaml:"payee"`         // Column index of the payee
	Amount       int    `yaml:"amount"`        // Column index of the signed amount
	Description  int    `yaml:"description"`   // Column index of a free text description, -1 for none
	DateFormat   string `yaml:"date_format"`   // Go time layout of the date column
	DecimalComma bool   `yaml:"decimal_comma"` // Amounts use "," as decimal separator
}

// DefaultColumnLayout matches the bank export the tool was written for:
// five header lines, then date, payee and amount in columns 0, 4 and 6.
func DefaultColumnLayout() ColumnLayout {
	return ColumnLayout{
		SkipRows:    5,
		Date:        0,
		Payee:       4,
		Amount:      6,
		Description: -1,
		DateFormat:  "2006/01/02",
	}
}

// MinColumns is the number of columns a data row needs for this layout.
func (l ColumnLayout) MinColumns() int {
	return max(l.Date, l.Payee, l.Amount, l.Description) + 1
}

// Validate checks that the layout is usable.
func (l ColumnLayout) Validate() error {
	if l.SkipRows < 0 {
		return fmt.Errorf("skip_rows must not be negative, got %d", l.SkipRows)
	}
	for name, idx := range map[string]int{"date": l.Date, "payee": l.Payee, "amount": l.Amount} {
		if idx < 0 {
			return fmt.Errorf("%s column must not be negative, got %d", name, idx)
		}
	}
	if l.Description < -1 {
		return fmt.Errorf("description column must be -1 (none) or a column index, got %d", l.Description)
	}
	if l.DateFormat == "" {
		return fmt.Errorf("date_format must be set")
	}
	return nil
}

// ParseRecord converts one statement record into a StatementRow.
// line is the 1-based line (or sheet row) number used in error messages.
func (l ColumnLayout) ParseRecord(record []string, line int) (StatementRow, error) {
	if len(record) < l.MinColumns() {
		return StatementRow{}, fmt.Errorf("%w: line %d has %d columns, need at least %d",
			ErrMalformedStatement, line, len(record), l.MinColumns())
	}

	dateStr := strings.TrimSpace(record[l.Date])
	date, err := time.Parse(l.DateFormat, dateStr)
	if err != nil {
		return StatementRow{}, fmt.Errorf("%w: line %d: could not parse date %q", ErrMalformedStatement, line, dateStr)
	}

	amount, err := ParseAmount(record[l.Amount], l.DecimalComma)
	if err != nil {
		return StatementRow{}, fmt.Errorf("%w: line %d: %w", ErrMalformedStatement, line, err)
	}

	row := StatementRow{
		Line:   line,
		Date:   date,
		Payee:  strings.TrimSpace(record[l.Payee]),
		Amount: amount,
		Hash:   Sha256String(strings.Join(record, ",")),
	}
	if l.Description >= 0 {
		row.Description = strings.TrimSpace(record[l.Description])
	}
	return row, nil
}

// ParseAmount parses a user or statement supplied amount. Thousands
// separators, currency symbols and surrounding spaces are ignored.
func ParseAmount(s string, decimalComma bool) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '$', '€', '£':
			return -1
		}
		return r
	}, cleaned)

	if decimalComma {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	} else {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: empty value", ErrInvalidAmount)
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, strings.TrimSpace(s))
	}
	return amount, nil
}

// Sha256String calculates the SHA256 hash of a given string and returns its string representation.
func Sha256String(input string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(input)))
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
