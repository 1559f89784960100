package internal

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const breakdownSheet = "Breakdown"

// ExportBreakdownXLSX writes the breakdown to an Excel workbook with one
// sheet. Amounts are written as numbers so the sheet can be used for further
// calculations.
func ExportBreakdownXLSX(path string, b Breakdown) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", breakdownSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	row := 1
	setRow := func(values ...interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++
		return f.SetSheetRow(breakdownSheet, cell, &values)
	}
	boldRow := func() error {
		from, _ := excelize.CoordinatesToCellName(1, row-1)
		to, _ := excelize.CoordinatesToCellName(4, row-1)
		return f.SetCellStyle(breakdownSheet, from, to, bold)
	}

	if err := setRow("Budget breakdown for " + b.Period()); err != nil {
		return err
	}
	if err := boldRow(); err != nil {
		return err
	}
	if err := setRow("Category", "Budget", "Actual", "Difference %"); err != nil {
		return err
	}
	if err := boldRow(); err != nil {
		return err
	}

	for _, s := range b.Sections {
		if err := setRow(string(s.Type)); err != nil {
			return err
		}
		if err := boldRow(); err != nil {
			return err
		}
		for _, r := range s.Rows {
			if err := setRow(r.Category, r.Budget.InexactFloat64(), r.Actual.InexactFloat64(), r.PercentDifference.Round(2).InexactFloat64()); err != nil {
				return err
			}
		}
		if err := setRow("Total "+string(s.Type), s.Total.Budget.InexactFloat64(), s.Total.Actual.InexactFloat64(), s.Total.PercentDifference.Round(2).InexactFloat64()); err != nil {
			return err
		}
		if err := boldRow(); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(breakdownSheet, "A", "A", 28); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}
