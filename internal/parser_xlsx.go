package internal

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ParseStatementXLSX reads a bank statement Excel export. The first sheet is
// used, and columns are mapped with the same layout as CSV statements.
func ParseStatementXLSX(path string, layout ColumnLayout) ([]StatementRow, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid statement layout: %w", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: no sheets found in file", ErrMalformedStatement)
	}

	sheetRows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}

	rows := []StatementRow{}
	for i := layout.SkipRows; i < len(sheetRows); i++ {
		record := sheetRows[i]
		if isBlankRecord(record) {
			continue
		}

		row, err := layout.ParseRecord(record, i+1)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func init() {
	RegisterParser("xlsx", ParserFunc(ParseStatementXLSX))
}
