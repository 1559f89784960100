package internal

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// ParseStatementCSV reads a bank statement CSV export using the column layout.
func ParseStatementCSV(path string, layout ColumnLayout) ([]StatementRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return ReadStatementCSV(f, layout)
}

// ReadStatementCSV parses statement rows from r. The first layout.SkipRows
// lines are dropped unread, whatever they contain. Every remaining row is
// validated before anything is returned, so a bad row fails the whole file.
func ReadStatementCSV(r io.Reader, layout ColumnLayout) ([]StatementRow, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid statement layout: %w", err)
	}

	br := bufio.NewReader(r)
	for i := 0; i < layout.SkipRows; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if errors.Is(err, io.EOF) {
				return []StatementRow{}, nil
			}
			return nil, fmt.Errorf("skipping header: %w", err)
		}
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows := []StatementRow{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvReadError(layout, err)
		}
		if isBlankRecord(record) {
			continue
		}

		line, _ := reader.FieldPos(0)
		row, err := layout.ParseRecord(record, line+layout.SkipRows)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// csvReadError adds the line of the input the error occurred in to the message.
func csvReadError(layout ColumnLayout, err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Errorf("%w: error in line %d of the CSV: %w", ErrMalformedStatement, parseErr.StartLine+layout.SkipRows, parseErr.Err)
	}
	return fmt.Errorf("%w: could not read CSV: %w", ErrMalformedStatement, err)
}

func init() {
	RegisterParser("csv", ParserFunc(ParseStatementCSV))
}
