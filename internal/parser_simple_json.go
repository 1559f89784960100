package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
)

// SimpleJSONFormat is a minimal JSON format for importing transactions
// Example:
//
//	{
//	  "transactions": [
//	    {"date": "2024-03-01", "text": "Landlord", "amount": -700.00},
//	    {"date": "2024-03-05", "text": "Grocer", "amount": -82.10, "description": "weekly shop"}
//	  ]
//	}
//
// The column layout does not apply to this format.
type SimpleJSONFormat struct {
	Transactions []SimpleJSONTransaction `json:"transactions"`
}

type SimpleJSONTransaction struct {
	Date        string          `json:"date"`                  // YYYY-MM-DD format
	Text        string          `json:"text"`                  // Payee
	Amount      decimal.Decimal `json:"amount"`                // Negative for expenses
	Description string          `json:"description,omitempty"` // Optional memo
}

// ParseSimpleJSON parses a JSON file in the simple JSON format
func ParseSimpleJSON(path string, _ ColumnLayout) ([]StatementRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	var jsonData SimpleJSONFormat
	if err := json.Unmarshal(data, &jsonData); err != nil {
		return nil, fmt.Errorf("%w: parsing JSON: %w", ErrMalformedStatement, err)
	}

	rows := []StatementRow{}
	for i, tx := range jsonData.Transactions {
		date, err := time.Parse(DayLayout, tx.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: transaction %d: parsing date %q", ErrMalformedStatement, i+1, tx.Date)
		}
		rows = append(rows, StatementRow{
			Line:        i + 1,
			Date:        date,
			Payee:       tx.Text,
			Description: tx.Description,
			Amount:      tx.Amount,
			Hash:        Sha256String(fmt.Sprintf("%s,%s,%s", tx.Date, tx.Text, tx.Amount.String())),
		})
	}

	return rows, nil
}

func init() {
	RegisterParser("simple-json", ParserFunc(ParseSimpleJSON))
}
