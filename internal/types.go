package internal

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryType is the section a category rolls up into.
type CategoryType string

const (
	CategoryIncome   CategoryType = "Income"
	CategoryExpenses CategoryType = "Expenses"
	CategorySpending CategoryType = "Spending"
	CategoryAssets   CategoryType = "Assets"
)

// SectionOrder is the order sections appear in a monthly breakdown.
var SectionOrder = []CategoryType{CategoryIncome, CategoryExpenses, CategorySpending, CategoryAssets}

// Valid reports whether t is one of the known section types.
func (t CategoryType) Valid() bool {
	for _, s := range SectionOrder {
		if t == s {
			return true
		}
	}
	return false
}

// EntryType tells whether a net worth entry adds to or subtracts from net worth.
type EntryType string

const (
	EntryAsset     EntryType = "asset"
	EntryLiability EntryType = "liability"
)

// Category is a budget category. Name is unique.
type Category struct {
	ID     uint            `gorm:"primaryKey"`
	Name   string          `gorm:"uniqueIndex;not null"`
	Type   CategoryType    `gorm:"not null"`
	Budget decimal.Decimal `gorm:"type:TEXT"` // Monthly target
}

// Transaction is a categorized statement row. Transactions are never updated after insert.
type Transaction struct {
	ID          uint `gorm:"primaryKey"`
	Date        Day  `gorm:"index"`
	Description string
	Amount      decimal.Decimal `gorm:"type:TEXT"` // Signed as on the statement
	Category    string          `gorm:"index:idx_transactions_period;not null"`
	Payee       string          `gorm:"index"`
	Month       int             `gorm:"index:idx_transactions_period"`
	Year        int             `gorm:"index:idx_transactions_period"`
	ImportHash  string          `gorm:"index"` // SHA256 of the raw statement row
	ImportID    string          // Review session that wrote the transaction
	CreatedAt   time.Time
}

// NetWorthEntry is one line of a net worth snapshot.
type NetWorthEntry struct {
	ID     uint            `gorm:"primaryKey"`
	Date   Day             `gorm:"index"`
	Name   string          `gorm:"column:asset_name;not null"`
	Amount decimal.Decimal `gorm:"type:TEXT"`
	Type   EntryType       `gorm:"not null"`
}

func (NetWorthEntry) TableName() string {
	return "networth"
}

// StatementRow is a parsed, not yet reviewed, row of a bank statement.
type StatementRow struct {
	Line        int // Line in the source file, for error messages
	Date        time.Time
	Payee       string
	Description string
	Amount      decimal.Decimal
	Hash        string
	Duplicate   bool // A transaction with the same hash is already stored
}

type DateRange struct {
	Start time.Time
	End   time.Time
}
