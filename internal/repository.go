package internal

import "github.com/shopspring/decimal"

// BudgetReader is what the breakdown and trend reports need from the store.
type BudgetReader interface {
	Categories() ([]Category, error)
	// CategoryTotal returns the signed sum of all transaction amounts for the
	// category in the given month. It is zero when there are no transactions.
	CategoryTotal(category string, month, year int) (decimal.Decimal, error)
	// MonthlyTotals returns the signed sum per month (1-12) for the category in
	// the given year. Months without transactions are absent.
	MonthlyTotals(category string, year int) (map[int]decimal.Decimal, error)
}

// NetWorthLine is the summed amount of one asset or liability on a snapshot date.
type NetWorthLine struct {
	Name  string
	Type  EntryType
	Total decimal.Decimal
}

// NetWorthTotals are the summed assets and liabilities of one snapshot date.
type NetWorthTotals struct {
	Date        Day
	Assets      decimal.Decimal
	Liabilities decimal.Decimal
}

// NetWorthStore is the append-only net worth snapshot log.
type NetWorthStore interface {
	// LatestNetWorthDate returns false when the log is empty.
	LatestNetWorthDate() (Day, bool, error)
	NetWorthAt(day Day) ([]NetWorthLine, error)
	NetWorthHistory() ([]NetWorthTotals, error)
	AppendNetWorthSnapshot(entries []NetWorthEntry, day Day) error
	NetWorthNames() (assets, liabilities []string, err error)
}

// TransactionWriter is what the import review needs from the store.
type TransactionWriter interface {
	Categories() ([]Category, error)
	InsertTransaction(tx *Transaction) error
	ImportHashExists(hash string) (bool, error)
}

// PayeeHistory answers how earlier transactions of a payee were categorized.
type PayeeHistory interface {
	PayeeCategoryCounts(payee string) (map[string]int, error)
}

// TransactionReader lists stored transactions.
type TransactionReader interface {
	Transactions() ([]Transaction, error)
}
