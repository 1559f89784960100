package internal

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

func date(s string) time.Time {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func day(s string) Day {
	return DayOf(date(s))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// memoryLedger is an in-memory stand-in for the store
type memoryLedger struct {
	categories   []Category
	transactions []Transaction
	networth     []NetWorthEntry

	failInsert error
	failRead   error
	reads      int
}

func (m *memoryLedger) Categories() ([]Category, error) {
	m.reads++
	if m.failRead != nil {
		return nil, m.failRead
	}
	return m.categories, nil
}

func (m *memoryLedger) CategoryTotal(category string, month, year int) (decimal.Decimal, error) {
	m.reads++
	if m.failRead != nil {
		return decimal.Zero, m.failRead
	}
	total := decimal.Zero
	for _, tx := range m.transactions {
		if tx.Category == category && tx.Month == month && tx.Year == year {
			total = total.Add(tx.Amount)
		}
	}
	return total, nil
}

func (m *memoryLedger) MonthlyTotals(category string, year int) (map[int]decimal.Decimal, error) {
	m.reads++
	if m.failRead != nil {
		return nil, m.failRead
	}
	totals := make(map[int]decimal.Decimal)
	for _, tx := range m.transactions {
		if tx.Category == category && tx.Year == year {
			totals[tx.Month] = totals[tx.Month].Add(tx.Amount)
		}
	}
	return totals, nil
}

func (m *memoryLedger) InsertTransaction(tx *Transaction) error {
	if m.failInsert != nil {
		return m.failInsert
	}
	tx.ID = uint(len(m.transactions) + 1)
	m.transactions = append(m.transactions, *tx)
	return nil
}

func (m *memoryLedger) ImportHashExists(hash string) (bool, error) {
	for _, tx := range m.transactions {
		if hash != "" && tx.ImportHash == hash {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryLedger) PayeeCategoryCounts(payee string) (map[string]int, error) {
	counts := make(map[string]int)
	for _, tx := range m.transactions {
		if tx.Payee == payee {
			counts[tx.Category]++
		}
	}
	return counts, nil
}

func (m *memoryLedger) LatestNetWorthDate() (Day, bool, error) {
	if m.failRead != nil {
		return Day{}, false, m.failRead
	}
	var latest Day
	for _, e := range m.networth {
		if latest.Before(e.Date) {
			latest = e.Date
		}
	}
	return latest, len(m.networth) > 0, nil
}

func (m *memoryLedger) NetWorthAt(d Day) ([]NetWorthLine, error) {
	sums := make(map[string]*NetWorthLine)
	var keys []string
	for _, e := range m.networth {
		if e.Date != d {
			continue
		}
		key := fmt.Sprintf("%s|%s", e.Type, e.Name)
		if _, ok := sums[key]; !ok {
			sums[key] = &NetWorthLine{Name: e.Name, Type: e.Type, Total: decimal.Zero}
			keys = append(keys, key)
		}
		sums[key].Total = sums[key].Total.Add(e.Amount)
	}
	// Reverse order so the aggregator has to sort
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	var lines []NetWorthLine
	for _, k := range keys {
		lines = append(lines, *sums[k])
	}
	return lines, nil
}

func (m *memoryLedger) NetWorthHistory() ([]NetWorthTotals, error) {
	byDate := make(map[Day]*NetWorthTotals)
	var order []Day
	for _, e := range m.networth {
		t, ok := byDate[e.Date]
		if !ok {
			t = &NetWorthTotals{Date: e.Date, Assets: decimal.Zero, Liabilities: decimal.Zero}
			byDate[e.Date] = t
			order = append(order, e.Date)
		}
		if e.Type == EntryAsset {
			t.Assets = t.Assets.Add(e.Amount)
		} else {
			t.Liabilities = t.Liabilities.Add(e.Amount)
		}
	}
	var totals []NetWorthTotals
	for _, d := range order {
		totals = append(totals, *byDate[d])
	}
	return totals, nil
}

func (m *memoryLedger) AppendNetWorthSnapshot(entries []NetWorthEntry, d Day) error {
	if m.failInsert != nil {
		return m.failInsert
	}
	for _, e := range entries {
		e.Date = d
		m.networth = append(m.networth, e)
	}
	return nil
}

func (m *memoryLedger) NetWorthNames() (assets, liabilities []string, err error) {
	seen := make(map[string]bool)
	for _, e := range m.networth {
		key := string(e.Type) + "|" + e.Name
		if seen[key] {
			continue
		}
		seen[key] = true
		if e.Type == EntryAsset {
			assets = append(assets, e.Name)
		} else {
			liabilities = append(liabilities, e.Name)
		}
	}
	sort.Strings(assets)
	sort.Strings(liabilities)
	return assets, liabilities, nil
}
