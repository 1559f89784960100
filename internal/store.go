package internal

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	go_sqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Store is the SQLite backed ledger. It implements BudgetReader, NetWorthStore,
// TransactionWriter and PayeeHistory.
type Store struct {
	db *gorm.DB
}

// OpenStore opens the database at path, creates missing tables and inserts
// the seed categories when the category table is empty.
//
// path may be ":memory:" for a throwaway database.
func OpenStore(path string, seed []Category) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: &gormLogger{Logger: log.Logger},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	// One connection: an in-memory database only lives as long as its connection,
	// and a single writer avoids SQLITE_BUSY.
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := registerCallbacks(db); err != nil {
		sqlDB.Close()
		return nil, err
	}

	if err := db.AutoMigrate(&Category{}, &Transaction{}, &NetWorthEntry{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("error during DB migration: %w", err)
	}

	s := &Store{db: db}
	if err := s.seedCategories(seed); err != nil {
		sqlDB.Close()
		return nil, err
	}

	log.Debug().Str("path", path).Msg("store opened")
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) seedCategories(seed []Category) error {
	if len(seed) == 0 {
		return nil
	}

	var count int64
	if err := s.db.Model(&Category{}).Count(&count).Error; err != nil {
		return fmt.Errorf("counting categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	rows := make([]Category, len(seed))
	copy(rows, seed)
	if err := s.db.Create(&rows).Error; err != nil {
		return fmt.Errorf("seeding categories: %w", err)
	}
	log.Info().Int("count", len(rows)).Msg("seeded starter categories")
	return nil
}

// registerCallbacks maps driver errors to ErrStore for every kind of statement.
func registerCallbacks(db *gorm.DB) error {
	callbacks := []struct {
		name     string
		register func() error
	}{
		{"query", func() error { return db.Callback().Query().After("*").Register("finance:after_query", storeErrorCallback) }},
		{"create", func() error { return db.Callback().Create().After("*").Register("finance:after_create", storeErrorCallback) }},
		{"row", func() error { return db.Callback().Row().After("*").Register("finance:after_row", storeErrorCallback) }},
		{"raw", func() error { return db.Callback().Raw().After("*").Register("finance:after_raw", storeErrorCallback) }},
	}
	for _, cb := range callbacks {
		if err := cb.register(); err != nil {
			return fmt.Errorf("registering %s callback: %w", cb.name, err)
		}
	}
	return nil
}

// storeErrorCallback handles errors we cannot give the user a helpful message for.
// The driver error is logged and wrapped in ErrStore.
func storeErrorCallback(db *gorm.DB) {
	if db.Error == nil || errors.Is(db.Error, ErrStore) {
		return
	}

	var sqliteErr *go_sqlite.Error
	if db.Error.Error() == "sql: database is closed" || errors.As(db.Error, &sqliteErr) {
		log.Error().Msgf("%T: %v", db.Error, db.Error.Error())
		db.Error = fmt.Errorf("%w: %v", ErrStore, db.Error)
	}
}

// wrapRowErr wraps errors from Row().Scan, which do not pass through the callbacks.
func wrapRowErr(err error) error {
	if err == nil || errors.Is(err, ErrStore) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStore, err)
}

// Categories returns all categories in insertion order.
func (s *Store) Categories() ([]Category, error) {
	var categories []Category
	if err := s.db.Order("id").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}

// Amounts are stored as text and summed here. SQL SUM would go through
// floating point and lose cents.

func (s *Store) CategoryTotal(category string, month, year int) (decimal.Decimal, error) {
	var rows []struct {
		Amount decimal.Decimal
	}

	err := s.db.Model(&Transaction{}).
		Select("amount").
		Where("category = ? AND month = ? AND year = ?", category, month, year).
		Scan(&rows).
		Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing %s for %d-%02d: %w", category, year, month, err)
	}

	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(r.Amount)
	}
	return sum, nil
}

func (s *Store) MonthlyTotals(category string, year int) (map[int]decimal.Decimal, error) {
	var rows []struct {
		Month  int
		Amount decimal.Decimal
	}

	err := s.db.Model(&Transaction{}).
		Select("month, amount").
		Where("category = ? AND year = ?", category, year).
		Scan(&rows).
		Error
	if err != nil {
		return nil, fmt.Errorf("monthly totals for %s in %d: %w", category, year, err)
	}

	totals := make(map[int]decimal.Decimal)
	for _, r := range rows {
		totals[r.Month] = totals[r.Month].Add(r.Amount)
	}
	return totals, nil
}

func (s *Store) InsertTransaction(tx *Transaction) error {
	tx.Payee = strings.TrimSpace(tx.Payee)
	tx.Description = strings.TrimSpace(tx.Description)
	if err := s.db.Create(tx).Error; err != nil {
		return fmt.Errorf("saving transaction: %w", err)
	}
	return nil
}

// Transactions returns all transactions ordered by date.
func (s *Store) Transactions() ([]Transaction, error) {
	var txs []Transaction
	if err := s.db.Order("date, id").Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	return txs, nil
}

func (s *Store) ImportHashExists(hash string) (bool, error) {
	if hash == "" {
		return false, nil
	}
	var count int64
	if err := s.db.Model(&Transaction{}).Where("import_hash = ?", hash).Count(&count).Error; err != nil {
		return false, fmt.Errorf("looking up import hash: %w", err)
	}
	return count > 0, nil
}

func (s *Store) PayeeCategoryCounts(payee string) (map[string]int, error) {
	var rows []struct {
		Category string
		N        int
	}

	err := s.db.Model(&Transaction{}).
		Select("category, COUNT(*) AS n").
		Where("LOWER(payee) = LOWER(?)", strings.TrimSpace(payee)).
		Group("category").
		Scan(&rows).
		Error
	if err != nil {
		return nil, fmt.Errorf("payee history for %q: %w", payee, err)
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Category] = r.N
	}
	return counts, nil
}

func (s *Store) LatestNetWorthDate() (Day, bool, error) {
	var latest sql.NullString

	err := s.db.Model(&NetWorthEntry{}).Select("MAX(date)").Row().Scan(&latest)
	if err != nil {
		return Day{}, false, fmt.Errorf("finding latest snapshot: %w", wrapRowErr(err))
	}
	if !latest.Valid || latest.String == "" {
		return Day{}, false, nil
	}

	var day Day
	if err := day.Scan(latest.String); err != nil {
		return Day{}, false, fmt.Errorf("parsing snapshot date %q: %w", latest.String, err)
	}
	return day, true, nil
}

// NetWorthAt sums the entries of day per asset or liability name.
func (s *Store) NetWorthAt(day Day) ([]NetWorthLine, error) {
	var rows []struct {
		Name   string
		Type   EntryType
		Amount decimal.Decimal
	}

	err := s.db.Model(&NetWorthEntry{}).
		Select("asset_name AS name, type, amount").
		Where("date = ?", day).
		Order("asset_name, id").
		Scan(&rows).
		Error
	if err != nil {
		return nil, fmt.Errorf("net worth on %s: %w", day, err)
	}

	type lineKey struct {
		name string
		kind EntryType
	}
	var lines []NetWorthLine
	index := make(map[lineKey]int)
	for _, r := range rows {
		key := lineKey{r.Name, r.Type}
		i, ok := index[key]
		if !ok {
			i = len(lines)
			index[key] = i
			lines = append(lines, NetWorthLine{Name: r.Name, Type: r.Type, Total: decimal.Zero})
		}
		lines[i].Total = lines[i].Total.Add(r.Amount)
	}
	return lines, nil
}

// NetWorthHistory sums assets and liabilities per snapshot date, oldest first.
func (s *Store) NetWorthHistory() ([]NetWorthTotals, error) {
	var rows []struct {
		Date   Day
		Type   EntryType
		Amount decimal.Decimal
	}

	err := s.db.Model(&NetWorthEntry{}).
		Select("date, type, amount").
		Order("date, id").
		Scan(&rows).
		Error
	if err != nil {
		return nil, fmt.Errorf("net worth history: %w", err)
	}

	var totals []NetWorthTotals
	for _, r := range rows {
		if len(totals) == 0 || !totals[len(totals)-1].Date.Time().Equal(r.Date.Time()) {
			totals = append(totals, NetWorthTotals{Date: r.Date, Assets: decimal.Zero, Liabilities: decimal.Zero})
		}
		last := &totals[len(totals)-1]
		switch r.Type {
		case EntryAsset:
			last.Assets = last.Assets.Add(r.Amount)
		case EntryLiability:
			last.Liabilities = last.Liabilities.Add(r.Amount)
		}
	}
	return totals, nil
}

// AppendNetWorthSnapshot writes all entries for day in one transaction.
func (s *Store) AppendNetWorthSnapshot(entries []NetWorthEntry, day Day) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i := range entries {
			entries[i].ID = 0
			entries[i].Date = day
			entries[i].Name = strings.TrimSpace(entries[i].Name)
			if err := tx.Create(&entries[i]).Error; err != nil {
				return fmt.Errorf("saving %s %q: %w", entries[i].Type, entries[i].Name, err)
			}
		}
		return nil
	})
	if err != nil {
		// Begin and Commit errors do not pass through the callbacks
		return fmt.Errorf("recording snapshot for %s: %w", day, wrapRowErr(err))
	}
	return nil
}

func (s *Store) NetWorthNames() (assets, liabilities []string, err error) {
	var rows []struct {
		Name string
		Type EntryType
	}

	err = s.db.Model(&NetWorthEntry{}).
		Select("DISTINCT asset_name AS name, type").
		Order("asset_name").
		Scan(&rows).
		Error
	if err != nil {
		return nil, nil, fmt.Errorf("listing net worth names: %w", err)
	}

	for _, r := range rows {
		switch r.Type {
		case EntryAsset:
			assets = append(assets, r.Name)
		case EntryLiability:
			liabilities = append(liabilities, r.Name)
		}
	}
	return assets, liabilities, nil
}
