package internal

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type StoreTestSuite struct {
	suite.Suite
	store *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

// SetupTest is called before each test in the suite.
func (suite *StoreTestSuite) SetupTest() {
	store, err := OpenStore(":memory:", testCategories())
	suite.Require().NoError(err, "Database connection failed")
	suite.store = store
}

// TearDownTest is called after each test in the suite.
func (suite *StoreTestSuite) TearDownTest() {
	suite.store.Close()
}

func (suite *StoreTestSuite) createTestTransaction(tx Transaction) Transaction {
	if tx.Month == 0 {
		tx.Month = int(tx.Date.Time().Month())
		tx.Year = tx.Date.Time().Year()
	}
	err := suite.store.InsertTransaction(&tx)
	if err != nil {
		suite.Assert().FailNow("Transaction could not be saved", "Error: %s, Transaction: %#v", err, tx)
	}
	return tx
}

func (suite *StoreTestSuite) TestSeedCategories() {
	categories, err := suite.store.Categories()
	suite.Require().NoError(err)
	suite.Require().Len(categories, 6)

	suite.Assert().Equal("Salary", categories[0].Name)
	suite.Assert().Equal("Rent", categories[1].Name)
	suite.Assert().Equal(CategoryExpenses, categories[1].Type)
	suite.Assert().True(categories[1].Budget.Equal(dec("628")), "Rent budget is %s", categories[1].Budget)
}

func (suite *StoreTestSuite) TestSeedOnlyEmptyDatabase() {
	path := filepath.Join(suite.T().TempDir(), "nested", "finance.db")

	first, err := OpenStore(path, testCategories())
	suite.Require().NoError(err)
	suite.Require().NoError(first.Close())

	second, err := OpenStore(path, DefaultCategories)
	suite.Require().NoError(err)
	defer second.Close()

	categories, err := second.Categories()
	suite.Require().NoError(err)
	suite.Assert().Len(categories, 6, "an existing database must not be seeded again")
}

func (suite *StoreTestSuite) TestCategoryTotal() {
	suite.createTestTransaction(Transaction{Date: day("2024-03-01"), Category: "Rent", Amount: dec("-700")})
	suite.createTestTransaction(Transaction{Date: day("2024-03-05"), Category: "Groceries", Amount: dec("-80.25")})
	suite.createTestTransaction(Transaction{Date: day("2024-03-19"), Category: "Groceries", Amount: dec("-120.25")})
	suite.createTestTransaction(Transaction{Date: day("2024-03-20"), Category: "Groceries", Amount: dec("10")})
	suite.createTestTransaction(Transaction{Date: day("2024-04-02"), Category: "Groceries", Amount: dec("-99")})
	suite.createTestTransaction(Transaction{Date: day("2023-03-02"), Category: "Groceries", Amount: dec("-99")})

	tests := []struct {
		category string
		month    int
		year     int
		want     string
	}{
		{"Rent", 3, 2024, "-700"},
		{"Groceries", 3, 2024, "-190.5"},
		{"Groceries", 4, 2024, "-99"},
		{"Utilities", 3, 2024, "0"},
		{"Rent", 5, 2024, "0"},
	}

	for _, tt := range tests {
		total, err := suite.store.CategoryTotal(tt.category, tt.month, tt.year)
		suite.Require().NoError(err)
		suite.Assert().True(total.Equal(dec(tt.want)), "%s %d-%02d: got %s, want %s", tt.category, tt.year, tt.month, total, tt.want)
	}
}

func (suite *StoreTestSuite) TestSumsAreExact() {
	suite.createTestTransaction(Transaction{Date: day("2024-03-01"), Category: "Groceries", Amount: dec("-0.1")})
	suite.createTestTransaction(Transaction{Date: day("2024-03-02"), Category: "Groceries", Amount: dec("-0.2")})

	total, err := suite.store.CategoryTotal("Groceries", 3, 2024)
	suite.Require().NoError(err)
	suite.Assert().Equal("-0.3", total.String())

	totals, err := suite.store.MonthlyTotals("Groceries", 2024)
	suite.Require().NoError(err)
	suite.Assert().Equal("-0.3", totals[3].String())

	suite.Require().NoError(RecordSnapshot(suite.store, []NetWorthEntry{
		{Name: "Cash", Amount: dec("0.1"), Type: EntryAsset},
		{Name: "Wallet", Amount: dec("0.2"), Type: EntryAsset},
		{Name: "Card", Amount: dec("0.1"), Type: EntryLiability},
	}, day("2024-01-01")))

	history, err := suite.store.NetWorthHistory()
	suite.Require().NoError(err)
	suite.Require().Len(history, 1)
	suite.Assert().Equal("0.3", history[0].Assets.String())
	suite.Assert().Equal("0.2", history[0].Assets.Sub(history[0].Liabilities).String())

	txs, err := suite.store.Transactions()
	suite.Require().NoError(err)
	suite.Assert().Equal("-0.1", txs[0].Amount.String(), "amounts are stored as written")
}

func (suite *StoreTestSuite) TestMonthlyBreakdownFromStore() {
	suite.createTestTransaction(Transaction{Date: day("2024-03-01"), Category: "Rent", Amount: dec("-700")})

	b, err := MonthlyBreakdown(suite.store, 3, 2024)
	suite.Require().NoError(err)

	expenses, ok := b.Section(CategoryExpenses)
	suite.Require().True(ok)
	rent := expenses.Rows[0]
	suite.Assert().Equal("Rent", rent.Category)
	suite.Assert().True(rent.Actual.Equal(dec("700")), "actual is %s", rent.Actual)
	suite.Assert().Equal("11.46", rent.PercentDifference.Round(2).String())
}

func (suite *StoreTestSuite) TestMonthlyTotals() {
	suite.createTestTransaction(Transaction{Date: day("2024-01-10"), Category: "Groceries", Amount: dec("-100")})
	suite.createTestTransaction(Transaction{Date: day("2024-01-20"), Category: "Groceries", Amount: dec("-50")})
	suite.createTestTransaction(Transaction{Date: day("2024-03-10"), Category: "Groceries", Amount: dec("-80")})
	suite.createTestTransaction(Transaction{Date: day("2025-01-10"), Category: "Groceries", Amount: dec("-5")})

	totals, err := suite.store.MonthlyTotals("Groceries", 2024)
	suite.Require().NoError(err)
	suite.Assert().Len(totals, 2)
	suite.Assert().True(totals[1].Equal(dec("-150")), "January is %s", totals[1])
	suite.Assert().True(totals[3].Equal(dec("-80")), "March is %s", totals[3])

	series, err := SpendingTrends(suite.store, 2024, []string{"Groceries"}, TrendOptions{ZeroFill: true})
	suite.Require().NoError(err)
	suite.Assert().Len(series[0].Points, 12)
	suite.Assert().True(series[0].Total().Equal(dec("230")))
}

func (suite *StoreTestSuite) TestTransactionsAndHashes() {
	suite.createTestTransaction(Transaction{Date: day("2024-03-02"), Payee: "  CORNER SHOP ", Category: "Groceries", Amount: dec("-5"), ImportHash: "abc"})
	suite.createTestTransaction(Transaction{Date: day("2024-03-01"), Payee: "LANDLORD", Category: "Rent", Amount: dec("-700")})

	txs, err := suite.store.Transactions()
	suite.Require().NoError(err)
	suite.Require().Len(txs, 2)
	suite.Assert().Equal("LANDLORD", txs[0].Payee, "transactions are ordered by date")
	suite.Assert().Equal("CORNER SHOP", txs[1].Payee, "payees are stored trimmed")
	suite.Assert().Equal("2024-03-02", txs[1].Date.String())
	suite.Assert().True(txs[1].Amount.Equal(dec("-5")))

	exists, err := suite.store.ImportHashExists("abc")
	suite.Require().NoError(err)
	suite.Assert().True(exists)

	exists, err = suite.store.ImportHashExists("def")
	suite.Require().NoError(err)
	suite.Assert().False(exists)

	exists, err = suite.store.ImportHashExists("")
	suite.Require().NoError(err)
	suite.Assert().False(exists, "transactions without a hash never match")
}

func (suite *StoreTestSuite) TestPayeeCategoryCounts() {
	suite.createTestTransaction(Transaction{Date: day("2024-03-01"), Payee: "Corner Shop", Category: "Groceries", Amount: dec("-5")})
	suite.createTestTransaction(Transaction{Date: day("2024-03-02"), Payee: "CORNER SHOP", Category: "Groceries", Amount: dec("-5")})
	suite.createTestTransaction(Transaction{Date: day("2024-03-03"), Payee: "CORNER SHOP", Category: "Dining Out", Amount: dec("-5")})
	suite.createTestTransaction(Transaction{Date: day("2024-03-04"), Payee: "PIZZA PLACE", Category: "Dining Out", Amount: dec("-5")})

	counts, err := suite.store.PayeeCategoryCounts("corner shop")
	suite.Require().NoError(err)
	suite.Assert().Equal(map[string]int{"Groceries": 2, "Dining Out": 1}, counts)

	category, source := NewSuggester(nil, suite.store).Suggest(StatementRow{Payee: "Corner Shop"})
	suite.Assert().Equal("Groceries", category)
	suite.Assert().Equal(SuggestHistory, source)
}

func (suite *StoreTestSuite) TestReviewSessionWritesStore() {
	session, err := NewReviewSession(suite.store, false)
	suite.Require().NoError(err)
	suite.Require().NoError(session.Load(statementRows()))

	_, err = session.Save("-700", "Rent")
	suite.Require().NoError(err)
	suite.Require().NoError(session.Delete())
	_, err = session.Save("4100", "Salary")
	suite.Require().NoError(err)
	_, err = session.Save("-18", "Dining Out")
	suite.Require().NoError(err)

	txs, err := suite.store.Transactions()
	suite.Require().NoError(err)
	suite.Require().Len(txs, 3)
	suite.Assert().Equal([]string{"LANDLORD LLC", "ACME PAYROLL", "PIZZA PLACE"}, []string{txs[0].Payee, txs[1].Payee, txs[2].Payee})
	suite.Assert().Equal(session.ID.String(), txs[0].ImportID)

	// Loading the same statement again flags the saved rows
	again, err := NewReviewSession(suite.store, false)
	suite.Require().NoError(err)
	suite.Require().NoError(again.Load(statementRows()))
	var duplicates []bool
	for _, row := range again.Rows() {
		duplicates = append(duplicates, row.Duplicate)
	}
	suite.Assert().Equal([]bool{true, false, true, true}, duplicates)
}

func (suite *StoreTestSuite) TestNetWorth() {
	_, ok, err := suite.store.LatestNetWorthDate()
	suite.Require().NoError(err)
	suite.Assert().False(ok)

	_, err = NetWorthSummary(suite.store)
	suite.Assert().ErrorIs(err, ErrNoNetWorthData)

	suite.Require().NoError(RecordSnapshot(suite.store, []NetWorthEntry{
		{Name: "Savings", Amount: dec("800"), Type: EntryAsset},
		{Name: "Loan", Amount: dec("500"), Type: EntryLiability},
	}, day("2024-01-01")))
	suite.Require().NoError(RecordSnapshot(suite.store, []NetWorthEntry{
		{Name: " Savings ", Amount: dec("600"), Type: EntryAsset},
		{Name: "Brokerage", Amount: dec("300"), Type: EntryAsset},
		{Name: "Loan", Amount: dec("450"), Type: EntryLiability},
	}, day("2024-02-01")))

	latest, ok, err := suite.store.LatestNetWorthDate()
	suite.Require().NoError(err)
	suite.Require().True(ok)
	suite.Assert().Equal("2024-02-01", latest.String())

	lines, err := suite.store.NetWorthAt(latest)
	suite.Require().NoError(err)
	suite.Require().Len(lines, 3)
	suite.Assert().Equal("Brokerage", lines[0].Name)
	suite.Assert().Equal(EntryAsset, lines[0].Type)

	points, err := NetWorthSeries(suite.store)
	suite.Require().NoError(err)
	suite.Require().Len(points, 2)
	suite.Assert().True(points[0].NetWorth.Equal(dec("300")), "first net worth is %s", points[0].NetWorth)
	suite.Assert().True(points[1].NetWorth.Equal(dec("450")), "second net worth is %s", points[1].NetWorth)

	report, err := NetWorthSummary(suite.store)
	suite.Require().NoError(err)
	suite.Assert().True(report.TotalAssets.Equal(dec("900")))
	suite.Assert().Equal("Savings", report.Assets[1].Name, "names are stored trimmed")

	assets, liabilities, err := KnownNetWorthNames(suite.store)
	suite.Require().NoError(err)
	suite.Assert().Equal([]string{"Brokerage", "Savings"}, assets)
	suite.Assert().Equal([]string{"Loan"}, liabilities)
}

func (suite *StoreTestSuite) TestSnapshotIsAtomic() {
	err := suite.store.db.Callback().Create().Before("gorm:create").Register("test:fail_entry", func(db *gorm.DB) {
		if entry, ok := db.Statement.Dest.(*NetWorthEntry); ok && entry.Name == "Broken" {
			db.AddError(errors.New("simulated write failure"))
		}
	})
	suite.Require().NoError(err)

	err = RecordSnapshot(suite.store, []NetWorthEntry{
		{Name: "Savings", Amount: dec("800"), Type: EntryAsset},
		{Name: "Broken", Amount: dec("1"), Type: EntryAsset},
	}, day("2024-01-01"))
	suite.Assert().ErrorIs(err, ErrStore)

	history, err := suite.store.NetWorthHistory()
	suite.Require().NoError(err)
	suite.Assert().Empty(history, "a failed snapshot must not be partially written")
}

func (suite *StoreTestSuite) TestClosedDatabase() {
	suite.Require().NoError(suite.store.Close())

	_, err := suite.store.Categories()
	suite.Assert().ErrorIs(err, ErrStore)

	_, err = suite.store.CategoryTotal("Rent", 3, 2024)
	suite.Assert().ErrorIs(err, ErrStore)

	_, _, err = suite.store.LatestNetWorthDate()
	suite.Assert().ErrorIs(err, ErrStore)

	err = suite.store.AppendNetWorthSnapshot([]NetWorthEntry{{Name: "Savings", Amount: dec("1"), Type: EntryAsset}}, day("2024-01-01"))
	suite.Assert().ErrorIs(err, ErrStore)

	tx := Transaction{Date: day("2024-03-01"), Category: "Rent", Amount: dec("-700"), Month: 3, Year: 2024}
	suite.Assert().ErrorIs(suite.store.InsertTransaction(&tx), ErrStore)
}
