package internal

import "github.com/shopspring/decimal"

// DefaultCategories is the starter category list inserted into an empty database.
var DefaultCategories = []Category{
	{Name: "Salary", Type: CategoryIncome, Budget: decimal.NewFromInt(4000)},
	{Name: "Other Income", Type: CategoryIncome, Budget: decimal.Zero},

	{Name: "Rent", Type: CategoryExpenses, Budget: decimal.NewFromInt(628)},
	{Name: "Utilities", Type: CategoryExpenses, Budget: decimal.NewFromInt(150)},
	{Name: "Insurance", Type: CategoryExpenses, Budget: decimal.NewFromInt(90)},
	{Name: "Phone & Internet", Type: CategoryExpenses, Budget: decimal.NewFromInt(80)},
	{Name: "Transport", Type: CategoryExpenses, Budget: decimal.NewFromInt(120)},

	{Name: "Groceries", Type: CategorySpending, Budget: decimal.NewFromInt(400)},
	{Name: "Dining Out", Type: CategorySpending, Budget: decimal.NewFromInt(150)},
	{Name: "Entertainment", Type: CategorySpending, Budget: decimal.NewFromInt(100)},
	{Name: "Shopping", Type: CategorySpending, Budget: decimal.NewFromInt(150)},
	{Name: "Subscriptions", Type: CategorySpending, Budget: decimal.NewFromInt(50)},

	{Name: "Savings", Type: CategoryAssets, Budget: decimal.NewFromInt(500)},
	{Name: "Investments", Type: CategoryAssets, Budget: decimal.NewFromInt(300)},
}
