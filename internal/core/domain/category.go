package domain

import "github.com/shopspring/decimal"

// Category groups transactions of one kind. Transactions refer to a category
// by name only, so renaming a category does not touch existing transactions.
type Category struct {
	CategoryID  string          `json:"categoryID"`
	Name        string          `json:"name"`
	Kind        TransactionKind `json:"kind"`
	Description string          `json:"description"`
	IsDefault   bool            `json:"isDefault"`
	AuditFields
}

// CategoryKey identifies the transactions a category covers.
type CategoryKey struct {
	Name string
	Kind TransactionKind
}

// CategoryUsage aggregates the transactions whose category string and kind match a category.
type CategoryUsage struct {
	TransactionCount int             `json:"transactionCount"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
}

// CategoryWithStats is a category plus its usage.
type CategoryWithStats struct {
	Category
	CategoryUsage
}

// DefaultCategories are seeded on first run.
var DefaultCategories = []Category{
	{Name: "Salary", Kind: TransactionKindIncome, Description: "Regular salary income"},
	{Name: "Deposits", Kind: TransactionKindIncome, Description: "Bank deposits"},
	{Name: "Savings", Kind: TransactionKindIncome, Description: "Savings and interest"},
	{Name: "Gift", Kind: TransactionKindIncome, Description: "Gifts received"},
	{Name: "Bonus", Kind: TransactionKindIncome, Description: "Bonuses and incentives"},
	{Name: "Refund", Kind: TransactionKindIncome, Description: "Refunds and reimbursements"},
	{Name: "Food & Dining", Kind: TransactionKindExpense, Description: "Groceries, restaurants and takeaway"},
	{Name: "Transportation", Kind: TransactionKindExpense, Description: "Fuel, fares and vehicle costs"},
	{Name: "Housing", Kind: TransactionKindExpense, Description: "Rent, mortgage and maintenance"},
	{Name: "Utilities", Kind: TransactionKindExpense, Description: "Electricity, water, internet and phone"},
	{Name: "Entertainment", Kind: TransactionKindExpense, Description: "Movies, games and hobbies"},
	{Name: "Shopping", Kind: TransactionKindExpense, Description: "Clothing and general purchases"},
	{Name: "Healthcare", Kind: TransactionKindExpense, Description: "Medical and pharmacy"},
	{Name: "Education", Kind: TransactionKindExpense, Description: "Courses, books and tuition"},
	{Name: "Travel", Kind: TransactionKindExpense, Description: "Trips and accommodation"},
	{Name: "Other Expense", Kind: TransactionKindExpense, Description: "Everything else"},
}
