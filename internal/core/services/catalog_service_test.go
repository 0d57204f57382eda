package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/income_expense_tracker/internal/adapters/database/memory"
	"github.com/SscSPs/income_expense_tracker/internal/apperrors"
	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	portssvc "github.com/SscSPs/income_expense_tracker/internal/core/ports/services"
	"github.com/SscSPs/income_expense_tracker/internal/core/services"
	"github.com/SscSPs/income_expense_tracker/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CatalogServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	container *portssvc.ServiceContainer
}

func (suite *CatalogServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.container = services.NewServiceContainer(memory.NewStore(), services.ContainerConfig{})
	suite.Require().NoError(suite.container.Seeder.SeedDefaults(suite.ctx))
}

func (suite *CatalogServiceTestSuite) defaultAccount() domain.AccountWithStats {
	accounts, err := suite.container.Account.ListAccounts(suite.ctx)
	suite.Require().NoError(err)
	for _, a := range accounts {
		if a.IsDefault {
			return a
		}
	}
	suite.FailNow("no default account seeded")
	return domain.AccountWithStats{}
}

func (suite *CatalogServiceTestSuite) TestSeedIsIdempotent() {
	suite.Require().NoError(suite.container.Seeder.SeedDefaults(suite.ctx))

	accounts, err := suite.container.Account.ListAccounts(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(accounts, len(domain.DefaultAccounts))

	categories, err := suite.container.Category.ListCategories(suite.ctx, nil)
	suite.Require().NoError(err)
	suite.Len(categories, len(domain.DefaultCategories))

	income := domain.TransactionKindIncome
	incomeOnly, err := suite.container.Category.ListCategories(suite.ctx, &income)
	suite.Require().NoError(err)
	for _, c := range incomeOnly {
		suite.Equal(domain.TransactionKindIncome, c.Kind)
	}
}

func (suite *CatalogServiceTestSuite) TestCreateAccountWithOpeningBalance() {
	acc, err := suite.container.Account.CreateAccount(suite.ctx, dto.CreateAccountRequest{
		Name: "  Brokerage ", Kind: domain.AccountKindInvestment, InitialBalance: decimal.NewFromInt(2500),
	})
	suite.Require().NoError(err)
	suite.Equal("Brokerage", acc.Name)
	suite.Equal(domain.DefaultAccountIcon, acc.Icon)
	suite.True(decimal.NewFromInt(2500).Equal(acc.Balance))

	stats, err := suite.container.Account.GetAccountByID(suite.ctx, acc.AccountID)
	suite.Require().NoError(err)
	suite.Equal(1, stats.TransactionCount)

	txns, err := suite.container.Transaction.ListTransactions(suite.ctx, domain.TransactionFilter{Category: domain.OpeningBalanceCategory})
	suite.Require().NoError(err)
	suite.Require().Len(txns, 1)
	suite.Equal(domain.TransactionKindIncome, txns[0].Kind)
}

func (suite *CatalogServiceTestSuite) TestAccountNameRules() {
	_, err := suite.container.Account.CreateAccount(suite.ctx, dto.CreateAccountRequest{Name: "cash", Kind: domain.AccountKindCash})
	suite.ErrorIs(err, apperrors.ErrDuplicate, "names are unique regardless of case")

	_, err = suite.container.Account.CreateAccount(suite.ctx, dto.CreateAccountRequest{Name: "", Kind: domain.AccountKindCash})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.container.Account.CreateAccount(suite.ctx, dto.CreateAccountRequest{Name: "Coins", Kind: "Crypto"})
	suite.ErrorIs(err, apperrors.ErrValidation)

	def := suite.defaultAccount()
	_, err = suite.container.Account.UpdateAccount(suite.ctx, def.AccountID, dto.UpdateAccountRequest{Name: "Renamed", Kind: def.Kind})
	suite.ErrorIs(err, apperrors.ErrBusinessRule)

	updated, err := suite.container.Account.UpdateAccount(suite.ctx, def.AccountID, dto.UpdateAccountRequest{
		Name: def.Name, Description: "new words", Kind: def.Kind, Icon: "🙂",
	})
	suite.Require().NoError(err)
	suite.Equal("new words", updated.Description)
	suite.True(def.Balance.Equal(updated.Balance))
}

func (suite *CatalogServiceTestSuite) TestDeleteAccountRules() {
	def := suite.defaultAccount()
	suite.ErrorIs(suite.container.Account.DeleteAccount(suite.ctx, def.AccountID), apperrors.ErrBusinessRule)

	used, err := suite.container.Account.CreateAccount(suite.ctx, dto.CreateAccountRequest{Name: "Used", Kind: domain.AccountKindOther, InitialBalance: decimal.NewFromInt(1)})
	suite.Require().NoError(err)
	suite.ErrorIs(suite.container.Account.DeleteAccount(suite.ctx, used.AccountID), apperrors.ErrBusinessRule)

	empty, err := suite.container.Account.CreateAccount(suite.ctx, dto.CreateAccountRequest{Name: "Empty", Kind: domain.AccountKindOther})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.container.Account.DeleteAccount(suite.ctx, empty.AccountID))
	_, err = suite.container.Account.GetAccountByID(suite.ctx, empty.AccountID)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	suite.ErrorIs(suite.container.Account.DeleteAccount(suite.ctx, "missing"), apperrors.ErrNotFound)
}

func (suite *CatalogServiceTestSuite) TestCategoryRules() {
	cat, err := suite.container.Category.CreateCategory(suite.ctx, dto.CreateCategoryRequest{Name: "Pets", Kind: domain.TransactionKindExpense})
	suite.Require().NoError(err)
	suite.False(cat.IsDefault)

	_, err = suite.container.Category.CreateCategory(suite.ctx, dto.CreateCategoryRequest{Name: "Pets", Kind: domain.TransactionKindExpense})
	suite.ErrorIs(err, apperrors.ErrDuplicate)

	_, err = suite.container.Category.CreateCategory(suite.ctx, dto.CreateCategoryRequest{Name: "Pets", Kind: domain.TransactionKindIncome})
	suite.NoError(err, "the same name may exist once per kind")

	income := domain.TransactionKindIncome
	defaults, err := suite.container.Category.ListCategories(suite.ctx, &income)
	suite.Require().NoError(err)
	var salaryID string
	for _, c := range defaults {
		if c.Name == "Salary" {
			salaryID = c.CategoryID
		}
	}
	suite.Require().NotEmpty(salaryID)
	_, err = suite.container.Category.UpdateCategory(suite.ctx, salaryID, dto.UpdateCategoryRequest{Name: "Wages"})
	suite.ErrorIs(err, apperrors.ErrBusinessRule)
	suite.ErrorIs(suite.container.Category.DeleteCategory(suite.ctx, salaryID), apperrors.ErrBusinessRule)
}

func (suite *CatalogServiceTestSuite) TestCategoryRenameDoesNotCascade() {
	cat, err := suite.container.Category.CreateCategory(suite.ctx, dto.CreateCategoryRequest{Name: "Hobby", Kind: domain.TransactionKindExpense})
	suite.Require().NoError(err)
	def := suite.defaultAccount()

	_, _, err = suite.container.Ledger.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		Description: "Paint", Amount: decimal.NewFromInt(12), Kind: domain.TransactionKindExpense, Category: "Hobby", AccountID: def.AccountID,
	})
	suite.Require().NoError(err)

	stats, err := suite.container.Category.GetCategoryByID(suite.ctx, cat.CategoryID)
	suite.Require().NoError(err)
	suite.Equal(1, stats.TransactionCount)
	suite.True(decimal.NewFromInt(12).Equal(stats.TotalAmount))

	suite.ErrorIs(suite.container.Category.DeleteCategory(suite.ctx, cat.CategoryID), apperrors.ErrBusinessRule)

	_, err = suite.container.Category.UpdateCategory(suite.ctx, cat.CategoryID, dto.UpdateCategoryRequest{Name: "Crafts"})
	suite.Require().NoError(err)

	names, err := suite.container.Transaction.ListCategoryNames(suite.ctx)
	suite.Require().NoError(err)
	suite.Contains(names, "Hobby")
	suite.NotContains(names, "Crafts")

	// The renamed category no longer matches the old transactions, so it can go.
	suite.Require().NoError(suite.container.Category.DeleteCategory(suite.ctx, cat.CategoryID))
}

func TestCatalogServices(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}
