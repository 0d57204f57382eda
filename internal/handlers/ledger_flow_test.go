package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/income_expense_tracker/internal/adapters/database/memory"
	"github.com/SscSPs/income_expense_tracker/internal/core/services"
	"github.com/SscSPs/income_expense_tracker/internal/dto"
	"github.com/SscSPs/income_expense_tracker/internal/handlers"
	"github.com/SscSPs/income_expense_tracker/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newLedgerRouter serves the real services on an in-memory store with auth disabled.
func newLedgerRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	container := services.NewServiceContainer(store, services.ContainerConfig{})
	require.NoError(t, container.Seeder.SeedDefaults(context.Background()))

	r := gin.New()
	require.NoError(t, handlers.RegisterRoutes(r, &config.Config{
		IsProduction: true,
		JWTSecret:    "flow-test-secret",
		JWTIssuer:    "iet-test",
	}, container))
	return r
}

func call(t *testing.T, r *gin.Engine, method, target, body string, out any) int {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if out != nil && w.Code < 300 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

func createAccount(t *testing.T, r *gin.Engine, name string, initial int64) dto.AccountResponse {
	t.Helper()
	var acc dto.AccountResponse
	body := `{"name":"` + name + `","kind":"Bank","initialBalance":` + decimal.NewFromInt(initial).String() + `}`
	require.Equal(t, http.StatusCreated, call(t, r, http.MethodPost, "/api/v1/accounts", body, &acc))
	return acc
}

func balanceOf(t *testing.T, r *gin.Engine, accountID string) decimal.Decimal {
	t.Helper()
	var acc dto.AccountResponse
	require.Equal(t, http.StatusOK, call(t, r, http.MethodGet, "/api/v1/accounts/"+accountID, "", &acc))
	return acc.Balance
}

func TestLedgerFlow_IncomeThenExpense(t *testing.T) {
	r := newLedgerRouter(t)
	acc := createAccount(t, r, "Checking", 0)

	var created dto.CreateTransactionResponse
	code := call(t, r, http.MethodPost, "/api/v1/transactions",
		`{"description":"Salary","amount":5000,"kind":"Income","category":"Salary","accountID":"`+acc.AccountID+`","date":"2024-01-05"}`, &created)
	require.Equal(t, http.StatusCreated, code)
	assert.True(t, decimal.NewFromInt(5000).Equal(created.AccountBalance))

	code = call(t, r, http.MethodPost, "/api/v1/transactions",
		`{"description":"Groceries","amount":150,"kind":"Expense","category":"Food & Dining","accountID":"`+acc.AccountID+`","date":"2024-01-06"}`, &created)
	require.Equal(t, http.StatusCreated, code)
	assert.True(t, decimal.NewFromInt(4850).Equal(created.AccountBalance))

	var summary dto.SummaryResponse
	require.Equal(t, http.StatusOK, call(t, r, http.MethodGet, "/api/v1/transactions/summary?fromDate=2024-01-01&toDate=2024-01-06", "", &summary))
	assert.True(t, decimal.NewFromInt(5000).Equal(summary.TotalIncome))
	assert.True(t, decimal.NewFromInt(150).Equal(summary.TotalExpense))
	assert.True(t, decimal.NewFromInt(4850).Equal(summary.Balance))

	var list dto.ListTransactionsResponse
	require.Equal(t, http.StatusOK, call(t, r, http.MethodGet, "/api/v1/transactions?type=Expense", "", &list))
	require.Len(t, list.Transactions, 1)
	assert.Equal(t, "Groceries", list.Transactions[0].Description)
	assert.Equal(t, "Checking", list.Transactions[0].AccountName)
}

func TestLedgerFlow_TransferConservesTotal(t *testing.T) {
	r := newLedgerRouter(t)
	from := createAccount(t, r, "Main", 1000)
	to := createAccount(t, r, "Wallet", 0)

	var transfer dto.TransferResponse
	code := call(t, r, http.MethodPost, "/api/v1/accounts/transfer",
		`{"fromAccountID":"`+from.AccountID+`","toAccountID":"`+to.AccountID+`","amount":500}`, &transfer)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Transfer from Main to Wallet", transfer.Debit.Description)
	assert.Equal(t, "Transfer", transfer.Debit.Category)
	assert.Equal(t, "Transfer", transfer.Credit.Category)

	assert.True(t, decimal.NewFromInt(500).Equal(balanceOf(t, r, from.AccountID)))
	assert.True(t, decimal.NewFromInt(500).Equal(balanceOf(t, r, to.AccountID)))

	code = call(t, r, http.MethodPost, "/api/v1/accounts/transfer",
		`{"fromAccountID":"`+from.AccountID+`","toAccountID":"`+from.AccountID+`","amount":1}`, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code = call(t, r, http.MethodPost, "/api/v1/accounts/transfer",
		`{"fromAccountID":"`+from.AccountID+`","toAccountID":"no-such-account","amount":1}`, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.True(t, decimal.NewFromInt(500).Equal(balanceOf(t, r, from.AccountID)))
}

func TestLedgerFlow_UpdateAndDeleteRestoreBalance(t *testing.T) {
	r := newLedgerRouter(t)
	acc := createAccount(t, r, "Card", 100)

	var created dto.CreateTransactionResponse
	require.Equal(t, http.StatusCreated, call(t, r, http.MethodPost, "/api/v1/transactions",
		`{"description":"Dinner","amount":40,"kind":"Expense","category":"Food & Dining","accountID":"`+acc.AccountID+`"}`, &created))
	txnID := created.Transaction.TransactionID
	assert.True(t, decimal.NewFromInt(60).Equal(created.AccountBalance))

	require.Equal(t, http.StatusNoContent, call(t, r, http.MethodPut, "/api/v1/transactions/"+txnID,
		`{"description":"Dinner","amount":25,"kind":"Expense","category":"Food & Dining","accountID":"`+acc.AccountID+`"}`, nil))
	assert.True(t, decimal.NewFromInt(75).Equal(balanceOf(t, r, acc.AccountID)))

	require.Equal(t, http.StatusNoContent, call(t, r, http.MethodDelete, "/api/v1/transactions/"+txnID, "", nil))
	assert.True(t, decimal.NewFromInt(100).Equal(balanceOf(t, r, acc.AccountID)))

	assert.Equal(t, http.StatusNotFound, call(t, r, http.MethodDelete, "/api/v1/transactions/"+txnID, "", nil))
}

func TestLedgerFlow_AccountRules(t *testing.T) {
	r := newLedgerRouter(t)

	var accounts dto.ListAccountsResponse
	require.Equal(t, http.StatusOK, call(t, r, http.MethodGet, "/api/v1/accounts", "", &accounts))
	require.NotEmpty(t, accounts.Accounts)
	var defaultID string
	for _, a := range accounts.Accounts {
		if a.IsDefault {
			defaultID = a.AccountID
		}
	}
	require.NotEmpty(t, defaultID)
	assert.Equal(t, http.StatusBadRequest, call(t, r, http.MethodDelete, "/api/v1/accounts/"+defaultID, "", nil))

	acc := createAccount(t, r, "Side", 10)
	assert.Equal(t, http.StatusBadRequest, call(t, r, http.MethodPost, "/api/v1/accounts", `{"name":"side","kind":"Cash"}`, nil))
	assert.Equal(t, http.StatusBadRequest, call(t, r, http.MethodDelete, "/api/v1/accounts/"+acc.AccountID, "", nil))

	var adjusted dto.AccountResponse
	require.Equal(t, http.StatusOK, call(t, r, http.MethodPost, "/api/v1/accounts/"+acc.AccountID+"/adjust-balance", `{"amount":5,"kind":"Expense"}`, &adjusted))
	assert.True(t, decimal.NewFromInt(5).Equal(adjusted.Balance))

	var list dto.ListTransactionsResponse
	require.Equal(t, http.StatusOK, call(t, r, http.MethodGet, "/api/v1/transactions", "", &list))
	assert.Len(t, list.Transactions, 1, "only the opening balance is recorded")
}

func TestLedgerFlow_SyncNotConfigured(t *testing.T) {
	r := newLedgerRouter(t)

	var status dto.SyncStatusResponse
	require.Equal(t, http.StatusOK, call(t, r, http.MethodGet, "/api/v1/sync/status", "", &status))
	assert.False(t, status.IsAuthenticated)
	assert.Equal(t, http.StatusBadRequest, call(t, r, http.MethodPost, "/api/v1/sync/backup", "", nil))
}

func TestLedgerFlow_HealthReportsEnvironment(t *testing.T) {
	r := newLedgerRouter(t)
	var health handlers.HealthResponse
	require.Equal(t, http.StatusOK, call(t, r, http.MethodGet, "/health", "", &health))
	assert.Equal(t, "Healthy", health.Status)
	assert.WithinDuration(t, time.Now(), health.Timestamp, time.Minute)
}
