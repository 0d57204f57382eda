package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	portssvc "github.com/SscSPs/income_expense_tracker/internal/core/ports/services"
	"github.com/SscSPs/income_expense_tracker/internal/dto"
	"github.com/SscSPs/income_expense_tracker/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	ledger         portssvc.LedgerSvc
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, ledger portssvc.LedgerSvc) {
	h := &accountHandler{accountService: accountService, ledger: ledger}

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.POST("", h.createAccount)
		accounts.POST("/transfer", h.transferMoney)
		accounts.GET("/:id", h.getAccount)
		accounts.PUT("/:id", h.updateAccount)
		accounts.DELETE("/:id", h.deleteAccount)
		accounts.POST("/:id/adjust-balance", h.adjustBalance)
	}
}

// listAccounts godoc
// @Summary List accounts
// @Tags accounts
// @Produce json
// @Success 200 {object} dto.ListAccountsResponse
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	accounts, err := h.accountService.ListAccounts(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)})
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/{id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// createAccount godoc
// @Summary Create a new account
// @Description A non-zero initial balance is recorded as an opening balance transaction
// @Tags accounts
// @Accept json
// @Produce json
// @Param account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err, "Failed to create account")
		return
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID))
	resp := dto.ToAccountResponse(&domain.AccountWithStats{Account: *account})
	if !account.Balance.IsZero() {
		resp.TransactionCount = 1
	}
	c.JSON(http.StatusCreated, resp)
}

// updateAccount godoc
// @Summary Update an account
// @Description Changes name, description, kind or icon. Balances are not editable here.
// @Tags accounts
// @Accept json
// @Param id path string true "Account ID"
// @Param account body dto.UpdateAccountRequest true "New account details"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/{id} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}
	if _, err := h.accountService.UpdateAccount(c.Request.Context(), c.Param("id"), req); err != nil {
		respondWithError(c, err, "Failed to update account")
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Default accounts and accounts with transactions cannot be deleted
// @Tags accounts
// @Param id path string true "Account ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/{id} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	if err := h.accountService.DeleteAccount(c.Request.Context(), c.Param("id")); err != nil {
		respondWithError(c, err, "Failed to delete account")
		return
	}
	c.Status(http.StatusNoContent)
}

// adjustBalance godoc
// @Summary Adjust an account balance
// @Description Adds (Income) or subtracts (Expense) an amount without recording a transaction
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param adjustment body dto.AdjustBalanceRequest true "Adjustment"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/{id}/adjust-balance [post]
func (h *accountHandler) adjustBalance(c *gin.Context) {
	var req dto.AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}
	account, err := h.ledger.AdjustBalance(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondWithError(c, err, "Failed to adjust balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(&domain.AccountWithStats{Account: *account}))
}

// transferMoney godoc
// @Summary Transfer money between accounts
// @Description Writes an Expense on the source and an Income on the destination, both categorised as Transfer
// @Tags accounts
// @Accept json
// @Produce json
// @Param transfer body dto.TransferRequest true "Transfer details"
// @Success 200 {object} dto.TransferResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/transfer [post]
func (h *accountHandler) transferMoney(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	transfer, err := h.ledger.TransferMoney(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err, "Failed to transfer money")
		return
	}

	logger.Info("Transfer completed",
		slog.String("from_account_id", transfer.From.AccountID),
		slog.String("to_account_id", transfer.To.AccountID),
		slog.String("amount", transfer.Debit.Amount.String()))
	c.JSON(http.StatusOK, dto.ToTransferResponse(transfer))
}
