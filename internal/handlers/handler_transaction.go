package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	portssvc "github.com/SscSPs/income_expense_tracker/internal/core/ports/services"
	"github.com/SscSPs/income_expense_tracker/internal/dto"
	"github.com/SscSPs/income_expense_tracker/internal/middleware"
	"github.com/SscSPs/income_expense_tracker/internal/utils/pagination"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests related to transactions.
type transactionHandler struct {
	ledger portssvc.LedgerSvc
	reader portssvc.TransactionReaderSvc
}

// registerTransactionRoutes registers routes related to transactions.
func registerTransactionRoutes(rg *gin.RouterGroup, ledger portssvc.LedgerSvc, reader portssvc.TransactionReaderSvc) {
	h := &transactionHandler{ledger: ledger, reader: reader}

	txns := rg.Group("/transactions")
	{
		txns.GET("", h.listTransactions)
		txns.GET("/summary", h.getSummary)
		txns.GET("/categories", h.listCategoryNames)
		txns.GET("/:id", h.getTransaction)
		txns.POST("", h.createTransaction)
		txns.PUT("/:id", h.updateTransaction)
		txns.DELETE("/:id", h.deleteTransaction)
	}
}

// listTransactions godoc
// @Summary List transactions
// @Description Lists transactions newest first, optionally filtered by type, category substring and an inclusive date range
// @Tags transactions
// @Produce json
// @Param type query string false "Income or Expense"
// @Param category query string false "Case-insensitive category substring"
// @Param fromDate query string false "YYYY-MM-DD"
// @Param toDate query string false "YYYY-MM-DD (inclusive)"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(50)
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}

	kind, err := parseKind(params.Type)
	if err != nil {
		respondWithError(c, err, "Failed to list transactions")
		return
	}
	from, to, err := parseDateRange(params.FromDate, params.ToDate)
	if err != nil {
		respondWithError(c, err, "Failed to list transactions")
		return
	}
	page := pagination.NewPage(params.Page, params.PageSize)

	txns, err := h.reader.ListTransactions(c.Request.Context(), domain.TransactionFilter{
		Kind:     kind,
		Category: params.Category,
		FromDate: from,
		ToDate:   to,
		Limit:    page.Limit(),
		Offset:   page.Offset(),
	})
	if err != nil {
		respondWithError(c, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.ToListTransactionResponse(txns),
		Page:         page.Number,
		PageSize:     page.Size,
	})
}

// getSummary godoc
// @Summary Income and expense totals
// @Tags transactions
// @Produce json
// @Param fromDate query string false "YYYY-MM-DD"
// @Param toDate query string false "YYYY-MM-DD (inclusive)"
// @Success 200 {object} dto.SummaryResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/summary [get]
func (h *transactionHandler) getSummary(c *gin.Context) {
	var params dto.SummaryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}
	from, to, err := parseDateRange(params.FromDate, params.ToDate)
	if err != nil {
		respondWithError(c, err, "Failed to compute summary")
		return
	}

	summary, err := h.reader.GetSummary(c.Request.Context(), from, to)
	if err != nil {
		respondWithError(c, err, "Failed to compute summary")
		return
	}
	c.JSON(http.StatusOK, dto.ToSummaryResponse(summary))
}

// listCategoryNames godoc
// @Summary Distinct categories used by transactions
// @Tags transactions
// @Produce json
// @Success 200 {object} dto.CategoryNamesResponse
// @Security BearerAuth
// @Router /transactions/categories [get]
func (h *transactionHandler) listCategoryNames(c *gin.Context) {
	names, err := h.reader.ListCategoryNames(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to list categories")
		return
	}
	c.JSON(http.StatusOK, dto.CategoryNamesResponse{Categories: names})
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	txn, err := h.reader.GetTransactionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// createTransaction godoc
// @Summary Record a transaction
// @Description Records an income or expense and applies it to the account balance
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.CreateTransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	txn, account, err := h.ledger.CreateTransaction(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err, "Failed to create transaction")
		return
	}

	logger.Info("Transaction created", slog.String("transaction_id", txn.TransactionID), slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.CreateTransactionResponse{
		Transaction:    dto.ToTransactionResponse(&domain.TransactionDetail{Transaction: *txn, AccountName: account.Name, AccountIcon: account.Icon}),
		AccountBalance: account.Balance,
	})
}

// updateTransaction godoc
// @Summary Update a transaction
// @Description Reverses the stored effect and applies the new one
// @Tags transactions
// @Accept json
// @Param id path string true "Transaction ID"
// @Param transaction body dto.UpdateTransactionRequest true "New transaction state"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/{id} [put]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	if _, err := h.ledger.UpdateTransaction(c.Request.Context(), c.Param("id"), req); err != nil {
		respondWithError(c, err, "Failed to update transaction")
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Param id path string true "Transaction ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/{id} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	if err := h.ledger.DeleteTransaction(c.Request.Context(), c.Param("id")); err != nil {
		respondWithError(c, err, "Failed to delete transaction")
		return
	}
	c.Status(http.StatusNoContent)
}
