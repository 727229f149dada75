package handlers

import (
	"log/slog"
	"net/http"

	"household-ledger/internal/dto"
	"household-ledger/internal/errors"
	"household-ledger/internal/services"

	"github.com/labstack/echo/v4"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService services.TransactionServiceInterface
	categoryService    services.CategoryServiceInterface
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(
	transactionService services.TransactionServiceInterface,
	categoryService services.CategoryServiceInterface,
) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		categoryService:    categoryService,
	}
}

// ListTransactions returns the history visible to the session, newest first
// @Summary List transactions
// @Description Members only ever see their own transactions; memberId is honoured for admins.
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param memberId query string false "Member ID or all"
// @Param year query int false "Calendar year"
// @Param startDate query string false "YYYY-MM-DD"
// @Param endDate query string false "YYYY-MM-DD"
// @Param type query string false "credit or debit"
// @Param limit query int false "Max rows (default 50, max 500)"
// @Success 200 {object} dto.ListTransactionsResponse
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	sess, err := getSession(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var query dto.TransactionQuery
	if err := c.Bind(&query); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid query parameters"))
	}

	if err := c.Validate(query); err != nil {
		return err
	}

	filters, err := services.ParseTransactionQuery(query)
	if err != nil {
		return SendServiceError(c, err)
	}

	resp, err := h.transactionService.History(c.Request().Context(), sess, filters)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

// CreateTransaction records a credit or debit
// @Summary Create transaction
// @Tags Transactions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateTransactionRequest true "Transaction"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} errors.ErrorResponse "TRANSACTION_002, TRANSACTION_003 or VALIDATION_*"
// @Failure 422 {object} errors.ErrorResponse "CATEGORY_002 - Category does not apply to this type"
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	sess, err := getSession(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	ctx := c.Request().Context()

	txn, err := h.transactionService.Create(ctx, sess, &req)
	if err != nil {
		return SendServiceError(c, err)
	}

	categoryName := ""
	if lookup, err := h.categoryService.Lookup(ctx); err != nil {
		slog.Warn("Failed to resolve category name", "trace_id", getTraceID(c), "error", err)
	} else {
		categoryName = lookup.Resolve(txn.CategoryID)
	}

	memberName := ""
	if txn.MemberID == sess.MemberID() {
		memberName = sess.Actor.Name
	}

	return c.JSON(http.StatusCreated, dto.NewTransactionResponse(txn, categoryName, memberName))
}

// DeleteTransaction removes a transaction the session may delete
// @Summary Delete transaction
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} errors.ErrorResponse "AUTH_005 - Not your transaction"
// @Failure 404 {object} errors.ErrorResponse "TRANSACTION_001 - Not found"
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	sess, err := getSession(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	id, err := getUUIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid transaction ID"))
	}

	if err := h.transactionService.Delete(c.Request().Context(), sess, id); err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "Transaction deleted"})
}
