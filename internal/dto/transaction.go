package dto

import (
	"time"

	"household-ledger/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultHistoryLimit caps the history list when no limit is given
const DefaultHistoryLimit = 50

// MaxHistoryLimit is the largest accepted limit
const MaxHistoryLimit = 500

// TransactionQuery contains filtering options for transaction queries.
// Dates use YYYY-MM-DD. MemberID accepts a UUID or "all".
type TransactionQuery struct {
	MemberID  string `query:"memberId" validate:"omitempty,member_filter"`
	StartDate string `query:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Year      int    `query:"year" validate:"omitempty,min=1900,max=9999"`
	Type      string `query:"type" validate:"omitempty,transaction_type"`
	Limit     int    `query:"limit" validate:"omitempty,min=1,max=500"`
}

// CreateTransactionRequest records a credit or debit. MemberID is honoured
// only for admins.
type CreateTransactionRequest struct {
	MemberID        *uuid.UUID      `json:"memberId,omitempty"`
	Type            string          `json:"type" validate:"required,transaction_type"`
	Amount          decimal.Decimal `json:"amount" validate:"positive_amount"`
	CategoryID      *uuid.UUID      `json:"categoryId"`
	Description     string          `json:"description" validate:"max=200"`
	TransactionDate string          `json:"transactionDate" validate:"omitempty,datetime=2006-01-02"`
}

// TransactionResponse is one transaction. MemberName is filled for admins.
type TransactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	MemberID        uuid.UUID       `json:"memberId"`
	MemberName      string          `json:"memberName,omitempty"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	CategoryID      *uuid.UUID      `json:"categoryId,omitempty"`
	CategoryName    string          `json:"categoryName"`
	Description     string          `json:"description,omitempty"`
	TransactionDate string          `json:"transactionDate"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ListTransactionsResponse represents the response for listing transactions
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Count        int                   `json:"count"`
}

// NewTransactionResponse converts a transaction model
func NewTransactionResponse(t *models.Transaction, categoryName, memberName string) TransactionResponse {
	return TransactionResponse{
		ID:              t.ID,
		MemberID:        t.MemberID,
		MemberName:      memberName,
		Type:            t.Type,
		Amount:          t.Amount,
		CategoryID:      t.CategoryID,
		CategoryName:    categoryName,
		Description:     t.DescriptionText(),
		TransactionDate: t.TransactionDate.Format(models.DateLayout),
		CreatedAt:       t.CreatedAt,
	}
}
