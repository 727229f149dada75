package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"household-ledger/internal/dto"
	"household-ledger/internal/events"
	"household-ledger/internal/models"
	"household-ledger/internal/repositories"
	"household-ledger/internal/session"

	"github.com/google/uuid"
)

// TransactionService reads and writes transactions on behalf of a session
type TransactionService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	categoryRepo    repositories.CategoryRepositoryInterface
	memberRepo      repositories.MemberRepositoryInterface
	notify          notifier
	logger          *slog.Logger
	now             func() time.Time
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	transactionRepo repositories.TransactionRepositoryInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
	memberRepo repositories.MemberRepositoryInterface,
	publisher events.Publisher,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) TransactionServiceInterface {
	n := newNotifier(publisher, metrics, logger)
	return &TransactionService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		memberRepo:      memberRepo,
		notify:          n,
		logger:          n.logger,
		now:             time.Now,
	}
}

// List returns transactions newest first. Members only ever see their own
// transactions, whatever member the query names.
func (s *TransactionService) List(ctx context.Context, sess *session.Session, query models.TransactionFilters) ([]models.Transaction, error) {
	if sess == nil {
		return nil, ErrUnauthenticated
	}

	query.MemberID = sess.ScopeMember(query.MemberID)

	transactions, err := s.transactionRepo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return transactions, nil
}

// Create validates and records a transaction. Admins may record for any
// existing member; everyone else records for themselves.
func (s *TransactionService) Create(ctx context.Context, sess *session.Session, req *dto.CreateTransactionRequest) (*models.Transaction, error) {
	if sess == nil {
		return nil, ErrUnauthenticated
	}

	txType := strings.ToLower(strings.TrimSpace(req.Type))
	if !models.IsValidTransactionType(txType) {
		return nil, newValidationError("type", KindInvalid, "type must be credit or debit")
	}

	// Stored with two decimal places; anything that rounds to zero is rejected here.
	amount := req.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, newValidationError("amount", KindInvalid, "amount must be at least 0.01")
	}

	if req.CategoryID == nil || *req.CategoryID == uuid.Nil {
		return nil, newValidationError("categoryId", KindRequired, "category is required")
	}

	category, err := s.categoryRepo.GetByID(ctx, *req.CategoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, newValidationError("categoryId", KindInvalid, ErrCategoryNotFound.Error())
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	if !category.AppliesTo(txType) {
		return nil, newValidationError("categoryId", KindCategoryMismatch,
			fmt.Sprintf("category %s cannot be used for %s transactions", category.Name, txType))
	}

	description := strings.TrimSpace(req.Description)
	if utf8.RuneCountInString(description) > models.MaxDescriptionLength {
		return nil, newValidationError("description", KindTooLong,
			fmt.Sprintf("description must not exceed %d characters", models.MaxDescriptionLength))
	}
	if category.IsOther() && description == "" {
		return nil, newValidationError("description", KindRequired, "description is required for the Other category")
	}

	date := models.NormalizeDate(s.now())
	if req.TransactionDate != "" {
		date, err = models.ParseDate(req.TransactionDate)
		if err != nil {
			return nil, newValidationError("transactionDate", KindInvalid, "transactionDate must be YYYY-MM-DD")
		}
	}

	memberID, err := s.targetMember(ctx, sess, req.MemberID)
	if err != nil {
		return nil, err
	}

	if !sess.Can(session.ActionCreateTransaction, memberID) {
		return nil, ErrForbidden
	}

	transaction := &models.Transaction{
		MemberID:        memberID,
		Type:            txType,
		Amount:          amount,
		CategoryID:      &category.ID,
		TransactionDate: date,
	}
	if description != "" {
		transaction.Description = &description
	}

	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.notify.publish(ctx, events.New(events.TransactionCreated, sess.MemberID(), transaction.ID, map[string]string{
		"memberId": memberID.String(),
		"type":     txType,
		"amount":   transaction.Amount.String(),
	}))
	s.notify.count("transaction_created", map[string]string{"type": txType})
	s.notify.metrics.RecordGauge("transaction_amount", transaction.Amount.InexactFloat64(), map[string]string{"type": txType})
	s.logger.InfoContext(ctx, "transaction recorded",
		"transaction_id", transaction.ID,
		"member_id", memberID,
		"actor_id", sess.MemberID(),
		"type", txType)

	return transaction, nil
}

// Delete removes a transaction the session is allowed to delete.
func (s *TransactionService) Delete(ctx context.Context, sess *session.Session, id uuid.UUID) error {
	if sess == nil {
		return ErrUnauthenticated
	}

	transaction, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("failed to get transaction: %w", err)
	}

	if !sess.Can(session.ActionDeleteTransaction, transaction.MemberID) {
		s.logger.WarnContext(ctx, "transaction delete denied",
			"transaction_id", id,
			"actor_id", sess.MemberID())
		return ErrForbidden
	}

	if err := s.transactionRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	s.notify.publish(ctx, events.New(events.TransactionDeleted, sess.MemberID(), id, map[string]string{
		"memberId": transaction.MemberID.String(),
	}))
	s.notify.count("transaction_deleted", nil)
	s.logger.InfoContext(ctx, "transaction deleted",
		"transaction_id", id,
		"actor_id", sess.MemberID())

	return nil
}

// History lists transactions for display, with category names and, for
// admins, member names. The list holds DefaultHistoryLimit rows unless the
// query asks otherwise.
func (s *TransactionService) History(ctx context.Context, sess *session.Session, query models.TransactionFilters) (*dto.ListTransactionsResponse, error) {
	if query.Limit <= 0 {
		query.Limit = dto.DefaultHistoryLimit
	}
	if query.Limit > dto.MaxHistoryLimit {
		query.Limit = dto.MaxHistoryLimit
	}

	transactions, err := s.List(ctx, sess, query)
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	categoryNames := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		categoryNames[c.ID] = c.Name
	}

	var memberNames map[uuid.UUID]string
	if sess.IsAdmin() {
		members, err := s.memberRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list members: %w", err)
		}
		memberNames = make(map[uuid.UUID]string, len(members))
		for _, m := range members {
			memberNames[m.ID] = m.Name
		}
	}

	resp := &dto.ListTransactionsResponse{
		Transactions: make([]dto.TransactionResponse, 0, len(transactions)),
		Count:        len(transactions),
	}
	for i := range transactions {
		t := &transactions[i]
		categoryName := models.CategoryOther
		if t.CategoryID != nil {
			if name, ok := categoryNames[*t.CategoryID]; ok {
				categoryName = name
			}
		}
		resp.Transactions = append(resp.Transactions, dto.NewTransactionResponse(t, categoryName, memberNames[t.MemberID]))
	}

	return resp, nil
}

func (s *TransactionService) targetMember(ctx context.Context, sess *session.Session, requested *uuid.UUID) (uuid.UUID, error) {
	if !sess.IsAdmin() || requested == nil || *requested == uuid.Nil || *requested == sess.MemberID() {
		return sess.MemberID(), nil
	}

	member, err := s.memberRepo.GetByID(ctx, *requested)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return uuid.Nil, newValidationError("memberId", KindInvalid, ErrMemberNotFound.Error())
		}
		return uuid.Nil, fmt.Errorf("failed to get member: %w", err)
	}

	return member.ID, nil
}
