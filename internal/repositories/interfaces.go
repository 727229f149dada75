package repositories

import (
	"context"

	"household-ledger/internal/models"

	"github.com/google/uuid"
)

// MemberRepositoryInterface defines the contract for member repository operations
type MemberRepositoryInterface interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Member, error)
	GetByName(ctx context.Context, name string) (*models.Member, error)
	List(ctx context.Context) ([]models.Member, error)
	Count(ctx context.Context) (int64, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error
	DeleteWithTransactions(ctx context.Context, id uuid.UUID) error
}

// CategoryRepositoryInterface defines the contract for category repository operations
type CategoryRepositoryInterface interface {
	List(ctx context.Context, transactionType string) ([]models.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

// TransactionRepositoryInterface defines the contract for transaction repository operations
type TransactionRepositoryInterface interface {
	Create(ctx context.Context, transaction *models.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	List(ctx context.Context, filters models.TransactionFilters) ([]models.Transaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BlacklistedTokenRepositoryInterface defines the contract for blacklisted token repository operations
type BlacklistedTokenRepositoryInterface interface {
	Create(ctx context.Context, token *models.BlacklistedToken) error
	GetByJTI(ctx context.Context, jti string) (*models.BlacklistedToken, error)
	DeleteExpired(ctx context.Context) (int64, error)
}
