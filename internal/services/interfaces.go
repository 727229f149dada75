package services

import (
	"context"
	"io"
	"time"

	"household-ledger/internal/aggregation"
	"household-ledger/internal/dto"
	"household-ledger/internal/models"
	"household-ledger/internal/report"
	"household-ledger/internal/session"

	"github.com/google/uuid"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, name, password string) (*dto.LoginResponse, error)
	Logout(ctx context.Context, accessToken string) error
	Authenticate(ctx context.Context, accessToken string) (*session.Session, error)
	Setup(ctx context.Context, req *dto.SetupRequest) (*dto.LoginResponse, error)
	NeedsSetup(ctx context.Context) (bool, error)
}

type TokenServiceInterface interface {
	GenerateAccessToken(member *models.Member) (string, time.Time, error)
	ValidateAccessToken(tokenString string) (*models.CustomClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
	GetJTI(tokenString string) (string, error)
	GetTokenExpiry(tokenString string) (time.Time, error)
}

type PasswordServiceInterface interface {
	ValidatePassword(password string) error
	HashPassword(password string) (string, error)
	ComparePassword(password, hash string) bool
}

// MemberServiceInterface manages household members. Every operation is admin only.
type MemberServiceInterface interface {
	List(ctx context.Context, sess *session.Session) ([]models.Member, error)
	Create(ctx context.Context, sess *session.Session, req *dto.CreateMemberRequest) (*models.Member, error)
	ResetPassword(ctx context.Context, sess *session.Session, memberID uuid.UUID, password string) error
	Delete(ctx context.Context, sess *session.Session, memberID uuid.UUID) error
	Names(ctx context.Context, sess *session.Session) (map[uuid.UUID]string, error)
}

type CategoryServiceInterface interface {
	List(ctx context.Context, transactionType string) ([]models.Category, error)
	Lookup(ctx context.Context) (aggregation.CategoryLookup, error)
}

// TransactionServiceInterface reads and writes transactions within the session's scope.
type TransactionServiceInterface interface {
	List(ctx context.Context, sess *session.Session, query models.TransactionFilters) ([]models.Transaction, error)
	Create(ctx context.Context, sess *session.Session, req *dto.CreateTransactionRequest) (*models.Transaction, error)
	Delete(ctx context.Context, sess *session.Session, id uuid.UUID) error
	History(ctx context.Context, sess *session.Session, query models.TransactionFilters) (*dto.ListTransactionsResponse, error)
}

type ReportServiceInterface interface {
	Dashboard(ctx context.Context, sess *session.Session) (*dto.DashboardResponse, error)
	Overview(ctx context.Context, sess *session.Session, year int, memberFilter *uuid.UUID) (*dto.OverviewResponse, error)
	Build(ctx context.Context, sess *session.Session, year int, memberFilter *uuid.UUID) (*report.Document, error)
	Export(ctx context.Context, w io.Writer, sess *session.Session, year int, memberFilter *uuid.UUID) (*report.Document, error)
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}
