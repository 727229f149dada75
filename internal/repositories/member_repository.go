package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"household-ledger/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberAlreadyExists = errors.New("member already exists")
)

// MemberRepository handles database operations for members
type MemberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *gorm.DB) MemberRepositoryInterface {
	return &MemberRepository{
		db: db,
	}
}

func (r *MemberRepository) Create(ctx context.Context, member *models.Member) error {
	if member == nil {
		return errors.New("member cannot be nil")
	}

	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		if isDuplicateKeyError(err) {
			return ErrMemberAlreadyExists
		}
		return fmt.Errorf("failed to create member: %w", err)
	}

	return nil
}

func (r *MemberRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	var member models.Member
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member by ID: %w", err)
	}

	return &member, nil
}

// GetByName looks a member up by login name. Surrounding whitespace is ignored.
func (r *MemberRepository) GetByName(ctx context.Context, name string) (*models.Member, error) {
	var member models.Member
	if err := r.db.WithContext(ctx).Where("name = ?", strings.TrimSpace(name)).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member by name: %w", err)
	}

	return &member, nil
}

// List returns every member, oldest first.
func (r *MemberRepository) List(ctx context.Context) ([]models.Member, error) {
	var members []models.Member
	if err := r.db.WithContext(ctx).Order("created_at ASC").Order("name ASC").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	return members, nil
}

func (r *MemberRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Member{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}

	return count, nil
}

func (r *MemberRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	if id == uuid.Nil {
		return errors.New("member ID cannot be nil")
	}

	if passwordHash == "" {
		return errors.New("password hash cannot be empty")
	}

	result := r.db.WithContext(ctx).Model(&models.Member{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"updated_at":    time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update password hash: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}

	return nil
}

// DeleteWithTransactions removes a member and every transaction recorded
// against them in one database transaction.
func (r *MemberRepository) DeleteWithTransactions(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("member_id = ?", id).Delete(&models.Transaction{}).Error; err != nil {
			return fmt.Errorf("failed to delete member transactions: %w", err)
		}

		result := tx.Where("id = ?", id).Delete(&models.Member{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete member: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			return ErrMemberNotFound
		}

		return nil
	})
}

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	errStr := err.Error()
	return strings.Contains(errStr, "duplicate key") ||
		strings.Contains(errStr, "UNIQUE constraint") ||
		strings.Contains(errStr, "23505")
}
