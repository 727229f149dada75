package repositories

import (
	"context"
	"errors"
	"fmt"

	"household-ledger/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrCategoryNotFound = errors.New("category not found")

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepositoryInterface {
	return &categoryRepository{db: db}
}

// List returns categories ordered by name. A non-empty transactionType keeps
// only categories usable for that type, which includes type both.
func (r *categoryRepository) List(ctx context.Context, transactionType string) ([]models.Category, error) {
	var categories []models.Category

	query := r.db.WithContext(ctx).Model(&models.Category{})
	if transactionType != "" {
		query = query.Where("type = ? OR type = ?", transactionType, models.CategoryTypeBoth)
	}

	if err := query.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category by ID: %w", err)
	}

	return &category, nil
}
