package services

import (
	"context"
	"fmt"

	"household-ledger/internal/aggregation"
	"household-ledger/internal/models"
	"household-ledger/internal/repositories"
)

// CategoryService reads the category reference data
type CategoryService struct {
	categoryRepo repositories.CategoryRepositoryInterface
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo repositories.CategoryRepositoryInterface) CategoryServiceInterface {
	return &CategoryService{categoryRepo: categoryRepo}
}

// List returns categories usable for transactionType, or all of them when
// transactionType is empty.
func (s *CategoryService) List(ctx context.Context, transactionType string) ([]models.Category, error) {
	if transactionType != "" && !models.IsValidTransactionType(transactionType) {
		return nil, newValidationError("type", KindInvalid, "type must be credit or debit")
	}

	categories, err := s.categoryRepo.List(ctx, transactionType)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, nil
}

// Lookup indexes every category by id.
func (s *CategoryService) Lookup(ctx context.Context) (aggregation.CategoryLookup, error) {
	categories, err := s.categoryRepo.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return aggregation.NewCategoryLookup(categories), nil
}
