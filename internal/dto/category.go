package dto

import (
	"household-ledger/internal/models"

	"github.com/google/uuid"
)

// CategoryQuery filters categories by transaction type
type CategoryQuery struct {
	Type string `query:"type" validate:"omitempty,transaction_type"`
}

// CategoryResponse is one category
type CategoryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Type string    `json:"type"`
}

// CategoryListResponse lists categories
type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// NewCategoryListResponse converts category models
func NewCategoryListResponse(categories []models.Category) CategoryListResponse {
	resp := CategoryListResponse{Categories: make([]CategoryResponse, 0, len(categories))}
	for _, c := range categories {
		resp.Categories = append(resp.Categories, CategoryResponse{ID: c.ID, Name: c.Name, Type: c.Type})
	}
	return resp
}
