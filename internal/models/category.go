package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryOther is the sentinel category. Transactions filed under it must
// carry a description, and aggregation falls back to this label for
// transactions without a resolvable category.
const CategoryOther = "Other"

// Category types. A category of type both may be used for credits and debits.
const (
	CategoryTypeCredit = "credit"
	CategoryTypeDebit  = "debit"
	CategoryTypeBoth   = "both"
)

// Category is static reference data applied to transactions.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Type      string    `gorm:"type:varchar(10);not null;default:'both'" json:"type"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Type == "" {
		c.Type = CategoryTypeBoth
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return nil
}

func (c *Category) TableName() string {
	return "categories"
}

// IsOther reports whether this is the sentinel category.
func (c *Category) IsOther() bool {
	return c.Name == CategoryOther
}

// AppliesTo reports whether the category may be used for the given
// transaction type.
func (c *Category) AppliesTo(transactionType string) bool {
	return c.Type == CategoryTypeBoth || c.Type == transactionType
}

// IsValidCategoryType checks if a category type string is valid
func IsValidCategoryType(categoryType string) bool {
	switch categoryType {
	case CategoryTypeCredit, CategoryTypeDebit, CategoryTypeBoth:
		return true
	default:
		return false
	}
}

// DefaultCategories is the reference set seeded into a fresh database.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Salary", Type: CategoryTypeCredit},
		{Name: "Business", Type: CategoryTypeCredit},
		{Name: "Gift", Type: CategoryTypeCredit},
		{Name: "Food", Type: CategoryTypeDebit},
		{Name: "Groceries", Type: CategoryTypeDebit},
		{Name: "Utilities", Type: CategoryTypeDebit},
		{Name: "Transport", Type: CategoryTypeDebit},
		{Name: "Education", Type: CategoryTypeDebit},
		{Name: "Medical", Type: CategoryTypeDebit},
		{Name: "Festivals", Type: CategoryTypeDebit},
		{Name: CategoryOther, Type: CategoryTypeBoth},
	}
}
