package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"

	MaxMemberNameLength = 50
)

var (
	ErrMemberNameRequired = errors.New("member name is required")
	ErrMemberNameTooLong  = fmt.Errorf("member name must not exceed %d characters", MaxMemberNameLength)
)

// Member is a household account holder. Name is the login key.
type Member struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name         string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         string    `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = now
	}

	if m.Role == "" {
		m.Role = RoleMember
	}

	return m.Validate()
}

func (m *Member) Validate() error {
	name := strings.TrimSpace(m.Name)
	if name == "" {
		return ErrMemberNameRequired
	}

	if utf8.RuneCountInString(name) > MaxMemberNameLength {
		return ErrMemberNameTooLong
	}

	if !IsValidRole(m.Role) {
		return fmt.Errorf("invalid role: %s", m.Role)
	}

	return nil
}

func (m *Member) IsAdmin() bool {
	return m.Role == RoleAdmin
}

func (m *Member) TableName() string {
	return "members"
}

// IsValidRole reports whether role is one of the known member roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleMember:
		return true
	default:
		return false
	}
}
