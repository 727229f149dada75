package dto

import (
	"time"

	"household-ledger/internal/models"

	"github.com/google/uuid"
)

// Auth Request DTOs

// LoginRequest contains login credentials
type LoginRequest struct {
	Name     string `json:"name" validate:"required,max=50"`
	Password string `json:"password" validate:"required"`
}

// SetupRequest creates the first admin of an empty household
type SetupRequest struct {
	Name            string `json:"name" validate:"required,max=50"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// Auth Response DTOs

// TokenResponse contains the access token
type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	TokenResponse
	Member MemberResponse `json:"member"`
}

// SessionResponse describes the authenticated actor
type SessionResponse struct {
	Member  MemberResponse `json:"member"`
	IsAdmin bool           `json:"isAdmin"`
}

// SetupStatusResponse tells a client whether first-run setup is pending
type SetupStatusResponse struct {
	NeedsSetup bool `json:"needsSetup"`
}

// MemberResponse is the public view of a member
type MemberResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewMemberResponse converts a member model
func NewMemberResponse(m *models.Member) MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		Name:      m.Name,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
	}
}
