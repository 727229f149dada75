package dto

import "household-ledger/internal/models"

// CreateMemberRequest adds a member to the household
type CreateMemberRequest struct {
	Name     string `json:"name" validate:"required,max=50"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,member_role"`
}

// ResetPasswordRequest sets a new password for a member
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// MemberListResponse lists members
type MemberListResponse struct {
	Members []MemberResponse `json:"members"`
}

// NewMemberListResponse converts member models
func NewMemberListResponse(members []models.Member) MemberListResponse {
	resp := MemberListResponse{Members: make([]MemberResponse, 0, len(members))}
	for i := range members {
		resp.Members = append(resp.Members, NewMemberResponse(&members[i]))
	}
	return resp
}
