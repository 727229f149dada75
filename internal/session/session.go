// Package session holds the authenticated actor and the capability rules
// that decide which records an actor may see or change.
package session

import (
	"household-ledger/internal/models"

	"github.com/google/uuid"
)

// Action names an operation gated by role.
type Action string

const (
	ActionViewTransactions  Action = "transactions.view"
	ActionCreateTransaction Action = "transactions.create"
	ActionDeleteTransaction Action = "transactions.delete"
	ActionViewAllMembers    Action = "members.view_all"
	ActionManageMembers     Action = "members.manage"
)

// Actor is the subset of a member carried by a session.
type Actor struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Role string    `json:"role"`
}

// Session is the authenticated actor plus the bearer token used to reach
// the ledger API. Token is empty on the server side.
type Session struct {
	Actor Actor  `json:"actor"`
	Token string `json:"token,omitempty"`
}

// New builds a session for a verified member.
func New(id uuid.UUID, name, role, token string) *Session {
	return &Session{
		Actor: Actor{ID: id, Name: name, Role: role},
		Token: token,
	}
}

// IsAdmin reports whether the actor has the admin role.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Actor.Role == models.RoleAdmin
}

// MemberID returns the actor's member id, or uuid.Nil for a nil session.
func (s *Session) MemberID() uuid.UUID {
	if s == nil {
		return uuid.Nil
	}
	return s.Actor.ID
}

// Can reports whether the session may perform action on records owned by
// ownerID. ownerID is ignored for actions that are not record scoped.
func (s *Session) Can(action Action, ownerID uuid.UUID) bool {
	if s == nil || s.Actor.ID == uuid.Nil {
		return false
	}

	switch action {
	case ActionViewAllMembers, ActionManageMembers:
		return s.IsAdmin()
	case ActionViewTransactions, ActionCreateTransaction, ActionDeleteTransaction:
		return s.IsAdmin() || ownerID == s.Actor.ID
	default:
		return false
	}
}

// ScopeMember resolves the member filter a request may actually use.
// Non-admin sessions always get their own id regardless of what was asked.
// Admin sessions get the requested member, or nil (every member) when no
// member was requested.
func (s *Session) ScopeMember(requested *uuid.UUID) *uuid.UUID {
	if s == nil {
		id := uuid.Nil
		return &id
	}

	if !s.IsAdmin() {
		id := s.Actor.ID
		return &id
	}

	if requested == nil || *requested == uuid.Nil {
		return nil
	}

	id := *requested
	return &id
}

// Valid reports whether the actor fields are well formed.
func (a Actor) Valid() bool {
	return a.ID != uuid.Nil && a.Name != "" && models.IsValidRole(a.Role)
}
