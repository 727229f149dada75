package handlers

import (
	"fmt"

	"household-ledger/internal/session"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SessionContextKey is where the auth middleware stores the *session.Session
const SessionContextKey = "session"

// ErrUnauthorized is returned when the session context is missing or invalid
var ErrUnauthorized = fmt.Errorf("unauthorized")

// getSession extracts the authenticated session from context
func getSession(c echo.Context) (*session.Session, error) {
	sess, ok := c.Get(SessionContextKey).(*session.Session)
	if !ok || sess == nil {
		return nil, ErrUnauthorized
	}
	return sess, nil
}

// getUUIDParam parses a path parameter as a UUID
func getUUIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return id, nil
}
