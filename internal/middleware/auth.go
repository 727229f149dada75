package middleware

import (
	"household-ledger/internal/errors"
	"household-ledger/internal/handlers"
	"household-ledger/internal/models"
	"household-ledger/internal/services"
	"household-ledger/internal/session"

	"github.com/labstack/echo/v4"
)

// RequireAuth creates a middleware that turns the bearer token into a
// session. Revoked tokens and tokens of deleted members are rejected.
func RequireAuth(tokenService services.TokenServiceInterface, authService services.AuthServiceInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return handlers.SendError(c, errors.AuthMissingToken)
			}

			token, err := tokenService.ExtractTokenFromHeader(authHeader)
			if err != nil {
				return handlers.SendError(c, errors.AuthInvalidTokenFormat)
			}

			sess, err := authService.Authenticate(c.Request().Context(), token)
			if err != nil {
				return handlers.SendServiceError(c, err)
			}

			c.Set(handlers.SessionContextKey, sess)
			c.Set("member_id", sess.MemberID())
			c.Set("member_role", sess.Actor.Role)

			return next(c)
		}
	}
}

// RequireRole creates a middleware that requires one of the given roles
func RequireRole(requiredRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, ok := c.Get(handlers.SessionContextKey).(*session.Session)
			if !ok || sess == nil {
				return handlers.SendError(c, errors.AuthMissingToken)
			}

			for _, role := range requiredRoles {
				if sess.Actor.Role == role {
					return next(c)
				}
			}

			return handlers.SendError(c, errors.AuthInsufficientPermission)
		}
	}
}

// RequireAdmin is a convenience middleware that requires admin role
func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole(models.RoleAdmin)
}
