package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"household-ledger/internal/dto"
	"household-ledger/internal/errors"
	"household-ledger/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandler handles first-run setup, login and logout
type AuthHandler struct {
	authService services.AuthServiceInterface
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService services.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// SetupStatus reports whether the household still needs its first admin
// @Summary Setup status
// @Tags Setup
// @Produce json
// @Success 200 {object} dto.SetupStatusResponse
// @Router /setup [get]
func (h *AuthHandler) SetupStatus(c echo.Context) error {
	needsSetup, err := h.authService.NeedsSetup(c.Request().Context())
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.SetupStatusResponse{NeedsSetup: needsSetup})
}

// Setup creates the first admin and signs them in
// @Summary Create the first admin
// @Tags Setup
// @Accept json
// @Produce json
// @Param request body dto.SetupRequest true "Admin name and password"
// @Success 201 {object} dto.LoginResponse
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_005 or VALIDATION_006"
// @Failure 409 {object} errors.ErrorResponse "SETUP_001 - Setup already completed"
// @Router /setup [post]
func (h *AuthHandler) Setup(c echo.Context) error {
	var req dto.SetupRequest

	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	resp, err := h.authService.Setup(c.Request().Context(), &req)
	if err != nil {
		return SendServiceError(c, err)
	}

	slog.Info("Household setup completed", "member_id", resp.Member.ID, "ip", c.RealIP())

	return c.JSON(http.StatusCreated, resp)
}

// Login handles member authentication
// @Summary Login
// @Description Authenticate with name and password and receive a JWT access token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} errors.ErrorResponse "AUTH_001 - Incorrect name or password"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest

	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	resp, err := h.authService.Login(c.Request().Context(), req.Name, req.Password)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

// Logout revokes the bearer token
// @Summary Logout
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} errors.ErrorResponse "AUTH_002 or AUTH_004"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return SendError(c, errors.AuthMissingToken)
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
		return SendError(c, errors.AuthInvalidTokenFormat)
	}

	if err := h.authService.Logout(c.Request().Context(), tokenParts[1]); err != nil {
		// Logout always succeeds for the caller.
		slog.Warn("Failed to revoke token on logout", "trace_id", getTraceID(c), "error", err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "Logout successful",
	})
}

// Session describes the authenticated member
// @Summary Current session
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.SessionResponse
// @Router /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	sess, err := getSession(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	return c.JSON(http.StatusOK, dto.SessionResponse{
		Member: dto.MemberResponse{
			ID:   sess.Actor.ID,
			Name: sess.Actor.Name,
			Role: sess.Actor.Role,
		},
		IsAdmin: sess.IsAdmin(),
	})
}
