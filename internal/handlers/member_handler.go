package handlers

import (
	"net/http"

	"household-ledger/internal/dto"
	"household-ledger/internal/errors"
	"household-ledger/internal/services"

	"github.com/labstack/echo/v4"
)

// MemberHandler handles household member administration. Every route is admin only.
type MemberHandler struct {
	memberService services.MemberServiceInterface
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService services.MemberServiceInterface) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// ListMembers returns every member of the household
// @Summary List members
// @Tags Members
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.MemberListResponse
// @Failure 403 {object} errors.ErrorResponse "AUTH_005 - Admin only"
// @Router /members [get]
func (h *MemberHandler) ListMembers(c echo.Context) error {
	sess, err := getSession(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	members, err := h.memberService.List(c.Request().Context(), sess)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewMemberListResponse(members))
}

// CreateMember adds a member
// @Summary Create member
// @Tags Members
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateMemberRequest true "Member details"
// @Success 201 {object} dto.MemberResponse
// @Failure 409 {object} errors.ErrorResponse "MEMBER_002 - Name already taken"
// @Router /members [post]
func (h *MemberHandler) CreateMember(c echo.Context) error {
	sess, err := getSession(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateMemberRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	member, err := h.memberService.Create(c.Request().Context(), sess, &req)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, dto.NewMemberResponse(member))
}

// ResetPassword sets a new password for a member
// @Summary Reset member password
// @Tags Members
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Member ID"
// @Param request body dto.ResetPasswordRequest true "New password"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} errors.ErrorResponse "MEMBER_001 - Member not found"
// @Router /members/{id}/password [put]
func (h *MemberHandler) ResetPassword(c echo.Context) error {
	sess, err := getSession(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	memberID, err := getUUIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.MemberInvalidID)
	}

	var req dto.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	if err := h.memberService.ResetPassword(c.Request().Context(), sess, memberID, req.Password); err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "Password updated"})
}

// DeleteMember removes a member and their transactions
// @Summary Delete member
// @Tags Members
// @Security BearerAuth
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} errors.ErrorResponse "MEMBER_004 - Cannot delete yourself"
// @Router /members/{id} [delete]
func (h *MemberHandler) DeleteMember(c echo.Context) error {
	sess, err := getSession(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	memberID, err := getUUIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.MemberInvalidID)
	}

	if err := h.memberService.Delete(c.Request().Context(), sess, memberID); err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "Member deleted"})
}
