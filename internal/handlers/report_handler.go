package handlers

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"net/http"

	"household-ledger/internal/dto"
	"household-ledger/internal/errors"
	"household-ledger/internal/report"
	"household-ledger/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ReportHandler serves the dashboard, the yearly overview and the printable report
type ReportHandler struct {
	reportService services.ReportServiceInterface
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService services.ReportServiceInterface) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Dashboard returns the all-time summary for the session's scope
// @Summary Dashboard
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.DashboardResponse
// @Router /dashboard [get]
func (h *ReportHandler) Dashboard(c echo.Context) error {
	sess, err := getSession(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	resp, err := h.reportService.Dashboard(c.Request().Context(), sess)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

// Overview returns monthly series and category breakdowns for a year
// @Summary Yearly overview
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Param year query int false "Calendar year, defaults to the current year"
// @Param memberId query string false "Member ID or all (admins only)"
// @Success 200 {object} dto.OverviewResponse
// @Router /reports/overview [get]
func (h *ReportHandler) Overview(c echo.Context) error {
	sess, err := getSession(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	query, memberFilter, err := bindReportQuery(c)
	if err != nil {
		return sendQueryError(c, err)
	}

	resp, err := h.reportService.Overview(c.Request().Context(), sess, query.Year, memberFilter)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

// Export renders the printable HTML report
// @Summary Printable report
// @Tags Reports
// @Security BearerAuth
// @Produce html
// @Param year query int false "Calendar year, defaults to the current year"
// @Param memberId query string false "Member ID or all (admins only)"
// @Success 200 {string} string "HTML document"
// @Router /reports/export [get]
func (h *ReportHandler) Export(c echo.Context) error {
	sess, err := getSession(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	query, memberFilter, err := bindReportQuery(c)
	if err != nil {
		return sendQueryError(c, err)
	}

	var buf bytes.Buffer
	doc, err := h.reportService.Export(c.Request().Context(), &buf, sess, query.Year, memberFilter)
	if err != nil {
		return SendServiceError(c, err)
	}

	filename := report.Filename(doc)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", filename))

	return c.Blob(http.StatusOK, echo.MIMETextHTMLCharsetUTF8, buf.Bytes())
}

var errInvalidQuery = stderrors.New("invalid query parameters")

// bindReportQuery binds and validates the year and member filter.
func bindReportQuery(c echo.Context) (dto.ReportQuery, *uuid.UUID, error) {
	var query dto.ReportQuery
	if err := c.Bind(&query); err != nil {
		return query, nil, errInvalidQuery
	}

	if err := c.Validate(query); err != nil {
		return query, nil, err
	}

	memberFilter, err := services.ParseMemberFilter(query.MemberID)
	if err != nil {
		return query, nil, err
	}

	return query, memberFilter, nil
}

func sendQueryError(c echo.Context, err error) error {
	if stderrors.Is(err, errInvalidQuery) {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid query parameters"))
	}
	if services.IsValidationError(err) {
		return SendServiceError(c, err)
	}
	return err
}
