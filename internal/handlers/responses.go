package handlers

import (
	stderrors "errors"
	"log/slog"
	"net/http"

	"household-ledger/internal/errors"
	"household-ledger/internal/services"

	"github.com/labstack/echo/v4"
)

// STANDARDIZED ERROR HANDLING PATTERNS
//
// All handlers must use the following standardized error response functions:
//
// 1. SendError - For client errors and business logic errors (4xx responses)
//    Use cases:
//    - Validation errors: SendError(c, errors.ValidationGeneral, errors.WithDetails("..."))
//    - Authorization errors: SendError(c, errors.AuthInsufficientPermission)
//    - Not found errors: SendError(c, errors.MemberNotFound)
//
// 2. SendServiceError - For errors returned by the service layer. Known
//    sentinels and validation errors map to their codes, anything else is
//    sent as a system error.
//
// 3. SendSystemError - For system/internal errors (500 responses)
//
// DO NOT USE:
//    - echo.NewHTTPError() - Use SendError or SendSystemError instead
//    - Direct c.JSON() for errors - Use the helper functions

const (
	// TraceIDContextKey is the context key for storing the trace ID
	TraceIDContextKey = "trace_id"
)

// SuccessResponse is returned by endpoints that have nothing but a message to report
type SuccessResponse struct {
	Message string `json:"message,omitempty"`
}

// ErrorResponse is an alias for the standardized error response type
type ErrorResponse = errors.ErrorResponse

// getTraceID extracts the trace ID from the Echo context
func getTraceID(c echo.Context) string {
	traceID, ok := c.Get(TraceIDContextKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// SendError sends a standardized error response with trace ID from context
func SendError(c echo.Context, code errors.ErrorCode, opts ...errors.ErrorOption) error {
	traceID := getTraceID(c)
	errorResponse := errors.NewErrorResponse(code, traceID, opts...)
	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}

// SendSystemError wraps a system error with generic message and logs the internal error
func SendSystemError(c echo.Context, err error) error {
	traceID := getTraceID(c)
	errorResponse, internal := errors.WrapSystemError(err, traceID)

	slog.Error("Request failed",
		"trace_id", traceID,
		"method", c.Request().Method,
		"path", c.Path(),
		"error", internal,
	)

	return c.JSON(http.StatusInternalServerError, errorResponse)
}

// SendServiceError maps a service error onto the API error codes.
func SendServiceError(c echo.Context, err error) error {
	var verr *services.ValidationError
	if stderrors.As(err, &verr) {
		return SendError(c, validationCode(verr), errors.WithField(verr.Field, verr.Message))
	}

	switch {
	case stderrors.Is(err, services.ErrInvalidCredentials):
		return SendError(c, errors.AuthInvalidCredentials)
	case stderrors.Is(err, services.ErrExpiredToken):
		return SendError(c, errors.AuthExpiredToken)
	case stderrors.Is(err, services.ErrTokenRevoked):
		return SendError(c, errors.AuthInvalidTokenFormat, errors.WithDetails("Token has been revoked"))
	case stderrors.Is(err, services.ErrUnauthenticated),
		stderrors.Is(err, services.ErrInvalidToken),
		stderrors.Is(err, services.ErrInvalidIssuer),
		stderrors.Is(err, services.ErrEmptyToken):
		return SendError(c, errors.AuthInvalidTokenFormat)
	case stderrors.Is(err, services.ErrForbidden):
		return SendError(c, errors.AuthInsufficientPermission)
	case stderrors.Is(err, services.ErrMemberNotFound):
		return SendError(c, errors.MemberNotFound)
	case stderrors.Is(err, services.ErrMemberAlreadyExists):
		return SendError(c, errors.MemberAlreadyExists)
	case stderrors.Is(err, services.ErrCannotDeleteSelf):
		return SendError(c, errors.MemberCannotDeleteSelf)
	case stderrors.Is(err, services.ErrCategoryNotFound):
		return SendError(c, errors.CategoryNotFound)
	case stderrors.Is(err, services.ErrTransactionNotFound):
		return SendError(c, errors.TransactionNotFound)
	case stderrors.Is(err, services.ErrSetupCompleted):
		return SendError(c, errors.SetupAlreadyCompleted)
	default:
		return SendSystemError(c, err)
	}
}

// validationCode picks the most specific code for a rejected field.
func validationCode(verr *services.ValidationError) errors.ErrorCode {
	switch verr.Kind {
	case services.KindMismatch:
		return errors.ValidationPasswordMismatch
	case services.KindCategoryMismatch:
		return errors.CategoryTypeMismatch
	}

	switch verr.Field {
	case "password":
		if verr.Kind == services.KindTooShort {
			return errors.ValidationPasswordTooShort
		}
	case "amount":
		return errors.TransactionInvalidAmount
	case "type":
		return errors.TransactionInvalidType
	case "description":
		if verr.Kind == services.KindRequired {
			return errors.TransactionDescriptionRequired
		}
	case "transactionDate", "startDate", "endDate":
		return errors.ValidationInvalidDate
	case "memberId":
		return errors.MemberInvalidID
	}

	switch verr.Kind {
	case services.KindRequired:
		return errors.ValidationRequiredField
	case services.KindTooLong, services.KindTooShort:
		return errors.ValidationOutOfRange
	default:
		return errors.ValidationGeneral
	}
}
