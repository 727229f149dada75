package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
)

// ErrorResponse is the envelope every failed API call returns:
//
//	{"error": {"code": "TRANSACTION_002", "message": "...", "details": ["amount: ..."], "trace_id": "..."}}
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the detailed error information
type ErrorDetail struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	TraceID string   `json:"trace_id"`
}

// ErrorOption configures an ErrorResponse
type ErrorOption func(*ErrorResponse)

// WithDetails replaces the detail lines
func WithDetails(details ...string) ErrorOption {
	return func(er *ErrorResponse) {
		er.Error.Details = details
	}
}

// WithField appends a "field: message" detail line.
func WithField(field, message string) ErrorOption {
	return func(er *ErrorResponse) {
		er.Error.Details = append(er.Error.Details, fieldDetail(field, message))
	}
}

// WithMessage overrides the default message for the error code
func WithMessage(message string) ErrorOption {
	return func(er *ErrorResponse) {
		er.Error.Message = message
	}
}

// NewErrorResponse builds the envelope for code with its default message.
func NewErrorResponse(code ErrorCode, traceID string, opts ...ErrorOption) *ErrorResponse {
	response := &ErrorResponse{
		Error: ErrorDetail{
			Code:    string(code),
			Message: GetErrorMessage(code),
			TraceID: traceID,
			Details: []string{},
		},
	}

	for _, opt := range opts {
		opt(response)
	}

	return response
}

// NewValidationError reports several rejected fields at once. Details are
// sorted by field name so the output does not depend on map order.
func NewValidationError(fieldErrors map[string]string, traceID string) *ErrorResponse {
	fields := make([]string, 0, len(fieldErrors))
	for field := range fieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	opts := make([]ErrorOption, 0, len(fields))
	for _, field := range fields {
		opts = append(opts, WithField(field, fieldErrors[field]))
	}

	return NewErrorResponse(ValidationGeneral, traceID, opts...)
}

// WrapSystemError hides err behind SYSTEM_001. The cause is handed back for
// server-side logging only.
func WrapSystemError(err error, traceID string) (*ErrorResponse, error) {
	return NewErrorResponse(SystemInternalError, traceID), err
}

// Decode parses an error envelope from a response body. It reports false
// when body is not an envelope, for example an echo default error.
func Decode(body []byte) (*ErrorResponse, bool) {
	var response ErrorResponse
	if err := json.Unmarshal(body, &response); err != nil || response.Error.Code == "" {
		return nil, false
	}
	return &response, true
}

var httpStatuses = map[ErrorCode]int{
	ValidationGeneral:              http.StatusBadRequest,
	ValidationRequiredField:        http.StatusBadRequest,
	ValidationInvalidFormat:        http.StatusBadRequest,
	ValidationOutOfRange:           http.StatusBadRequest,
	ValidationPasswordTooShort:     http.StatusBadRequest,
	ValidationPasswordMismatch:     http.StatusBadRequest,
	ValidationInvalidDate:          http.StatusBadRequest,
	MemberInvalidID:                http.StatusBadRequest,
	TransactionInvalidAmount:       http.StatusBadRequest,
	TransactionDescriptionRequired: http.StatusBadRequest,
	TransactionInvalidType:         http.StatusBadRequest,

	AuthInvalidCredentials: http.StatusUnauthorized,
	AuthMissingToken:       http.StatusUnauthorized,
	AuthExpiredToken:       http.StatusUnauthorized,
	AuthInvalidTokenFormat: http.StatusUnauthorized,

	AuthInsufficientPermission: http.StatusForbidden,
	MemberCannotDeleteSelf:     http.StatusForbidden,

	MemberNotFound:      http.StatusNotFound,
	CategoryNotFound:    http.StatusNotFound,
	TransactionNotFound: http.StatusNotFound,
	SystemRouteNotFound: http.StatusNotFound,

	MemberAlreadyExists:   http.StatusConflict,
	SetupAlreadyCompleted: http.StatusConflict,

	CategoryTypeMismatch:        http.StatusUnprocessableEntity,
	TransactionValidationFailed: http.StatusUnprocessableEntity,

	SystemRateLimitExceeded:  http.StatusTooManyRequests,
	SystemServiceUnavailable: http.StatusServiceUnavailable,
}

// GetHTTPStatus maps code to its status. Unknown codes are 500.
func GetHTTPStatus(code ErrorCode) int {
	if status, ok := httpStatuses[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// GetHTTPStatus returns the status for the response's code.
func (er *ErrorResponse) GetHTTPStatus() int {
	return GetHTTPStatus(ErrorCode(er.Error.Code))
}

func fieldDetail(field, message string) string {
	return fmt.Sprintf("%s: %s", field, message)
}
