package errors

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Authentication error codes (AUTH_*)
const (
	AuthInvalidCredentials     ErrorCode = "AUTH_001"
	AuthMissingToken           ErrorCode = "AUTH_002"
	AuthExpiredToken           ErrorCode = "AUTH_003"
	AuthInvalidTokenFormat     ErrorCode = "AUTH_004"
	AuthInsufficientPermission ErrorCode = "AUTH_005"
)

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral          ErrorCode = "VALIDATION_001"
	ValidationRequiredField    ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat    ErrorCode = "VALIDATION_003"
	ValidationOutOfRange       ErrorCode = "VALIDATION_004"
	ValidationPasswordTooShort ErrorCode = "VALIDATION_005"
	ValidationPasswordMismatch ErrorCode = "VALIDATION_006"
	ValidationInvalidDate      ErrorCode = "VALIDATION_007"
)

// Member error codes (MEMBER_*)
const (
	MemberNotFound         ErrorCode = "MEMBER_001"
	MemberAlreadyExists    ErrorCode = "MEMBER_002"
	MemberInvalidID        ErrorCode = "MEMBER_003"
	MemberCannotDeleteSelf ErrorCode = "MEMBER_004"
)

// Category error codes (CATEGORY_*)
const (
	CategoryNotFound     ErrorCode = "CATEGORY_001"
	CategoryTypeMismatch ErrorCode = "CATEGORY_002"
)

// Transaction error codes (TRANSACTION_*)
const (
	TransactionNotFound            ErrorCode = "TRANSACTION_001"
	TransactionInvalidAmount       ErrorCode = "TRANSACTION_002"
	TransactionDescriptionRequired ErrorCode = "TRANSACTION_003"
	TransactionInvalidType         ErrorCode = "TRANSACTION_004"
	TransactionValidationFailed    ErrorCode = "TRANSACTION_005"
)

// Setup error codes (SETUP_*)
const (
	SetupAlreadyCompleted ErrorCode = "SETUP_001"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemDatabaseError      ErrorCode = "SYSTEM_002"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemConfigurationError ErrorCode = "SYSTEM_004"
	SystemUnexpectedError    ErrorCode = "SYSTEM_005"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_006"
	SystemRouteNotFound      ErrorCode = "SYSTEM_007"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	// Authentication errors
	AuthInvalidCredentials:     "Incorrect name or password",
	AuthMissingToken:           "Authorization token is required",
	AuthExpiredToken:           "Authorization token has expired",
	AuthInvalidTokenFormat:     "Invalid authorization token format",
	AuthInsufficientPermission: "Insufficient permissions to access this resource",

	// Validation errors
	ValidationGeneral:          "Validation failed",
	ValidationRequiredField:    "Required field is missing",
	ValidationInvalidFormat:    "Invalid field format",
	ValidationOutOfRange:       "Field value is out of allowed range",
	ValidationPasswordTooShort: "Password must be at least 4 characters",
	ValidationPasswordMismatch: "Passwords do not match",
	ValidationInvalidDate:      "Invalid date format or range",

	// Member errors
	MemberNotFound:         "Member not found",
	MemberAlreadyExists:    "A member with this name already exists",
	MemberInvalidID:        "Invalid member ID format",
	MemberCannotDeleteSelf: "Admins cannot delete their own account",

	// Category errors
	CategoryNotFound:     "Category not found",
	CategoryTypeMismatch: "Category cannot be used for this transaction type",

	// Transaction errors
	TransactionNotFound:            "Transaction not found",
	TransactionInvalidAmount:       "Amount must be greater than zero",
	TransactionDescriptionRequired: "Description is required for the Other category",
	TransactionInvalidType:         "Invalid transaction type",
	TransactionValidationFailed:    "Transaction validation failed",

	// Setup errors
	SetupAlreadyCompleted: "Setup has already been completed",

	// System errors
	SystemInternalError:      "An unexpected error occurred. Please contact support with trace ID",
	SystemDatabaseError:      "Database connection error",
	SystemServiceUnavailable: "Service temporarily unavailable",
	SystemConfigurationError: "System configuration error",
	SystemUnexpectedError:    "An unexpected error occurred",
	SystemRateLimitExceeded:  "Rate limit exceeded. Please try again later",
	SystemRouteNotFound:      "Resource not found",
}

// GetErrorMessage returns the default message for a given error code
// If the error code is not found, it returns a generic error message
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
