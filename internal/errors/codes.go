package errors

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral       ErrorCode = "VALIDATION_001"
	ValidationRequiredField ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat ErrorCode = "VALIDATION_003"
	ValidationOutOfRange    ErrorCode = "VALIDATION_004"
)

// Account error codes (ACCOUNT_*)
const (
	AccountNotFound        ErrorCode = "ACCOUNT_001"
	AccountInvalidType     ErrorCode = "ACCOUNT_004"
	AccountInvalidStrategy ErrorCode = "ACCOUNT_006"
	AccountNotSavings      ErrorCode = "ACCOUNT_007"
)

// Transaction error codes (TRANSACTION_*)
const (
	TransactionNotFound            ErrorCode = "TRANSACTION_001"
	TransactionInvalidAmount       ErrorCode = "TRANSACTION_002"
	TransactionInsufficientFunds   ErrorCode = "TRANSACTION_003"
	TransactionConcurrencyConflict ErrorCode = "TRANSACTION_007"
)

// Transfer error codes (TRANSFER_*)
const (
	TransferSameAccount         ErrorCode = "TRANSFER_001"
	TransferNotFound            ErrorCode = "TRANSFER_002"
	TransferIdempotencyKeyReuse ErrorCode = "TRANSFER_007"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemDatabaseError      ErrorCode = "SYSTEM_002"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemRequestTimeout     ErrorCode = "SYSTEM_004"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_006"
	SystemRouteNotFound      ErrorCode = "SYSTEM_007"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	// Validation errors
	ValidationGeneral:       "Validation failed",
	ValidationRequiredField: "Required field is missing",
	ValidationInvalidFormat: "Invalid field format",
	ValidationOutOfRange:    "Field value is out of allowed range",

	// Account errors
	AccountNotFound:        "Account not found",
	AccountInvalidType:     "Invalid account type",
	AccountInvalidStrategy: "Interest strategy is not valid for this account type",
	AccountNotSavings:      "Interest can only be accrued on savings accounts",

	// Transaction errors
	TransactionNotFound:            "Transaction not found",
	TransactionInvalidAmount:       "Amount must be greater than zero",
	TransactionInsufficientFunds:   "Insufficient account balance for this transaction",
	TransactionConcurrencyConflict: "Account was modified by another request. Please retry",

	// Transfer errors
	TransferSameAccount:         "Cannot transfer to the same account",
	TransferNotFound:            "Transfer not found",
	TransferIdempotencyKeyReuse: "Idempotency key was already used for a different transfer",

	// System errors
	SystemInternalError:      "An unexpected error occurred. Please contact support with trace ID",
	SystemDatabaseError:      "Database connection error",
	SystemServiceUnavailable: "Service temporarily unavailable",
	SystemRequestTimeout:     "Request timed out before it could be completed",
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
