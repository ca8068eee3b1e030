package errors

import (
	"fmt"
	"net/http"
	"sort"
)

// ErrorResponse is the envelope every failed API call answers with
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	TraceID string   `json:"trace_id"`
}

// ErrorOption customizes a response built by NewErrorResponse
type ErrorOption func(*ErrorResponse)

// WithDetails replaces the detail lines of the response
func WithDetails(details ...string) ErrorOption {
	return func(er *ErrorResponse) {
		er.Error.Details = details
	}
}

// WithMessage overrides the default message for the error code
func WithMessage(message string) ErrorOption {
	return func(er *ErrorResponse) {
		er.Error.Message = message
	}
}

// httpStatuses maps each code to the status it is served with.
// Codes missing from the table are served as 500.
var httpStatuses = map[ErrorCode]int{
	ValidationGeneral:       http.StatusBadRequest,
	ValidationRequiredField: http.StatusBadRequest,
	ValidationInvalidFormat: http.StatusBadRequest,
	ValidationOutOfRange:    http.StatusBadRequest,

	AccountNotFound:        http.StatusNotFound,
	AccountInvalidType:     http.StatusBadRequest,
	AccountInvalidStrategy: http.StatusBadRequest,
	AccountNotSavings:      http.StatusUnprocessableEntity,

	TransactionNotFound:            http.StatusNotFound,
	TransactionInvalidAmount:       http.StatusBadRequest,
	TransactionInsufficientFunds:   http.StatusUnprocessableEntity,
	TransactionConcurrencyConflict: http.StatusConflict,

	TransferSameAccount:         http.StatusBadRequest,
	TransferNotFound:            http.StatusNotFound,
	TransferIdempotencyKeyReuse: http.StatusConflict,

	SystemInternalError:      http.StatusInternalServerError,
	SystemDatabaseError:      http.StatusInternalServerError,
	SystemServiceUnavailable: http.StatusServiceUnavailable,
	SystemRequestTimeout:     http.StatusGatewayTimeout,
	SystemRateLimitExceeded:  http.StatusTooManyRequests,
	SystemRouteNotFound:      http.StatusNotFound,
}

// NewErrorResponse builds the envelope for code with its default message
func NewErrorResponse(code ErrorCode, traceID string, opts ...ErrorOption) *ErrorResponse {
	response := &ErrorResponse{
		Error: ErrorDetail{
			Code:    string(code),
			Message: GetErrorMessage(code),
			TraceID: traceID,
		},
	}

	for _, opt := range opts {
		opt(response)
	}
	return response
}

// NewValidationError renders field errors as sorted "field: message" details
func NewValidationError(fieldErrors map[string]string, traceID string) *ErrorResponse {
	details := make([]string, 0, len(fieldErrors))
	for field, message := range fieldErrors {
		details = append(details, fmt.Sprintf("%s: %s", field, message))
	}
	sort.Strings(details)

	return NewErrorResponse(ValidationGeneral, traceID, WithDetails(details...))
}

// WrapSystemError hides err behind SYSTEM_001. The caller gets err back
// untouched so it can be logged server side.
func WrapSystemError(err error, traceID string) (*ErrorResponse, error) {
	return NewErrorResponse(SystemInternalError, traceID), err
}

// GetHTTPStatus returns the status code served for code
func GetHTTPStatus(code ErrorCode) int {
	if status, ok := httpStatuses[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func (er *ErrorResponse) GetHTTPStatus() int {
	return GetHTTPStatus(ErrorCode(er.Error.Code))
}

// IsServerError reports whether the response is served with a 5xx status
func (er *ErrorResponse) IsServerError() bool {
	return er.GetHTTPStatus() >= http.StatusInternalServerError
}

func (er *ErrorResponse) String() string {
	return fmt.Sprintf("[%s] %s (trace: %s)", er.Error.Code, er.Error.Message, er.Error.TraceID)
}
