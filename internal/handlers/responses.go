package handlers

import (
	"log/slog"
	"net/http"

	"retail-ledger/internal/errors"
	"retail-ledger/internal/validation"

	"github.com/labstack/echo/v4"
)

// Handlers answer errors through SendError (4xx and business rule
// violations) or SendSystemError (anything that must not leak detail).
// Never return echo.NewHTTPError from a handler.

// TraceIDContextKey matches the key the RequestID middleware stores under
const TraceIDContextKey = "trace_id"

type ErrorResponse = errors.ErrorResponse

func getTraceID(c echo.Context) string {
	traceID, _ := c.Get(TraceIDContextKey).(string)
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
	errorResponse, internalErr := errors.WrapSystemError(err, traceID)
	slog.ErrorContext(c.Request().Context(), "Request failed with internal error",
		"trace_id", traceID,
		"path", c.Path(),
		"method", c.Request().Method,
		"error", internalErr,
	)
	return c.JSON(http.StatusInternalServerError, errorResponse)
}

// sendValidationError renders validator failures as VALIDATION_001 with one detail per field
func sendValidationError(c echo.Context, err error) error {
	return SendError(c, errors.ValidationGeneral, errors.WithDetails(validation.Details(err)...))
}
