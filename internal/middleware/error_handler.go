package middleware

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"

	"retail-ledger/internal/errors"
	"retail-ledger/internal/validation"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ErrorHandler formats every error that reaches echo as a standardized error
// response, logs it and counts it in api_errors_total
type ErrorHandler struct {
	logger         *slog.Logger
	apiErrorsTotal *prometheus.CounterVec
}

// NewErrorHandler registers the api_errors_total counter with reg
func NewErrorHandler(logger *slog.Logger, reg prometheus.Registerer) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
		apiErrorsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "api_errors_total",
				Help: "Total number of API errors by code, endpoint, and status",
			},
			[]string{"code", "endpoint", "status"},
		),
	}
}

// Handle implements echo.HTTPErrorHandler
func (h *ErrorHandler) Handle(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	traceID := GetTraceID(c)
	if traceID == "" {
		traceID = "unknown"
	}

	errorResponse := h.toResponse(err, traceID)
	httpStatus := errorResponse.GetHTTPStatus()
	var echoErr *echo.HTTPError
	if stderrors.As(err, &echoErr) {
		httpStatus = echoErr.Code
	}

	logLevel := slog.LevelWarn
	if httpStatus >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	}

	h.logger.Log(c.Request().Context(), logLevel, "HTTP error occurred",
		"trace_id", traceID,
		"error_code", errorResponse.Error.Code,
		"status", httpStatus,
		"message", errorResponse.Error.Message,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"error", err.Error(),
	)

	h.apiErrorsTotal.WithLabelValues(
		errorResponse.Error.Code,
		c.Path(),
		fmt.Sprintf("%d", httpStatus),
	).Inc()

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(httpStatus)
	} else {
		err = c.JSON(httpStatus, errorResponse)
	}
	if err != nil {
		h.logger.Error("Failed to send error response",
			"trace_id", traceID,
			"error", err.Error(),
		)
	}
}

func (h *ErrorHandler) toResponse(err error, traceID string) *errors.ErrorResponse {
	var echoErr *echo.HTTPError
	if stderrors.As(err, &echoErr) {
		return errors.NewErrorResponse(
			mapHTTPStatusToErrorCode(echoErr.Code),
			traceID,
			errors.WithMessage(fmt.Sprintf("%v", echoErr.Message)),
		)
	}

	if fieldErrors, ok := validation.FieldErrors(err); ok {
		return errors.NewValidationError(fieldErrors, traceID)
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewErrorResponse(errors.SystemRequestTimeout, traceID)
	}

	errorResponse, _ := errors.WrapSystemError(err, traceID)
	return errorResponse
}

// mapHTTPStatusToErrorCode maps HTTP status codes to error codes
func mapHTTPStatusToErrorCode(status int) errors.ErrorCode {
	switch status {
	case http.StatusBadRequest, http.StatusMethodNotAllowed, http.StatusUnprocessableEntity,
		http.StatusUnsupportedMediaType:
		return errors.ValidationGeneral
	case http.StatusRequestEntityTooLarge:
		return errors.ValidationOutOfRange
	case http.StatusNotFound:
		return errors.SystemRouteNotFound
	case http.StatusTooManyRequests:
		return errors.SystemRateLimitExceeded
	case http.StatusServiceUnavailable:
		return errors.SystemServiceUnavailable
	case http.StatusGatewayTimeout:
		return errors.SystemRequestTimeout
	default:
		return errors.SystemInternalError
	}
}
