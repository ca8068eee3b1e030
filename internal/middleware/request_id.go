package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	TraceIDHeader     = "X-Trace-ID"
	TraceIDContextKey = "trace_id"

	maxTraceIDLength = 128
)

// RequestID tags every request with a trace ID, echoed in X-Trace-ID and
// stored under TraceIDContextKey. An inbound X-Trace-ID is kept unless it
// is empty or longer than maxTraceIDLength.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			traceID := inboundTraceID(c)
			if traceID == "" {
				traceID = uuid.NewString()
			}

			c.Set(TraceIDContextKey, traceID)
			c.Response().Header().Set(TraceIDHeader, traceID)
			return next(c)
		}
	}
}

func inboundTraceID(c echo.Context) string {
	traceID := c.Request().Header.Get(TraceIDHeader)
	if len(traceID) > maxTraceIDLength {
		return ""
	}
	return traceID
}

// GetTraceID returns the request's trace ID, or "" outside RequestID
func GetTraceID(c echo.Context) string {
	traceID, _ := c.Get(TraceIDContextKey).(string)
	return traceID
}
