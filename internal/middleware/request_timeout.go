package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// RequestTimeout bounds the request context. Ledger operations observe the
// deadline while waiting for account locks and during commit; a deadline hit
// before commit leaves no trace. Deadline errors are passed on untouched so
// the ErrorHandler answers them with SYSTEM_004.
func RequestTimeout(timeout time.Duration) echo.MiddlewareFunc {
	return echomw.ContextTimeoutWithConfig(echomw.ContextTimeoutConfig{
		Timeout: timeout,
		ErrorHandler: func(err error, _ echo.Context) error {
			return err
		},
	})
}
