package handlers

import (
	"context"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"retail-ledger/internal/database"
	"retail-ledger/internal/errors"

	"github.com/golang-migrate/migrate/v4"
	"github.com/labstack/echo/v4"
)

// HealthChecker reports whether the store is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// MigrationReporter is implemented by stores that track SQL migrations
type MigrationReporter interface {
	MigrationStatus(ctx context.Context) (version uint, dirty bool, err error)
}

type HealthCheckHandler struct {
	db      HealthChecker
	timeout time.Duration
}

func NewHealthCheckHandler(db HealthChecker) *HealthCheckHandler {
	return &HealthCheckHandler{db: db, timeout: 2 * time.Second}
}

// HealthCheck reports API and database status
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} object{status=string,database=string,migration_version=string,time=string}
// @Failure 503 {object} errors.ErrorResponse "SYSTEM_003"
// @Router /health [get]
func (h *HealthCheckHandler) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.db.HealthCheck(ctx); err != nil {
		detail := "Database connection failed"
		if stderrors.Is(err, database.ErrCircuitOpen) {
			detail = "Database checks suspended after repeated failures"
		}

		traceID := getTraceID(c)
		if traceID == "" {
			traceID = "unknown"
		}
		return c.JSON(http.StatusServiceUnavailable, errors.NewErrorResponse(
			errors.SystemServiceUnavailable,
			traceID,
			errors.WithDetails(detail),
		))
	}

	body := map[string]string{
		"status":   "healthy",
		"database": "up",
		"time":     time.Now().UTC().Format(time.RFC3339),
	}
	if reporter, ok := h.db.(MigrationReporter); ok {
		body["migration_version"] = migrationVersion(ctx, reporter)
	}

	return c.JSON(http.StatusOK, body)
}

// migrationVersion never fails the health check; a lookup error reads "unknown"
func migrationVersion(ctx context.Context, reporter MigrationReporter) string {
	version, dirty, err := reporter.MigrationStatus(ctx)
	switch {
	case stderrors.Is(err, migrate.ErrNilVersion), stderrors.Is(err, database.ErrNoSQLMigrations):
		return "none"
	case err != nil:
		return "unknown"
	case dirty:
		return strconv.FormatUint(uint64(version), 10) + " (dirty)"
	}
	return strconv.FormatUint(uint64(version), 10)
}
