package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"retail-ledger/internal/config"
	"retail-ledger/internal/database"
	"retail-ledger/internal/handlers"
	"retail-ledger/internal/middleware"
	"retail-ledger/internal/repositories"
	"retail-ledger/internal/services"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server owns the echo instance and everything wired behind it
type Server struct {
	cfg         *config.Config
	echo        *echo.Echo
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

// New builds repositories, services and routes on top of db.
// All metrics are registered with reg and served from /metrics.
func New(cfg *config.Config, db *database.DB, logger *slog.Logger, reg *prometheus.Registry) *Server {
	accountRepo := repositories.NewAccountRepository(db.DB)
	transactionRepo := repositories.NewTransactionRepository(db.DB)
	transferRepo := repositories.NewTransferRepository(db.DB)
	ledgerRepo := repositories.NewLedgerRepository(db.DB)
	auditRepo := repositories.NewAuditLogRepository(db.DB)

	metrics := services.NewPrometheusMetrics(reg)
	auditService := services.NewAuditService(auditRepo, logger)
	registry := services.NewAccountRegistry(accountRepo, auditService, metrics, logger)
	ledger := services.NewLedgerService(registry, transactionRepo, transferRepo, ledgerRepo, auditService, metrics, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = middleware.NewErrorHandler(logger, reg).Handle

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit)

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.PanicRecovery(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  cfg.Server.CORSAllowOrigins,
		AllowHeaders:  []string{echo.HeaderContentType, handlers.IdempotencyKeyHeader, middleware.TraceIDHeader},
		ExposeHeaders: []string{middleware.TraceIDHeader},
	}))
	e.Use(echomw.BodyLimit("64K"))

	health := handlers.NewHealthCheckHandler(db)
	e.GET("/health", health.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	accountHandler := handlers.NewAccountHandler(registry, ledger)
	transactionHandler := handlers.NewTransactionHandler(ledger)

	api := e.Group("/api/v1", rateLimiter.Middleware(), middleware.RequestTimeout(cfg.Server.RequestTimeout))

	accounts := api.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.ListAccounts)
	accounts.GET("/by-number/:accountNumber", accountHandler.GetAccountByNumber)
	accounts.GET("/:accountId", accountHandler.GetAccount)
	accounts.POST("/:accountId/deposit", accountHandler.Deposit)
	accounts.POST("/:accountId/withdraw", accountHandler.Withdraw)
	accounts.POST("/:accountId/transfer", accountHandler.Transfer)
	accounts.POST("/:accountId/interest", accountHandler.AccrueInterest)
	accounts.GET("/:accountId/transactions", accountHandler.ListTransactions)
	accounts.GET("/:accountId/audit-logs", accountHandler.ListAuditLogs)
	accounts.GET("/:accountId/transfers", accountHandler.ListTransfers)

	api.GET("/transactions/by-reference/:reference", transactionHandler.GetTransactionByReference)
	api.GET("/transactions/:transactionId", transactionHandler.GetTransaction)
	api.GET("/transfers/:transferId", transactionHandler.GetTransfer)

	return &Server{
		cfg:         cfg,
		echo:        e,
		rateLimiter: rateLimiter,
		logger:      logger,
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then drains in-flight requests
// for at most the configured shutdown timeout
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Address(),
		Handler:      s.echo,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	limiterCtx, stopLimiter := context.WithCancel(ctx)
	defer stopLimiter()
	go s.rateLimiter.Run(limiterCtx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", "addr", srv.Addr, "env", s.cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Server shutting down", "timeout", s.cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
