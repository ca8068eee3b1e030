package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"retail-ledger/internal/config"
	"retail-ledger/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNoSQLMigrations is returned for stores whose schema comes from AutoMigrate only
var ErrNoSQLMigrations = errors.New("store does not use SQL migrations")

type DB struct {
	*gorm.DB
	config  *config.DatabaseConfig
	breaker *circuitBreaker
}

// gormConfig is shared by every connection; TranslateError turns unique
// violations into gorm.ErrDuplicatedKey for both drivers.
func gormConfig(level logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverPostgres, "":
		return postgres.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func New(cfg *config.DatabaseConfig) (*DB, error) {
	dial, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dial, gormConfig(logger.Warn))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	maxConns := cfg.MaxConnections
	if cfg.Driver == config.DriverSQLite {
		// sqlite allows a single writer
		maxConns = 1
	}
	sqlDB.SetMaxOpenConns(maxConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		DB:      db,
		config:  cfg,
		breaker: newCircuitBreaker(DefaultCircuitBreakerConfig()),
	}, nil
}

func (db *DB) AutoMigrate() error {
	return db.DB.AutoMigrate(
		&models.Account{},
		&models.Transaction{},
		&models.Transfer{},
		&models.AuditLog{},
	)
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// HealthCheck pings the database within ctx. Repeated failures trip the
// breaker and later checks fail fast with ErrCircuitOpen.
func (db *DB) HealthCheck(ctx context.Context) error {
	if db.breaker != nil && !db.breaker.allow() {
		return ErrCircuitOpen
	}

	err := db.ping(ctx)
	if db.breaker != nil {
		db.breaker.record(err)
	}
	return err
}

// MigrationStatus reports the applied SQL migration version
func (db *DB) MigrationStatus(ctx context.Context) (uint, bool, error) {
	if db.config == nil || db.config.Driver == config.DriverSQLite {
		return 0, false, ErrNoSQLMigrations
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return 0, false, err
	}
	return NewMigrationRunner(sqlDB).GetMigrationStatus(ctx)
}

func (db *DB) ping(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (db *DB) CreateIndexes() error {
	queries := []string{
		"CREATE INDEX IF NOT EXISTS idx_accounts_user_id ON accounts(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_accounts_account_type ON accounts(account_type)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_account_sequence ON transactions(account_id, sequence)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions(created_at)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_reference ON transactions(reference)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_transfer_id ON transactions(transfer_id)",
		"CREATE INDEX IF NOT EXISTS idx_transfers_from_account_id ON transfers(from_account_id)",
		"CREATE INDEX IF NOT EXISTS idx_transfers_to_account_id ON transfers(to_account_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_account_id ON audit_logs(account_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created_at ON audit_logs(created_at)",
	}

	for _, query := range queries {
		if err := db.DB.Exec(query).Error; err != nil {
			slog.Warn("Failed to create index", "query", query, "error", err)
		}
	}

	return nil
}

// Initialize creates and configures the database connection
func Initialize(cfg *config.Config) (*DB, error) {
	db, err := New(&cfg.Database)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	migrated := false
	if cfg.Database.Driver == config.DriverPostgres {
		// SQL migrations are written for postgres
		ran, err := RunMigrationsIfEnabled(sqlDB)
		if err != nil {
			slog.Warn("Migration runner failed, falling back to GORM AutoMigrate", "error", err)
		}
		migrated = ran && err == nil
	}

	if !migrated {
		if err := db.AutoMigrate(); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		if err := db.CreateIndexes(); err != nil {
			slog.Warn("Failed to create some indexes", "error", err)
		}
	}

	slog.Info("Database initialized successfully", "driver", cfg.Database.Driver)

	return db, nil
}
