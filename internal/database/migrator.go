package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const (
	defaultMigrationsPath = "db/migrations"
	defaultSeedsPath      = "db/seeds"
)

var (
	maxRetries    = 30
	retryInterval = 2 * time.Second
)

var ErrMigrationsNotFound = errors.New("migrations directory not found")

// MigrationRunner applies the SQL migrations under db/migrations and optional seed files
type MigrationRunner struct {
	db             *sql.DB
	migrationsPath string
	seedsPath      string
}

// NewMigrationRunner creates a new migration runner; MIGRATIONS_PATH and SEEDS_PATH override the defaults
func NewMigrationRunner(db *sql.DB) *MigrationRunner {
	return &MigrationRunner{
		db:             db,
		migrationsPath: envOr("MIGRATIONS_PATH", defaultMigrationsPath),
		seedsPath:      envOr("SEEDS_PATH", defaultSeedsPath),
	}
}

// WaitForDatabase pings until the database answers, ctx is done or the retries run out
func (mr *MigrationRunner) WaitForDatabase(ctx context.Context) error {
	for i := 0; i < maxRetries; i++ {
		err := mr.db.PingContext(ctx)
		if err == nil {
			return nil
		}

		slog.Info("Database not ready", "attempt", i+1, "max_attempts", maxRetries, "error", err)

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for database: %w", ctx.Err())
		case <-time.After(retryInterval):
		}
	}

	return fmt.Errorf("database not ready after %d attempts", maxRetries)
}

func (mr *MigrationRunner) newMigrate() (*migrate.Migrate, error) {
	if _, err := os.Stat(mr.migrationsPath); os.IsNotExist(err) {
		return nil, ErrMigrationsNotFound
	}

	absPath, err := filepath.Abs(mr.migrationsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(mr.db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", absPath), "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}
	return m, nil
}

// RunMigrations executes all pending migrations. It reports false when there is no migrations directory.
func (mr *MigrationRunner) RunMigrations() (bool, error) {
	m, err := mr.newMigrate()
	if errors.Is(err, ErrMigrationsNotFound) {
		slog.Info("Migrations directory not found, skipping SQL migrations", "path", mr.migrationsPath)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return false, fmt.Errorf("failed to get migration version: %w", err)
	}

	if dirty {
		slog.Warn("Database is in dirty state, forcing version", "version", version)
		if err := m.Force(int(version)); err != nil {
			return false, fmt.Errorf("failed to force version: %w", err)
		}
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		slog.Info("No new migrations to apply", "version", version)
	case err != nil:
		return false, fmt.Errorf("migration failed: %w", err)
	default:
		newVersion, _, err := m.Version()
		if err != nil {
			return false, fmt.Errorf("failed to get new migration version: %w", err)
		}
		slog.Info("Applied migrations", "version", newVersion)
	}

	return true, nil
}

// LoadSeeds executes every *.sql file in the seeds directory when SEED_DATABASE=true.
// A failing seed file is logged and skipped.
func (mr *MigrationRunner) LoadSeeds() error {
	if os.Getenv("SEED_DATABASE") != "true" {
		return nil
	}

	if _, err := os.Stat(mr.seedsPath); os.IsNotExist(err) {
		slog.Info("Seeds directory not found, skipping seed data", "path", mr.seedsPath)
		return nil
	}

	files, err := filepath.Glob(filepath.Join(mr.seedsPath, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to find seed files: %w", err)
	}

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read seed file %s: %w", file, err)
		}

		if _, err := mr.db.Exec(string(content)); err != nil {
			slog.Warn("Failed to execute seed file", "file", filepath.Base(file), "error", err)
			continue
		}

		slog.Info("Executed seed file", "file", filepath.Base(file))
	}

	return nil
}

// GetMigrationStatus reads the applied version straight from the migrate
// bookkeeping table. migrate.ErrNilVersion means nothing was applied yet.
func (mr *MigrationRunner) GetMigrationStatus(ctx context.Context) (version uint, dirty bool, err error) {
	query := fmt.Sprintf("SELECT version, dirty FROM %s LIMIT 1", postgres.DefaultMigrationsTable)

	var v int64
	err = mr.db.QueryRowContext(ctx, query).Scan(&v, &dirty)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, false, migrate.ErrNilVersion
	case err != nil:
		return 0, false, fmt.Errorf("failed to read migration version: %w", err)
	case v < 0:
		return 0, dirty, migrate.ErrNilVersion
	}
	return uint(v), dirty, nil
}

// RunMigrationsIfEnabled runs migrations if AUTO_MIGRATE is set to true.
// It reports whether the SQL migrations were applied.
func RunMigrationsIfEnabled(db *sql.DB) (bool, error) {
	if os.Getenv("AUTO_MIGRATE") != "true" {
		slog.Info("Auto-migration disabled (AUTO_MIGRATE != true)")
		return false, nil
	}

	runner := NewMigrationRunner(db)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(maxRetries)*retryInterval)
	defer cancel()

	if err := runner.WaitForDatabase(ctx); err != nil {
		return false, fmt.Errorf("database readiness check failed: %w", err)
	}

	ran, err := runner.RunMigrations()
	if err != nil {
		return false, fmt.Errorf("migration execution failed: %w", err)
	}

	if err := runner.LoadSeeds(); err != nil {
		slog.Warn("Seed data loading failed", "error", err)
	}

	return ran, nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
