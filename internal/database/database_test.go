package database

import (
	"context"
	"path/filepath"
	"testing"

	"retail-ledger/internal/config"
	"retail-ledger/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := New(&config.DatabaseConfig{Driver: "mysql"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestInitialize_SQLiteFile(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:       config.DriverSQLite,
			SQLitePath:   filepath.Join(t.TempDir(), "ledger.db"),
			MaxIdleConns: 1,
		},
	}

	db, err := Initialize(cfg)
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.HealthCheck(context.Background()))
	for _, table := range []string{"accounts", "transactions", "transfers", "audit_logs"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestSetupTestDB_DuplicateKeyIsTranslated(t *testing.T) {
	db := SetupTestDB(t)

	account := &models.Account{
		UserID:        uuid.New(),
		AccountNumber: "1012345672",
		AccountType:   models.AccountTypeChecking,
	}
	require.NoError(t, db.Create(account).Error)

	duplicate := &models.Account{
		UserID:        uuid.New(),
		AccountNumber: "1012345672",
		AccountType:   models.AccountTypeChecking,
	}
	err := db.Create(duplicate).Error

	assert.Error(t, err)
	CleanupTestDB(t, db)

	var count int64
	db.Model(&models.Account{}).Count(&count)
	assert.Zero(t, count)
}
