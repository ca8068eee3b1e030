package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 20, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "SQLITE")
	t.Setenv("DB_SQLITE_PATH", "/tmp/ledger-test.db")
	t.Setenv("SERVER_REQUEST_TIMEOUT", "3s")
	t.Setenv("RATE_LIMIT_BURST", "not-a-number")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/ledger-test.db", cfg.Database.DSN())
	assert.Equal(t, 3*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 40, cfg.RateLimit.Burst)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowOrigins)
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("DB_NAME=from_dotenv\nLOG_LEVEL=debug\n"), 0o600))
	t.Setenv("ENV_FILE", path)
	t.Setenv("DB_NAME", "")
	t.Setenv("LOG_LEVEL", "")
	// godotenv never overrides variables that are already set, so unset them first
	require.NoError(t, os.Unsetenv("DB_NAME"))
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))

	cfg := Load()

	assert.Equal(t, "from_dotenv", cfg.Database.Name)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
	assert.Contains(t, cfg.Database.DSN(), "dbname=from_dotenv")
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Database:  DatabaseConfig{Driver: "mysql"},
		RateLimit: RateLimitConfig{RequestsPerSecond: 1, Burst: 1},
		Server:    ServerConfig{RequestTimeout: time.Second},
	}
	assert.Error(t, cfg.Validate())

	cfg.Database.Driver = DriverSQLite
	assert.NoError(t, cfg.Validate())

	cfg.RateLimit.Burst = 0
	assert.Error(t, cfg.Validate())
}

func TestLogConfig_SlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, (&LogConfig{Level: "warn"}).SlogLevel())
	assert.Equal(t, slog.LevelInfo, (&LogConfig{Level: "chatty"}).SlogLevel())
}
