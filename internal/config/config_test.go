package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, StorageMemory, cfg.Storage.Driver)
	require.Equal(t, 24*time.Hour, cfg.Auth.JWTExpiry)
	require.Equal(t, EmailProviderDisabled, cfg.Email.Provider)
	require.Equal(t, "development", cfg.Environment)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load("")
	require.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_EXPIRY_HOURS", "1")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, time.Hour, cfg.Auth.JWTExpiry)
	require.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadPostgresRequiresURL(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := Load("")
	require.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STORAGE_DRIVER", "cassandra")

	_, err := Load("")
	require.ErrorContains(t, err, "storage driver")
}

func TestLoadEmailProviderValidation(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("EMAIL_PROVIDER", "resend")
	t.Setenv("RESEND_API_KEY", "")

	_, err := Load("")
	require.ErrorContains(t, err, "RESEND_API_KEY")

	t.Setenv("RESEND_API_KEY", "re_123")
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, EmailProviderResend, cfg.Email.Provider)
}

func TestLoadYAMLFileWithEnvPrecedence(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "7000")

	path := filepath.Join(t.TempDir(), "config.yaml")
	file := []byte("server:\n  port: 6000\n  host: 127.0.0.1\nlogging:\n  format: console\n")
	require.NoError(t, os.WriteFile(path, file, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	// Env wins over file; file wins over defaults.
	require.Equal(t, 7000, cfg.Server.Port)
	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
