package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordermgr/errors"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"DB_DRIVER", "DB_DSN", "DB_MAX_OPEN_CONNS", "LOG_LEVEL", "LOG_FORMAT", "GO_ENV"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "ordermgr.db", cfg.DB.DSN)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)

	dbc := cfg.DBConfig()
	assert.Equal(t, "sqlite", dbc.Driver)
	assert.Zero(t, dbc.MaxOpenConns)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("DB_DSN", "postgres://app@localhost/orders")
	t.Setenv("DB_MAX_OPEN_CONNS", "8")
	t.Setenv("DB_CONN_MAX_LIFETIME", "300")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	dbc := cfg.DBConfig()
	assert.Equal(t, "pgx", dbc.Driver)
	assert.Equal(t, "postgres://app@localhost/orders", dbc.DSN)
	assert.Equal(t, 8, dbc.MaxOpenConns)
	assert.Equal(t, 300, dbc.ConnMaxLifetime)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_InvalidNumber(t *testing.T) {
	t.Setenv("DB_MAX_IDLE_CONNS", "many")

	_, err := Load()
	assert.True(t, errors.IsErrorCode(err, errors.ErrCodeInvalidInput))
}

func TestLoad_DotEnvWhenLocal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DB_DSN=from-dotenv.db\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("GO_ENV", "local")
	t.Setenv("DB_DSN", "")
	require.NoError(t, os.Unsetenv("DB_DSN"))
	t.Cleanup(func() { _ = os.Unsetenv("DB_DSN") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv.db", cfg.DB.DSN)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{Log: Log{Level: "warn", Format: "json"}}

	logger, err := cfg.NewLogger(&buf)
	require.NoError(t, err)
	logger.Info(context.Background(), "dropped")
	logger.Warn(context.Background(), "kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"msg":"kept"`)

	_, err = Config{Log: Log{Level: "loud", Format: "text"}}.NewLogger(&buf)
	assert.Error(t, err)
	_, err = Config{Log: Log{Level: "info", Format: "xml"}}.NewLogger(&buf)
	assert.Error(t, err)
}
