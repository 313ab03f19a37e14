package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("DB_DSN", "root@tcp(127.0.0.1:4000)/test")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_MAX_OPEN_CONNS", "")
	t.Setenv("DB_CONN_MAX_LIFETIME", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Equal(t, 10, cfg.DB.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, cfg.DB.ConnMaxLifetime)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestFromEnv_RequiresConnection(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("TIDB_HOST", "")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestFromEnv_InvalidNumbers(t *testing.T) {
	t.Setenv("DB_DSN", "x")
	t.Setenv("DB_MAX_OPEN_CONNS", "many")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(p, []byte("DB_DIALECT=generic\n"), 0o600))
	t.Setenv("DB_DIALECT", "")
	os.Unsetenv("DB_DIALECT")

	assert.Equal(t, p, LoadDotEnv(filepath.Join(dir, "missing.env"), p))
	assert.Equal(t, "generic", os.Getenv("DB_DIALECT"))
}
