package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"EZR_LOG_LEVEL", "EZR_LOG_FORMAT", "EZR_FIXTURES", "EZR_SESSION_BACKEND", "EZR_SESSION_FILE",
	"EZR_SESSION_TTL", "EZR_REDIS_ADDR", "EZR_REDIS_PASSWORD", "EZR_REDIS_DB", "EZR_REDIS_KEY",
	"EZR_DATABASE_URL",
}

func clearEnv(t *testing.T) {
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestNewConfig_DefaultValues(t *testing.T) {
	clearEnv(t)

	cfg, err := NewConfig("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, filepath.Join("testdata", "fixtures.yaml"), cfg.FixturesPath)
	assert.Equal(t, SessionBackendFile, cfg.Session.Backend)
	assert.NotEmpty(t, cfg.Session.File)
	assert.Equal(t, time.Duration(0), cfg.Session.TTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, "ez-rental:session", cfg.Redis.Key)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestNewConfig_EnvironmentVariables(t *testing.T) {
	clearEnv(t)
	t.Setenv("EZR_LOG_LEVEL", "debug")
	t.Setenv("EZR_LOG_FORMAT", "json")
	t.Setenv("EZR_SESSION_BACKEND", "redis")
	t.Setenv("EZR_SESSION_TTL", "30m")
	t.Setenv("EZR_REDIS_ADDR", "redis:6380")
	t.Setenv("EZR_REDIS_DB", "2")
	t.Setenv("EZR_DATABASE_URL", "postgres://localhost/ezrental?sslmode=disable")

	cfg, err := NewConfig("")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, SessionBackendRedis, cfg.Session.Backend)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "redis:6380", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "postgres://localhost/ezrental?sslmode=disable", cfg.DatabaseURL)
}

func TestNewConfig_DotenvFile(t *testing.T) {
	clearEnv(t)
	// godotenv only fills variables that are absent from the environment
	for _, k := range configKeys {
		require.NoError(t, os.Unsetenv(k))
	}
	require.NoError(t, os.Setenv("EZR_REDIS_DB", "1"))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("EZR_LOG_LEVEL=warn\nEZR_SESSION_BACKEND=memory\nEZR_REDIS_DB=5\n"), 0o600))

	cfg, err := NewConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, SessionBackendMemory, cfg.Session.Backend)
	assert.Equal(t, 1, cfg.Redis.DB)
}

func TestNewConfig_MissingDotenvIsIgnored(t *testing.T) {
	clearEnv(t)

	_, err := NewConfig(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
}

func TestNewConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"EZR_LOG_LEVEL", "loud"},
		{"EZR_LOG_FORMAT", "xml"},
		{"EZR_SESSION_BACKEND", "cookie"},
		{"EZR_SESSION_TTL", "soon"},
		{"EZR_SESSION_TTL", "-1m"},
		{"EZR_REDIS_DB", "two"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := NewConfig("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}
