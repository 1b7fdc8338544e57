package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/storage")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.True(t, cfg.Development())
	assert.Equal(t, 30*time.Second, cfg.App.ShutdownTimeout)
	assert.Equal(t, int32(10), cfg.DB.MaxConns)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STORAGE=memory\nAPP_PORT=9090\nCORS_ALLOWED_ORIGINS=http://a,http://b\n"), 0o600))
	t.Cleanup(func() {
		for _, k := range []string{"STORAGE", "APP_PORT", "CORS_ALLOWED_ORIGINS"} {
			_ = os.Unsetenv(k)
		}
	})

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.CORS.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "PostgresWithoutURL",
			mutate:  func(c *Config) { c.DB.URL = "" },
			wantErr: "DATABASE_URL is required",
		},
		{
			name:   "MemoryWithoutURL",
			mutate: func(c *Config) { c.DB.URL = ""; c.Storage = StorageMemory },
		},
		{
			name:    "UnknownStorage",
			mutate:  func(c *Config) { c.Storage = "redis" },
			wantErr: `unknown STORAGE "redis"`,
		},
		{
			name:    "NonPositivePool",
			mutate:  func(c *Config) { c.DB.MaxConns = 0 },
			wantErr: "DB_MAX_CONNS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			cfg.Storage = StoragePostgres
			cfg.DB.URL = "postgres://localhost/storage"
			cfg.DB.MaxConns = 10
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
