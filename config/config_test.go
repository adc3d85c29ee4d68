package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 150, cfg.Render.DPI)
	assert.Equal(t, 12.0, cfg.Render.WidthInches)
	assert.Equal(t, 10.0, cfg.Render.HeightInches)
	assert.False(t, cfg.Database.Enabled())
	assert.False(t, cfg.Auth.Enabled())
}

func TestLoadYAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "velograph.yaml")
	yamlData := `
server:
  addr: ":9090"
database:
  host: db.local
  max_retries: 3
  retry_interval: 500ms
auth:
  username: admin
  password: secret123
  jwt_secret: 0123456789abcdef0123
  token_ttl: 1h
render:
  dpi: 72
`
	require.NoError(t, os.WriteFile(file, []byte(yamlData), 0o644))
	t.Setenv("DB_NAME", "routes")
	t.Setenv("VELOGRAPH_LOG_LEVEL", "debug")

	cfg, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, 3, cfg.Database.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.Database.RetryInterval)
	assert.Equal(t, "routes", cfg.Database.Name)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 72, cfg.Render.DPI)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Auth.Enabled())
	assert.Contains(t, cfg.Database.DSN(), "host=db.local")
	assert.Contains(t, cfg.Database.DSN(), "dbname=routes")
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad log level", env: map[string]string{"VELOGRAPH_LOG_LEVEL": "loud"}},
		{name: "dpi not a number", env: map[string]string{"VELOGRAPH_DPI": "high"}},
		{name: "dpi out of range", env: map[string]string{"VELOGRAPH_DPI": "5000"}},
		{name: "short jwt secret", env: map[string]string{"VELOGRAPH_JWT_SECRET": "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
