package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Type)
	assert.True(t, cfg.Announcements.Enabled)
	assert.Equal(t, 1, cfg.Announcements.IntervalMinutes)
	assert.Equal(t, 120, cfg.RateLimit.RequestsPerMinute)
}

func TestLoadConfigReadsYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9090"
database:
  type: postgres
search:
  enabled: true
  meilisearch:
    host: http://meili:7700
announcements:
  enabled: false
cache:
  settings_ttl_hours: 6
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.True(t, cfg.Search.Enabled)
	assert.Equal(t, "http://meili:7700", cfg.Search.Meilisearch.Host)
	assert.False(t, cfg.Announcements.Enabled)
	assert.Equal(t, 6*time.Hour, cfg.Cache.SettingsTTL())
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("DB_TYPE", "postgres")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("MYSQL_PORT", "3307")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 3307, cfg.Database.MySQL.Port)
}

func TestSettingsTTLFallback(t *testing.T) {
	var c CacheConfig
	assert.Equal(t, 24*time.Hour, c.SettingsTTL())
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
