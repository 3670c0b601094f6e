package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://www.sec.gov", cfg.Clients.EDGAR.BaseURL)
	assert.Equal(t, "https://data.sec.gov", cfg.Clients.EDGAR.DataBaseURL)
	assert.NotEmpty(t, cfg.Clients.EDGAR.UserAgent)
	assert.Equal(t, 10, cfg.Clients.EDGAR.RateLimit)
	assert.Empty(t, cfg.Clients.FMP.APIKey)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/config.toml")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadConfigFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment = "production"

[server]
port = 9090

[clients.fmp]
api_key = "filekey"
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "filekey", cfg.Clients.FMP.APIKey)
	assert.True(t, cfg.IsProduction())

	// Untouched sections keep their defaults
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "https://www.sec.gov", cfg.Clients.EDGAR.BaseURL)
}

func TestLoadConfigLaterFileWins(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.toml")
	local := filepath.Join(dir, "local.toml")
	require.NoError(t, os.WriteFile(base, []byte("[server]\nport = 9090\n"), 0o644))
	require.NoError(t, os.WriteFile(local, []byte("[server]\nport = 9999\n"), 0o644))

	cfg, err := LoadConfig(base, local)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FINSIGHT_ENV", "production")
	t.Setenv("FINSIGHT_PORT", "7070")
	t.Setenv("FMP_API_KEY", "envkey")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "envkey", cfg.Clients.FMP.APIKey)
}

func TestGetTimeoutParsesDuration(t *testing.T) {
	c := EDGARConfig{Timeout: "45s"}
	assert.Equal(t, 45*time.Second, c.GetTimeout())

	c.Timeout = "garbage"
	assert.Equal(t, 30*time.Second, c.GetTimeout())
}

func TestCacheTTLDefaults(t *testing.T) {
	c := CacheConfig{}
	assert.Equal(t, 24*time.Hour, c.GetIdentityTTL())
	assert.Equal(t, 15*time.Minute, c.GetFactsTTL())

	c.IdentityTTL = "1h"
	c.FactsTTL = "5m"
	assert.Equal(t, time.Hour, c.GetIdentityTTL())
	assert.Equal(t, 5*time.Minute, c.GetFactsTTL())
}
