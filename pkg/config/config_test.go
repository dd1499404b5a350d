package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "https://data.ajman.ae/api/explore/v2.1/catalog", cfg.CatalogAPIBase)
	assert.Equal(t, "https://data.ajman.ae", cfg.CatalogPortalBase)
	assert.Equal(t, "http", cfg.MetadataFetchMode)
	assert.Equal(t, "static/visualizations", cfg.WorkspaceDir)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout())
	assert.Empty(t, cfg.Proxies())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REQUEST_TIMEOUT", "5")
	t.Setenv("PROXY_URLS", "http://p1:8000, ,http://p2:8000")
	t.Setenv("WORKSPACE_DIR", "/tmp/viz")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout())
	assert.Equal(t, []string{"http://p1:8000", "http://p2:8000"}, cfg.Proxies())
	assert.Equal(t, "/tmp/viz", cfg.WorkspaceDir)
}

func TestLockTTL_FallsBackWhenUnset(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, 2*time.Minute, cfg.LockTTL())
}
