package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "OKLAHOMA", cfg.Enverus.County)
	assert.Equal(t, 10000, cfg.Enverus.PageSize)
	assert.True(t, cfg.Geocode.NominatimEnabled)
	assert.Equal(t, "wellprox_cache.db", cfg.Cache.Path)
	assert.Equal(t, 24, cfg.Cache.TTLHours)
	assert.InDelta(t, 0.05, cfg.Analysis.RadiusDegrees, 0.0001)
	assert.Equal(t, 100, cfg.Analysis.TopN)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
enverus:
  county: KINGFISHER
  page_size: 500
log:
  level: debug
  format: console
server:
  port: 9090
analysis:
  top_n: 25
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "KINGFISHER", cfg.Enverus.County)
	assert.Equal(t, 500, cfg.Enverus.PageSize)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 25, cfg.Analysis.TopN)
	// Defaults still apply for unset values
	assert.Equal(t, 24, cfg.Cache.TTLHours)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
enverus:
  county: KINGFISHER
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("WELLPROX_ENVERUS_COUNTY", "CANADIAN")
	t.Setenv("WELLPROX_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "CANADIAN", cfg.Enverus.County)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("WELLPROX_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Enverus.PageSize = 10000
	cfg.Analysis.RadiusDegrees = 0.05
	cfg.Analysis.TopN = 100
	cfg.Cache.TTLHours = 24
	cfg.Server.Port = 8080
	return cfg
}

func TestValidateFetch_AllPresent(t *testing.T) {
	cfg := validDefaults()
	cfg.Enverus.ClientID = "client"
	cfg.Enverus.ClientSecret = "secret"

	assert.NoError(t, cfg.Validate("fetch"))
}

func TestValidateFetch_MissingCredentials(t *testing.T) {
	cfg := validDefaults()

	err := cfg.Validate("fetch")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "enverus.client_id is required")
	assert.Contains(t, err.Error(), "enverus.client_secret is required")
}

func TestValidateAnalyze_NoCredentialsNeeded(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("analyze"))
}

func TestValidateServe_ValidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 9090

	assert.NoError(t, cfg.Validate("serve"))
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestValidateAnalysisBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Analysis.RadiusDegrees = 0
	err := cfg.Validate("analyze")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "analysis.radius_degrees must be > 0")

	cfg.Analysis.RadiusDegrees = 0.05
	cfg.Analysis.TopN = -1
	err = cfg.Validate("analyze")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "analysis.top_n must be >= 0")

	cfg.Analysis.TopN = 0
	assert.NoError(t, cfg.Validate("analyze"))
}
