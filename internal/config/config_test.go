package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://lombardia.rossinienergy.it", cfg.Site.Domain)
	assert.Equal(t, "Lombardia", cfg.Site.Region)
	assert.Equal(t, "Q1210", cfg.Site.RegionQID)
	assert.Equal(t, "IT", cfg.Site.Country)
	assert.Equal(t, 10000, cfg.Site.MinPopulation)
	assert.Contains(t, cfg.Site.Capitals, "Bergamo")
	assert.Equal(t, "Rossini Energy", cfg.Company.Name)
	assert.Equal(t, Address{
		Street: "Piazza Torre Sacchetti 73", City: "Stradella", Province: "PV", PostalCode: "27049", Country: "IT",
	}, cfg.Company.Address)
	require.Len(t, cfg.Company.Services, 3)
	assert.Equal(t, "Pensiline Fotovoltaiche TOSSO®", cfg.Company.Services[1].Name)
	assert.Contains(t, cfg.Company.Services[0].Keywords, "EV charging")
	assert.Equal(t, "data", cfg.Paths.DataDir)
	assert.Equal(t, filepath.Join("data", "cities_enriched.json"), cfg.Paths.RegistryPath())
	assert.Equal(t, filepath.Join("data", "cities_lombardia.json"), cfg.Paths.SeedPath())
	assert.Equal(t, 3000, cfg.Sources.Overpass.IntervalMs)
	assert.Equal(t, 10, cfg.Sources.Overpass.Checkpoint)
	assert.Equal(t, 30, cfg.Sources.AirQuality.Checkpoint)
	assert.Equal(t, "https://re.jrc.ec.europa.eu/api/v5_2/PVcalc", cfg.Sources.PVGIS.BaseURL)
	assert.Equal(t, "09", cfg.Sources.GeoNames.Admin1)
	assert.Empty(t, cfg.Sources.GeoNames.Username)
	assert.Equal(t, 3, cfg.HTTP.MaxRetries)
	assert.Equal(t, 8, cfg.Render.Concurrency)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
site:
  domain: https://piemonte.example.it
  region: Piemonte
  region_qid: Q1216
  min_population: 20000
log:
  level: debug
  format: json
sources:
  overpass:
    interval_ms: 5000
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://piemonte.example.it", cfg.Site.Domain)
	assert.Equal(t, "Piemonte", cfg.Site.Region)
	assert.Equal(t, "Q1216", cfg.Site.RegionQID)
	assert.Equal(t, 20000, cfg.Site.MinPopulation)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 5000, cfg.Sources.Overpass.IntervalMs)
	// Defaults still apply for unset values
	assert.Equal(t, 10, cfg.Sources.Overpass.Checkpoint)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
site:
  region: Piemonte
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("CITYPAGES_SITE_REGION", "Veneto")
	t.Setenv("CITYPAGES_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Veneto", cfg.Site.Region)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadRejectsInvalidDomain(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CITYPAGES_SITE_DOMAIN", "not a url")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Domain")
}

func TestValidateCheckpointBounds(t *testing.T) {
	chdirTemp(t)
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Sources.Climate.Checkpoint = 0
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Checkpoint")
}

func TestValidateLogFormat(t *testing.T) {
	chdirTemp(t)
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Log.Format = "xml"
	assert.Error(t, cfg.Validate())
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
