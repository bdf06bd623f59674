package serviceconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/formulary/internal/domain"
)

func TestLoad_LocalCatalogDefaults(t *testing.T) {
	t.Setenv("CATALOG_PATH", "/data/catalog.yaml")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "/data/catalog.yaml", cfg.CatalogPath)
	assert.Equal(t, "@every 15m", cfg.CatalogRefreshCron)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("CATALOG_PATH", "/data/catalog.yaml")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEV_MODE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.DevMode)
}

func TestValidate_NoSourceConfigured(t *testing.T) {
	cfg := &Config{Port: 8080}
	assert.ErrorIs(t, cfg.Validate(), domain.ErrInvalidParameter)
}

func TestValidate_BothSourcesConfigured(t *testing.T) {
	cfg := &Config{
		Port:            8080,
		CatalogPath:     "/data/catalog.yaml",
		CatalogS3Bucket: "bucket",
		CatalogS3Key:    "catalog.yaml",
	}
	assert.ErrorIs(t, cfg.Validate(), domain.ErrInvalidParameter)
}

func TestValidate_PartialS3Configuration(t *testing.T) {
	cfg := &Config{Port: 8080, CatalogS3Bucket: "bucket"}
	assert.ErrorIs(t, cfg.Validate(), domain.ErrInvalidParameter)
}

func TestValidate_PortOutOfRange(t *testing.T) {
	cfg := &Config{Port: 0, CatalogPath: "/data/catalog.yaml"}
	assert.ErrorIs(t, cfg.Validate(), domain.ErrInvalidParameter)
}
