// Package serviceconfig loads the HTTP service's configuration from
// environment variables (and an optional .env file).
package serviceconfig

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/aristath/formulary/internal/domain"
)

// Config holds the HTTP service's runtime configuration.
type Config struct {
	Port               int
	LogLevel           string
	DevMode            bool
	CatalogPath        string // local YAML catalog path; empty if using S3
	CatalogS3Bucket    string
	CatalogS3Key       string
	CatalogS3Region    string
	CatalogCachePath   string // sqlite parse-cache path; empty disables caching
	CatalogRefreshCron string // robfig/cron schedule for re-checking the source
}

// Load reads configuration from the environment, applying the documented
// defaults for anything unset. A .env file in the working directory is
// loaded first, if present; actual environment variables still win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnvAsInt("PORT", 8080),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DevMode:            getEnvAsBool("DEV_MODE", false),
		CatalogPath:        getEnv("CATALOG_PATH", ""),
		CatalogS3Bucket:    getEnv("CATALOG_S3_BUCKET", ""),
		CatalogS3Key:       getEnv("CATALOG_S3_KEY", ""),
		CatalogS3Region:    getEnv("CATALOG_S3_REGION", ""),
		CatalogCachePath:   getEnv("CATALOG_CACHE_PATH", ""),
		CatalogRefreshCron: getEnv("CATALOG_REFRESH_CRON", "@every 15m"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that exactly one catalog source is configured and that
// numeric fields are in range. Violations are reported as
// domain.ErrInvalidParameter, the same taxonomy FindBestMatches uses, so
// the HTTP layer's error mapping handles both uniformly.
func (c *Config) Validate() error {
	hasLocal := c.CatalogPath != ""
	hasS3 := c.CatalogS3Bucket != "" || c.CatalogS3Key != ""

	switch {
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("%w: PORT must be in (0, 65535], got %d", domain.ErrInvalidParameter, c.Port)
	case !hasLocal && !hasS3:
		return fmt.Errorf("%w: one of CATALOG_PATH or CATALOG_S3_BUCKET/CATALOG_S3_KEY must be set", domain.ErrInvalidParameter)
	case hasLocal && hasS3:
		return fmt.Errorf("%w: CATALOG_PATH and CATALOG_S3_BUCKET/CATALOG_S3_KEY are mutually exclusive", domain.ErrInvalidParameter)
	case hasS3 && (c.CatalogS3Bucket == "" || c.CatalogS3Key == ""):
		return fmt.Errorf("%w: both CATALOG_S3_BUCKET and CATALOG_S3_KEY are required for an S3 catalog source", domain.ErrInvalidParameter)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
