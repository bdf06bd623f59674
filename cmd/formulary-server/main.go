// Command formulary-server runs the matching engine behind an HTTP API:
// it loads a catalog from local disk or S3, keeps it current on a cron
// schedule, and serves FindBestMatches over JSON and websocket endpoints.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/formulary/internal/applog"
	"github.com/aristath/formulary/internal/catalogcache"
	"github.com/aristath/formulary/internal/catalogio"
	"github.com/aristath/formulary/internal/httpapi"
	"github.com/aristath/formulary/internal/refresh"
	"github.com/aristath/formulary/internal/serviceconfig"
)

func main() {
	cfg, err := serviceconfig.Load()
	if err != nil {
		applog.New(applog.Config{Level: "info", Pretty: true}).Fatal().Err(err).Msg("failed to load configuration")
	}

	log := applog.New(applog.Config{Level: cfg.LogLevel, Pretty: true})
	log.Info().Msg("starting formulary-server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fetchSource, err := buildSource(ctx, cfg, log.With().Str("component", "main").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build catalog source")
	}

	var source catalogio.Source = fetchSource
	if cfg.CatalogCachePath != "" {
		store, err := catalogcache.Open(cfg.CatalogCachePath, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open catalog parse cache")
		}
		defer store.Close()
		source = catalogcache.NewCachedSource(fetchSource, store, log)
	}

	refresher := refresh.New(source, log)
	if err := refresher.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to load initial catalog")
	}
	if err := refresher.Start(cfg.CatalogRefreshCron); err != nil {
		log.Fatal().Err(err).Msg("failed to start catalog refresh scheduler")
	}
	defer refresher.Stop()

	server := httpapi.New(refresher, log, cfg.DevMode)

	addr := fmt.Sprintf(":%d", cfg.Port)
	errCh := make(chan error, 1)
	go func() {
		if err := server.Serve(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatal().Err(err).Msg("HTTP server failed")
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// buildSource picks a local or S3 catalog source based on which fields
// serviceconfig.Load populated; Validate already rejected configurations
// with both or neither set.
func buildSource(ctx context.Context, cfg *serviceconfig.Config, log zerolog.Logger) (catalogio.FetchSource, error) {
	if cfg.CatalogPath != "" {
		return catalogio.NewLocalSource(cfg.CatalogPath, log), nil
	}
	return catalogio.NewS3Source(ctx, cfg.CatalogS3Bucket, cfg.CatalogS3Key, cfg.CatalogS3Region, log)
}
