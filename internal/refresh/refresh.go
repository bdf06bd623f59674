// Package refresh periodically re-loads the catalog from its configured
// source and atomically swaps the pointer the HTTP layer reads from.
package refresh

import (
	"context"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/aristath/formulary/internal/catalogio"
	"github.com/aristath/formulary/internal/domain"
	"github.com/aristath/formulary/internal/utils"
)

// Refresher holds the live catalog and keeps it current on a cron
// schedule. The core never touches this type; it only ever receives the
// plain *domain.Catalog returned by Current().
type Refresher struct {
	source  catalogio.Source
	current atomic.Pointer[domain.Catalog]
	cron    *cron.Cron
	log     zerolog.Logger
}

// New builds a Refresher over source. Call Load once before Start so a
// catalog is available immediately.
func New(source catalogio.Source, log zerolog.Logger) *Refresher {
	return &Refresher{
		source: source,
		cron:   cron.New(),
		log:    log.With().Str("component", "refresh").Logger(),
	}
}

// Current returns the most recently loaded catalog, or nil if Load has
// never succeeded.
func (r *Refresher) Current() *domain.Catalog {
	return r.current.Load()
}

// Load fetches the catalog from the source once and swaps it in.
func (r *Refresher) Load(ctx context.Context) error {
	timer := utils.NewTimer("refresh.load_catalog", r.log)
	catalog, err := r.source.Load(ctx)
	if err != nil {
		timer.Disable()
		return err
	}
	timer.Stop()
	r.current.Store(catalog)
	r.log.Info().Int("recipes", catalog.Len()).Msg("catalog loaded")
	return nil
}

// Start registers the refresh job on schedule and starts the cron runner.
// Load failures during scheduled runs are logged and leave the previous
// catalog in place; they never panic or stop the scheduler.
func (r *Refresher) Start(schedule string) error {
	_, err := r.cron.AddFunc(schedule, func() {
		ctx := context.Background()
		if err := r.Load(ctx); err != nil {
			r.log.Error().Err(err).Msg("scheduled catalog refresh failed, keeping previous catalog")
		}
	})
	if err != nil {
		return err
	}

	r.cron.Start()
	r.log.Info().Str("schedule", schedule).Msg("catalog refresh scheduled")
	return nil
}

// Stop stops the cron runner, waiting for any in-flight refresh to finish.
func (r *Refresher) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.log.Info().Msg("catalog refresh stopped")
}
