// Package utils holds small cross-cutting helpers shared by the service
// packages. Nothing here knows about recipes or searches.
package utils

import (
	"time"

	"github.com/rs/zerolog"
)

// Timer measures one named operation from construction to Stop. Disable
// suppresses the log line, for the error path where the duration of a
// failed operation would only mislead.
type Timer struct {
	start   time.Time
	name    string
	log     zerolog.Logger
	enabled bool
}

// NewTimer starts a timer for the named operation.
func NewTimer(name string, log zerolog.Logger) *Timer {
	return &Timer{
		start:   time.Now(),
		name:    name,
		log:     log,
		enabled: true,
	}
}

// Stop logs the elapsed duration and returns it. Durations past 10s get an
// info line, past 30s a warning.
func (t *Timer) Stop() time.Duration {
	if !t.enabled {
		return 0
	}

	duration := time.Since(t.start)

	t.log.Debug().
		Str("operation", t.name).
		Dur("duration_ms", duration).
		Msg("operation finished")

	if duration > 30*time.Second {
		t.log.Warn().
			Str("operation", t.name).
			Dur("duration", duration).
			Msg("slow operation (>30s)")
	} else if duration > 10*time.Second {
		t.log.Info().
			Str("operation", t.name).
			Dur("duration", duration).
			Msg("operation took longer than expected (>10s)")
	}

	return duration
}

// Disable suppresses the Stop log line.
func (t *Timer) Disable() {
	t.enabled = false
}

// OperationTimer is the defer-friendly form of Timer:
//
//	func Solve() {
//	    defer utils.OperationTimer("optimizer.solve", log)()
//	}
func OperationTimer(operation string, log zerolog.Logger) func() {
	start := time.Now()

	return func() {
		duration := time.Since(start)

		log.Debug().
			Str("operation", operation).
			Dur("duration_ms", duration).
			Msg("operation completed")

		if duration > 30*time.Second {
			log.Warn().
				Str("operation", operation).
				Dur("duration", duration).
				Msg("slow operation")
		}
	}
}

// MeasureDBQuery times one database statement; the returned func takes the
// affected-row count so the log line carries both.
func MeasureDBQuery(queryName string, log zerolog.Logger) func(rowsAffected int64) {
	start := time.Now()

	return func(rowsAffected int64) {
		duration := time.Since(start)

		log.Debug().
			Str("query", queryName).
			Dur("duration_ms", duration).
			Int64("rows_affected", rowsAffected).
			Msg("database query completed")

		if duration > 5*time.Second {
			log.Warn().
				Str("query", queryName).
				Dur("duration", duration).
				Msg("slow database query")
		}
	}
}
