package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"battnotify/pkg/model"
)

// Storage defines the persistence layer for alert events and battery
// samples.
type Storage interface {
	// SaveAlert persists a fired alert.
	SaveAlert(ctx context.Context, event model.AlertEvent) error

	// SaveSample persists one battery sample.
	SaveSample(ctx context.Context, rec model.SampleRecord) error

	// ListAlerts returns the most recent alerts, newest first.
	ListAlerts(ctx context.Context, limit int) ([]model.AlertEvent, error)

	// SampleStats aggregates samples recorded at or after since.
	SampleStats(ctx context.Context, since time.Time) (model.SampleStats, error)

	// Close releases resources.
	Close() error
}

// Driver names accepted in the history_driver setting.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverNone     = "none"
)

// Open builds the history store selected by settings. A nil Storage with a
// nil error means history recording is disabled.
func Open(settings model.Settings) (Storage, error) {
	switch strings.ToLower(strings.TrimSpace(settings.HistoryDriver)) {
	case DriverNone, "":
		return nil, nil
	case DriverSQLite:
		return NewSQLite(settings.HistoryPath)
	case DriverPostgres:
		return NewPostgres(settings.HistoryDSN)
	default:
		return nil, fmt.Errorf("unknown history driver %q", settings.HistoryDriver)
	}
}
