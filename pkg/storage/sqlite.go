package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"

	"battnotify/pkg/model"
)

// SQLite implements the Storage interface using an SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens or creates an SQLite database at the given path.
func NewSQLite(dbPath string) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for concurrent reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := runMigrations(db, sqliteMigrations, "INSERT INTO schema_migrations (version) VALUES (?)"); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) SaveAlert(ctx context.Context, event model.AlertEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	charging := 0
	if event.Charging {
		charging = 1
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO alert_events (id, level, percent, charging, title, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.Level, event.Percent, charging,
		event.Title, event.Message, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert alert event: %w", err)
	}
	return nil
}

func (s *SQLite) SaveSample(ctx context.Context, rec model.SampleRecord) error {
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now().UTC()
	}
	charging := 0
	if rec.Charging {
		charging = 1
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO battery_samples (percent, charging, state, recorded_at)
		 VALUES (?, ?, ?, ?)`,
		rec.Percent, charging, rec.State, rec.RecordedAt.UTC().Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert battery sample: %w", err)
	}
	return nil
}

func (s *SQLite) ListAlerts(ctx context.Context, limit int) ([]model.AlertEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, level, percent, charging, title, message, created_at
		 FROM alert_events ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var events []model.AlertEvent
	for rows.Next() {
		var e model.AlertEvent
		var charging int64
		if err := rows.Scan(&e.ID, &e.Level, &e.Percent, &charging,
			&e.Title, &e.Message, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alert row: %w", err)
		}
		e.Charging = charging != 0
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *SQLite) SampleStats(ctx context.Context, since time.Time) (model.SampleStats, error) {
	var (
		stats     model.SampleStats
		firstUnix int64
		lastUnix  int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(MIN(percent), 0),
		        COALESCE(MAX(percent), 0),
		        COALESCE(AVG(percent), 0),
		        COALESCE(MIN(recorded_at), 0),
		        COALESCE(MAX(recorded_at), 0)
		 FROM battery_samples WHERE recorded_at >= ?`, since.UTC().Unix(),
	).Scan(&stats.Count, &stats.MinPercent, &stats.MaxPercent, &stats.AvgPercent, &firstUnix, &lastUnix)
	if err != nil {
		return model.SampleStats{}, fmt.Errorf("aggregate samples: %w", err)
	}
	if stats.Count > 0 {
		stats.FirstAt = time.Unix(firstUnix, 0).UTC()
		stats.LastAt = time.Unix(lastUnix, 0).UTC()
	}
	return stats, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
