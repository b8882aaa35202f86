package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	_ "github.com/jackc/pgx/v5/stdlib"

	"battnotify/pkg/model"
)

// Postgres implements the Storage interface over PostgreSQL using the pgx
// stdlib driver. Useful when several machines report into one shared
// history database.
type Postgres struct {
	db *sql.DB
}

// NewPostgres connects to the database named by dsn and applies migrations.
func NewPostgres(dsn string) (*Postgres, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres history requires history_dsn")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := runMigrations(db, postgresMigrations, "INSERT INTO schema_migrations (version) VALUES ($1)"); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Postgres{db: db}, nil
}

func (p *Postgres) SaveAlert(ctx context.Context, event model.AlertEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	_, err := p.db.ExecContext(ctx,
		`INSERT INTO alert_events (id, level, percent, charging, title, message, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.ID, event.Level, event.Percent, event.Charging,
		event.Title, event.Message, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert alert event: %w", err)
	}
	return nil
}

func (p *Postgres) SaveSample(ctx context.Context, rec model.SampleRecord) error {
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now().UTC()
	}

	_, err := p.db.ExecContext(ctx,
		`INSERT INTO battery_samples (percent, charging, state, recorded_at)
		 VALUES ($1, $2, $3, $4)`,
		rec.Percent, rec.Charging, rec.State, rec.RecordedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert battery sample: %w", err)
	}
	return nil
}

func (p *Postgres) ListAlerts(ctx context.Context, limit int) ([]model.AlertEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := p.db.QueryContext(ctx,
		`SELECT id, level, percent, charging, title, message, created_at
		 FROM alert_events ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var events []model.AlertEvent
	for rows.Next() {
		var e model.AlertEvent
		if err := rows.Scan(&e.ID, &e.Level, &e.Percent, &e.Charging,
			&e.Title, &e.Message, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alert row: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (p *Postgres) SampleStats(ctx context.Context, since time.Time) (model.SampleStats, error) {
	var (
		stats model.SampleStats
		first sql.NullTime
		last  sql.NullTime
	)
	err := p.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(MIN(percent), 0),
		        COALESCE(MAX(percent), 0),
		        COALESCE(AVG(percent), 0),
		        MIN(recorded_at),
		        MAX(recorded_at)
		 FROM battery_samples WHERE recorded_at >= $1`, since.UTC(),
	).Scan(&stats.Count, &stats.MinPercent, &stats.MaxPercent, &stats.AvgPercent, &first, &last)
	if err != nil {
		return model.SampleStats{}, fmt.Errorf("aggregate samples: %w", err)
	}
	if first.Valid {
		stats.FirstAt = first.Time.UTC()
	}
	if last.Valid {
		stats.LastAt = last.Time.UTC()
	}
	return stats, nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
