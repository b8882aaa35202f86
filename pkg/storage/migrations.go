package storage

import (
	"database/sql"
	"fmt"
)

// Sample timestamps are unix seconds so that MIN/MAX/AVG aggregates keep a
// scannable type; alert timestamps are plain DATETIME columns read back
// whole.
var sqliteMigrations = []string{
	// Migration 1: Initial schema
	`CREATE TABLE IF NOT EXISTS alert_events (
		id         TEXT PRIMARY KEY,
		level      TEXT NOT NULL CHECK(level IN ('low', 'high', 'info')),
		percent    INTEGER NOT NULL DEFAULT 0,
		charging   INTEGER NOT NULL DEFAULT 0,
		title      TEXT NOT NULL DEFAULT '',
		message    TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_alerts_created_at ON alert_events(created_at);
	CREATE INDEX IF NOT EXISTS idx_alerts_level ON alert_events(level);

	CREATE TABLE IF NOT EXISTS battery_samples (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		percent     INTEGER NOT NULL,
		charging    INTEGER NOT NULL DEFAULT 0,
		state       TEXT NOT NULL DEFAULT '',
		recorded_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_samples_recorded_at ON battery_samples(recorded_at);`,
}

var postgresMigrations = []string{
	// Migration 1: Initial schema
	`CREATE TABLE IF NOT EXISTS alert_events (
		id         TEXT PRIMARY KEY,
		level      TEXT NOT NULL CHECK(level IN ('low', 'high', 'info')),
		percent    INTEGER NOT NULL DEFAULT 0,
		charging   BOOLEAN NOT NULL DEFAULT FALSE,
		title      TEXT NOT NULL DEFAULT '',
		message    TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_alerts_created_at ON alert_events(created_at);
	CREATE INDEX IF NOT EXISTS idx_alerts_level ON alert_events(level);

	CREATE TABLE IF NOT EXISTS battery_samples (
		id          BIGSERIAL PRIMARY KEY,
		percent     INTEGER NOT NULL,
		charging    BOOLEAN NOT NULL DEFAULT FALSE,
		state       TEXT NOT NULL DEFAULT '',
		recorded_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_samples_recorded_at ON battery_samples(recorded_at);`,
}

// runMigrations applies pending schema migrations. recordStmt inserts a
// version row and differs only in placeholder syntax between drivers.
func runMigrations(db *sql.DB, migrations []string, recordStmt string) error {
	// Ensure migration tracking table exists
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY
	)`)
	if err != nil {
		return fmt.Errorf("create migration table: %w", err)
	}

	var currentVersion int
	row := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("check migration version: %w", err)
	}

	for i := currentVersion; i < len(migrations); i++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", i+1, err)
		}

		if _, err := tx.Exec(migrations[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("run migration %d: %w", i+1, err)
		}

		if _, err := tx.Exec(recordStmt, i+1); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", i+1, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", i+1, err)
		}
	}

	return nil
}
