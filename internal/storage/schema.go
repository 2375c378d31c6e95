// ABOUTME: SQLite schema definition and versioned, additive migrations.
// ABOUTME: Defines entity tables plus the outbox table and its pending index.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

type migration struct {
	version int
	name    string
	sql     string
}

// Migrations only ever add tables, columns, or indexes.
var migrations = []migration{
	{
		version: 1,
		name:    "initial_schema",
		sql: `
	CREATE TABLE IF NOT EXISTS user_profile (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		uid TEXT NOT NULL,
		height_cm REAL NOT NULL DEFAULT 0,
		weight_kg REAL NOT NULL DEFAULT 0,
		bf_percent REAL NOT NULL DEFAULT 0,
		activity_level TEXT NOT NULL DEFAULT '',
		goal TEXT NOT NULL DEFAULT '',
		diet_preference TEXT NOT NULL DEFAULT '',
		target_calories REAL NOT NULL DEFAULT 0,
		target_protein REAL NOT NULL DEFAULT 0,
		target_carbs REAL NOT NULL DEFAULT 0,
		target_fats REAL NOT NULL DEFAULT 0,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS food_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uid TEXT NOT NULL UNIQUE,
		date TEXT NOT NULL,
		food_name TEXT NOT NULL,
		amount_desc TEXT NOT NULL DEFAULT '',
		calories REAL NOT NULL DEFAULT 0,
		protein REAL NOT NULL DEFAULT 0,
		carbs REAL NOT NULL DEFAULT 0,
		fats REAL NOT NULL DEFAULT 0,
		fiber REAL NOT NULL DEFAULT 0,
		sugar REAL NOT NULL DEFAULT 0,
		sodium REAL NOT NULL DEFAULT 0,
		nutrients TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS body_stats (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uid TEXT NOT NULL UNIQUE,
		date TEXT NOT NULL,
		weight REAL NOT NULL DEFAULT 0,
		bf_percent REAL NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meal_templates (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uid TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		payload TEXT NOT NULL DEFAULT '',
		calories REAL NOT NULL DEFAULT 0,
		protein REAL NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS outbox (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		entity_type TEXT NOT NULL,
		operation TEXT NOT NULL CHECK (operation IN ('INSERT', 'UPDATE', 'DELETE')),
		payload TEXT NOT NULL,
		synced INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_food_logs_date ON food_logs(date, id);
	CREATE INDEX IF NOT EXISTS idx_body_stats_date ON body_stats(date, id);
	CREATE INDEX IF NOT EXISTS idx_outbox_pending ON outbox(id) WHERE synced = 0;
	`,
	},
	{
		version: 2,
		name:    "outbox_diagnostics",
		sql: `
	ALTER TABLE outbox ADD COLUMN attempts INTEGER NOT NULL DEFAULT 0;
	ALTER TABLE outbox ADD COLUMN last_error TEXT NOT NULL DEFAULT '';
	ALTER TABLE outbox ADD COLUMN synced_at DATETIME;
	`,
	},
}

// applyMigrations brings the schema up to the latest version. Each
// migration runs in its own transaction and is recorded in
// schema_migrations so reopening a database is a no-op.
func (d *DB) applyMigrations() error {
	if _, err := d.db.Exec(`
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := d.db.QueryRow(`SELECT 1 FROM schema_migrations WHERE version = ?`, m.version).Scan(&exists)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check migration version %d: %w", m.version, err)
		}

		tx, err := d.db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`, m.version, m.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration version %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration version %d: %w", m.version, err)
		}
	}

	return nil
}

// SchemaVersion returns the highest applied migration version.
func (d *DB) SchemaVersion() (int, error) {
	var v sql.NullInt64
	if err := d.db.QueryRow(`SELECT MAX(version) FROM schema_migrations`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return int(v.Int64), nil
}
