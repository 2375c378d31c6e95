// ABOUTME: Outbox queue: durable FIFO of pending mutations in the local store.
// ABOUTME: Append within the entity transaction, count, list, mark synced, purge.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/macros/internal/models"
)

// ErrNotFound is returned when a local row does not exist.
var ErrNotFound = errors.New("not found")

// enqueueTx appends an outbox record inside an existing transaction.
func enqueueTx(ctx context.Context, tx *sql.Tx, entityType models.EntityType, op models.Operation, payload any) (int64, error) {
	if !op.IsValid() {
		return 0, fmt.Errorf("enqueue: invalid operation %q", op)
	}
	if _, ok := entityType.Collection(); !ok {
		return 0, fmt.Errorf("enqueue: unknown entity type %q", entityType)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("enqueue: marshal payload: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO outbox (entity_type, operation, payload, synced, created_at)
		VALUES (?, ?, ?, 0, ?)`,
		string(entityType), string(op), string(data), formatTime(time.Now()),
	)
	if err != nil {
		return 0, fmt.Errorf("enqueue: %w", err)
	}
	return result.LastInsertId()
}

// Enqueue appends a record with synced=false in its own transaction.
// Facade methods append inside the entity transaction instead.
func (d *DB) Enqueue(ctx context.Context, entityType models.EntityType, op models.Operation, payload any) (int64, error) {
	var id int64
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = enqueueTx(ctx, tx, entityType, op, payload)
		return err
	})
	return id, err
}

// PendingCount returns the number of unsynced records. Served by the
// partial index on synced = 0.
func (d *DB) PendingCount(ctx context.Context) (int, error) {
	var n int
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM outbox WHERE synced = 0`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pending: %w", err)
	}
	return n, nil
}

// Unsynced returns unsynced records in creation order. limit <= 0 returns all.
func (d *DB) Unsynced(ctx context.Context, limit int) ([]*models.OutboxRecord, error) {
	query := `
		SELECT id, entity_type, operation, payload, synced, created_at, synced_at, attempts, last_error
		FROM outbox
		WHERE synced = 0
		ORDER BY id ASC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list unsynced: %w", err)
	}
	defer rows.Close()

	return scanOutboxRecords(rows)
}

// ListOutbox returns outbox records, newest last. Synced records are only
// included when includeSynced is set.
func (d *DB) ListOutbox(ctx context.Context, includeSynced bool, limit int) ([]*models.OutboxRecord, error) {
	query := `
		SELECT id, entity_type, operation, payload, synced, created_at, synced_at, attempts, last_error
		FROM outbox
	`
	if !includeSynced {
		query += " WHERE synced = 0"
	}
	query += " ORDER BY id ASC"

	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list outbox: %w", err)
	}
	defer rows.Close()

	return scanOutboxRecords(rows)
}

// MarkSynced flags a record as synced. Marking an already-synced record is
// a no-op. Marking an id that does not exist returns ErrNotFound.
func (d *DB) MarkSynced(ctx context.Context, id int64) error {
	result, err := d.db.ExecContext(ctx, `
		UPDATE outbox SET synced = 1, synced_at = ?, last_error = ''
		WHERE id = ? AND synced = 0`,
		formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("mark synced %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark synced %d: %w", id, err)
	}
	if affected > 0 {
		return nil
	}

	var exists int
	err = d.db.QueryRowContext(ctx, `SELECT 1 FROM outbox WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("mark synced %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("mark synced %d: %w", id, err)
	}
	return nil
}

// RecordFailure bumps the attempt counter of an unsynced record and keeps
// the last error for inspection. Synced records are left untouched.
func (d *DB) RecordFailure(ctx context.Context, id int64, msg string) error {
	_, err := d.db.ExecContext(ctx, `
		UPDATE outbox SET attempts = attempts + 1, last_error = ?
		WHERE id = ? AND synced = 0`,
		msg, id,
	)
	if err != nil {
		return fmt.Errorf("record failure %d: %w", id, err)
	}
	return nil
}

// PurgeSynced deletes synced records created before the cutoff. Synced
// records are never replayed, so removing them cannot lose a mutation.
func (d *DB) PurgeSynced(ctx context.Context, before time.Time) (int, error) {
	result, err := d.db.ExecContext(ctx,
		`DELETE FROM outbox WHERE synced = 1 AND created_at < ?`,
		formatTime(before),
	)
	if err != nil {
		return 0, fmt.Errorf("purge synced: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge synced: %w", err)
	}
	return int(n), nil
}

func scanOutboxRecords(rows *sql.Rows) ([]*models.OutboxRecord, error) {
	var records []*models.OutboxRecord
	for rows.Next() {
		var r models.OutboxRecord
		var entityType, op, payload, createdAt string
		var synced int
		var syncedAt sql.NullString

		if err := rows.Scan(&r.ID, &entityType, &op, &payload, &synced, &createdAt, &syncedAt, &r.Attempts, &r.LastError); err != nil {
			return nil, fmt.Errorf("scan outbox record: %w", err)
		}

		r.EntityType = models.EntityType(entityType)
		r.Operation = models.Operation(op)
		r.Payload = json.RawMessage(payload)
		r.Synced = synced != 0

		var err error
		if r.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("outbox record %d created_at: %w", r.ID, err)
		}
		if syncedAt.Valid && syncedAt.String != "" {
			t, err := parseTime(syncedAt.String)
			if err != nil {
				return nil, fmt.Errorf("outbox record %d synced_at: %w", r.ID, err)
			}
			r.SyncedAt = &t
		}

		records = append(records, &r)
	}
	return records, rows.Err()
}

// timeLayout is fixed-width so stored timestamps compare correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
