// ABOUTME: FoodLogEntry reads, creation, and deletion for SQLite storage.
// ABOUTME: Deletes resolve the entry's uid before removing it so the outbox can address the remote twin.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/macros/internal/models"
)

const foodLogColumns = `id, uid, date, food_name, amount_desc, calories, protein, carbs, fats,
	fiber, sugar, sodium, nutrients, notes, created_at`

// AddLog stores a new entry and queues its INSERT. A missing uid or
// timestamp is filled in; ID is set from the local key.
func (d *DB) AddLog(ctx context.Context, e *models.FoodLogEntry) error {
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		return addLogTx(ctx, tx, e)
	})
	if err != nil {
		return fmt.Errorf("add log: %w", err)
	}
	return nil
}

func addLogTx(ctx context.Context, tx *sql.Tx, e *models.FoodLogEntry) error {
	if e.UID == "" {
		e.UID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	date, err := models.ParseDate(e.Date)
	if err != nil {
		return err
	}
	e.Date = date

	result, err := tx.ExecContext(ctx, `
		INSERT INTO food_logs (uid, date, food_name, amount_desc, calories, protein, carbs, fats,
		                       fiber, sugar, sodium, nutrients, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.UID, e.Date, e.Name, e.Source, e.Calories, e.Protein, e.Carbs, e.Fats,
		e.Fiber, e.Sugar, e.Sodium, e.Micronutrients, e.Notes, formatTime(e.CreatedAt),
	)
	if err != nil {
		return err
	}
	if e.ID, err = result.LastInsertId(); err != nil {
		return err
	}

	_, err = enqueueTx(ctx, tx, models.EntityFoodLog, models.OpInsert, e)
	return err
}

// GetLog returns a single entry by local id.
func (d *DB) GetLog(ctx context.Context, id int64) (*models.FoodLogEntry, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT `+foodLogColumns+` FROM food_logs WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get log %d: %w", id, err)
	}
	defer rows.Close()

	entries, err := scanFoodLogs(rows)
	if err != nil {
		return nil, fmt.Errorf("get log %d: %w", id, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("get log %d: %w", id, ErrNotFound)
	}
	return entries[0], nil
}

// ReadLogs returns the entries of a single day in creation order.
func (d *DB) ReadLogs(ctx context.Context, date string) ([]*models.FoodLogEntry, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT `+foodLogColumns+`
		FROM food_logs
		WHERE date = ?
		ORDER BY id ASC`, date)
	if err != nil {
		return nil, fmt.Errorf("read logs: %w", err)
	}
	defer rows.Close()

	return scanFoodLogs(rows)
}

// ReadLogsSince returns every entry dated on or after date, by day and then
// creation order.
func (d *DB) ReadLogsSince(ctx context.Context, date string) ([]*models.FoodLogEntry, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT `+foodLogColumns+`
		FROM food_logs
		WHERE date >= ?
		ORDER BY date ASC, id ASC`, date)
	if err != nil {
		return nil, fmt.Errorf("read logs since %s: %w", date, err)
	}
	defer rows.Close()

	return scanFoodLogs(rows)
}

// DeleteLog removes an entry by local id and queues a DELETE carrying its uid.
func (d *DB) DeleteLog(ctx context.Context, id int64) error {
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		var uid string
		err := tx.QueryRowContext(ctx, `SELECT uid FROM food_logs WHERE id = ?`, id).Scan(&uid)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM food_logs WHERE id = ?`, id); err != nil {
			return err
		}

		_, err = enqueueTx(ctx, tx, models.EntityFoodLog, models.OpDelete, models.DeletePayload{UID: uid})
		return err
	})
	if err != nil {
		return fmt.Errorf("delete log %d: %w", id, err)
	}
	return nil
}

// DeleteLogsForDate removes every entry of a day in one transaction,
// queueing one DELETE per removed entry. Returns how many were removed.
func (d *DB) DeleteLogsForDate(ctx context.Context, date string) (int, error) {
	var removed int
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		uids, err := collectUIDs(ctx, tx, `SELECT uid FROM food_logs WHERE date = ? ORDER BY id ASC`, date)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM food_logs WHERE date = ?`, date); err != nil {
			return err
		}

		for _, uid := range uids {
			if _, err := enqueueTx(ctx, tx, models.EntityFoodLog, models.OpDelete, models.DeletePayload{UID: uid}); err != nil {
				return err
			}
		}
		removed = len(uids)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete logs for %s: %w", date, err)
	}
	return removed, nil
}

// collectUIDs reads a single uid column fully before any further statement
// runs on the transaction.
func collectUIDs(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]string, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uids []string
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, err
		}
		uids = append(uids, uid)
	}
	return uids, rows.Err()
}

func scanFoodLogs(rows *sql.Rows) ([]*models.FoodLogEntry, error) {
	var entries []*models.FoodLogEntry
	for rows.Next() {
		var e models.FoodLogEntry
		var createdAt string

		err := rows.Scan(&e.ID, &e.UID, &e.Date, &e.Name, &e.Source, &e.Calories, &e.Protein, &e.Carbs, &e.Fats,
			&e.Fiber, &e.Sugar, &e.Sodium, &e.Micronutrients, &e.Notes, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan food log: %w", err)
		}
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("food log %d: %w", e.ID, err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
