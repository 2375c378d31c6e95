// ABOUTME: BodyStatEntry reads, creation, and deletion for SQLite storage.
// ABOUTME: Weigh-ins are append-only; a correction is a delete plus a new entry.
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

// AddBodyStat stores a weigh-in and queues its INSERT.
func (d *DB) AddBodyStat(ctx context.Context, s *models.BodyStatEntry) error {
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		return addBodyStatTx(ctx, tx, s)
	})
	if err != nil {
		return fmt.Errorf("add body stat: %w", err)
	}
	return nil
}

func addBodyStatTx(ctx context.Context, tx *sql.Tx, s *models.BodyStatEntry) error {
	if s.UID == "" {
		s.UID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	date, err := models.ParseDate(s.Date)
	if err != nil {
		return err
	}
	s.Date = date

	result, err := tx.ExecContext(ctx, `
		INSERT INTO body_stats (uid, date, weight, bf_percent, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		s.UID, s.Date, s.WeightKg, s.BodyFatPct, formatTime(s.CreatedAt),
	)
	if err != nil {
		return err
	}
	if s.ID, err = result.LastInsertId(); err != nil {
		return err
	}

	_, err = enqueueTx(ctx, tx, models.EntityBodyStat, models.OpInsert, s)
	return err
}

// GetBodyStat returns a weigh-in by local id.
func (d *DB) GetBodyStat(ctx context.Context, id int64) (*models.BodyStatEntry, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, uid, date, weight, bf_percent, created_at
		FROM body_stats WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get body stat %d: %w", id, err)
	}
	defer rows.Close()

	stats, err := scanBodyStats(rows)
	if err != nil {
		return nil, fmt.Errorf("get body stat %d: %w", id, err)
	}
	if len(stats) == 0 {
		return nil, fmt.Errorf("get body stat %d: %w", id, ErrNotFound)
	}
	return stats[0], nil
}

// ReadBodyStats returns every weigh-in by date, ties in creation order.
func (d *DB) ReadBodyStats(ctx context.Context) ([]*models.BodyStatEntry, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, uid, date, weight, bf_percent, created_at
		FROM body_stats
		ORDER BY date ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("read body stats: %w", err)
	}
	defer rows.Close()

	return scanBodyStats(rows)
}

// DeleteBodyStat removes a weigh-in and queues a DELETE carrying its uid.
func (d *DB) DeleteBodyStat(ctx context.Context, id int64) error {
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		var uid string
		err := tx.QueryRowContext(ctx, `SELECT uid FROM body_stats WHERE id = ?`, id).Scan(&uid)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM body_stats WHERE id = ?`, id); err != nil {
			return err
		}

		_, err = enqueueTx(ctx, tx, models.EntityBodyStat, models.OpDelete, models.DeletePayload{UID: uid})
		return err
	})
	if err != nil {
		return fmt.Errorf("delete body stat %d: %w", id, err)
	}
	return nil
}

func scanBodyStats(rows *sql.Rows) ([]*models.BodyStatEntry, error) {
	var stats []*models.BodyStatEntry
	for rows.Next() {
		var s models.BodyStatEntry
		var createdAt string
		if err := rows.Scan(&s.ID, &s.UID, &s.Date, &s.WeightKg, &s.BodyFatPct, &createdAt); err != nil {
			return nil, fmt.Errorf("scan body stat: %w", err)
		}
		var err error
		if s.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("body stat %d: %w", s.ID, err)
		}
		stats = append(stats, &s)
	}
	return stats, rows.Err()
}
