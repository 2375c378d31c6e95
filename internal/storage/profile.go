// ABOUTME: UserProfile singleton reads and wholesale updates.
// ABOUTME: Each update writes the row and queues one outbox record atomically.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/macros/internal/models"
)

// profileRowID is the fixed local key of the singleton profile row.
const profileRowID = 1

// ReadProfile returns the stored profile, or ErrNotFound before the first
// UpdateProfile.
func (d *DB) ReadProfile(ctx context.Context) (*models.UserProfile, error) {
	var p models.UserProfile
	var updatedAt string

	err := d.db.QueryRowContext(ctx, `
		SELECT uid, height_cm, weight_kg, bf_percent, activity_level, goal, diet_preference,
		       target_calories, target_protein, target_carbs, target_fats, updated_at
		FROM user_profile
		WHERE id = ?`, profileRowID,
	).Scan(
		&p.UID, &p.HeightCm, &p.WeightKg, &p.BodyFatPct, &p.ActivityLevel, &p.Goal, &p.DietPreference,
		&p.TargetCalories, &p.TargetProtein, &p.TargetCarbs, &p.TargetFats, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read profile: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	return &p, nil
}

// UpdateProfile replaces the profile. The first write is queued as INSERT,
// every later one as UPDATE; both replay as an upsert of the whole document.
func (d *DB) UpdateProfile(ctx context.Context, p *models.UserProfile) error {
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		return updateProfileTx(ctx, tx, p)
	})
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

func updateProfileTx(ctx context.Context, tx *sql.Tx, p *models.UserProfile) error {
	p.UID = models.ProfileUID
	p.UpdatedAt = time.Now().UTC()

	var exists int
	op := models.OpUpdate
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM user_profile WHERE id = ?`, profileRowID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		op = models.OpInsert
	} else if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_profile (id, uid, height_cm, weight_kg, bf_percent, activity_level, goal,
		                          diet_preference, target_calories, target_protein, target_carbs,
		                          target_fats, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			uid = excluded.uid,
			height_cm = excluded.height_cm,
			weight_kg = excluded.weight_kg,
			bf_percent = excluded.bf_percent,
			activity_level = excluded.activity_level,
			goal = excluded.goal,
			diet_preference = excluded.diet_preference,
			target_calories = excluded.target_calories,
			target_protein = excluded.target_protein,
			target_carbs = excluded.target_carbs,
			target_fats = excluded.target_fats,
			updated_at = excluded.updated_at`,
		profileRowID, p.UID, p.HeightCm, p.WeightKg, p.BodyFatPct, p.ActivityLevel, p.Goal,
		p.DietPreference, p.TargetCalories, p.TargetProtein, p.TargetCarbs, p.TargetFats,
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return err
	}

	_, err = enqueueTx(ctx, tx, models.EntityProfile, op, p)
	return err
}
