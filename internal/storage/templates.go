// ABOUTME: MealTemplate reads, saves, and deletion for SQLite storage.
// ABOUTME: Template payloads are stored opaque and replayed as-is.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/macros/internal/models"
)

// SaveTemplate stores a new template and queues its INSERT.
func (d *DB) SaveTemplate(ctx context.Context, t *models.MealTemplate) error {
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		return saveTemplateTx(ctx, tx, t)
	})
	if err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	return nil
}

func saveTemplateTx(ctx context.Context, tx *sql.Tx, t *models.MealTemplate) error {
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("name is required")
	}
	if t.UID == "" {
		t.UID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO meal_templates (uid, name, payload, calories, protein, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.UID, t.Name, t.Payload, t.Calories, t.Protein, formatTime(t.CreatedAt),
	)
	if err != nil {
		return err
	}
	if t.ID, err = result.LastInsertId(); err != nil {
		return err
	}

	_, err = enqueueTx(ctx, tx, models.EntityTemplate, models.OpInsert, t)
	return err
}

// GetTemplate returns a template by local id.
func (d *DB) GetTemplate(ctx context.Context, id int64) (*models.MealTemplate, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, uid, name, payload, calories, protein, created_at
		FROM meal_templates WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get template %d: %w", id, err)
	}
	defer rows.Close()

	templates, err := scanTemplates(rows)
	if err != nil {
		return nil, fmt.Errorf("get template %d: %w", id, err)
	}
	if len(templates) == 0 {
		return nil, fmt.Errorf("get template %d: %w", id, ErrNotFound)
	}
	return templates[0], nil
}

// FindTemplate returns the newest template with the given name.
func (d *DB) FindTemplate(ctx context.Context, name string) (*models.MealTemplate, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, uid, name, payload, calories, protein, created_at
		FROM meal_templates
		WHERE name = ?
		ORDER BY id DESC
		LIMIT 1`, name)
	if err != nil {
		return nil, fmt.Errorf("find template %q: %w", name, err)
	}
	defer rows.Close()

	templates, err := scanTemplates(rows)
	if err != nil {
		return nil, fmt.Errorf("find template %q: %w", name, err)
	}
	if len(templates) == 0 {
		return nil, fmt.Errorf("find template %q: %w", name, ErrNotFound)
	}
	return templates[0], nil
}

// ReadTemplates returns all templates in creation order.
func (d *DB) ReadTemplates(ctx context.Context) ([]*models.MealTemplate, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, uid, name, payload, calories, protein, created_at
		FROM meal_templates
		ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}
	defer rows.Close()

	return scanTemplates(rows)
}

// DeleteTemplate removes a template and queues a DELETE carrying its uid.
func (d *DB) DeleteTemplate(ctx context.Context, id int64) error {
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		var uid string
		err := tx.QueryRowContext(ctx, `SELECT uid FROM meal_templates WHERE id = ?`, id).Scan(&uid)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM meal_templates WHERE id = ?`, id); err != nil {
			return err
		}

		_, err = enqueueTx(ctx, tx, models.EntityTemplate, models.OpDelete, models.DeletePayload{UID: uid})
		return err
	})
	if err != nil {
		return fmt.Errorf("delete template %d: %w", id, err)
	}
	return nil
}

func scanTemplates(rows *sql.Rows) ([]*models.MealTemplate, error) {
	var templates []*models.MealTemplate
	for rows.Next() {
		var t models.MealTemplate
		var createdAt string
		if err := rows.Scan(&t.ID, &t.UID, &t.Name, &t.Payload, &t.Calories, &t.Protein, &createdAt); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		var err error
		if t.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("template %d: %w", t.ID, err)
		}
		templates = append(templates, &t)
	}
	return templates, rows.Err()
}
