// ABOUTME: Export and import functionality for nutrition data.
// ABOUTME: Supports JSON, YAML, and Markdown exports; an import runs in one transaction.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/macros/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for nutrition data.
type ExportData struct {
	Version    string                  `json:"version" yaml:"version"`
	ExportedAt time.Time               `json:"exported_at" yaml:"exported_at"`
	Tool       string                  `json:"tool" yaml:"tool"`
	Profile    *models.UserProfile     `json:"profile,omitempty" yaml:"profile,omitempty"`
	FoodLogs   []*models.FoodLogEntry  `json:"food_logs" yaml:"food_logs"`
	BodyStats  []*models.BodyStatEntry `json:"body_stats" yaml:"body_stats"`
	Templates  []*models.MealTemplate  `json:"templates" yaml:"templates"`
}

// ImportSummary counts imported entities. Entities whose uid already exists
// locally are skipped.
type ImportSummary struct {
	Profile   bool
	FoodLogs  int
	BodyStats int
	Templates int
	Skipped   int
}

// GetAllData retrieves all data for export.
func (d *DB) GetAllData(ctx context.Context) (*ExportData, error) {
	profile, err := d.ReadProfile(ctx)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	logs, err := d.ReadLogsSince(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list food logs: %w", err)
	}

	stats, err := d.ReadBodyStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("list body stats: %w", err)
	}

	templates, err := d.ReadTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	return &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().UTC(),
		Tool:       "macros",
		Profile:    profile,
		FoodLogs:   logs,
		BodyStats:  stats,
		Templates:  templates,
	}, nil
}

// ImportData writes an export in one transaction, so every imported entity
// is queued for sync under its original uid and a failure imports nothing.
func (d *DB) ImportData(ctx context.Context, data *ExportData) (*ImportSummary, error) {
	var summary *ImportSummary
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		summary, err = importTx(ctx, tx, data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func importTx(ctx context.Context, tx *sql.Tx, data *ExportData) (*ImportSummary, error) {
	summary := &ImportSummary{}

	if data.Profile != nil {
		if err := updateProfileTx(ctx, tx, data.Profile); err != nil {
			return nil, fmt.Errorf("import profile: %w", err)
		}
		summary.Profile = true
	}

	for _, e := range data.FoodLogs {
		exists, err := uidExists(ctx, tx, "food_logs", e.UID)
		if err != nil {
			return nil, err
		}
		if exists {
			summary.Skipped++
			continue
		}
		if err := addLogTx(ctx, tx, e); err != nil {
			return nil, fmt.Errorf("import food log %s: %w", e.UID, err)
		}
		summary.FoodLogs++
	}

	for _, s := range data.BodyStats {
		exists, err := uidExists(ctx, tx, "body_stats", s.UID)
		if err != nil {
			return nil, err
		}
		if exists {
			summary.Skipped++
			continue
		}
		if err := addBodyStatTx(ctx, tx, s); err != nil {
			return nil, fmt.Errorf("import body stat %s: %w", s.UID, err)
		}
		summary.BodyStats++
	}

	for _, t := range data.Templates {
		exists, err := uidExists(ctx, tx, "meal_templates", t.UID)
		if err != nil {
			return nil, err
		}
		if exists {
			summary.Skipped++
			continue
		}
		if err := saveTemplateTx(ctx, tx, t); err != nil {
			return nil, fmt.Errorf("import template %s: %w", t.UID, err)
		}
		summary.Templates++
	}

	return summary, nil
}

// uidExists reports whether table already holds uid. table is always one of
// the fixed entity table names.
func uidExists(ctx context.Context, tx *sql.Tx, table, uid string) (bool, error) {
	if uid == "" {
		return false, nil
	}
	var n int
	err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+` WHERE uid = ?`, uid).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check %s uid: %w", table, err)
	}
	return n > 0, nil
}

// ExportJSON exports all data as JSON.
func (d *DB) ExportJSON(ctx context.Context) ([]byte, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML in the same shape ImportYAML reads.
func (d *DB) ExportYAML(ctx context.Context) ([]byte, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(data)
}

// ExportMarkdown renders food logs dated on or after since as one table per
// day with a totals row. An empty since exports everything.
func (d *DB) ExportMarkdown(ctx context.Context, since string) (string, error) {
	logs, err := d.ReadLogsSince(ctx, since)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Macros Export - %s\n\n", now.Format(models.DateLayout)))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	if len(logs) == 0 {
		sb.WriteString("No entries.\n")
		return sb.String(), nil
	}

	// ReadLogsSince returns entries grouped by date already.
	var day string
	var totals models.FoodLogEntry
	flush := func() {
		sb.WriteString(fmt.Sprintf("| **Total** | | %.0f | %.1f | %.1f | %.1f |\n\n",
			totals.Calories, totals.Protein, totals.Carbs, totals.Fats))
	}
	for _, e := range logs {
		if e.Date != day {
			if day != "" {
				flush()
			}
			day = e.Date
			totals = models.FoodLogEntry{}
			sb.WriteString(fmt.Sprintf("## %s\n\n", day))
			sb.WriteString("| Food | Amount | kcal | Protein | Carbs | Fats |\n")
			sb.WriteString("|------|--------|------|---------|-------|------|\n")
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %.0f | %.1f | %.1f | %.1f |\n",
			e.Name, e.Source, e.Calories, e.Protein, e.Carbs, e.Fats))
		totals.Calories += e.Calories
		totals.Protein += e.Protein
		totals.Carbs += e.Carbs
		totals.Fats += e.Fats
	}
	flush()

	return sb.String(), nil
}

// ImportJSON imports data from JSON bytes.
func (d *DB) ImportJSON(ctx context.Context, data []byte) (*ImportSummary, error) {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	return d.ImportData(ctx, &exportData)
}

// ImportYAML imports data from a YAML document in the ExportData shape.
func (d *DB) ImportYAML(ctx context.Context, data []byte) (*ImportSummary, error) {
	var exportData ExportData
	if err := yaml.Unmarshal(data, &exportData); err != nil {
		return nil, fmt.Errorf("unmarshal YAML: %w", err)
	}
	return d.ImportData(ctx, &exportData)
}
