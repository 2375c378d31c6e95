// ABOUTME: Tests for export and import functionality.
// ABOUTME: Verifies JSON, YAML, and Markdown exports and uid-preserving imports.
package storage

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/harperreed/macros/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedExportData(t *testing.T, db *DB) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, db.UpdateProfile(ctx, &models.UserProfile{HeightCm: 175, WeightKg: 70}))
	addTestLog(t, db, "2024-03-01", "oats", 150)
	addTestLog(t, db, "2024-03-01", "milk", 100)
	addTestLog(t, db, "2024-03-02", "apple", 95)
	require.NoError(t, db.AddBodyStat(ctx, models.NewBodyStatEntry("2024-03-01", 70, 15)))
	require.NoError(t, db.SaveTemplate(ctx, &models.MealTemplate{Name: "breakfast", Calories: 250}))
}

func TestExportJSONRoundTrip(t *testing.T) {
	src := setupTestDB(t)
	seedExportData(t, src)
	ctx := context.Background()

	data, err := src.ExportJSON(ctx)
	require.NoError(t, err)

	var export ExportData
	require.NoError(t, json.Unmarshal(data, &export))
	assert.Equal(t, "1.0", export.Version)
	assert.Equal(t, "macros", export.Tool)
	require.NotNil(t, export.Profile)
	assert.Len(t, export.FoodLogs, 3)
	assert.Len(t, export.BodyStats, 1)
	assert.Len(t, export.Templates, 1)

	dst := setupTestDB(t)
	summary, err := dst.ImportJSON(ctx, data)
	require.NoError(t, err)
	assert.True(t, summary.Profile)
	assert.Equal(t, 3, summary.FoodLogs)
	assert.Equal(t, 1, summary.BodyStats)
	assert.Equal(t, 1, summary.Templates)
	assert.Zero(t, summary.Skipped)

	logs, err := dst.ReadLogs(ctx, "2024-03-01")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, export.FoodLogs[0].UID, logs[0].UID)

	// Imported rows are queued for sync like any other write.
	count, err := dst.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, count)

	again, err := dst.ImportJSON(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 5, again.Skipped)
	assert.Zero(t, again.FoodLogs)
}

func TestExportYAMLRoundTrip(t *testing.T) {
	src := setupTestDB(t)
	seedExportData(t, src)
	ctx := context.Background()

	data, err := src.ExportYAML(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tool: macros")

	dst := setupTestDB(t)
	summary, err := dst.ImportYAML(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.FoodLogs)

	profile, err := dst.ReadProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 175.0, profile.HeightCm)
}

func TestExportMarkdown(t *testing.T) {
	db := setupTestDB(t)
	seedExportData(t, db)
	ctx := context.Background()

	md, err := db.ExportMarkdown(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, md, "# Macros Export")
	assert.Contains(t, md, "## 2024-03-01")
	assert.Contains(t, md, "## 2024-03-02")
	assert.Contains(t, md, "| **Total** | | 250 |")

	md, err = db.ExportMarkdown(ctx, "2024-03-02")
	require.NoError(t, err)
	assert.False(t, strings.Contains(md, "## 2024-03-01"))
	assert.Contains(t, md, "apple")

	md, err = db.ExportMarkdown(ctx, "2030-01-01")
	require.NoError(t, err)
	assert.Contains(t, md, "No entries.")
}

func TestImportDataIsAllOrNothing(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	data := &ExportData{
		Profile:  &models.UserProfile{HeightCm: 180},
		FoodLogs: []*models.FoodLogEntry{models.NewFoodLogEntry("2024-03-01", "oats")},
		BodyStats: []*models.BodyStatEntry{
			models.NewBodyStatEntry("2024-03-01", 70, 15),
			{UID: "bad", Date: "March 1st", WeightKg: 71},
		},
	}

	_, err := db.ImportData(ctx, data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import body stat bad")

	_, err = db.ReadProfile(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
	logs, err := db.ReadLogs(ctx, "2024-03-01")
	require.NoError(t, err)
	assert.Empty(t, logs)
	stats, err := db.ReadBodyStats(ctx)
	require.NoError(t, err)
	assert.Empty(t, stats)
	assert.Empty(t, pending(t, db))
}
