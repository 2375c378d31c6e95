// ABOUTME: Shared fixtures for storage tests.
// ABOUTME: Opens a fresh SQLite database in a per-test temp directory.
package storage

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/harperreed/macros/internal/models"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func addTestLog(t *testing.T, db *DB, date, name string, calories float64) *models.FoodLogEntry {
	t.Helper()

	e := models.NewFoodLogEntry(date, name)
	e.Calories = calories
	require.NoError(t, db.AddLog(context.Background(), e))
	return e
}

// pending returns every unsynced outbox record.
func pending(t *testing.T, db *DB) []*models.OutboxRecord {
	t.Helper()

	records, err := db.Unsynced(context.Background(), 0)
	require.NoError(t, err)
	return records
}

func decodePayload(t *testing.T, r *models.OutboxRecord) map[string]any {
	t.Helper()

	var m map[string]any
	require.NoError(t, json.Unmarshal(r.Payload, &m))
	return m
}
