// ABOUTME: Tests for food log storage and its outbox records.
// ABOUTME: Covers ordering, uid resolution on delete, and atomic outbox appends.
package storage

import (
	"context"
	"database/sql"
	"testing"

	"github.com/harperreed/macros/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddLogQueuesInsert(t *testing.T) {
	db := setupTestDB(t)

	e := models.NewFoodLogEntry("2024-03-01", "greek yogurt")
	e.Source = "1 cup"
	e.Calories = 130
	e.Protein = 23
	require.NoError(t, db.AddLog(context.Background(), e))

	assert.NotZero(t, e.ID)

	records := pending(t, db)
	require.Len(t, records, 1)
	assert.Equal(t, models.EntityFoodLog, records[0].EntityType)
	assert.Equal(t, models.OpInsert, records[0].Operation)
	assert.False(t, records[0].Synced)

	payload := decodePayload(t, records[0])
	assert.Equal(t, e.UID, payload["uid"])
	assert.Equal(t, "greek yogurt", payload["food_name"])
	assert.Equal(t, 130.0, payload["calories"])
	assert.NotContains(t, payload, "id")
}

func TestAddLogFillsUIDAndRejectsBadDate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	e := &models.FoodLogEntry{Date: "2024-03-01", Name: "apple"}
	require.NoError(t, db.AddLog(ctx, e))
	assert.NotEmpty(t, e.UID)
	assert.False(t, e.CreatedAt.IsZero())

	err := db.AddLog(ctx, &models.FoodLogEntry{Date: "yesterday", Name: "pear"})
	require.Error(t, err)

	assert.Len(t, pending(t, db), 1)
}

func TestReadLogsOrdering(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	first := addTestLog(t, db, "2024-03-02", "eggs", 140)
	addTestLog(t, db, "2024-03-01", "toast", 80)
	second := addTestLog(t, db, "2024-03-02", "coffee", 5)

	logs, err := db.ReadLogs(ctx, "2024-03-02")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, first.UID, logs[0].UID)
	assert.Equal(t, second.UID, logs[1].UID)

	since, err := db.ReadLogsSince(ctx, "2024-03-01")
	require.NoError(t, err)
	require.Len(t, since, 3)
	assert.Equal(t, "toast", since[0].Name)
	assert.Equal(t, "eggs", since[1].Name)
	assert.Equal(t, "coffee", since[2].Name)

	empty, err := db.ReadLogs(ctx, "1999-01-01")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetLog(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	e := addTestLog(t, db, "2024-03-01", "rice", 200)

	got, err := db.GetLog(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.UID, got.UID)
	assert.Equal(t, 200.0, got.Calories)

	_, err = db.GetLog(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteLogQueuesUIDOnlyPayload(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	e := addTestLog(t, db, "2024-03-01", "banana", 105)
	require.NoError(t, db.DeleteLog(ctx, e.ID))

	_, err := db.GetLog(ctx, e.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	records := pending(t, db)
	require.Len(t, records, 2)
	assert.Equal(t, models.OpDelete, records[1].Operation)
	assert.JSONEq(t, `{"uid":"`+e.UID+`"}`, string(records[1].Payload))
}

func TestDeleteMissingLogLeavesQueueUntouched(t *testing.T) {
	db := setupTestDB(t)

	err := db.DeleteLog(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, pending(t, db))
}

func TestDeleteLogsForDate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	a := addTestLog(t, db, "2024-03-01", "a", 1)
	b := addTestLog(t, db, "2024-03-01", "b", 2)
	keep := addTestLog(t, db, "2024-03-02", "c", 3)

	removed, err := db.DeleteLogsForDate(ctx, "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	left, err := db.ReadLogsSince(ctx, "")
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, keep.UID, left[0].UID)

	records := pending(t, db)
	require.Len(t, records, 5)
	assert.JSONEq(t, `{"uid":"`+a.UID+`"}`, string(records[3].Payload))
	assert.JSONEq(t, `{"uid":"`+b.UID+`"}`, string(records[4].Payload))

	removed, err = db.DeleteLogsForDate(ctx, "2024-03-01")
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Len(t, pending(t, db), 5)
}

func TestFailedOutboxAppendRollsBackEntityWrite(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO food_logs (uid, date, food_name, created_at) VALUES ('u-1', '2024-03-01', 'x', ?)`,
			formatTime(models.NewFoodLogEntry("2024-03-01", "x").CreatedAt)); err != nil {
			return err
		}
		_, err := enqueueTx(ctx, tx, models.EntityFoodLog, models.Operation("MERGE"), models.DeletePayload{UID: "u-1"})
		return err
	})
	require.Error(t, err)

	logs, err := db.ReadLogs(ctx, "2024-03-01")
	require.NoError(t, err)
	assert.Empty(t, logs)
	assert.Empty(t, pending(t, db))
}
