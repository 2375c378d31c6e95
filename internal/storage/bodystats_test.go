// ABOUTME: Tests for body stat storage.
// ABOUTME: Verifies date ordering and delete queueing.
package storage

import (
	"context"
	"testing"

	"github.com/harperreed/macros/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBodyStats(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	later := models.NewBodyStatEntry("2024-03-05", 81.2, 17.5)
	earlier := models.NewBodyStatEntry("2024-03-01", 82.0, 18.0)
	require.NoError(t, db.AddBodyStat(ctx, later))
	require.NoError(t, db.AddBodyStat(ctx, earlier))

	stats, err := db.ReadBodyStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, earlier.UID, stats[0].UID)
	assert.Equal(t, later.UID, stats[1].UID)

	got, err := db.GetBodyStat(ctx, later.ID)
	require.NoError(t, err)
	assert.Equal(t, 81.2, got.WeightKg)
	assert.Equal(t, 17.5, got.BodyFatPct)

	require.NoError(t, db.DeleteBodyStat(ctx, later.ID))
	_, err = db.GetBodyStat(ctx, later.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, db.DeleteBodyStat(ctx, later.ID), ErrNotFound)

	records := pending(t, db)
	require.Len(t, records, 3)
	assert.Equal(t, models.EntityBodyStat, records[2].EntityType)
	assert.Equal(t, models.OpDelete, records[2].Operation)
	assert.JSONEq(t, `{"uid":"`+later.UID+`"}`, string(records[2].Payload))
}
