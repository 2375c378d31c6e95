// ABOUTME: Tests for the singleton profile.
// ABOUTME: Verifies not-found before first write and INSERT-then-UPDATE queueing.
package storage

import (
	"context"
	"testing"

	"github.com/harperreed/macros/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadProfileBeforeFirstWrite(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.ReadProfile(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProfileQueuesInsertThenUpdate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.UpdateProfile(ctx, &models.UserProfile{
		HeightCm:      180,
		WeightKg:      82,
		ActivityLevel: models.ActivityModeratelyActive,
		Goal:          "cut",
	}))
	require.NoError(t, db.UpdateProfile(ctx, &models.UserProfile{
		HeightCm:       180,
		WeightKg:       80,
		TargetCalories: 2200,
		TargetProtein:  180,
	}))

	got, err := db.ReadProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ProfileUID, got.UID)
	assert.Equal(t, 80.0, got.WeightKg)
	assert.Equal(t, 2200.0, got.TargetCalories)
	assert.Empty(t, got.Goal, "update replaces the whole profile")

	records := pending(t, db)
	require.Len(t, records, 2)
	assert.Equal(t, models.OpInsert, records[0].Operation)
	assert.Equal(t, models.OpUpdate, records[1].Operation)
	for _, r := range records {
		assert.Equal(t, models.EntityProfile, r.EntityType)
		collection, id, err := r.Target()
		require.NoError(t, err)
		assert.Equal(t, models.CollectionProfile, collection)
		assert.Equal(t, models.ProfileUID, id)
	}
	assert.Equal(t, 80.0, decodePayload(t, records[1])["weight_kg"])
}
