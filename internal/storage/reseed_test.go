// ABOUTME: Tests for requeueing local state.
// ABOUTME: Verifies one full-document record per entity.
package storage

import (
	"context"
	"testing"

	"github.com/harperreed/macros/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReseed(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedExportData(t, db)

	for _, r := range pending(t, db) {
		require.NoError(t, db.MarkSynced(ctx, r.ID))
	}

	summary, err := db.Reseed(ctx)
	require.NoError(t, err)
	assert.True(t, summary.Profile)
	assert.Equal(t, 3, summary.FoodLogs)
	assert.Equal(t, 1, summary.BodyStats)
	assert.Equal(t, 1, summary.Templates)
	assert.Equal(t, 6, summary.Total())

	records := pending(t, db)
	require.Len(t, records, 6)
	assert.Equal(t, models.EntityProfile, records[0].EntityType)
	for _, r := range records {
		assert.Equal(t, models.OpUpdate, r.Operation)
		_, id, err := r.Target()
		require.NoError(t, err)
		assert.NotEmpty(t, id)
	}
}

func TestReseedEmptyStore(t *testing.T) {
	db := setupTestDB(t)

	summary, err := db.Reseed(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.Total())
	assert.Empty(t, pending(t, db))
}
