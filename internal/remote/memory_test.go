// ABOUTME: Tests for the in-memory remote store.
// ABOUTME: Verifies idempotent upsert and delete semantics.
package remote

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.Get(ctx, "food_logs", "a")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Upsert(ctx, "food_logs", "a", []byte(`{"v":1}`)))
	require.NoError(t, m.Upsert(ctx, "food_logs", "a", []byte(`{"v":2}`)))
	require.NoError(t, m.Upsert(ctx, "food_logs", "b", []byte(`{"v":3}`)))

	doc, err := m.Get(ctx, "food_logs", "a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(doc))
	assert.Equal(t, []string{"a", "b"}, m.IDs("food_logs"))

	require.NoError(t, m.Delete(ctx, "food_logs", "a"))
	require.NoError(t, m.Delete(ctx, "food_logs", "a"), "deleting a missing doc succeeds")
	require.NoError(t, m.Delete(ctx, "templates", "nope"))
	assert.Equal(t, []string{"b"}, m.IDs("food_logs"))
}

func TestMemoryStoreCopiesDocuments(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	doc := []byte(`{"v":1}`)
	require.NoError(t, m.Upsert(ctx, "profile", "profile", doc))
	doc[0] = 'X'

	got, err := m.Get(ctx, "profile", "profile")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(got))
}
