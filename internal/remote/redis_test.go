// ABOUTME: Tests for the Redis remote store against an in-process server.
// ABOUTME: Verifies key layout, the id index, and not-found handling.
package remote

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), "redis://"+srv.Addr())
	require.NoError(t, err)

	store := NewRedis(client, "test", nil)
	t.Cleanup(func() { _ = store.Close() })
	return store, srv
}

func TestRedisUpsertAndGet(t *testing.T) {
	store, srv := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "food_logs", "u1", []byte(`{"uid":"u1"}`)))
	require.NoError(t, store.Upsert(ctx, "food_logs", "u1", []byte(`{"uid":"u1","calories":5}`)))

	raw, err := srv.Get("test:food_logs:u1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"uid":"u1","calories":5}`, raw)

	members, err := srv.Members("test:food_logs")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, members)

	doc, err := store.Get(ctx, "food_logs", "u1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"uid":"u1","calories":5}`, string(doc))

	ids, err := store.IDs(ctx, "food_logs")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, ids)
}

func TestRedisDelete(t *testing.T) {
	store, srv := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "body_stats", "s1", []byte(`{}`)))
	require.NoError(t, store.Delete(ctx, "body_stats", "s1"))
	require.NoError(t, store.Delete(ctx, "body_stats", "s1"), "deleting a missing doc succeeds")

	assert.False(t, srv.Exists("test:body_stats:s1"))
	_, err := store.Get(ctx, "body_stats", "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisPingFailsWhenServerGone(t *testing.T) {
	store, srv := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))
	srv.Close()
	assert.Error(t, store.Ping(ctx))
}

func TestNewRedisClientRejectsBadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestNewRedisDefaultPrefix(t *testing.T) {
	store := NewRedis(nil, "", nil)
	assert.Equal(t, "macros:profile:profile", store.docKey("profile", "profile"))
	assert.Equal(t, "macros:profile", store.setKey("profile"))
}
