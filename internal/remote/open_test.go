// ABOUTME: Tests for backend selection.
// ABOUTME: Verifies unconfigured, memory, redis, and unknown backends.
package remote

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, Options{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = Open(ctx, Options{Backend: BackendRedis})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = Open(ctx, Options{Backend: "dropbox"})
	assert.Error(t, err)

	store, err := Open(ctx, Options{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, store)

	srv := miniredis.RunT(t)
	store, err = Open(ctx, Options{Backend: BackendRedis, RedisURL: "redis://" + srv.Addr(), KeyPrefix: "x"})
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Upsert(ctx, "profile", "profile", []byte(`{}`)))
	assert.True(t, srv.Exists("x:profile:profile"))
}

func TestOpenRedisUnreachable(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	_, err := Open(context.Background(), Options{Backend: BackendRedis, RedisURL: "redis://" + addr})
	assert.Error(t, err)
}
