// ABOUTME: Tests for the Charm KV remote store using a fake kv.
// ABOUTME: Verifies key layout, not-found mapping, read-only handling, and flush.
package remote

import (
	"context"
	"errors"
	"testing"

	"github.com/dgraph-io/badger/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKV struct {
	data     map[string][]byte
	readOnly bool
	syncs    int
	syncErr  error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string][]byte)}
}

func (f *fakeKV) Set(key, value []byte) error {
	f.data[string(key)] = value
	return nil
}

func (f *fakeKV) Get(key []byte) ([]byte, error) {
	v, ok := f.data[string(key)]
	if !ok {
		return nil, badger.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeKV) Delete(key []byte) error {
	if _, ok := f.data[string(key)]; !ok {
		return badger.ErrKeyNotFound
	}
	delete(f.data, string(key))
	return nil
}

func (f *fakeKV) Sync() error {
	f.syncs++
	return f.syncErr
}

func (f *fakeKV) IsReadOnly() bool { return f.readOnly }
func (f *fakeKV) Close() error     { return nil }

func TestCharmStore(t *testing.T) {
	fake := newFakeKV()
	store := newCharm(fake, nil)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "templates", "t1", []byte(`{"name":"lunch"}`)))
	assert.Contains(t, fake.data, "templates/t1")

	doc, err := store.Get(ctx, "templates", "t1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"lunch"}`, string(doc))

	require.NoError(t, store.Delete(ctx, "templates", "t1"))
	require.NoError(t, store.Delete(ctx, "templates", "t1"), "deleting a missing key succeeds")

	_, err = store.Get(ctx, "templates", "t1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Flush(ctx))
	assert.Equal(t, 1, fake.syncs)
}

func TestCharmStoreReadOnly(t *testing.T) {
	fake := newFakeKV()
	fake.readOnly = true
	store := newCharm(fake, nil)
	ctx := context.Background()

	assert.Error(t, store.Ping(ctx))
	assert.Error(t, store.Upsert(ctx, "profile", "profile", []byte(`{}`)))
	assert.Error(t, store.Delete(ctx, "profile", "profile"))
	require.NoError(t, store.Flush(ctx))
	assert.Zero(t, fake.syncs)
}

func TestCharmFlushError(t *testing.T) {
	fake := newFakeKV()
	fake.syncErr = errors.New("network down")
	store := newCharm(fake, nil)

	assert.Error(t, store.Flush(context.Background()))
}
