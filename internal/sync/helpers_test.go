// ABOUTME: Shared test helpers for sync engine tests.
// ABOUTME: Provides a temp SQLite store and a fault-injecting remote.

package sync

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/harperreed/macros/internal/remote"
	"github.com/harperreed/macros/internal/storage"
	"github.com/stretchr/testify/require"
)

var errInjected = errors.New("injected remote failure")

// faultyStore wraps a memory store and fails calls for selected targets.
type faultyStore struct {
	*remote.Memory
	down    bool
	failing map[string]bool
	calls   []string
	flushes int
	closed  bool
}

func newFaultyStore() *faultyStore {
	return &faultyStore{Memory: remote.NewMemory(), failing: make(map[string]bool)}
}

func (f *faultyStore) failOn(collection, id string) {
	f.failing[collection+"/"+id] = true
}

func (f *faultyStore) heal() {
	f.down = false
	f.failing = make(map[string]bool)
}

func (f *faultyStore) Ping(ctx context.Context) error {
	if f.down {
		return errInjected
	}
	return nil
}

func (f *faultyStore) Upsert(ctx context.Context, collection, id string, doc []byte) error {
	f.calls = append(f.calls, "upsert "+collection+"/"+id)
	if f.failing[collection+"/"+id] {
		return errInjected
	}
	return f.Memory.Upsert(ctx, collection, id, doc)
}

func (f *faultyStore) Delete(ctx context.Context, collection, id string) error {
	f.calls = append(f.calls, "delete "+collection+"/"+id)
	if f.failing[collection+"/"+id] {
		return errInjected
	}
	return f.Memory.Delete(ctx, collection, id)
}

func (f *faultyStore) Flush(context.Context) error {
	f.flushes++
	return nil
}

func (f *faultyStore) Close() error {
	f.closed = true
	return nil
}

func setupTestDB(t *testing.T) *storage.DB {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// setupTestEngine returns a store, a faulty remote, and an engine wired to both.
func setupTestEngine(t *testing.T) (*storage.DB, *faultyStore, *Engine) {
	t.Helper()

	db := setupTestDB(t)
	store := newFaultyStore()
	return db, store, NewEngine(db, store, quietLogger())
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func pendingCount(t *testing.T, db *storage.DB) int {
	t.Helper()

	n, err := db.PendingCount(context.Background())
	require.NoError(t, err)
	return n
}
