// ABOUTME: Remote document store contract used by the sync engine.
// ABOUTME: Documents are opaque JSON addressed by collection and id.
package remote

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when the document does not exist.
	ErrNotFound = errors.New("remote document not found")

	// ErrNotConfigured is returned by Open when no backend is selected.
	ErrNotConfigured = errors.New("remote store not configured")
)

// Store is a document-oriented remote. Upsert and Delete must be
// idempotent: replaying the same call leaves the same state, and deleting
// a missing document succeeds.
type Store interface {
	Upsert(ctx context.Context, collection, id string, doc []byte) error
	Delete(ctx context.Context, collection, id string) error
	Get(ctx context.Context, collection, id string) ([]byte, error)
	Ping(ctx context.Context) error
	Close() error
}

// Flusher is implemented by stores that buffer writes locally and push them
// in a separate step.
type Flusher interface {
	Flush(ctx context.Context) error
}
