// ABOUTME: Charm KV remote store with end-to-end encrypted cloud sync.
// ABOUTME: Writes land in the local badger replica and are pushed on Flush.
package remote

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/kv"
	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v3"
)

const (
	// DefaultCharmHost is used when no host is configured.
	DefaultCharmHost = "charm.2389.dev"
	// DefaultCharmDB is the kv database name.
	DefaultCharmDB = "macros"
)

// kvStore is the subset of *kv.KV the store uses.
type kvStore interface {
	Set(key, value []byte) error
	Get(key []byte) ([]byte, error)
	Delete(key []byte) error
	Sync() error
	IsReadOnly() bool
	Close() error
}

// Charm stores documents in a Charm KV database under "<collection>/<id>".
type Charm struct {
	mu     sync.Mutex
	kv     kvStore
	logger *log.Logger
}

var (
	_ Store   = (*Charm)(nil)
	_ Flusher = (*Charm)(nil)
)

// OpenCharm points the Charm client at host, opens the named kv database,
// and pulls the latest remote state.
func OpenCharm(host, name string, logger *log.Logger) (*Charm, error) {
	if host == "" {
		host = DefaultCharmHost
	}
	if name == "" {
		name = DefaultCharmDB
	}

	// Set server before opening KV
	if err := os.Setenv("CHARM_HOST", host); err != nil {
		return nil, fmt.Errorf("set charm host: %w", err)
	}

	db, err := kv.OpenWithDefaultsFallback(name)
	if err != nil {
		return nil, fmt.Errorf("open charm kv %s: %w", name, err)
	}

	c := newCharm(db, logger)
	if !db.IsReadOnly() {
		if err := db.Sync(); err != nil {
			c.logger.Warn("initial charm sync failed", "err", err)
		}
	}
	return c, nil
}

func newCharm(store kvStore, logger *log.Logger) *Charm {
	if logger == nil {
		logger = log.Default()
	}
	return &Charm{kv: store, logger: logger}
}

func charmKey(collection, id string) []byte {
	return []byte(collection + "/" + id)
}

func (c *Charm) Upsert(_ context.Context, collection, id string, doc []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return errReadOnly
	}
	if err := c.kv.Set(charmKey(collection, id), doc); err != nil {
		return fmt.Errorf("charm set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (c *Charm) Delete(_ context.Context, collection, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return errReadOnly
	}
	err := c.kv.Delete(charmKey(collection, id))
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("charm delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (c *Charm) Get(_ context.Context, collection, id string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := c.kv.Get(charmKey(collection, id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("charm get %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

// Ping fails when another process holds the kv lock, since writes would
// be rejected.
func (c *Charm) Ping(context.Context) error {
	if c.kv.IsReadOnly() {
		return errReadOnly
	}
	return nil
}

// Flush pushes local kv changes to Charm Cloud.
func (c *Charm) Flush(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return nil
	}
	if err := c.kv.Sync(); err != nil {
		return fmt.Errorf("charm sync: %w", err)
	}
	c.logger.Debug("flushed charm kv")
	return nil
}

func (c *Charm) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Close()
}

var errReadOnly = errors.New("charm kv is locked by another process")
