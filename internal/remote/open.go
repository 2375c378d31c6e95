// ABOUTME: Builds a remote store from backend options.
// ABOUTME: An empty backend means no remote; callers treat that as offline.
package remote

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
)

// Backend names accepted by Open.
const (
	BackendNone   = ""
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendCharm  = "charm"
)

// Options selects and configures a backend.
type Options struct {
	Backend   string
	RedisURL  string
	KeyPrefix string
	CharmHost string
	CharmDB   string
	Logger    *log.Logger
}

// Open returns the configured store, or ErrNotConfigured when Backend is
// empty.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendNone:
		return nil, ErrNotConfigured
	case BackendMemory:
		return NewMemory(), nil
	case BackendRedis:
		if opts.RedisURL == "" {
			return nil, fmt.Errorf("redis backend: %w: redis_url is empty", ErrNotConfigured)
		}
		client, err := NewRedisClient(ctx, opts.RedisURL)
		if err != nil {
			return nil, err
		}
		return NewRedis(client, opts.KeyPrefix, opts.Logger), nil
	case BackendCharm:
		return OpenCharm(opts.CharmHost, opts.CharmDB, opts.Logger)
	default:
		return nil, fmt.Errorf("unknown remote backend %q", opts.Backend)
	}
}
