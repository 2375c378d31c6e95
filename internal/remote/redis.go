// ABOUTME: Redis-backed remote store.
// ABOUTME: Each document is a JSON string key; a per-collection set indexes ids.
package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces every key written by the Redis store.
const DefaultKeyPrefix = "macros"

// Redis stores documents at "<prefix>:<collection>:<id>" and tracks ids in
// the set "<prefix>:<collection>".
type Redis struct {
	client *redis.Client
	prefix string
	logger *log.Logger
}

var _ Store = (*Redis)(nil)

// NewRedisClient parses url, connects, and verifies the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewRedis wraps an existing client. An empty prefix uses DefaultKeyPrefix.
func NewRedis(client *redis.Client, prefix string, logger *log.Logger) *Redis {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Redis{client: client, prefix: prefix, logger: logger}
}

func (r *Redis) docKey(collection, id string) string {
	return fmt.Sprintf("%s:%s:%s", r.prefix, collection, id)
}

func (r *Redis) setKey(collection string) string {
	return fmt.Sprintf("%s:%s", r.prefix, collection)
}

func (r *Redis) Upsert(ctx context.Context, collection, id string, doc []byte) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.docKey(collection, id), doc, 0)
		pipe.SAdd(ctx, r.setKey(collection), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis upsert %s/%s: %w", collection, id, err)
	}
	r.logger.Debug("upserted", "collection", collection, "id", id)
	return nil
}

func (r *Redis) Delete(ctx context.Context, collection, id string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.docKey(collection, id))
		pipe.SRem(ctx, r.setKey(collection), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete %s/%s: %w", collection, id, err)
	}
	r.logger.Debug("deleted", "collection", collection, "id", id)
	return nil
}

func (r *Redis) Get(ctx context.Context, collection, id string) ([]byte, error) {
	doc, err := r.client.Get(ctx, r.docKey(collection, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

// IDs returns the indexed ids of a collection.
func (r *Redis) IDs(ctx context.Context, collection string) ([]string, error) {
	ids, err := r.client.SMembers(ctx, r.setKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list %s: %w", collection, err)
	}
	return ids, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
