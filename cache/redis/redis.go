// Package redis provides a core.ResultCache backed by Redis, for deployments
// where idempotent replay must survive process restarts or span replicas.
// Recommendations are stored as JSON values with the configured TTL; Redis
// SET is atomic, so readers never observe a partial entry.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hupe1980/triagemesh/core"
)

// DefaultKeyPrefix namespaces cache keys.
const DefaultKeyPrefix = "triagemesh:result:"

// Options configure the Redis store.
type Options struct {
	// TTL bounds entry lifetime; 0 stores entries without expiry.
	TTL time.Duration
	// KeyPrefix namespaces keys. Defaults to DefaultKeyPrefix.
	KeyPrefix string
}

// Store is a Redis-backed core.ResultCache.
type Store struct {
	client redis.UniversalClient
	opts   Options
}

// NewStore creates a Store over an existing Redis client.
func NewStore(client redis.UniversalClient, optFns ...func(o *Options)) *Store {
	opts := Options{TTL: 24 * time.Hour, KeyPrefix: DefaultKeyPrefix}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = DefaultKeyPrefix
	}
	return &Store{client: client, opts: opts}
}

func (s *Store) key(id string) string { return s.opts.KeyPrefix + id }

// Get implements core.ResultCache.
func (s *Store) Get(ctx context.Context, id string) (*core.Recommendation, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis cache get %q: %w", id, err)
	}
	var rec core.Recommendation
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("redis cache: corrupt entry for %q: %w", id, err)
	}
	return &rec, nil
}

// Put implements core.ResultCache.
func (s *Store) Put(ctx context.Context, id string, rec *core.Recommendation) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("redis cache: marshal recommendation for %q: %w", id, err)
	}
	if err := s.client.Set(ctx, s.key(id), data, s.opts.TTL).Err(); err != nil {
		return fmt.Errorf("redis cache put %q: %w", id, err)
	}
	return nil
}

// Delete implements core.ResultCache.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis cache delete %q: %w", id, err)
	}
	return nil
}

// Clear implements core.ResultCache by scanning the key prefix. Intended for
// maintenance, not hot paths.
func (s *Store) Clear(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.opts.KeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis cache clear: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis cache clear: %w", err)
	}
	return nil
}
