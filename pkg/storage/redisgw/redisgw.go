// Package redisgw provides a Redis-backed Gateway. Each scope maps to a
// Redis hash; keys within the scope are hash fields.
package redisgw

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/swapdeck/swapdeck/pkg/storage"
)

const keyPrefix = "swapdeck:"

// Gateway stores blobs in Redis hashes.
type Gateway struct {
	Client *redis.Client
}

// New creates a new Redis gateway.
func New(client *redis.Client) *Gateway {
	return &Gateway{Client: client}
}

// Make sure we conform to the interface
var _ storage.Gateway = (*Gateway)(nil)

// Load retrieves the blob stored under (scope, key).
func (g *Gateway) Load(ctx context.Context, scope, key string) ([]byte, error) {
	blob, err := g.Client.HGet(ctx, keyPrefix+scope, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%s/%s: %w", scope, key, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("redis hget %s/%s: %v: %w", scope, key, err, storage.ErrUnavailable)
	}
	return blob, nil
}

// Save stores blob under (scope, key), replacing any previous value.
func (g *Gateway) Save(ctx context.Context, scope, key string, blob []byte) error {
	if err := g.Client.HSet(ctx, keyPrefix+scope, key, blob).Err(); err != nil {
		return fmt.Errorf("redis hset %s/%s: %v: %w", scope, key, err, storage.ErrUnavailable)
	}
	return nil
}
