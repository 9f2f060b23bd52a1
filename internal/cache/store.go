package cache

import (
	"context"
	"time"
)

// Store is the raw key-value backend. Values are already-serialized text;
// the Service above it owns the codec.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
