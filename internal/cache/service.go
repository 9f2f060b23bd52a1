package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Service is the advisory caching layer: every error is logged and swallowed,
// so a broken cache degrades to a miss and never masks the primary store.
//
// Values round-trip through JSON. models.Money marshals to its quoted
// two-decimal string and time.Time to RFC 3339, which keeps money and
// timestamps lossless in the cache.
type Service struct {
	store Store
	ttl   time.Duration
	log   *slog.Logger
}

func NewService(store Store, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{store: store, ttl: ttl, log: log}
}

// Get unmarshals the cached value into dst, reporting whether it was present.
func (s *Service) Get(ctx context.Context, key string, dst any) bool {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.log.Debug("cache get failed", "key", key, "err", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.log.Debug("cache entry corrupt, dropping", "key", key, "err", err)
		_ = s.store.Delete(ctx, key)
		return false
	}
	return true
}

func (s *Service) Set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.log.Debug("cache marshal failed", "key", key, "err", err)
		return
	}
	if err := s.store.Set(ctx, key, string(raw), s.ttl); err != nil {
		s.log.Debug("cache set failed", "key", key, "err", err)
	}
}

func (s *Service) Delete(ctx context.Context, keys ...string) {
	if err := s.store.Delete(ctx, keys...); err != nil {
		s.log.Debug("cache delete failed", "keys", keys, "err", err)
	}
}
