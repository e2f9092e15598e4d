package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/amirasaad/bankmanager/pkg/archive"
	"github.com/amirasaad/bankmanager/pkg/cache"
)

// ArchiveStore caches single-record lookups of an archive.Store. A found
// record is cached under both its remote id and its account number; any
// write for that record drops both entries. Misses are never cached.
type ArchiveStore struct {
	archive.Store
	cache  cache.RecordCache
	ttl    time.Duration
	logger *slog.Logger
}

// NewArchiveStore wraps inner. A non-positive ttl disables caching.
func NewArchiveStore(
	inner archive.Store,
	c cache.RecordCache,
	ttl time.Duration,
	logger *slog.Logger,
) *ArchiveStore {
	return &ArchiveStore{Store: inner, cache: c, ttl: ttl, logger: logger.With("component", "archive_cache")}
}

func (s *ArchiveStore) Get(ctx context.Context, key string) (*archive.Record, error) {
	if s.ttl <= 0 {
		return s.Store.Get(ctx, key)
	}
	if rec, err := s.cache.Get(ctx, key); err == nil && rec != nil {
		return rec, nil
	}
	rec, err := s.Store.Get(ctx, key)
	if err != nil || rec == nil {
		return rec, err
	}
	for _, k := range keysOf(rec) {
		if err := s.cache.Set(ctx, k, rec, s.ttl); err != nil {
			s.logger.Warn("Failed to cache archived account", "key", k, "error", err)
		}
	}
	return rec, nil
}

func (s *ArchiveStore) ArchiveAccount(ctx context.Context, rec archive.Record) (string, error) {
	id, err := s.Store.ArchiveAccount(ctx, rec)
	s.forget(ctx, rec.NumeroCompte, id)
	return id, err
}

func (s *ArchiveStore) Delete(ctx context.Context, id string) error {
	keys := []string{id}
	if rec, err := s.cache.Get(ctx, id); err == nil && rec != nil {
		keys = append(keys, keysOf(rec)...)
	}
	err := s.Store.Delete(ctx, id)
	s.forget(ctx, keys...)
	return err
}

func (s *ArchiveStore) forget(ctx context.Context, keys ...string) {
	var nonEmpty []string
	for _, k := range keys {
		if k != "" {
			nonEmpty = append(nonEmpty, k)
		}
	}
	if err := s.cache.Delete(ctx, nonEmpty...); err != nil {
		s.logger.Warn("Failed to invalidate archived account", "keys", nonEmpty, "error", err)
	}
}

func keysOf(rec *archive.Record) []string {
	var keys []string
	if rec.ID != "" {
		keys = append(keys, rec.ID)
	}
	if rec.NumeroCompte != "" && rec.NumeroCompte != rec.ID {
		keys = append(keys, rec.NumeroCompte)
	}
	return keys
}
