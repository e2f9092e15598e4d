// Package cache defines the cache used in front of the remote archive.
package cache

import (
	"context"
	"time"

	"github.com/amirasaad/bankmanager/pkg/archive"
)

// RecordCache holds archived account records by lookup key.
type RecordCache interface {
	// Get returns nil, nil on a miss.
	Get(ctx context.Context, key string) (*archive.Record, error)
	Set(ctx context.Context, key string, rec *archive.Record, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
