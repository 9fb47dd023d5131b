// Package cache provides pluggable byte caches for parsed GEDCOM files and
// analysis results.
//
// Three backends are available: [FileCache] for CLI use, [RedisCache] for
// shared deployments and [NullCache] to disable caching. Keys are built by
// a [Keyer] so that callers never hand-assemble key strings.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values for cached entries.
const (
	// TTLParse applies to parsed GEDCOM results, keyed by input hash.
	TTLParse = 7 * 24 * time.Hour

	// TTLAnalysis applies to grouping and metrics results, keyed by people hash.
	TTLAnalysis = 24 * time.Hour
)

// Cache stores opaque byte values by key.
//
// Get reports a miss as (nil, false, nil); only backend failures are errors.
// Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
