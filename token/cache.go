package token

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Cache implementations when the key is absent,
// or when no TTL is recorded for it.
var ErrCacheMiss = errors.New("token cache: key not found")

// Cache is the shared store a Manager consults for a previously issued token.
// A single well-known key holds the token string; the entry's TTL tracks the
// token's remaining lifetime. Implementations need only atomic single-key
// reads and writes, no transactional guarantees.
type Cache interface {
	// Get returns the value stored under key, or ErrCacheMiss.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key with the given time-to-live.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// TTL reports the remaining lifetime of key, or ErrCacheMiss when the
	// key is absent or carries no expiry.
	TTL(ctx context.Context, key string) (time.Duration, error)
}
