package ports

import (
	"context"
	"time"
)

// Cache stores opaque serialized results under content-fingerprint keys.
// An entry past its TTL must read as a miss; whether expiry is lazy or
// backed by the store is the implementation's business.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RateLimiter enforces a fixed-window budget per key. Counting is
// best-effort under concurrency; it is not a hard security boundary.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// ExpiryPurger removes entries whose TTL has passed. Implemented by stores
// that keep expired rows around until swept.
type ExpiryPurger interface {
	PurgeExpired(ctx context.Context) (removed int, err error)
}
