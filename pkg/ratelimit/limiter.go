package ratelimit

import "context"

// Limiter bounds request rates per key within a fixed window. Keys are
// caller-defined, typically "rl:<route>:<ip>".
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
