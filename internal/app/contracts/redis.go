package contracts

import (
	"context"
	"time"
)

// RedisRepository is the replay-dedup ledger for at-least-once webhook
// delivery. SetOnce returns true only for the first caller of a key within
// the TTL window.
type RedisRepository interface {
	Set(ctx context.Context, key string, value interface{}, exp time.Duration) error
	SetOnce(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}
