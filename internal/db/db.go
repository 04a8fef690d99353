package db

import (
	"context"
	"time"
)

// Store is the key-value facade used for the explanation cache and the
// generation budget counters.
type Store interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore holds cached explanations and expiring token counters.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	IncrCounter(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error)
}
