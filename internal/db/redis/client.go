package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/rueidis"
	"go.uber.org/zap"

	"github.com/kailas-cloud/riskdesk/internal/db"
)

var _ db.Store = (*Store)(nil)

// ClientName identifies riskdesk connections in CLIENT LIST.
const ClientName = "riskdesk"

const (
	defaultDialTimeout = 5 * time.Second
	minReadyBackoff    = 100 * time.Millisecond
	maxReadyBackoff    = time.Second
)

// Config holds connection parameters for the cache store.
type Config struct {
	Addrs       []string
	Password    string
	DialTimeout time.Duration
	Logger      *zap.Logger
}

// Store is the explanation cache and budget counter backend, on rueidis.
type Store struct {
	client rueidis.Client
	logger *zap.Logger
}

// NewStore connects to Redis. rueidis dials eagerly, so an unreachable
// server fails here.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("cache addrs is required")
	}
	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Password:     cfg.Password,
		ClientName:   ClientName,
		Dialer:       net.Dialer{Timeout: dialTimeout},
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect cache %v: %w", cfg.Addrs, err)
	}

	return &Store{client: client, logger: logger.With(zap.Strings("cache_addrs", cfg.Addrs))}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.do(ctx, s.b().Ping().Build()).Error(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady pings with a doubling backoff until the store answers or
// timeout expires. The last ping error is kept in the timeout error.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	backoff := minReadyBackoff
	var lastErr error
	for attempt := 1; ; attempt++ {
		if lastErr = s.Ping(ctx); lastErr == nil {
			s.logger.Info("Cache ready",
				zap.Int("attempts", attempt),
				zap.Duration("waited", time.Since(start)),
			)
			return nil
		}
		s.logger.Debug("Cache not ready yet", zap.Int("attempt", attempt), zap.Error(lastErr))

		select {
		case <-ctx.Done():
			return fmt.Errorf("cache not ready after %s (%d attempts): %w", timeout, attempt, lastErr)
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxReadyBackoff)
	}
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}
