// Package explaincache caches generated explanations in the key-value store.
package explaincache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/riskdesk/internal/db"
	"github.com/kailas-cloud/riskdesk/internal/domain"
)

var cacheKeyPrefix = domain.KeyPrefix + "explain_cache:"

// store is the consumer interface for the explanation cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedCompleter serves repeated explanation prompts from the cache.
type CachedCompleter struct {
	inner      domain.Completer
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Completer,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedCompleter {
	return &CachedCompleter{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Complete returns a cached completion or calls the inner completer.
// A hit reports zero tokens. Failed completions are never cached.
func (c *CachedCompleter) Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	key := cacheKey(req)

	if text, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		domain.UsageFromContext(ctx).AddCacheHit()
		return domain.Completion{Text: text}, nil
	}

	c.incCache("miss")

	res, err := c.inner.Complete(ctx, req)
	if err != nil {
		return domain.Completion{}, fmt.Errorf("complete: %w", err)
	}

	if res.Text != "" {
		c.putToCache(ctx, key, res.Text)
	}
	return res, nil
}

func (c *CachedCompleter) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey hashes every request field that changes the generated text.
func cacheKey(req domain.CompletionRequest) string {
	h := sha256.New()
	for _, part := range []string{
		req.System,
		req.Prompt,
		strconv.FormatFloat(float64(req.Temperature), 'f', -1, 32),
		strconv.Itoa(req.MaxTokens),
		strconv.FormatBool(req.JSON),
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

func (c *CachedCompleter) getFromCache(ctx context.Context, key string) (string, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached explanation", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	if len(data) == 0 {
		return "", false
	}
	return string(data), true
}

func (c *CachedCompleter) putToCache(ctx context.Context, key, text string) {
	if err := c.store.SetWithTTL(ctx, key, []byte(text), c.ttl); err != nil {
		c.logger.Warn("Failed to cache explanation", zap.String("key", key), zap.Error(err))
	}
}
