package domain

import "context"

type generationUsageKey struct{}

// GenerationUsage collects token usage for a single HTTP request.
// The handler puts a mutable pointer into the context before calling the service;
// generation decorators add to it; the handler reads it for response headers.
type GenerationUsage struct {
	TotalTokens int
	Calls       int
	CacheHits   int
}

// NewContextWithUsage returns a context with an embedded usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *GenerationUsage) {
	u := &GenerationUsage{}
	return context.WithValue(ctx, generationUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *GenerationUsage {
	u, _ := ctx.Value(generationUsageKey{}).(*GenerationUsage)
	return u
}

// AddTokens records one provider call and its tokens. Nil-safe.
func (u *GenerationUsage) AddTokens(n int) {
	if u != nil {
		u.TotalTokens += n
		u.Calls++
	}
}

// AddCacheHit records a generation served from cache. Nil-safe.
func (u *GenerationUsage) AddCacheHit() {
	if u != nil {
		u.CacheHits++
	}
}

// Used reports whether any generation happened, cached or not.
func (u *GenerationUsage) Used() bool {
	return u != nil && (u.Calls > 0 || u.CacheHits > 0)
}
