package riskdesk

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	sqlitePath     string
	guidelinesPath string
	policyPath     string

	generator Generator
	settings  GenerationSettings

	cacheAddr     string
	cachePassword string
	cacheTTL      time.Duration

	importBatchSize int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithSQLite sets the patient registry database file. Required.
// The patients table is created when missing.
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.sqlitePath = path
	})
}

// WithGuidelines sets the hospital guidelines document (.pdf or plain text).
func WithGuidelines(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.guidelinesPath = path
	})
}

// WithPolicy sets the insurance policy document (.pdf or plain text).
func WithPolicy(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.policyPath = path
	})
}

// WithGenerator sets the text generation provider.
func WithGenerator(g Generator) Option {
	return optionFunc(func(c *clientConfig) {
		c.generator = g
	})
}

// WithGenerationSettings overrides sampling parameters. Zero fields keep
// their defaults, except temperatures, which are always taken as given.
func WithGenerationSettings(s GenerationSettings) Option {
	return optionFunc(func(c *clientConfig) {
		c.settings = s
	})
}

// WithRedisCache caches explanations in Redis for ttl.
// A non-positive ttl means one day.
func WithRedisCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddr = addr
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithImportBatchSize sets the number of rows written per transaction by Import.
// Default: 500.
func WithImportBatchSize(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.importBatchSize = size
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
