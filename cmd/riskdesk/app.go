package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/kailas-cloud/riskdesk/internal/config"
	dbRedis "github.com/kailas-cloud/riskdesk/internal/db/redis"
	"github.com/kailas-cloud/riskdesk/internal/db/sqlite"
	"github.com/kailas-cloud/riskdesk/internal/domain"
	logpkg "github.com/kailas-cloud/riskdesk/internal/logger"
	"github.com/kailas-cloud/riskdesk/internal/metrics"
	budgetrepo "github.com/kailas-cloud/riskdesk/internal/repository/budget"
	"github.com/kailas-cloud/riskdesk/internal/repository/explaincache"
	anthropicGen "github.com/kailas-cloud/riskdesk/internal/transport/anthropic"
	openaiGen "github.com/kailas-cloud/riskdesk/internal/transport/openai"
	"github.com/kailas-cloud/riskdesk/internal/usecase/generation"
)

// app holds the resources shared by every subcommand.
type app struct {
	env    string
	cfg    config.Config
	logger *zap.Logger
	db     *sqlite.Store
	cache  *dbRedis.Store // nil when disabled
}

// bootstrap loads config, builds the logger and opens the registry.
// The Redis store is only connected when withCache is set and the config enables it.
func bootstrap(ctx context.Context, envFlag string, withCache bool) (*app, error) {
	env := envFlag
	if env == "" {
		env = config.GetEnv()
	}

	cfg, err := config.Load(env)
	if err != nil {
		return nil, eris.Wrap(err, "load config")
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, eris.Wrap(err, "create logger")
	}

	store, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return nil, eris.Wrapf(err, "open registry %s", cfg.Database.Path)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, eris.Wrap(err, "migrate registry")
	}

	a := &app{env: env, cfg: cfg, logger: logger, db: store}

	if withCache && cfg.Cache.Enabled {
		cache, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
			Logger:   logger,
		})
		if err != nil {
			a.Close()
			return nil, eris.Wrap(err, "create cache store")
		}
		timeout := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := cache.WaitForReady(ctx, timeout); err != nil {
			cache.Close()
			a.Close()
			return nil, eris.Wrap(err, "cache not ready")
		}
		a.cache = cache
	}

	return a, nil
}

// Close releases the stores and flushes the logger.
func (a *app) Close() {
	if a.cache != nil {
		a.cache.Close()
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("Failed to close registry", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// generationStack is the assembled generation pipeline.
type generationStack struct {
	service *generation.Service
	budget  *generation.BudgetTracker // nil when no limit is configured
	health  domain.HealthChecker
}

// buildGeneration assembles the completer chain:
// provider -> Instrumented (budget, usage) -> Cached (explanations only).
func (a *app) buildGeneration(ctx context.Context) generationStack {
	gc := a.cfg.Generation
	settings := gc.Settings()

	metrics.RegisterGenerationMetrics()

	if gc.APIKey == "" {
		a.logger.Warn("generation.api_key is empty; explanations will carry provider errors")
	}

	var base interface {
		domain.Completer
		domain.HealthChecker
	}
	switch gc.Provider {
	case config.ProviderAnthropic:
		base = anthropicGen.NewCompleter(&anthropicGen.Config{
			APIKey:   gc.APIKey,
			BaseURL:  gc.BaseURL,
			Model:    settings.Model,
			Provider: gc.Provider,
			Logger:   a.logger,
		})
	default:
		base = openaiGen.NewCompleter(&openaiGen.Config{
			APIKey:   gc.APIKey,
			BaseURL:  gc.BaseURL,
			Model:    settings.Model,
			User:     gc.User,
			Provider: gc.Provider,
			Logger:   a.logger,
		})
	}

	// Single tracker shared by the completer chain and the usage report.
	var budget *generation.BudgetTracker
	if bc := gc.Budget; bc.DailyTokenLimit > 0 || bc.MonthlyTokenLimit > 0 {
		action := generation.BudgetActionWarn
		if bc.Action == "reject" {
			action = generation.BudgetActionReject
		}
		budget = generation.NewBudgetTracker(
			gc.Provider, bc.DailyTokenLimit, bc.MonthlyTokenLimit, action, a.logger,
		)
		if a.cache != nil {
			budget.WithStore(ctx, budgetrepo.New(a.cache, budgetrepo.DefaultDailyTTL, budgetrepo.DefaultMonthlyTTL))
		}
	}

	// Pass a nil interface, not a typed nil pointer.
	var checker generation.BudgetChecker
	if budget != nil {
		checker = budget
	}

	instrumented := generation.NewInstrumentedCompleter(base, gc.Provider, settings.Model, checker, a.logger)

	var explain domain.Completer = instrumented
	if a.cache != nil {
		ttl := time.Duration(a.cfg.Cache.TTLSec) * time.Second
		explain = explaincache.New(instrumented, a.cache, ttl, metrics.ExplanationCacheTotal, a.logger)
	}

	a.logger.Info("Generation pipeline created",
		zap.String("provider", gc.Provider),
		zap.String("model", settings.Model),
		zap.Bool("explanation_cache", a.cache != nil),
		zap.Bool("budget", budget != nil),
	)

	return generationStack{
		service: generation.New(instrumented, explain, settings),
		budget:  budget,
		health:  base,
	}
}
