package riskdesk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/kailas-cloud/riskdesk/internal/db/redis"
	"github.com/kailas-cloud/riskdesk/internal/db/sqlite"
	"github.com/kailas-cloud/riskdesk/internal/domain"
	dombatch "github.com/kailas-cloud/riskdesk/internal/domain/batch"
	domev "github.com/kailas-cloud/riskdesk/internal/domain/evidence"
	"github.com/kailas-cloud/riskdesk/internal/domain/patient"
	"github.com/kailas-cloud/riskdesk/internal/metrics"
	"github.com/kailas-cloud/riskdesk/internal/repository/explaincache"
	patientrepo "github.com/kailas-cloud/riskdesk/internal/repository/patient"
	"github.com/kailas-cloud/riskdesk/internal/repository/refdoc"
	"github.com/kailas-cloud/riskdesk/internal/usecase/analysis"
	evidenceuc "github.com/kailas-cloud/riskdesk/internal/usecase/evidence"
	"github.com/kailas-cloud/riskdesk/internal/usecase/generation"
	healthuc "github.com/kailas-cloud/riskdesk/internal/usecase/health"
	inquiryuc "github.com/kailas-cloud/riskdesk/internal/usecase/inquiry"
	"github.com/kailas-cloud/riskdesk/internal/usecase/registry"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCacheTTL         = 24 * time.Hour
)

// Internal interfaces, swapped for fakes in tests.
type analysisUseCase interface {
	Analyze(ctx context.Context, id int64) (analysis.Analysis, error)
	Inquire(ctx context.Context, query string) (analysis.InquiryResult, error)
}

type patientReader interface {
	Get(ctx context.Context, id int64) (patient.Attributes, error)
}

type evidenceUseCase interface {
	Retrieve(p patient.Attributes, question string) domev.Result
}

type importUseCase interface {
	Import(ctx context.Context, r io.Reader) ([]dombatch.Result, error)
}

// closer releases one backing resource.
type closer func() error

// Client is the riskdesk SDK entry point. It is safe for concurrent use.
type Client struct {
	db          pinger
	analysisSvc analysisUseCase
	patients    patientReader
	evidenceSvc evidenceUseCase
	importSvc   importUseCase
	healthSvc   healthUseCase
	closers     []closer
	obs         *observer
}

type pinger interface {
	Ping(ctx context.Context) error
}

// New creates a riskdesk Client: it opens the registry, loads the reference
// documents and wires the generation pipeline.
// The provided context is used for migration and the cache readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.sqlitePath == "" {
		return nil, errors.New("riskdesk: registry path required (use WithSQLite)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := sqlite.Open(cfg.sqlitePath)
	if err != nil {
		return nil, fmt.Errorf("riskdesk: open registry: %w", err)
	}
	closers := []closer{store.Close}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("riskdesk: migrate registry: %w", err)
	}

	var cache *dbRedis.Store
	if cfg.cacheAddr != "" {
		cache, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    []string{cfg.cacheAddr},
			Password: cfg.cachePassword,
		})
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("riskdesk: create cache store: %w", err)
		}
		if err := cache.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			cache.Close()
			_ = store.Close()
			return nil, fmt.Errorf("riskdesk: cache not ready: %w", err)
		}
		closers = append(closers, func() error { cache.Close(); return nil })
	}

	docs := refdoc.NewIndex(cfg.guidelinesPath, cfg.policyPath, zap.NewNop())
	if docs.Guidelines().IsEmpty() {
		obs.warn("guidelines document is empty or missing", "path", cfg.guidelinesPath)
	}
	if docs.Policy().IsEmpty() {
		obs.warn("policy document is empty or missing", "path", cfg.policyPath)
	}

	c := wireClient(store, cache, docs, cfg, obs)
	c.closers = closers
	return c, nil
}

func wireClient(store *sqlite.Store, cache *dbRedis.Store, docs *refdoc.Index, cfg *clientConfig, obs *observer) *Client {
	var gen Generator = noopGenerator{}
	if cfg.generator != nil {
		gen = cfg.generator
	}
	adapter := &generatorAdapter{inner: gen}

	var explain domain.Completer = adapter
	if cache != nil {
		ttl := cfg.cacheTTL
		if ttl <= 0 {
			ttl = defaultCacheTTL
		}
		explain = explaincache.New(adapter, cache, ttl, metrics.ExplanationCacheTotal, zap.NewNop())
	}
	genSvc := generation.New(adapter, explain, toDomainSettings(cfg.settings))

	repo := patientrepo.New(store)
	evidenceSvc := evidenceuc.New(docs)

	importSvc := registry.New(repo)
	if cfg.importBatchSize > 0 {
		importSvc = importSvc.WithBatchSize(cfg.importBatchSize)
	}

	// Pass nil interfaces, not typed nil pointers.
	var cachePinger healthuc.Pinger
	if cache != nil {
		cachePinger = cache
	}
	var genChecker healthuc.GeneratorChecker
	if cfg.generator != nil {
		genChecker = adapter
	}

	return &Client{
		db:          store,
		analysisSvc: analysis.New(repo, inquiryuc.New(genSvc), evidenceSvc, genSvc),
		patients:    repo,
		evidenceSvc: evidenceSvc,
		importSvc:   importSvc,
		healthSvc:   healthuc.New(store, cachePinger, genChecker),
		obs:         obs,
	}
}

// Close releases all resources.
func (c *Client) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// Ping checks registry connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.db.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Analyze explains the risk decision for one patient.
// Returns ErrPatientNotFound when the id has no record.
func (c *Client) Analyze(ctx context.Context, id int64) (_ Analysis, err error) {
	start := time.Now()
	defer func() { c.obs.observe("analyze", start, err, "patient_id", id) }()

	a, err := c.analysisSvc.Analyze(ctx, id)
	if err != nil {
		return Analysis{}, fmt.Errorf("analyze: %w", err)
	}
	return Analysis{
		Patient:     Patient(a.Patient),
		Decision:    a.Decision,
		Reasons:     a.Reasons,
		Explanation: a.Explanation,
		Evidence:    toEvidence(a.Evidence),
	}, nil
}

// Inquire answers a free-text question about the registry.
// Returns ErrInvalidRequest for a blank query.
func (c *Client) Inquire(ctx context.Context, query string) (_ InquiryResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("inquire", start, err) }()

	res, err := c.analysisSvc.Inquire(ctx, query)
	if err != nil {
		return InquiryResult{}, fmt.Errorf("inquire: %w", err)
	}

	matched := make([]Patient, len(res.Matched))
	for i, m := range res.Matched {
		matched[i] = Patient(m)
	}
	return InquiryResult{
		Query:        res.Query,
		TotalCount:   res.TotalCount,
		PatientNames: res.PatientNames,
		Matched:      matched,
		Evidence:     toEvidence(res.Evidence),
		Explanation:  res.Explanation,
		Summary:      res.Summary,
		DisplayMode:  DisplayMode(res.DisplayMode),
		PolicyQuery:  res.PolicyQuery,
	}, nil
}

// Evidence returns the document passages for one patient without calling the
// generator. question, when set, widens the clinical search.
func (c *Client) Evidence(ctx context.Context, id int64, question string) (_ Evidence, err error) {
	start := time.Now()
	defer func() { c.obs.observe("evidence", start, err, "patient_id", id) }()

	p, err := c.patients.Get(ctx, id)
	if err != nil {
		return Evidence{}, fmt.Errorf("evidence: %w", err)
	}
	return toEvidence(c.evidenceSvc.Retrieve(p, question)), nil
}

// Import loads patient records from CSV, replacing existing ones by id.
// Invalid rows are reported and skipped; a store failure aborts the import.
func (c *Client) Import(ctx context.Context, r io.Reader) (_ []ImportResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("import", start, err) }()

	results, err := c.importSvc.Import(ctx, r)
	out := make([]ImportResult, len(results))
	for i, res := range results {
		out[i] = ImportResult{
			Line:      res.Line(),
			PatientID: res.PatientID(),
			OK:        res.Status() == dombatch.StatusOK,
			Err:       res.Err(),
		}
	}
	if err != nil {
		return out, fmt.Errorf("import: %w", err)
	}
	return out, nil
}

func toEvidence(r domev.Result) Evidence {
	return Evidence{Clinical: r.Clinical, Insurance: r.Insurance}
}
