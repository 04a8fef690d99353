package analysis

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/riskdesk/internal/domain"
	"github.com/kailas-cloud/riskdesk/internal/domain/evidence"
	"github.com/kailas-cloud/riskdesk/internal/domain/inquiry"
	"github.com/kailas-cloud/riskdesk/internal/domain/patient"
	"github.com/kailas-cloud/riskdesk/internal/domain/predicate"
	"github.com/kailas-cloud/riskdesk/internal/logger"
	"github.com/kailas-cloud/riskdesk/internal/metrics"
)

// MaxMatchedRecords caps the records returned by an inquiry.
const MaxMatchedRecords = 10

// Analysis is the decision support result for one patient.
type Analysis struct {
	Patient     patient.Attributes
	Decision    string
	Reasons     []string
	Explanation string
	Evidence    evidence.Result
}

// InquiryResult is the answer to a free-text hospital inquiry.
type InquiryResult struct {
	Query        string
	TotalCount   int
	PatientNames []string
	Matched      []patient.Attributes
	Evidence     evidence.Result
	Explanation  string
	Summary      string
	DisplayMode  inquiry.DisplayMode
	PolicyQuery  bool
}

// Service runs the analysis and inquiry pipelines.
type Service struct {
	repo       Repository
	translator Translator
	retriever  Retriever
	explainer  Explainer
}

// New creates an analysis service.
func New(repo Repository, translator Translator, retriever Retriever, explainer Explainer) *Service {
	return &Service{
		repo:       repo,
		translator: translator,
		retriever:  retriever,
		explainer:  explainer,
	}
}

// Analyze explains the risk decision for a single patient.
// Returns domain.ErrPatientNotFound when the id has no record.
func (s *Service) Analyze(ctx context.Context, id int64) (Analysis, error) {
	ctx, _ = logger.With(ctx, zap.Int64("patient_id", id))

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return Analysis{}, fmt.Errorf("get patient %d: %w", id, err)
	}

	reasons := patient.RiskReasons(p)
	ev := s.retriever.Retrieve(p, "")

	return Analysis{
		Patient:     p,
		Decision:    p.Decision(),
		Reasons:     reasons,
		Explanation: s.explainer.Explain(ctx, p, reasons, ev.All()),
		Evidence:    ev,
	}, nil
}

// Inquire answers a free-text question about the patient registry.
func (s *Service) Inquire(ctx context.Context, query string) (InquiryResult, error) {
	if strings.TrimSpace(query) == "" {
		return InquiryResult{}, fmt.Errorf("%w: query is empty", domain.ErrInvalidRequest)
	}
	ctx, log := logger.With(ctx, zap.Int("query_len", len(query)))

	f := s.translator.Translate(ctx, query)

	pred, rejected := predicate.Combine(f, patient.Columns)
	for _, r := range rejected {
		log.Warn("Refused generated filter condition",
			zap.String("condition", r.Condition),
			zap.Error(r.Err),
		)
	}
	metrics.InquiryConditionsRejectedTotal.Add(float64(len(rejected)))
	summary := f.Summary
	if pred.MatchesNone() {
		summary = inquiry.ParseFailedSummary
	}

	records, err := s.repo.Find(ctx, pred)
	if err != nil {
		return InquiryResult{}, fmt.Errorf("find patients: %w", err)
	}

	log.Debug("Inquiry translated",
		zap.Int("conditions", len(f.Conditions)),
		zap.Int("rejected", len(rejected)),
		zap.Bool("named", f.HasName()),
		zap.Int("matches", len(records)),
	)

	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Text(patient.FieldName)
	}

	basis, subject := patient.DefaultContext(), patient.Placeholder()
	if len(records) > 0 {
		basis, subject = records[0], records[0]
	}

	ev := s.retriever.Retrieve(basis, query)
	explanation := s.explainer.Explain(ctx, subject, []string{summary}, ev.All())

	matched := records
	if len(matched) > MaxMatchedRecords {
		matched = matched[:MaxMatchedRecords]
	}

	return InquiryResult{
		Query:        query,
		TotalCount:   len(records),
		PatientNames: names,
		Matched:      matched,
		Evidence:     ev,
		Explanation:  explanation,
		Summary:      summary,
		DisplayMode:  f.DisplayMode,
		PolicyQuery:  f.PolicyQuery,
	}, nil
}
