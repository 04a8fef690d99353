// Package chi is the HTTP transport of the decision support API.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/riskdesk/internal/domain"
	domusage "github.com/kailas-cloud/riskdesk/internal/domain/usage"
	"github.com/kailas-cloud/riskdesk/internal/usecase/analysis"
	healthuc "github.com/kailas-cloud/riskdesk/internal/usecase/health"
)

// maxBodyBytes bounds request bodies; both endpoints take a short JSON object.
const maxBodyBytes = 64 << 10

// Analyzer runs the per-patient and inquiry pipelines.
type Analyzer interface {
	Analyze(ctx context.Context, id int64) (analysis.Analysis, error)
	Inquire(ctx context.Context, query string) (analysis.InquiryResult, error)
}

// UsageReporter reports generation token usage.
type UsageReporter interface {
	GetReport(ctx context.Context, period domusage.Period) domusage.Report
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server holds the HTTP handlers.
type Server struct {
	analysis      Analyzer
	usage         UsageReporter
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(a Analyzer, usage UsageReporter, health HealthChecker, logger *zap.Logger) *Server {
	s := &Server{
		analysis: a,
		usage:    usage,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrPatientNotFound, http.StatusNotFound, ErrorCodePatientNotFound, "Patient not found"),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorCodeValidationFailed, ""),
		sentinelHandler(domain.ErrGenerationQuotaExceeded, http.StatusPaymentRequired, ErrorCodeQuotaExceeded, ""),
		sentinelHandler(domain.ErrGenerationFailed, http.StatusBadGateway, ErrorCodeGenerationFailed, ""),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, ErrorCodeStoreUnavailable, ""),
	}
	return s
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.Root)
	r.Post("/analyze", s.Analyze)
	r.Post("/hospital/inquiry", s.Inquiry)
	r.Get("/usage", s.GetUsage)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeMethodNotAllowed, "method not allowed")
	})
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Analyze handles POST /analyze.
func (s *Server) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.PatientID == nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "patient_id is required")
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	a, err := s.analysis.Analyze(ctx, *req.PatientID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	setGenerationHeaders(w, usage)
	writeJSON(w, http.StatusOK, analysisToResponse(a))
}

// Inquiry handles POST /hospital/inquiry.
func (s *Server) Inquiry(w http.ResponseWriter, r *http.Request) {
	var req InquiryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	res, err := s.analysis.Inquire(ctx, req.Query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	setGenerationHeaders(w, usage)
	writeJSON(w, http.StatusOK, inquiryToResponse(res))
}

// GetUsage handles GET /usage?period=day|month.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	period, err := domusage.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	report := s.usage.GetReport(r.Context(), period)
	writeJSON(w, http.StatusOK, UsageResponse{
		Period:          string(report.Period),
		PeriodStartAt:   report.Start,
		PeriodEndAt:     report.End,
		TokensUsed:      report.Used,
		TokensLimit:     report.Limit,
		TokensRemaining: report.Remaining,
		IsExhausted:     report.Exhausted(),
	})
}

// HealthCheck handles GET /health. Only an unreachable registry fails the check.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func setGenerationHeaders(w http.ResponseWriter, usage *domain.GenerationUsage) {
	if usage.Used() {
		w.Header().Set("X-Generation-Tokens", strconv.Itoa(usage.TotalTokens))
		w.Header().Set("X-Generation-Cache-Hits", strconv.Itoa(usage.CacheHits))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// An empty message exposes the sentinel text, never the wrapped cause.
func sentinelHandler(sentinel error, status int, code ErrorCode, message string) errorHandler {
	if message == "" {
		message = sentinel.Error()
	}
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, message)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			s.logger.Warn("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
