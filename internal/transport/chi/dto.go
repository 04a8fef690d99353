package chi

import (
	"time"

	"github.com/kailas-cloud/riskdesk/internal/domain/evidence"
	"github.com/kailas-cloud/riskdesk/internal/domain/patient"
	"github.com/kailas-cloud/riskdesk/internal/usecase/analysis"
)

// ErrorCode is the machine-readable error kind in ErrorResponse.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodePatientNotFound  ErrorCode = "patient_not_found"
	ErrorCodeNotFound         ErrorCode = "not_found"
	ErrorCodeMethodNotAllowed ErrorCode = "method_not_allowed"
	ErrorCodeGenerationFailed ErrorCode = "generation_failed"
	ErrorCodeQuotaExceeded    ErrorCode = "generation_quota_exceeded"
	ErrorCodeStoreUnavailable ErrorCode = "store_unavailable"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	PatientID *int64 `json:"patient_id"`
}

// InquiryRequest is the body of POST /hospital/inquiry.
type InquiryRequest struct {
	Query string `json:"query"`
}

// EvidenceResponse carries the reference document passages.
type EvidenceResponse struct {
	Clinical  []string `json:"clinical_evidence"`
	Insurance []string `json:"insurance_evidence"`
}

// DecisionSupport is the risk decision with its justification.
type DecisionSupport struct {
	Decision       string   `json:"decision"`
	Why            []string `json:"why"`
	LLMExplanation string   `json:"llm_explanation"`
}

// AnalyzeResponse is the body of a successful POST /analyze.
type AnalyzeResponse struct {
	PatientSummary  patient.Attributes `json:"patient_summary"`
	DecisionSupport DecisionSupport    `json:"decision_support"`
	PDFEvidence     EvidenceResponse   `json:"pdf_evidence"`
}

// InquiryResponse is the body of a successful POST /hospital/inquiry.
type InquiryResponse struct {
	Query           string               `json:"query"`
	TotalCount      int                  `json:"total_count"`
	PatientNames    []string             `json:"patient_names"`
	MatchedRecords  []patient.Attributes `json:"matched_records"`
	PDFEvidence     EvidenceResponse     `json:"pdf_evidence"`
	DeepExplanation string               `json:"deep_explanation"`
	NLUSummary      string               `json:"nlu_summary"`
	DisplayMode     string               `json:"display_mode"`
	IsPolicyQuery   bool                 `json:"is_policy_query"`
}

// UsageResponse is the body of GET /usage.
type UsageResponse struct {
	Period          string    `json:"period"`
	PeriodStartAt   time.Time `json:"period_start_at"`
	PeriodEndAt     time.Time `json:"period_end_at"`
	TokensUsed      int64     `json:"tokens_used"`
	TokensLimit     int64     `json:"tokens_limit"`
	TokensRemaining int64     `json:"tokens_remaining"`
	IsExhausted     bool      `json:"is_exhausted"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func evidenceToResponse(r evidence.Result) EvidenceResponse {
	return EvidenceResponse{
		Clinical:  nonNil(r.Clinical),
		Insurance: nonNil(r.Insurance),
	}
}

func analysisToResponse(a analysis.Analysis) AnalyzeResponse {
	return AnalyzeResponse{
		PatientSummary: a.Patient,
		DecisionSupport: DecisionSupport{
			Decision:       a.Decision,
			Why:            nonNil(a.Reasons),
			LLMExplanation: a.Explanation,
		},
		PDFEvidence: evidenceToResponse(a.Evidence),
	}
}

func inquiryToResponse(r analysis.InquiryResult) InquiryResponse {
	matched := r.Matched
	if matched == nil {
		matched = []patient.Attributes{}
	}
	return InquiryResponse{
		Query:           r.Query,
		TotalCount:      r.TotalCount,
		PatientNames:    nonNil(r.PatientNames),
		MatchedRecords:  matched,
		PDFEvidence:     evidenceToResponse(r.Evidence),
		DeepExplanation: r.Explanation,
		NLUSummary:      r.Summary,
		DisplayMode:     string(r.DisplayMode),
		IsPolicyQuery:   r.PolicyQuery,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
