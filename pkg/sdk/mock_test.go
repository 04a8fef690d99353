package riskdesk

import (
	"context"
	"io"
	"sync"

	dombatch "github.com/kailas-cloud/riskdesk/internal/domain/batch"
	domev "github.com/kailas-cloud/riskdesk/internal/domain/evidence"
	"github.com/kailas-cloud/riskdesk/internal/domain/patient"
	"github.com/kailas-cloud/riskdesk/internal/usecase/analysis"
)

// --- analysisUseCase mock ---

type mockAnalysisUC struct {
	analyzeFn func(ctx context.Context, id int64) (analysis.Analysis, error)
	inquireFn func(ctx context.Context, query string) (analysis.InquiryResult, error)
}

func (m *mockAnalysisUC) Analyze(ctx context.Context, id int64) (analysis.Analysis, error) {
	return m.analyzeFn(ctx, id)
}

func (m *mockAnalysisUC) Inquire(ctx context.Context, query string) (analysis.InquiryResult, error) {
	return m.inquireFn(ctx, query)
}

// --- patientReader mock ---

type mockPatients struct {
	getFn func(ctx context.Context, id int64) (patient.Attributes, error)
}

func (m *mockPatients) Get(ctx context.Context, id int64) (patient.Attributes, error) {
	return m.getFn(ctx, id)
}

// --- evidenceUseCase mock ---

type mockEvidenceUC struct {
	retrieveFn func(p patient.Attributes, question string) domev.Result
}

func (m *mockEvidenceUC) Retrieve(p patient.Attributes, question string) domev.Result {
	return m.retrieveFn(p, question)
}

// --- importUseCase mock ---

type mockImportUC struct {
	importFn func(ctx context.Context, r io.Reader) ([]dombatch.Result, error)
}

func (m *mockImportUC) Import(ctx context.Context, r io.Reader) ([]dombatch.Result, error) {
	return m.importFn(ctx, r)
}

// --- Generator fake ---

// scriptedGenerator answers JSON requests with inquiry and everything else
// with explanation, recording every request.
type scriptedGenerator struct {
	mu          sync.Mutex
	inquiry     string
	explanation string
	err         error
	requests    []GenerateRequest
}

func (g *scriptedGenerator) Generate(_ context.Context, req GenerateRequest) (GenerateResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	if g.err != nil {
		return GenerateResult{}, g.err
	}
	if req.JSON {
		return GenerateResult{Text: g.inquiry, PromptTokens: 120, CompletionTokens: 40}, nil
	}
	return GenerateResult{Text: g.explanation, PromptTokens: 300, CompletionTokens: 200}, nil
}

// --- helpers ---

func testClient(a analysisUseCase, p patientReader, e evidenceUseCase, i importUseCase) *Client {
	return &Client{
		analysisSvc: a,
		patients:    p,
		evidenceSvc: e,
		importSvc:   i,
	}
}
