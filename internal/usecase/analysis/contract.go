package analysis

import (
	"context"

	"github.com/kailas-cloud/riskdesk/internal/domain/evidence"
	"github.com/kailas-cloud/riskdesk/internal/domain/inquiry"
	"github.com/kailas-cloud/riskdesk/internal/domain/patient"
	"github.com/kailas-cloud/riskdesk/internal/domain/predicate"
)

// Repository reads patient records.
type Repository interface {
	Get(ctx context.Context, id int64) (patient.Attributes, error)
	Find(ctx context.Context, p predicate.Predicate) ([]patient.Attributes, error)
}

// Translator turns a free-text inquiry into a filter. It never fails.
type Translator interface {
	Translate(ctx context.Context, query string) inquiry.Filter
}

// Retriever collects evidence from the reference documents.
type Retriever interface {
	Retrieve(p patient.Attributes, question string) evidence.Result
}

// Explainer writes the narrative for a decision. Failures come back as text.
type Explainer interface {
	Explain(ctx context.Context, p patient.Attributes, reasons, evidence []string) string
}
