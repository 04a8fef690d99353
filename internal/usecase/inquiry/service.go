package inquiry

import (
	"context"

	"go.uber.org/zap"

	dominq "github.com/kailas-cloud/riskdesk/internal/domain/inquiry"
	"github.com/kailas-cloud/riskdesk/internal/domain/prompt"
	"github.com/kailas-cloud/riskdesk/internal/logger"
)

// Translator turns free-text inquiries into structured filters.
type Translator struct {
	summarizer Summarizer
}

// New creates a translator.
func New(s Summarizer) *Translator {
	return &Translator{summarizer: s}
}

// Translate never fails: generation errors and malformed output degrade to
// dominq.Failed, which matches every record.
func (t *Translator) Translate(ctx context.Context, query string) dominq.Filter {
	log := logger.FromContext(ctx)

	text, err := t.summarizer.SummarizeInquiry(ctx, prompt.InquiryInstruction, query)
	if err != nil {
		log.Warn("Inquiry translation failed", zap.Error(err))
		return dominq.Failed()
	}

	payload, err := dominq.DecodePayload(text)
	if err != nil {
		log.Warn("Inquiry translation returned malformed output",
			zap.Error(err),
			zap.Int("output_len", len(text)),
		)
		return dominq.Failed()
	}

	return payload.Filter()
}
