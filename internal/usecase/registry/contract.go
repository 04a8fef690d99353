package registry

import (
	"context"

	"github.com/kailas-cloud/riskdesk/internal/domain/patient"
)

// Writer stores patient records, replacing existing ones by id.
type Writer interface {
	Upsert(ctx context.Context, records []patient.Attributes) (int, error)
}
