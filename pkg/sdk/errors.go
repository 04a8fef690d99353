package riskdesk

import "github.com/kailas-cloud/riskdesk/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrPatientNotFound         = domain.ErrPatientNotFound
	ErrInvalidRequest          = domain.ErrInvalidRequest
	ErrGenerationFailed        = domain.ErrGenerationFailed
	ErrGenerationQuotaExceeded = domain.ErrGenerationQuotaExceeded
	ErrStoreUnavailable        = domain.ErrStoreUnavailable
)
