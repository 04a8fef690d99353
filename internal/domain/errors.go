package domain

import "errors"

var (
	// ErrPatientNotFound signals a missing patient record.
	ErrPatientNotFound = errors.New("patient not found")
	// ErrInvalidRequest signals malformed caller input.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrGenerationFailed signals a text generation provider failure.
	ErrGenerationFailed = errors.New("text generation failed")
	// ErrGenerationQuotaExceeded signals that the generation token budget is spent.
	ErrGenerationQuotaExceeded = errors.New("generation token budget exceeded")
	// ErrStoreUnavailable signals that the patient registry could not be queried.
	ErrStoreUnavailable = errors.New("record store unavailable")
)
