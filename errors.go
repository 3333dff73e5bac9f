package promptvault

import "github.com/kailas-cloud/promptvault/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidInput           = domain.ErrInvalidInput
	ErrNotFound               = domain.ErrNotFound
	ErrEmbeddingUnavailable   = domain.ErrEmbeddingUnavailable
	ErrEmbeddingQuotaExceeded = domain.ErrEmbeddingQuotaExceeded
	ErrStoreUnavailable       = domain.ErrStoreUnavailable
	ErrVectorDimMismatch      = domain.ErrVectorDimMismatch
	ErrSearchFailed           = domain.ErrSearchFailed
	ErrTimeout                = domain.ErrTimeout
)
