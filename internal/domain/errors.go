package domain

import "errors"

var (
	// ErrInvalidInput signals empty or otherwise unusable caller input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound signals a missing prompt.
	ErrNotFound = errors.New("prompt not found")
	// ErrEmbeddingUnavailable signals an embedding provider failure.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")
	// ErrEmbeddingQuotaExceeded signals that the provider token budget is spent.
	ErrEmbeddingQuotaExceeded = errors.New("embedding token budget exceeded")
	// ErrStoreUnavailable signals a persistence failure.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrMalformedCacheEntry signals an unparseable or wrong-dimension cached vector.
	// Recovered locally by the cache (treated as a miss), exported for diagnostics.
	ErrMalformedCacheEntry = errors.New("malformed cache entry")
	// ErrSearchFailed aggregates orchestration failures during a search.
	ErrSearchFailed = errors.New("search failed")
	// ErrTimeout signals a deadline expiry at a provider or store call.
	ErrTimeout = errors.New("request timed out")
	// ErrVectorDimMismatch signals a vector whose length disagrees with the configured dimensions.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
)
