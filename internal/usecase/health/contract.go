package health

import "context"

// StorePinger checks prompt store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// PromptCounter reports corpus size for the health payload.
type PromptCounter interface {
	Count(ctx context.Context) (int, error)
}
