package prompt

import (
	"context"

	"github.com/kailas-cloud/promptvault/internal/domain"
)

// Repository defines the storage contract for prompts.
type Repository interface {
	Insert(ctx context.Context, p *domain.Prompt) error
	Get(ctx context.Context, id string) (domain.Prompt, error)
	List(ctx context.Context, offset, limit int) ([]domain.Prompt, int, error)
}

// Embedder vectorizes prompt content. The ingestion path must be wired with a
// document-policy embedder: stored content never lands in the query cache.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Completer runs a stored prompt against a completion model.
type Completer interface {
	Complete(ctx context.Context, prompt, input string) (string, error)
}
