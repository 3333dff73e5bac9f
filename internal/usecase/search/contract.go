package search

import (
	"context"

	"github.com/kailas-cloud/promptvault/internal/domain"
)

// Ranker returns the top-k prompts for a query vector, scored by hybrid
// fusion. Implementations: store-side aggregate (repository/search) and
// in-process scoring (LocalRanker).
type Ranker interface {
	Rank(ctx context.Context, vector []float32, alpha float64, k int) ([]domain.SearchResult, error)
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// PromptReader loads full prompts for in-process ranking.
type PromptReader interface {
	ListAll(ctx context.Context) ([]domain.Prompt, error)
}
