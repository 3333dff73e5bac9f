package promptvault

import "context"

// Embedder converts text to vector embeddings.
// Required for ingestion and search; reads work without it.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token counts.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Completer runs a stored prompt against a completion model.
// prompt is the stored instruction text, input the caller's addition.
type Completer interface {
	Complete(ctx context.Context, prompt, input string) (string, error)
}
