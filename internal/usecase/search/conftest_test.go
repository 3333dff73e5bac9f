package search

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/promptvault/internal/domain"
)

type mockRanker struct {
	rankFn func(ctx context.Context, vector []float32, alpha float64, k int) ([]domain.SearchResult, error)
}

func (m *mockRanker) Rank(ctx context.Context, vector []float32, alpha float64, k int) ([]domain.SearchResult, error) {
	if m.rankFn != nil {
		return m.rankFn(ctx, vector, alpha, k)
	}
	return nil, nil
}

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	return m.result, m.err
}

type mockPromptReader struct {
	prompts []domain.Prompt
	err     error
}

func (m *mockPromptReader) ListAll(_ context.Context) ([]domain.Prompt, error) {
	return m.prompts, m.err
}

func newTestService(t *testing.T, ranker Ranker, embed Embedder) *Service {
	t.Helper()
	return New(&Options{
		Ranker:       ranker,
		RankerName:   "test",
		Embedder:     embed,
		DefaultAlpha: domain.DefaultAlpha,
		DefaultTopK:  5,
		MaxTopK:      50,
		EmbedTimeout: time.Second,
		StoreTimeout: time.Second,
		Logger:       zap.NewNop(),
	})
}
