package prompt

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/promptvault/internal/domain"
)

type mockRepo struct {
	insertFn func(ctx context.Context, p *domain.Prompt) error
	getFn    func(ctx context.Context, id string) (domain.Prompt, error)
	listFn   func(ctx context.Context, offset, limit int) ([]domain.Prompt, int, error)
}

func (m *mockRepo) Insert(ctx context.Context, p *domain.Prompt) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, p)
	}
	return nil
}

func (m *mockRepo) Get(ctx context.Context, id string) (domain.Prompt, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return domain.Prompt{}, domain.ErrNotFound
}

func (m *mockRepo) List(ctx context.Context, offset, limit int) ([]domain.Prompt, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, offset, limit)
	}
	return nil, 0, nil
}

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
	texts  []string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls++
	m.texts = append(m.texts, text)
	return m.result, m.err
}

type mockCompleter struct {
	out   string
	err   error
	calls int
}

func (m *mockCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	m.calls++
	return m.out, m.err
}

func newTestService(t *testing.T, repo *mockRepo, embed *mockEmbedder, complete Completer) *Service {
	t.Helper()
	return New(repo, embed, complete, 0, zap.NewNop())
}
