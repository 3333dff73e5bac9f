package chi

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/promptvault/internal/domain"
	healthuc "github.com/kailas-cloud/promptvault/internal/usecase/health"
	promptuc "github.com/kailas-cloud/promptvault/internal/usecase/prompt"
	searchuc "github.com/kailas-cloud/promptvault/internal/usecase/search"
)

type mockPromptRepo struct {
	insertFn func(ctx context.Context, p *domain.Prompt) error
	getFn    func(ctx context.Context, id string) (domain.Prompt, error)
	listFn   func(ctx context.Context, offset, limit int) ([]domain.Prompt, int, error)
}

func (m *mockPromptRepo) Insert(ctx context.Context, p *domain.Prompt) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, p)
	}
	return nil
}

func (m *mockPromptRepo) Get(ctx context.Context, id string) (domain.Prompt, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return domain.Prompt{}, domain.ErrNotFound
}

func (m *mockPromptRepo) List(ctx context.Context, offset, limit int) ([]domain.Prompt, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, offset, limit)
	}
	return nil, 0, nil
}

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return m.result, m.err
}

type mockCompleter struct {
	out string
	err error
}

func (m *mockCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	return m.out, m.err
}

type mockRanker struct {
	results []domain.SearchResult
	err     error
}

func (m *mockRanker) Rank(_ context.Context, _ []float32, _ float64, _ int) ([]domain.SearchResult, error) {
	return m.results, m.err
}

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// testEnv holds the mocks behind a fully wired test server.
type testEnv struct {
	repo      *mockPromptRepo
	embed     *mockEmbedder
	completer *mockCompleter
	ranker    *mockRanker
	pinger    *mockPinger
	server    *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		repo:      &mockPromptRepo{},
		embed:     &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1, 0}}},
		completer: &mockCompleter{out: "done"},
		ranker:    &mockRanker{},
		pinger:    &mockPinger{},
	}

	logger := zap.NewNop()

	prompts := promptuc.New(env.repo, env.embed, env.completer, 0, logger)
	search := searchuc.New(&searchuc.Options{
		Ranker:       env.ranker,
		RankerName:   "test",
		Embedder:     env.embed,
		DefaultAlpha: domain.DefaultAlpha,
		DefaultTopK:  5,
		MaxTopK:      50,
		EmbedTimeout: time.Second,
		StoreTimeout: time.Second,
		Logger:       logger,
	})
	health := healthuc.New(env.pinger, nil, nil)

	api := NewServer(prompts, search, health, logger)

	r := chi.NewRouter()
	api.Routes(r)

	env.server = httptest.NewServer(r)
	t.Cleanup(env.server.Close)

	return env
}
