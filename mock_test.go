package promptvault

import (
	"context"

	"github.com/kailas-cloud/promptvault/internal/domain"
	healthuc "github.com/kailas-cloud/promptvault/internal/usecase/health"
	promptuc "github.com/kailas-cloud/promptvault/internal/usecase/prompt"
)

// --- promptUseCase mock ---

type mockPromptUC struct {
	ingestFn  func(ctx context.Context, in *promptuc.IngestInput) (domain.Prompt, error)
	getFn     func(ctx context.Context, id string) (domain.Prompt, error)
	listFn    func(ctx context.Context, offset, limit int) ([]domain.Prompt, int, error)
	executeFn func(ctx context.Context, id, input string) (string, error)
}

func (m *mockPromptUC) Ingest(ctx context.Context, in *promptuc.IngestInput) (domain.Prompt, error) {
	return m.ingestFn(ctx, in)
}

func (m *mockPromptUC) Get(ctx context.Context, id string) (domain.Prompt, error) {
	return m.getFn(ctx, id)
}

func (m *mockPromptUC) List(ctx context.Context, offset, limit int) ([]domain.Prompt, int, error) {
	return m.listFn(ctx, offset, limit)
}

func (m *mockPromptUC) Execute(ctx context.Context, id, input string) (string, error) {
	return m.executeFn(ctx, id, input)
}

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, query string, alpha *float64, k int) ([]domain.SearchResult, error)
}

func (m *mockSearchUC) Search(
	ctx context.Context, query string, alpha *float64, k int,
) ([]domain.SearchResult, error) {
	return m.searchFn(ctx, query, alpha, k)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	checkFn func(ctx context.Context) healthuc.Report
}

func (m *mockHealthUC) Check(ctx context.Context) healthuc.Report {
	return m.checkFn(ctx)
}

// --- embedder mock ---

type mockEmbedder struct {
	fn func(ctx context.Context, text string) (EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return m.fn(ctx, text)
}

// --- helpers ---

func testClient(
	prompts promptUseCase,
	search searchUseCase,
	health healthUseCase,
) *Client {
	return &Client{
		prompts:   prompts,
		searchSvc: search,
		healthSvc: health,
	}
}
