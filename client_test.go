package promptvault

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/promptvault/internal/domain"
	healthuc "github.com/kailas-cloud/promptvault/internal/usecase/health"
	promptuc "github.com/kailas-cloud/promptvault/internal/usecase/prompt"
)

func TestNew_NoAddress(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error when no address provided")
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}

	WithRedis("localhost:6379", "secret").apply(cfg)
	if cfg.addrs[0] != "localhost:6379" {
		t.Errorf("addr = %q, want localhost:6379", cfg.addrs[0])
	}
	if cfg.password != "secret" {
		t.Errorf("password = %q, want secret", cfg.password)
	}

	WithVectorDimensions(1536).apply(cfg)
	if cfg.vectorDimensions != 1536 {
		t.Errorf("vectorDimensions = %d, want 1536", cfg.vectorDimensions)
	}

	WithLocalRanker().apply(cfg)
	if !cfg.localRanker {
		t.Error("expected localRanker to be set")
	}

	WithSearchDefaults(0.8, 10, 100).apply(cfg)
	if cfg.defaultAlpha != 0.8 || cfg.defaultTopK != 10 || cfg.maxTopK != 100 {
		t.Errorf("search defaults = (%v, %d, %d), want (0.8, 10, 100)",
			cfg.defaultAlpha, cfg.defaultTopK, cfg.maxTopK)
	}

	logger := zap.NewNop()
	WithLogger(logger).apply(cfg)
	if cfg.logger != logger {
		t.Error("expected logger to be set")
	}
}

func TestNoopEmbedder(t *testing.T) {
	noop := &noopEmbedder{}
	_, err := noop.Embed(context.Background(), "test")
	if err == nil {
		t.Fatal("expected error from noopEmbedder")
	}
}

func TestEmbedderAdapter(t *testing.T) {
	called := false
	mock := &mockEmbedder{
		fn: func(_ context.Context, _ string) (EmbeddingResult, error) {
			called = true
			return EmbeddingResult{
				Embedding:    []float32{1, 2, 3},
				PromptTokens: 5,
				TotalTokens:  10,
			}, nil
		},
	}

	adapter := &embedderAdapter{inner: mock}
	result, err := adapter.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("inner embedder was not called")
	}
	if len(result.Embedding) != 3 {
		t.Errorf("embedding len = %d, want 3", len(result.Embedding))
	}
	if result.TotalTokens != 10 {
		t.Errorf("total tokens = %d, want 10", result.TotalTokens)
	}
}

func TestEmbedderAdapter_Error(t *testing.T) {
	mock := &mockEmbedder{
		fn: func(_ context.Context, _ string) (EmbeddingResult, error) {
			return EmbeddingResult{}, errors.New("provider down")
		},
	}

	adapter := &embedderAdapter{inner: mock}
	_, err := adapter.Embed(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error from adapter")
	}
}

func TestClient_Ingest(t *testing.T) {
	prompts := &mockPromptUC{
		ingestFn: func(_ context.Context, in *promptuc.IngestInput) (domain.Prompt, error) {
			if in.Content != "Act as a poet" {
				t.Errorf("content = %q", in.Content)
			}
			return domain.ReconstructPrompt("p1", in.Content, in.Category, in.Votes, in.Quality,
				nil, time.Unix(1700000000, 0).UTC()), nil
		},
	}
	c := testClient(prompts, nil, nil)

	p, err := c.Ingest(context.Background(), PromptInput{Content: "Act as a poet", Category: "art"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != "p1" || p.Content != "Act as a poet" || p.Category != "art" {
		t.Errorf("unexpected prompt: %+v", p)
	}
}

func TestClient_Ingest_Error(t *testing.T) {
	prompts := &mockPromptUC{
		ingestFn: func(_ context.Context, _ *promptuc.IngestInput) (domain.Prompt, error) {
			return domain.Prompt{}, domain.ErrInvalidInput
		},
	}
	c := testClient(prompts, nil, nil)

	_, err := c.Ingest(context.Background(), PromptInput{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestClient_Get(t *testing.T) {
	prompts := &mockPromptUC{
		getFn: func(_ context.Context, id string) (domain.Prompt, error) {
			if id != "p1" {
				return domain.Prompt{}, domain.ErrNotFound
			}
			return domain.ReconstructPrompt("p1", "content", "dev", 3, 0.9,
				nil, time.Unix(0, 0)), nil
		},
	}
	c := testClient(prompts, nil, nil)

	p, err := c.Get(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Content != "content" || p.Votes != 3 {
		t.Errorf("unexpected prompt: %+v", p)
	}

	_, err = c.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_List_ExcludesContent(t *testing.T) {
	prompts := &mockPromptUC{
		listFn: func(_ context.Context, _, _ int) ([]domain.Prompt, int, error) {
			p := domain.ReconstructPrompt("p1", "hidden", "dev", 0, 0, nil, time.Unix(0, 0))
			return []domain.Prompt{p}, 1, nil
		},
	}
	c := testClient(prompts, nil, nil)

	out, total, err := c.List(context.Background(), 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(out) != 1 {
		t.Fatalf("unexpected listing: %v total %d", out, total)
	}
	if out[0].Content != "" {
		t.Error("listings must not expose content")
	}
}

func TestClient_Execute(t *testing.T) {
	prompts := &mockPromptUC{
		executeFn: func(_ context.Context, id, input string) (string, error) {
			if id != "p1" || input != "about autumn" {
				t.Errorf("unexpected args: %q %q", id, input)
			}
			return "leaves fall", nil
		},
	}
	c := testClient(prompts, nil, nil)

	out, err := c.Execute(context.Background(), "p1", "about autumn")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "leaves fall" {
		t.Errorf("output = %q", out)
	}
}

func TestSearchBuilder(t *testing.T) {
	var gotQuery string
	var gotAlpha *float64
	var gotK int

	search := &mockSearchUC{
		searchFn: func(_ context.Context, query string, alpha *float64, k int) ([]domain.SearchResult, error) {
			gotQuery, gotAlpha, gotK = query, alpha, k
			return []domain.SearchResult{
				{ID: "a", Score: 0.9, Rank: 0},
				{ID: "b", Score: 0.5, Rank: 1},
			}, nil
		},
	}
	c := testClient(nil, search, nil)

	hits, err := c.Search().Query("haiku").Alpha(0.7).TopK(10).Do(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "haiku" || gotAlpha == nil || *gotAlpha != 0.7 || gotK != 10 {
		t.Errorf("unexpected passthrough: %q %v %d", gotQuery, gotAlpha, gotK)
	}
	if len(hits) != 2 || hits[0].ID != "a" || hits[1].Rank != 1 {
		t.Errorf("unexpected hits: %+v", hits)
	}
}

func TestSearchBuilder_Defaults(t *testing.T) {
	search := &mockSearchUC{
		searchFn: func(_ context.Context, _ string, alpha *float64, k int) ([]domain.SearchResult, error) {
			if alpha != nil {
				t.Errorf("expected nil alpha when unset, got %v", *alpha)
			}
			if k != 0 {
				t.Errorf("expected zero k when unset, got %d", k)
			}
			return nil, nil
		},
	}
	c := testClient(nil, search, nil)

	if _, err := c.Search().Query("x").Do(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Health(t *testing.T) {
	health := &mockHealthUC{
		checkFn: func(_ context.Context) healthuc.Report {
			return healthuc.Report{
				Status:  healthuc.Degraded,
				Checks:  map[string]healthuc.CheckResult{"store": healthuc.CheckOK},
				Prompts: 42,
			}
		},
	}
	c := testClient(nil, nil, health)

	st := c.Health(context.Background())
	if st.Status != "degraded" || st.Checks["store"] != "ok" || st.Prompts != 42 {
		t.Errorf("unexpected health: %+v", st)
	}
}
