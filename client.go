package promptvault

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/promptvault/internal/db"
	dbRedis "github.com/kailas-cloud/promptvault/internal/db/redis"
	"github.com/kailas-cloud/promptvault/internal/domain"
	promptrepo "github.com/kailas-cloud/promptvault/internal/repository/prompt"
	searchrepo "github.com/kailas-cloud/promptvault/internal/repository/search"
	healthuc "github.com/kailas-cloud/promptvault/internal/usecase/health"
	promptuc "github.com/kailas-cloud/promptvault/internal/usecase/prompt"
	searchuc "github.com/kailas-cloud/promptvault/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal use case interfaces, narrowed for test substitution.
type promptUseCase interface {
	Ingest(ctx context.Context, in *promptuc.IngestInput) (domain.Prompt, error)
	Get(ctx context.Context, id string) (domain.Prompt, error)
	List(ctx context.Context, offset, limit int) ([]domain.Prompt, int, error)
	Execute(ctx context.Context, id, input string) (string, error)
}

type searchUseCase interface {
	Search(ctx context.Context, query string, alpha *float64, k int) ([]domain.SearchResult, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the promptvault SDK entry point.
type Client struct {
	store     db.Store
	prompts   promptUseCase
	searchSvc searchUseCase
	healthSvc healthUseCase
}

// New creates a promptvault Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		vectorDimensions: domain.DefaultVectorConfig().Dimensions,
		defaultAlpha:     domain.DefaultAlpha,
		defaultTopK:      5,
		maxTopK:          50,
		logger:           zap.NewNop(),
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("promptvault: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("promptvault: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("promptvault: database not ready: %w", err)
	}

	if err := store.CreateIndex(ctx, promptrepo.IndexDefinition(cfg.vectorDimensions)); err != nil &&
		!errors.Is(err, db.ErrIndexExists) {
		store.Close()
		return nil, fmt.Errorf("promptvault: create index: %w", err)
	}

	return wireClient(store, cfg), nil
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	promptRepo := promptrepo.New(store)

	// Embedder: noop unless configured. Reads keep working without one,
	// ingestion and search return an error.
	var domEmb domain.Embedder = &noopEmbedder{}
	if cfg.embedder != nil {
		domEmb = &embedderAdapter{inner: cfg.embedder}
	}

	var domCompleter promptuc.Completer
	if cfg.completer != nil {
		domCompleter = &completerAdapter{inner: cfg.completer}
	}

	var ranker searchuc.Ranker
	rankerName := "remote"
	if cfg.localRanker {
		ranker = searchuc.NewLocalRanker(promptRepo)
		rankerName = "local"
	} else {
		ranker = searchrepo.New(store)
	}

	promptSvc := promptuc.New(promptRepo, domEmb, domCompleter, cfg.vectorDimensions, cfg.logger)
	searchSvc := searchuc.New(&searchuc.Options{
		Ranker:       ranker,
		RankerName:   rankerName,
		Embedder:     domEmb,
		DefaultAlpha: cfg.defaultAlpha,
		DefaultTopK:  cfg.defaultTopK,
		MaxTopK:      cfg.maxTopK,
		EmbedTimeout: 10 * time.Second,
		StoreTimeout: 5 * time.Second,
		Logger:       cfg.logger,
	})
	healthSvc := healthuc.New(store, nil, promptRepo)

	return &Client{
		store:     store,
		prompts:   promptSvc,
		searchSvc: searchSvc,
		healthSvc: healthSvc,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Health checks the health of all system components.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status:  string(report.Status),
		Checks:  checks,
		Prompts: report.Prompts,
	}
}

// Ingest validates, embeds, and stores a new prompt.
func (c *Client) Ingest(ctx context.Context, in PromptInput) (Prompt, error) {
	p, err := c.prompts.Ingest(ctx, &promptuc.IngestInput{
		Content:  in.Content,
		Category: in.Category,
		Votes:    in.Votes,
		Quality:  in.Quality,
	})
	if err != nil {
		return Prompt{}, fmt.Errorf("ingest: %w", err)
	}
	return fromDomainPrompt(&p, true), nil
}

// Get retrieves a prompt by ID, content included.
func (c *Client) Get(ctx context.Context, id string) (Prompt, error) {
	p, err := c.prompts.Get(ctx, id)
	if err != nil {
		return Prompt{}, fmt.Errorf("get: %w", err)
	}
	return fromDomainPrompt(&p, true), nil
}

// List returns stored prompts newest-first. Content is never included.
func (c *Client) List(ctx context.Context, offset, limit int) ([]Prompt, int, error) {
	prompts, total, err := c.prompts.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list: %w", err)
	}
	out := make([]Prompt, len(prompts))
	for i := range prompts {
		out[i] = fromDomainPrompt(&prompts[i], false)
	}
	return out, total, nil
}

// Execute runs a stored prompt against the completion provider with the
// given user input appended. Requires WithCompleter.
func (c *Client) Execute(ctx context.Context, id, input string) (string, error) {
	out, err := c.prompts.Execute(ctx, id, input)
	if err != nil {
		return "", fmt.Errorf("execute: %w", err)
	}
	return out, nil
}

// Search returns a fluent hybrid search builder.
func (c *Client) Search() *SearchBuilder {
	return &SearchBuilder{client: c}
}

// embedderAdapter wraps the public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// completerAdapter wraps the public Completer to satisfy the internal contract.
type completerAdapter struct {
	inner Completer
}

func (a *completerAdapter) Complete(ctx context.Context, prompt, input string) (string, error) {
	out, err := a.inner.Complete(ctx, prompt, input)
	if err != nil {
		return "", fmt.Errorf("complete: %w", err)
	}
	return out, nil
}

// noopEmbedder returns an error on Embed (used when no embedder is configured).
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, errors.New(
		"promptvault: embedder not configured (use WithEmbedder)",
	)
}
