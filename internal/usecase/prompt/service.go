package prompt

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/promptvault/internal/domain"
)

// Service handles prompt ingestion, retrieval, and execution.
type Service struct {
	repo     Repository
	embed    Embedder
	complete Completer
	dims     int
	logger   *zap.Logger
}

// New creates a prompt service. complete may be nil when no completion
// provider is configured; Execute then returns ErrEmbeddingUnavailable.
func New(repo Repository, embed Embedder, complete Completer, dims int, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		embed:    embed,
		complete: complete,
		dims:     dims,
		logger:   logger,
	}
}

// IngestInput is the payload for storing a new prompt.
type IngestInput struct {
	Content  string
	Category string
	Votes    int
	Quality  float64
}

// Ingest validates, embeds, and stores a new prompt. The ID is assigned here,
// never by the caller.
func (s *Service) Ingest(ctx context.Context, in *IngestInput) (domain.Prompt, error) {
	p, err := domain.NewPrompt(uuid.NewString(), in.Content, in.Category, in.Votes, in.Quality)
	if err != nil {
		return domain.Prompt{}, err
	}

	embResult, err := s.embed.Embed(ctx, p.Content())
	if err != nil {
		return domain.Prompt{}, fmt.Errorf("embed content: %w", err)
	}
	if s.dims > 0 && len(embResult.Embedding) != s.dims {
		return domain.Prompt{}, fmt.Errorf("%w: provider returned %d dims, index expects %d",
			domain.ErrVectorDimMismatch, len(embResult.Embedding), s.dims)
	}

	p = p.WithVector(embResult.Embedding)

	if err := s.repo.Insert(ctx, &p); err != nil {
		return domain.Prompt{}, fmt.Errorf("store prompt: %w", err)
	}

	s.logger.Info("Prompt ingested",
		zap.String("id", p.ID()),
		zap.String("category", p.Category()),
		zap.Int("tokens", embResult.TotalTokens),
	)

	return p, nil
}

// Get returns a prompt by ID, content included.
func (s *Service) Get(ctx context.Context, id string) (domain.Prompt, error) {
	if id == "" {
		return domain.Prompt{}, fmt.Errorf("%w: prompt id is required", domain.ErrInvalidInput)
	}
	return s.repo.Get(ctx, id)
}

// List returns prompts newest-first. Content is never included in listings.
func (s *Service) List(ctx context.Context, offset, limit int) ([]domain.Prompt, int, error) {
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, offset, limit)
}

// Execute runs a stored prompt against the completion model with the given
// user input appended.
func (s *Service) Execute(ctx context.Context, id, input string) (string, error) {
	if s.complete == nil {
		return "", fmt.Errorf("no completion provider configured: %w", domain.ErrEmbeddingUnavailable)
	}

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}

	out, err := s.complete.Complete(ctx, p.Content(), input)
	if err != nil {
		return "", fmt.Errorf("execute prompt %s: %w", id, err)
	}
	return out, nil
}
