package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/promptvault/internal/domain"
	"github.com/kailas-cloud/promptvault/internal/metrics"
)

// Service orchestrates a search request: validate the query, resolve its
// embedding, delegate ranking, and fold every infrastructure failure into
// the search error taxonomy.
type Service struct {
	ranker       Ranker
	rankerName   string
	embed        Embedder
	defaultAlpha float64
	defaultTopK  int
	maxTopK      int
	embedTimeout time.Duration
	storeTimeout time.Duration
	logger       *zap.Logger
}

// Options configures the search service.
type Options struct {
	Ranker       Ranker
	RankerName   string // "remote" or "local", metrics label only
	Embedder     Embedder
	DefaultAlpha float64
	DefaultTopK  int
	MaxTopK      int
	EmbedTimeout time.Duration
	StoreTimeout time.Duration
	Logger       *zap.Logger
}

// New creates a search service.
func New(opts *Options) *Service {
	return &Service{
		ranker:       opts.Ranker,
		rankerName:   opts.RankerName,
		embed:        opts.Embedder,
		defaultAlpha: opts.DefaultAlpha,
		defaultTopK:  opts.DefaultTopK,
		maxTopK:      opts.MaxTopK,
		embedTimeout: opts.EmbedTimeout,
		storeTimeout: opts.StoreTimeout,
		logger:       opts.Logger,
	}
}

// Search ranks stored prompts against the query text. A nil alpha uses the
// configured default; out-of-range alpha is clamped. k <= 0 uses the default
// page size, k above the cap is truncated.
//
// Validation failures return ErrInvalidInput as-is. Everything downstream of
// validation is wrapped in ErrSearchFailed with the causal sentinel preserved
// in the chain.
func (s *Service) Search(ctx context.Context, query string, alpha *float64, k int) ([]domain.SearchResult, error) {
	if _, err := domain.Normalize(query); err != nil {
		s.countRequest("invalid")
		return nil, err
	}

	a := s.defaultAlpha
	if alpha != nil {
		a = *alpha
	}
	a = ClampAlpha(a)

	if k <= 0 {
		k = s.defaultTopK
	}
	if s.maxTopK > 0 && k > s.maxTopK {
		k = s.maxTopK
	}

	embCtx, cancelEmb := context.WithTimeout(ctx, s.embedTimeout)
	defer cancelEmb()

	embResult, err := s.embed.Embed(embCtx, query)
	if err != nil {
		s.countRequest("error")
		return nil, s.wrapFailure("vectorize query", err)
	}

	rankCtx, cancelRank := context.WithTimeout(ctx, s.storeTimeout)
	defer cancelRank()

	results, err := s.ranker.Rank(rankCtx, embResult.Embedding, a, k)
	if err != nil {
		s.countRequest("error")
		return nil, s.wrapFailure("rank prompts", err)
	}

	s.countRequest("success")
	s.logger.Debug("Search completed",
		zap.Int("results", len(results)),
		zap.Float64("alpha", a),
		zap.Int("k", k),
		zap.Bool("embedding_cached", embResult.Cached),
	)

	return results, nil
}

// wrapFailure folds a downstream error into ErrSearchFailed. A deadline hit
// surfaces as ErrTimeout in the chain; provider and store sentinels survive
// wrapping so transport can map them to specific status codes.
func (s *Service) wrapFailure(stage string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", stage, domain.ErrSearchFailed, domain.ErrTimeout)
	}
	return fmt.Errorf("%s: %w: %w", stage, domain.ErrSearchFailed, err)
}

func (s *Service) countRequest(status string) {
	metrics.SearchRequestsTotal.WithLabelValues(s.rankerName, status).Inc()
}
