package reembed

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/promptvault/internal/domain"
)

// PromptStore loads prompts and replaces their vectors.
type PromptStore interface {
	ListAll(ctx context.Context) ([]domain.Prompt, error)
	UpdateVector(ctx context.Context, id string, vec []float32) error
}

// Embedder vectorizes prompt content. Must be a document-policy embedder so
// re-embedded content never touches the query cache.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Stats summarizes one re-embedding run.
type Stats struct {
	Total     int
	Processed int
	Failed    int
}

// Queue re-embeds the whole corpus, e.g. after switching the embedding model.
// Work fans out across a bounded worker pool; provider calls are throttled by
// a fixed interval so a large corpus cannot exhaust the provider quota.
type Queue struct {
	store    PromptStore
	embed    Embedder
	workers  int
	interval time.Duration
	logger   *zap.Logger
}

// New creates a re-embedding queue.
func New(store PromptStore, embed Embedder, workers int, interval time.Duration, logger *zap.Logger) *Queue {
	if workers <= 0 {
		workers = 1
	}
	return &Queue{
		store:    store,
		embed:    embed,
		workers:  workers,
		interval: interval,
		logger:   logger,
	}
}

// Run re-embeds every stored prompt. Per-prompt failures are counted and
// logged, not fatal; only context cancellation or a store listing failure
// aborts the run.
func (q *Queue) Run(ctx context.Context) (Stats, error) {
	prompts, err := q.store.ListAll(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("list prompts: %w", err)
	}
	if len(prompts) == 0 {
		return Stats{}, nil
	}

	throttle := make(chan struct{}, 1)
	if q.interval > 0 {
		ticker := time.NewTicker(q.interval)
		defer ticker.Stop()
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					select {
					case throttle <- struct{}{}:
					default:
					}
				}
			}
		}()
	} else {
		close(throttle)
	}

	var processed, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(q.workers)

	for i := range prompts {
		p := &prompts[i]
		g.Go(func() error {
			if q.interval > 0 {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case <-throttle:
				}
			}

			if err := q.reembedOne(gctx, p); err != nil {
				failed.Add(1)
				q.logger.Warn("Re-embedding failed",
					zap.String("id", p.ID()), zap.Error(err))
				return nil
			}
			processed.Add(1)
			return nil
		})
	}

	err = g.Wait()

	stats := Stats{
		Total:     len(prompts),
		Processed: int(processed.Load()),
		Failed:    int(failed.Load()),
	}

	q.logger.Info("Re-embedding run finished",
		zap.Int("total", stats.Total),
		zap.Int("processed", stats.Processed),
		zap.Int("failed", stats.Failed),
	)

	if err != nil {
		return stats, fmt.Errorf("re-embedding aborted: %w", err)
	}
	return stats, nil
}

func (q *Queue) reembedOne(ctx context.Context, p *domain.Prompt) error {
	result, err := q.embed.Embed(ctx, p.Content())
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}
	if err := q.store.UpdateVector(ctx, p.ID(), result.Embedding); err != nil {
		return fmt.Errorf("update vector: %w", err)
	}
	return nil
}
